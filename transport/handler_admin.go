package transport

import (
	"net/http"
	"time"

	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	"github.com/gorilla/mux"
)

const defaultDashboardWindow = 30 * 24 * time.Hour

// ListUsers handler
// @Summary List accounts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role"
// @Param page query int false "Page"
// @Param per_page query int false "Per page"
// @Success 200 {object} model.UserListResponse
// @Router /admin/users [get]
func (s *RestHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	res, err := s.UserApp.ListUsers(r.Context(), &model.UserListFilter{
		Role:    constant.Role(r.URL.Query().Get("role")),
		Page:    queryInt(r, "page"),
		PerPage: queryInt(r, "per_page"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// UpdateUserRole handler
// @Summary Change a user's role
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body model.UpdateRoleRequest true "Role"
// @Success 200 {object} Response
// @Router /admin/users/{id}/role [put]
func (s *RestHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.UpdateRoleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.UserApp.UpdateRole(r.Context(), userID, req.Role); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// ListSessions handler
// @Summary Active sessions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param per_page query int false "Per page"
// @Success 200 {object} model.SessionListResponse
// @Router /admin/sessions [get]
func (s *RestHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	res, err := s.SessionApp.ListActive(r.Context(), queryInt(r, "page"), queryInt(r, "per_page"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// RevokeSession handler
// @Summary Force a session to log out
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /admin/sessions/{id} [delete]
func (s *RestHandler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	if err := s.SessionApp.Revoke(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// GetPaymentInstructions handler
// @Summary Payment instructions shown at checkout
// @Tags Settings
// @Produce json
// @Success 200 {object} model.PaymentInstructions
// @Router /settings/payment-instructions [get]
func (s *RestHandler) GetPaymentInstructions(w http.ResponseWriter, r *http.Request) {
	res, err := s.SettingsApp.GetPaymentInstructions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// UpdatePaymentInstructions handler
// @Summary Edit payment instructions
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.PaymentInstructions true "Instructions"
// @Success 200 {object} Response
// @Router /admin/settings/payment-instructions [put]
func (s *RestHandler) UpdatePaymentInstructions(w http.ResponseWriter, r *http.Request) {
	adminID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req model.PaymentInstructions
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.SettingsApp.UpdatePaymentInstructions(r.Context(), adminID, &req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// GetSessionSettings handler
// @Summary Session timeout
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SessionSettings
// @Router /admin/settings/session [get]
func (s *RestHandler) GetSessionSettings(w http.ResponseWriter, r *http.Request) {
	res, err := s.SettingsApp.GetSessionSettings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// UpdateSessionSettings handler
// @Summary Edit the session timeout
// @Description Zero falls back to the configured default. Applies to new logins.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.SessionSettings true "Session settings"
// @Success 200 {object} Response
// @Router /admin/settings/session [put]
func (s *RestHandler) UpdateSessionSettings(w http.ResponseWriter, r *http.Request) {
	adminID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req model.SessionSettings
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.SettingsApp.UpdateSessionSettings(r.Context(), adminID, &req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// Dashboard handler
// @Summary Analytics dashboard
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param since query string false "RFC3339 start of the event window, default 30 days ago"
// @Success 200 {object} model.DashboardResponse
// @Router /admin/analytics/dashboard [get]
func (s *RestHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	since := time.Now().UTC().Add(-defaultDashboardWindow)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, errInvalidRequest())
			return
		}
		since = parsed.UTC()
	}

	res, err := s.AnalyticsApp.Dashboard(r.Context(), since)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}
