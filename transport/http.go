package transport

import (
	"net"
	"net/http"
	"strings"

	analyticsapp "github.com/chapavet/marketplace/application/analytics"
	favoriteapp "github.com/chapavet/marketplace/application/favorite"
	livestockapp "github.com/chapavet/marketplace/application/livestock"
	messageapp "github.com/chapavet/marketplace/application/message"
	notificationapp "github.com/chapavet/marketplace/application/notification"
	orderapp "github.com/chapavet/marketplace/application/order"
	sessionapp "github.com/chapavet/marketplace/application/session"
	settingsapp "github.com/chapavet/marketplace/application/settings"
	userapp "github.com/chapavet/marketplace/application/user"
	vetchatapp "github.com/chapavet/marketplace/application/vetchat"
	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	utilsContext "github.com/chapavet/marketplace/utils/context"
	"github.com/chapavet/marketplace/utils/errors"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RestHandler struct {
	UserApp         userapp.UserApp
	LivestockApp    livestockapp.LivestockApp
	OrderApp        orderapp.OrderApp
	FavoriteApp     favoriteapp.FavoriteApp
	MessageApp      messageapp.MessageApp
	NotificationApp notificationapp.NotificationApp
	AnalyticsApp    analyticsapp.AnalyticsApp
	SessionApp      sessionapp.SessionApp
	SettingsApp     settingsapp.SettingsApp
	VetChatApp      vetchatapp.VetChatApp
}

// NewTransport builds the router. internalAPIKey guards the /internal routes
// used by the consume worker.
func NewTransport(rh *RestHandler, internalAPIKey string) http.Handler {
	router := mux.NewRouter()

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Auth
	router.HandleFunc("/register", rh.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", rh.Login).Methods(http.MethodPost)
	router.HandleFunc("/logout", rh.Logout).Methods(http.MethodPost)
	router.HandleFunc("/me", rh.Me).Methods(http.MethodGet)

	// Catalog
	router.HandleFunc("/livestock", rh.SearchLivestock).Methods(http.MethodGet)
	router.HandleFunc("/livestock", rh.CreateLivestock).Methods(http.MethodPost)
	router.HandleFunc("/livestock/featured", rh.FeaturedLivestock).Methods(http.MethodGet)
	router.HandleFunc("/livestock/{id:[0-9]+}", rh.GetLivestock).Methods(http.MethodGet)

	// Buyer flows
	router.HandleFunc("/orders", rh.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/orders", rh.ListMyOrders).Methods(http.MethodGet)
	router.HandleFunc("/orders/{id:[0-9]+}/payment", rh.SubmitPayment).Methods(http.MethodPut)
	router.HandleFunc("/orders/{id:[0-9]+}/cancel", rh.CancelOrder).Methods(http.MethodPut)
	router.HandleFunc("/favorites", rh.ListFavorites).Methods(http.MethodGet)
	router.HandleFunc("/favorites", rh.AddFavorite).Methods(http.MethodPost)
	router.HandleFunc("/favorites/{listing_id:[0-9]+}", rh.RemoveFavorite).Methods(http.MethodDelete)
	router.HandleFunc("/messages", rh.SendMessage).Methods(http.MethodPost)
	router.HandleFunc("/messages", rh.Inbox).Methods(http.MethodGet)
	router.HandleFunc("/messages/conversation/{user_id:[0-9]+}", rh.Conversation).Methods(http.MethodGet)
	router.HandleFunc("/messages/{id:[0-9]+}/read", rh.MarkMessageRead).Methods(http.MethodPut)
	router.HandleFunc("/notifications", rh.ListNotifications).Methods(http.MethodGet)
	router.HandleFunc("/notifications/{id:[0-9]+}/read", rh.MarkNotificationRead).Methods(http.MethodPut)
	router.HandleFunc("/analytics/events", rh.RecordEvent).Methods(http.MethodPost)
	router.HandleFunc("/settings/payment-instructions", rh.GetPaymentInstructions).Methods(http.MethodGet)

	// Vet assistant relay
	router.HandleFunc("/chapavet-ai", rh.VetChat).Methods(http.MethodPost, http.MethodOptions)

	// Admin back office
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(AdminMiddleware())
	admin.HandleFunc("/users", rh.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id:[0-9]+}/role", rh.UpdateUserRole).Methods(http.MethodPut)
	admin.HandleFunc("/livestock/{id:[0-9]+}/verify", rh.VerifyLivestock).Methods(http.MethodPut)
	admin.HandleFunc("/livestock/{id:[0-9]+}/feature", rh.FeatureLivestock).Methods(http.MethodPut)
	admin.HandleFunc("/orders", rh.ListOrders).Methods(http.MethodGet)
	admin.HandleFunc("/orders/export", rh.ExportOrders).Methods(http.MethodGet)
	admin.HandleFunc("/orders/{id:[0-9]+}/status", rh.UpdateOrderStatus).Methods(http.MethodPut)
	admin.HandleFunc("/sessions", rh.ListSessions).Methods(http.MethodGet)
	admin.HandleFunc("/sessions/{id}", rh.RevokeSession).Methods(http.MethodDelete)
	admin.HandleFunc("/settings/payment-instructions", rh.GetPaymentInstructions).Methods(http.MethodGet)
	admin.HandleFunc("/settings/payment-instructions", rh.UpdatePaymentInstructions).Methods(http.MethodPut)
	admin.HandleFunc("/settings/session", rh.GetSessionSettings).Methods(http.MethodGet)
	admin.HandleFunc("/settings/session", rh.UpdateSessionSettings).Methods(http.MethodPut)
	admin.HandleFunc("/notifications", rh.BroadcastNotification).Methods(http.MethodPost)
	admin.HandleFunc("/analytics/dashboard", rh.Dashboard).Methods(http.MethodGet)

	// Service-to-service routes for the consume worker
	internal := router.PathPrefix("/internal/v1").Subrouter()
	internal.Use(InternalMiddleware(internalAPIKey))
	internal.HandleFunc("/order/{id:[0-9]+}/expire", rh.ExpireOrder).Methods(http.MethodPost)
	internal.HandleFunc("/notifications", rh.DeliverNotification).Methods(http.MethodPost)

	// Preflight for every other route; CORSMiddleware answers it.
	router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	router.Use(LoggingMiddleware())
	router.Use(CORSMiddleware())
	router.Use(AuthMiddleware(rh.UserApp))

	return router
}

// Register handler
// @Summary Register user
// @Description Register a new buyer or seller account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Register Request"
// @Success 200 {object} model.RegisterResponse
// @Failure 400 {object} Response
// @Router /register [post]
func (s *RestHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.UserApp.Register(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// Login handler
// @Summary Login user
// @Description Login with email or phone and receive JWT token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Login Request"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} Response
// @Router /login [post]
func (s *RestHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.UserAgent = r.UserAgent()
	req.IPAddress = clientIP(r)

	res, err := s.UserApp.Login(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// Logout handler
// @Summary Logout
// @Description Revoke the current session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Router /logout [post]
func (s *RestHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.UserApp.Logout(r.Context(), utilsContext.GetSessionID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// Me handler
// @Summary Current profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserEntity
// @Failure 401 {object} Response
// @Router /me [get]
func (s *RestHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	profile, err := s.UserApp.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, profile)
}

// callerID returns the authenticated user, writing 401 when there is none.
func callerID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	userID, ok := utilsContext.GetUserID(r.Context())
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
	}
	return userID, ok
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
