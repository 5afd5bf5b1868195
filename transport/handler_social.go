package transport

import (
	"encoding/json"
	"net/http"

	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	utilsContext "github.com/chapavet/marketplace/utils/context"
	"github.com/chapavet/marketplace/utils/errors"
	validatorx "github.com/chapavet/marketplace/utils/validator"
)

// ListFavorites handler
// @Summary Saved listings
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.LivestockItem
// @Router /favorites [get]
func (s *RestHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	items, err := s.FavoriteApp.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, items)
}

// AddFavorite handler
// @Summary Save a listing
// @Tags Favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.FavoriteRequest true "Listing"
// @Success 200 {object} Response
// @Router /favorites [post]
func (s *RestHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req model.FavoriteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.FavoriteApp.Add(r.Context(), userID, req.ListingID); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// RemoveFavorite handler
// @Summary Unsave a listing
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param listing_id path int true "Listing ID"
// @Success 200 {object} Response
// @Router /favorites/{listing_id} [delete]
func (s *RestHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	listingID, err := pathID(r, "listing_id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.FavoriteApp.Remove(r.Context(), userID, listingID); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// SendMessage handler
// @Summary Message another user
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.SendMessageRequest true "Message"
// @Success 200 {object} model.Message
// @Router /messages [post]
func (s *RestHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	msg, err := s.MessageApp.Send(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, msg)
}

// Inbox handler
// @Summary Received messages
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param per_page query int false "Per page"
// @Success 200 {object} model.MessageListResponse
// @Router /messages [get]
func (s *RestHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	res, err := s.MessageApp.Inbox(r.Context(), userID, queryInt(r, "page"), queryInt(r, "per_page"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// Conversation handler
// @Summary Messages exchanged with one user
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "Other user"
// @Param page query int false "Page"
// @Param per_page query int false "Per page"
// @Success 200 {object} model.MessageListResponse
// @Router /messages/conversation/{user_id} [get]
func (s *RestHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	otherID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.MessageApp.Conversation(r.Context(), userID, otherID, queryInt(r, "page"), queryInt(r, "per_page"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// MarkMessageRead handler
// @Summary Mark a message read
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} Response
// @Router /messages/{id}/read [put]
func (s *RestHandler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	messageID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.MessageApp.MarkRead(r.Context(), userID, messageID); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// ListNotifications handler
// @Summary The caller's notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Notification
// @Router /notifications [get]
func (s *RestHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	items, err := s.NotificationApp.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, items)
}

// MarkNotificationRead handler
// @Summary Mark a notification read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} Response
// @Router /notifications/{id}/read [put]
func (s *RestHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.NotificationApp.MarkRead(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// BroadcastNotification handler
// @Summary Notify one user
// @Description Kind defaults to admin_broadcast.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateNotificationRequest true "Notification"
// @Success 200 {object} model.Notification
// @Router /admin/notifications [post]
func (s *RestHandler) BroadcastNotification(w http.ResponseWriter, r *http.Request) {
	var req model.CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if req.Kind == "" {
		req.Kind = constant.NotificationAdminBroadcast
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	n, err := s.NotificationApp.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, n)
}

// DeliverNotification handler
// @Summary Store a queued notification
// @Description Called by the consume worker for each notification_queue message.
// @Tags Internal
// @Accept json
// @Produce json
// @Param request body model.CreateNotificationRequest true "Notification"
// @Success 200 {object} model.Notification
// @Router /internal/v1/notifications [post]
func (s *RestHandler) DeliverNotification(w http.ResponseWriter, r *http.Request) {
	var req model.CreateNotificationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	n, err := s.NotificationApp.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, n)
}

// RecordEvent handler
// @Summary Record an analytics event
// @Description Anonymous callers are accepted; the user is attached when a valid token is sent.
// @Tags Analytics
// @Accept json
// @Produce json
// @Param request body model.RecordEventRequest true "Event"
// @Success 200 {object} Response
// @Router /analytics/events [post]
func (s *RestHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var req model.RecordEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var userID *uint64
	if id, ok := utilsContext.GetUserID(r.Context()); ok {
		userID = &id
	}

	if err := s.AnalyticsApp.Record(r.Context(), userID, &req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}
