package notification

import (
	"context"

	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	notificationrepo "github.com/chapavet/marketplace/repository/notification"
	"github.com/chapavet/marketplace/utils/errors"
	"github.com/chapavet/marketplace/utils/logger"
	"github.com/chapavet/marketplace/utils/text"
	"go.uber.org/zap"
)

const listLimit = 50

type NotificationApp interface {
	Create(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error)
	List(ctx context.Context, userID uint64) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uint64) error
}

type notificationAppImpl struct {
	notificationRepo notificationrepo.NotificationRepository
}

func NewNotificationApp(notificationRepo notificationrepo.NotificationRepository) NotificationApp {
	return &notificationAppImpl{notificationRepo: notificationRepo}
}

func (s *notificationAppImpl) Create(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error) {
	n, err := s.notificationRepo.Create(ctx, &model.Notification{
		UserID: req.UserID,
		Kind:   req.Kind,
		Title:  text.SingleLine(req.Title),
		Body:   text.PlainText(req.Body),
	})
	if err != nil {
		logger.Error("[CreateNotification] err notificationRepo.Create", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return n, nil
}

// List returns the newest notifications for userID.
func (s *notificationAppImpl) List(ctx context.Context, userID uint64) ([]model.Notification, error) {
	items, err := s.notificationRepo.ListByUser(ctx, userID, listLimit)
	if err != nil {
		logger.Error("[ListNotifications] err notificationRepo.ListByUser", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return items, nil
}

func (s *notificationAppImpl) MarkRead(ctx context.Context, userID, notificationID uint64) error {
	found, err := s.notificationRepo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		logger.Error("[MarkNotificationRead] err notificationRepo.MarkRead", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if !found {
		return errors.SetCustomError(constant.ErrNotFound)
	}
	return nil
}
