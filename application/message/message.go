package message

import (
	"context"
	"unicode/utf8"

	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	messagerepo "github.com/chapavet/marketplace/repository/message"
	userrepo "github.com/chapavet/marketplace/repository/user"
	"github.com/chapavet/marketplace/thirdparty/rabbitmq"
	"github.com/chapavet/marketplace/utils/errors"
	"github.com/chapavet/marketplace/utils/logger"
	"github.com/chapavet/marketplace/utils/text"
	"go.uber.org/zap"
)

const maxBodyLength = 2000

type MessageApp interface {
	Send(ctx context.Context, senderID uint64, req *model.SendMessageRequest) (*model.Message, error)
	Conversation(ctx context.Context, userID, otherID uint64, page, perPage int) (*model.MessageListResponse, error)
	Inbox(ctx context.Context, userID uint64, page, perPage int) (*model.MessageListResponse, error)
	MarkRead(ctx context.Context, userID, messageID uint64) error
}

// Notifier is satisfied by *rabbitmq.Publisher.
type Notifier interface {
	PublishNotification(msg rabbitmq.NotificationMessage) error
}

type messageAppImpl struct {
	messageRepo messagerepo.MessageRepository
	userRepo    userrepo.UserRepository
	notifier    Notifier
}

func NewMessageApp(messageRepo messagerepo.MessageRepository, userRepo userrepo.UserRepository, notifier Notifier) MessageApp {
	return &messageAppImpl{messageRepo: messageRepo, userRepo: userRepo, notifier: notifier}
}

func (s *messageAppImpl) Send(ctx context.Context, senderID uint64, req *model.SendMessageRequest) (*model.Message, error) {
	if req.RecipientID == senderID {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}
	body := text.PlainText(req.Body)
	if n := utf8.RuneCountInString(body); n == 0 || n > maxBodyLength {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	recipient, err := s.userRepo.Get(ctx, &model.UserFilter{ID: req.RecipientID})
	if err != nil {
		logger.Error("[SendMessage] err userRepo.Get", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if recipient == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	msg, err := s.messageRepo.Create(ctx, &model.Message{
		SenderID:    senderID,
		RecipientID: recipient.ID,
		ListingID:   req.ListingID,
		Body:        body,
	})
	if err != nil {
		logger.Error("[SendMessage] err messageRepo.Create", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if s.notifier != nil {
		err := s.notifier.PublishNotification(rabbitmq.NotificationMessage{
			UserID: recipient.ID,
			Kind:   constant.NotificationNewMessage,
			Title:  "New message",
			Body:   preview(body),
		})
		if err != nil {
			logger.Error("[SendMessage] publish notification", zap.String("error", err.Error()))
		}
	}
	return msg, nil
}

func preview(body string) string {
	const max = 80
	if utf8.RuneCountInString(body) <= max {
		return body
	}
	return string([]rune(body)[:max]) + "…"
}

func paging(page, perPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 50
	}
	return page, perPage
}

func (s *messageAppImpl) Conversation(ctx context.Context, userID, otherID uint64, page, perPage int) (*model.MessageListResponse, error) {
	page, perPage = paging(page, perPage)
	msgs, err := s.messageRepo.Conversation(ctx, userID, otherID, perPage, (page-1)*perPage)
	if err != nil {
		logger.Error("[Conversation] err messageRepo.Conversation", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return &model.MessageListResponse{Items: msgs, Page: page, PerPage: perPage}, nil
}

func (s *messageAppImpl) Inbox(ctx context.Context, userID uint64, page, perPage int) (*model.MessageListResponse, error) {
	page, perPage = paging(page, perPage)
	msgs, err := s.messageRepo.Inbox(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		logger.Error("[Inbox] err messageRepo.Inbox", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return &model.MessageListResponse{Items: msgs, Page: page, PerPage: perPage}, nil
}

// MarkRead is allowed only for the recipient; others see the message as missing.
func (s *messageAppImpl) MarkRead(ctx context.Context, userID, messageID uint64) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		logger.Error("[MarkRead] err messageRepo.GetByID", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if msg == nil || msg.RecipientID != userID {
		return errors.SetCustomError(constant.ErrNotFound)
	}
	if msg.ReadAt != nil {
		return nil
	}
	if err := s.messageRepo.MarkRead(ctx, messageID); err != nil {
		logger.Error("[MarkRead] err messageRepo.MarkRead", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}
