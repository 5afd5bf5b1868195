package session

import (
	"context"
	"time"

	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	redisrepo "github.com/chapavet/marketplace/repository/redis"
	sessionrepo "github.com/chapavet/marketplace/repository/session"
	"github.com/chapavet/marketplace/utils/errors"
	"github.com/chapavet/marketplace/utils/logger"
	"go.uber.org/zap"
)

// SessionApp lets admins inspect and revoke login sessions.
type SessionApp interface {
	ListActive(ctx context.Context, page, perPage int) (*model.SessionListResponse, error)
	Revoke(ctx context.Context, sessionID string) error
}

type SessionAppImpl struct {
	sessionRepo sessionrepo.SessionRepository
	redisRepo   redisrepo.Repository
	now         func() time.Time
}

func NewSessionApp(sessionRepo sessionrepo.SessionRepository, redisRepo redisrepo.Repository) SessionApp {
	return &SessionAppImpl{
		sessionRepo: sessionRepo,
		redisRepo:   redisRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *SessionAppImpl) ListActive(ctx context.Context, page, perPage int) (*model.SessionListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}

	sessions, total, err := s.sessionRepo.ListActive(ctx, s.now(), perPage, (page-1)*perPage)
	if err != nil {
		logger.Error("[ListActive] err sessionRepo.ListActive", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.SessionListResponse{
		Items:      sessions,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
	}, nil
}

func (s *SessionAppImpl) Revoke(ctx context.Context, sessionID string) error {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		logger.Error("[Revoke] err sessionRepo.Get", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if session == nil {
		return errors.SetCustomError(constant.ErrNotFound)
	}

	if err := s.redisRepo.DeleteSession(ctx, sessionID); err != nil {
		logger.Error("[Revoke] err redisRepo.DeleteSession", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if session.RevokedAt != nil {
		return nil
	}
	if err := s.sessionRepo.Revoke(ctx, sessionID, s.now()); err != nil {
		logger.Error("[Revoke] err sessionRepo.Revoke", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}
