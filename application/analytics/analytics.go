package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	analyticsrepo "github.com/chapavet/marketplace/repository/analytics"
	livestockrepo "github.com/chapavet/marketplace/repository/livestock"
	orderrepo "github.com/chapavet/marketplace/repository/order"
	sessionrepo "github.com/chapavet/marketplace/repository/session"
	"github.com/chapavet/marketplace/utils/errors"
	"github.com/chapavet/marketplace/utils/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AnalyticsApp interface {
	Record(ctx context.Context, userID *uint64, req *model.RecordEventRequest) error
	Dashboard(ctx context.Context, since time.Time) (*model.DashboardResponse, error)
}

type analyticsAppImpl struct {
	analyticsRepo analyticsrepo.AnalyticsRepository
	livestockRepo livestockrepo.LivestockRepository
	orderRepo     orderrepo.OrderRepository
	sessionRepo   sessionrepo.SessionRepository
	now           func() time.Time
}

func NewAnalyticsApp(analyticsRepo analyticsrepo.AnalyticsRepository, livestockRepo livestockrepo.LivestockRepository, orderRepo orderrepo.OrderRepository, sessionRepo sessionrepo.SessionRepository) AnalyticsApp {
	return &analyticsAppImpl{
		analyticsRepo: analyticsRepo,
		livestockRepo: livestockRepo,
		orderRepo:     orderRepo,
		sessionRepo:   sessionRepo,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *analyticsAppImpl) Record(ctx context.Context, userID *uint64, req *model.RecordEventRequest) error {
	var metadata []byte
	if len(req.Metadata) > 0 {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return errors.SetCustomError(constant.ErrInvalidRequest)
		}
		metadata = raw
	}

	err := s.analyticsRepo.Insert(ctx, &model.AnalyticsEvent{
		UserID:    userID,
		EventType: req.EventType,
		Path:      req.Path,
		ListingID: req.ListingID,
		Metadata:  metadata,
		CreatedAt: s.now(),
	})
	if err != nil {
		logger.Error("[Record] err analyticsRepo.Insert", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

// Dashboard gathers the totals concurrently; any failing query fails the whole call.
func (s *analyticsAppImpl) Dashboard(ctx context.Context, since time.Time) (*model.DashboardResponse, error) {
	resp := &model.DashboardResponse{Since: since}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.TotalUsers, err = s.analyticsRepo.CountUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.TotalListings, err = s.livestockRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.TotalOrders, err = s.orderRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.RevenueTZS, err = s.orderRepo.SumRevenue(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.EventsByType, err = s.analyticsRepo.CountByType(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		resp.ActiveSessions, err = s.sessionRepo.CountActive(gctx, s.now())
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("[Dashboard] err query", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if resp.EventsByType == nil {
		resp.EventsByType = []model.EventCount{}
	}
	return resp, nil
}
