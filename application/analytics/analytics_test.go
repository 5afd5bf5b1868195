package analytics_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	appanalytics "github.com/chapavet/marketplace/application/analytics"
	"github.com/chapavet/marketplace/constant"
	analyticsmocks "github.com/chapavet/marketplace/mocks/repository/analytics"
	livestockmocks "github.com/chapavet/marketplace/mocks/repository/livestock"
	ordermocks "github.com/chapavet/marketplace/mocks/repository/order"
	sessionmocks "github.com/chapavet/marketplace/mocks/repository/session"
	"github.com/chapavet/marketplace/model"
	cerr "github.com/chapavet/marketplace/utils/errors"
	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fields struct {
	analyticsRepo *analyticsmocks.AnalyticsRepository
	livestockRepo *livestockmocks.LivestockRepository
	orderRepo     *ordermocks.OrderRepository
	sessionRepo   *sessionmocks.SessionRepository
}

func newFields(t *testing.T) fields {
	return fields{
		analyticsRepo: analyticsmocks.NewAnalyticsRepository(t),
		livestockRepo: livestockmocks.NewLivestockRepository(t),
		orderRepo:     ordermocks.NewOrderRepository(t),
		sessionRepo:   sessionmocks.NewSessionRepository(t),
	}
}

func (f fields) app() appanalytics.AnalyticsApp {
	return appanalytics.NewAnalyticsApp(f.analyticsRepo, f.livestockRepo, f.orderRepo, f.sessionRepo)
}

func TestAnalyticsApp_Record(t *testing.T) {
	f := newFields(t)
	userID := uint64(3)
	listingID := uint64(8)
	f.analyticsRepo.On("Insert", mock.Anything, mock.MatchedBy(func(e *model.AnalyticsEvent) bool {
		return *e.UserID == 3 && *e.ListingID == 8 && e.EventType == constant.EventListingView &&
			string(e.Metadata) == `{"source":"featured"}` && !e.CreatedAt.IsZero()
	})).Return(nil).Once()

	err := f.app().Record(context.Background(), &userID, &model.RecordEventRequest{
		EventType: constant.EventListingView,
		Path:      "/livestock/8",
		ListingID: &listingID,
		Metadata:  map[string]any{"source": "featured"},
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
}

func TestAnalyticsApp_RecordAnonymous(t *testing.T) {
	f := newFields(t)
	f.analyticsRepo.On("Insert", mock.Anything, mock.MatchedBy(func(e *model.AnalyticsEvent) bool {
		return e.UserID == nil && e.Metadata == nil
	})).Return(nil).Once()

	if err := f.app().Record(context.Background(), nil, &model.RecordEventRequest{EventType: constant.EventPageView, Path: "/"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
}

func TestAnalyticsApp_Dashboard(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	counts := []model.EventCount{{EventType: constant.EventSearch, Total: 40}, {EventType: constant.EventPageView, Total: 200}}

	f := newFields(t)
	f.analyticsRepo.On("CountUsers", mock.Anything).Return(int64(12), nil).Once()
	f.livestockRepo.On("Count", mock.Anything).Return(int64(10), nil).Once()
	f.orderRepo.On("Count", mock.Anything).Return(int64(5), nil).Once()
	f.orderRepo.On("SumRevenue", mock.Anything).Return(int64(3100000), nil).Once()
	f.analyticsRepo.On("CountByType", mock.Anything, since).Return(counts, nil).Once()
	f.sessionRepo.On("CountActive", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(4), nil).Once()

	got, err := f.app().Dashboard(context.Background(), since)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	want := &model.DashboardResponse{
		Since:          since,
		TotalUsers:     12,
		TotalListings:  10,
		TotalOrders:    5,
		RevenueTZS:     3100000,
		EventsByType:   counts,
		ActiveSessions: 4,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Dashboard() = %+v, want %+v", got, want)
	}
}

func TestAnalyticsApp_DashboardQueryFails(t *testing.T) {
	f := newFields(t)
	f.analyticsRepo.On("CountUsers", mock.Anything).Return(int64(0), errors.New("db error")).Maybe()
	f.livestockRepo.On("Count", mock.Anything).Return(int64(10), nil).Maybe()
	f.orderRepo.On("Count", mock.Anything).Return(int64(5), nil).Maybe()
	f.orderRepo.On("SumRevenue", mock.Anything).Return(int64(0), nil).Maybe()
	f.analyticsRepo.On("CountByType", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	f.sessionRepo.On("CountActive", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()

	_, err := f.app().Dashboard(context.Background(), time.Now())
	if !cerr.Is(err, constant.ErrInternal) {
		t.Fatalf("Dashboard() error = %v, want internal", err)
	}
}
