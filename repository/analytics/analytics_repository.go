package analytics

import (
	"context"
	"time"

	"github.com/chapavet/marketplace/model"
	"github.com/jmoiron/sqlx"
)

type SQL struct {
	conn *sqlx.DB
}

type AnalyticsRepository interface {
	Insert(ctx context.Context, event *model.AnalyticsEvent) error
	CountByType(ctx context.Context, since time.Time) ([]model.EventCount, error)
	CountUsers(ctx context.Context) (int64, error)
}

func NewAnalyticsRepository(conn *sqlx.DB) AnalyticsRepository {
	return &SQL{conn: conn}
}

func (s *SQL) Insert(ctx context.Context, event *model.AnalyticsEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	var metadata any
	if len(event.Metadata) > 0 {
		metadata = event.Metadata
	}
	_, err := s.conn.ExecContext(ctx, "INSERT INTO analytics_events (user_id, event_type, path, listing_id, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.UserID, event.EventType, event.Path, event.ListingID, metadata, event.CreatedAt)
	return err
}

func (s *SQL) CountByType(ctx context.Context, since time.Time) ([]model.EventCount, error) {
	counts := make([]model.EventCount, 0)
	err := s.conn.SelectContext(ctx, &counts,
		"SELECT event_type, COUNT(*) AS total FROM analytics_events WHERE created_at >= ? GROUP BY event_type ORDER BY total DESC", since)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (s *SQL) CountUsers(ctx context.Context) (int64, error) {
	var total int64
	err := s.conn.GetContext(ctx, &total, "SELECT COUNT(*) FROM profiles")
	return total, err
}
