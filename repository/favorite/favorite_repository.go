package favorite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type SQL struct {
	conn *sqlx.DB
}

type FavoriteRepository interface {
	Add(ctx context.Context, userID, listingID uint64) error
	Remove(ctx context.Context, userID, listingID uint64) error
	ListIDs(ctx context.Context, userID uint64) ([]uint64, error)
}

func NewFavoriteRepository(conn *sqlx.DB) FavoriteRepository {
	return &SQL{conn: conn}
}

// Add is idempotent: favoriting twice keeps the first timestamp.
func (s *SQL) Add(ctx context.Context, userID, listingID uint64) error {
	_, err := s.conn.ExecContext(ctx, "INSERT IGNORE INTO favorites (user_id, listing_id, created_at) VALUES (?, ?, ?)", userID, listingID, time.Now().UTC())
	return err
}

func (s *SQL) Remove(ctx context.Context, userID, listingID uint64) error {
	_, err := s.conn.ExecContext(ctx, "DELETE FROM favorites WHERE user_id = ? AND listing_id = ?", userID, listingID)
	return err
}

// ListIDs returns favorited listing ids, most recent first.
func (s *SQL) ListIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	if err := s.conn.SelectContext(ctx, &ids, "SELECT listing_id FROM favorites WHERE user_id = ? ORDER BY created_at DESC", userID); err != nil {
		return nil, err
	}
	return ids, nil
}

