package notification

import (
	"context"
	"database/sql"
	"time"

	"github.com/chapavet/marketplace/model"
	"github.com/jmoiron/sqlx"
)

type SQL struct {
	conn *sqlx.DB
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
	ListByUser(ctx context.Context, userID uint64, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, id uint64) (bool, error)
}

func NewNotificationRepository(conn *sqlx.DB) NotificationRepository {
	return &SQL{conn: conn}
}

func (s *SQL) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	res, err := s.conn.ExecContext(ctx, "INSERT INTO notifications (user_id, kind, title, body, created_at) VALUES (?, ?, ?, ?, ?)",
		n.UserID, n.Kind, n.Title, n.Body, n.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	n.ID = uint64(id)
	return n, nil
}

func (s *SQL) ListByUser(ctx context.Context, userID uint64, limit int) ([]model.Notification, error) {
	items := make([]model.Notification, 0)
	err := s.conn.SelectContext(ctx, &items,
		"SELECT id, user_id, kind, title, body, read_at, created_at FROM notifications WHERE user_id = ? ORDER BY id DESC LIMIT ?", userID, limit)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// MarkRead reports false when the notification does not belong to userID.
func (s *SQL) MarkRead(ctx context.Context, userID, id uint64) (bool, error) {
	var owner uint64
	if err := s.conn.GetContext(ctx, &owner, "SELECT user_id FROM notifications WHERE id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	if owner != userID {
		return false, nil
	}
	_, err := s.conn.ExecContext(ctx, "UPDATE notifications SET read_at = COALESCE(read_at, ?) WHERE id = ?", time.Now().UTC(), id)
	return err == nil, err
}
