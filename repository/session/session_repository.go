package session

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

type SessionRepository interface {
	Create(ctx context.Context, s *model.UserSession) error
	Get(ctx context.Context, id string) (*model.UserSession, error)
	ListActive(ctx context.Context, now time.Time, limit, offset int) ([]model.UserSession, int64, error)
	CountActive(ctx context.Context, now time.Time) (int64, error)
	Revoke(ctx context.Context, id string, at time.Time) error
}

func NewSessionRepository(conn *sqlx.DB) SessionRepository {
	return &SQL{conn: conn}
}

const (
	selectSession = `SELECT s.id, s.user_id, COALESCE(p.email, '') AS user_email, s.user_agent, s.ip_address, s.created_at, s.expires_at, s.revoked_at
FROM user_sessions s
LEFT JOIN profiles p ON p.id = s.user_id`

	activeSessionWhere = ` WHERE s.revoked_at IS NULL AND s.expires_at > ?`
)

func (r *SQL) Create(ctx context.Context, s *model.UserSession) error {
	_, err := r.conn.ExecContext(ctx, "INSERT INTO user_sessions (id, user_id, user_agent, ip_address, created_at, expires_at) VALUES (?, ?, ?, ?, ?, ?)",
		s.ID, s.UserID, s.UserAgent, s.IPAddress, s.CreatedAt, s.ExpiresAt)
	return err
}

func (r *SQL) Get(ctx context.Context, id string) (*model.UserSession, error) {
	var s model.UserSession
	if err := r.conn.GetContext(ctx, &s, selectSession+" WHERE s.id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQL) ListActive(ctx context.Context, now time.Time, limit, offset int) ([]model.UserSession, int64, error) {
	total, err := r.CountActive(ctx, now)
	if err != nil {
		return nil, 0, err
	}

	sessions := make([]model.UserSession, 0)
	if err := r.conn.SelectContext(ctx, &sessions, selectSession+activeSessionWhere+" ORDER BY s.created_at DESC LIMIT ? OFFSET ?", now, limit, offset); err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *SQL) CountActive(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	err := r.conn.GetContext(ctx, &total, "SELECT COUNT(*) FROM user_sessions s"+activeSessionWhere, now)
	return total, err
}

func (r *SQL) Revoke(ctx context.Context, id string, at time.Time) error {
	_, err := r.conn.ExecContext(ctx, "UPDATE user_sessions SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL", at, id)
	return err
}
