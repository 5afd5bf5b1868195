package message

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

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) (*model.Message, error)
	GetByID(ctx context.Context, id uint64) (*model.Message, error)
	Conversation(ctx context.Context, userID, otherID uint64, limit, offset int) ([]model.Message, error)
	Inbox(ctx context.Context, recipientID uint64, limit, offset int) ([]model.Message, error)
	MarkRead(ctx context.Context, id uint64) error
}

func NewMessageRepository(conn *sqlx.DB) MessageRepository {
	return &SQL{conn: conn}
}

const selectMessage = `SELECT id, sender_id, recipient_id, listing_id, body, read_at, created_at FROM messages`

func (s *SQL) Create(ctx context.Context, msg *model.Message) (*model.Message, error) {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	res, err := s.conn.ExecContext(ctx, "INSERT INTO messages (sender_id, recipient_id, listing_id, body, created_at) VALUES (?, ?, ?, ?, ?)",
		msg.SenderID, msg.RecipientID, msg.ListingID, msg.Body, msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	msg.ID = uint64(id)
	return msg, nil
}

func (s *SQL) GetByID(ctx context.Context, id uint64) (*model.Message, error) {
	var msg model.Message
	if err := s.conn.GetContext(ctx, &msg, selectMessage+" WHERE id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (s *SQL) Conversation(ctx context.Context, userID, otherID uint64, limit, offset int) ([]model.Message, error) {
	msgs := make([]model.Message, 0)
	err := s.conn.SelectContext(ctx, &msgs,
		selectMessage+" WHERE (sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?) ORDER BY id DESC LIMIT ? OFFSET ?",
		userID, otherID, otherID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *SQL) Inbox(ctx context.Context, recipientID uint64, limit, offset int) ([]model.Message, error) {
	msgs := make([]model.Message, 0)
	if err := s.conn.SelectContext(ctx, &msgs, selectMessage+" WHERE recipient_id = ? ORDER BY id DESC LIMIT ? OFFSET ?", recipientID, limit, offset); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *SQL) MarkRead(ctx context.Context, id uint64) error {
	_, err := s.conn.ExecContext(ctx, "UPDATE messages SET read_at = COALESCE(read_at, ?) WHERE id = ?", time.Now().UTC(), id)
	return err
}
