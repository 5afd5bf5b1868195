package model

import "time"

type Message struct {
	ID          uint64     `db:"id" json:"id"`
	SenderID    uint64     `db:"sender_id" json:"sender_id"`
	RecipientID uint64     `db:"recipient_id" json:"recipient_id"`
	ListingID   *uint64    `db:"listing_id" json:"listing_id,omitempty"`
	Body        string     `db:"body" json:"body"`
	ReadAt      *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

type SendMessageRequest struct {
	RecipientID uint64  `json:"recipient_id" validate:"required"`
	ListingID   *uint64 `json:"listing_id"`
	Body        string  `json:"body" validate:"required"`
}

type MessageListResponse struct {
	Items   []Message `json:"items"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
}
