package model

import (
	"time"

	"github.com/chapavet/marketplace/constant"
)

type Notification struct {
	ID        uint64                    `db:"id" json:"id"`
	UserID    uint64                    `db:"user_id" json:"user_id"`
	Kind      constant.NotificationKind `db:"kind" json:"kind"`
	Title     string                    `db:"title" json:"title"`
	Body      string                    `db:"body" json:"body"`
	ReadAt    *time.Time                `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time                 `db:"created_at" json:"created_at"`
}

type CreateNotificationRequest struct {
	UserID uint64                    `json:"user_id" validate:"required"`
	Kind   constant.NotificationKind `json:"kind" validate:"required"`
	Title  string                    `json:"title" validate:"required,max=120"`
	Body   string                    `json:"body" validate:"max=1000"`
}
