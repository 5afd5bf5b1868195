package model

import (
	"time"

	"github.com/chapavet/marketplace/constant"
)

type AnalyticsEvent struct {
	ID        uint64             `db:"id"`
	UserID    *uint64            `db:"user_id"`
	EventType constant.EventType `db:"event_type"`
	Path      string             `db:"path"`
	ListingID *uint64            `db:"listing_id"`
	Metadata  []byte             `db:"metadata"`
	CreatedAt time.Time          `db:"created_at"`
}

type RecordEventRequest struct {
	EventType constant.EventType `json:"event_type" validate:"required,oneof=page_view listing_view search favorite message order"`
	Path      string             `json:"path" validate:"max=255"`
	ListingID *uint64            `json:"listing_id"`
	Metadata  map[string]any     `json:"metadata"`
}

type EventCount struct {
	EventType constant.EventType `db:"event_type" json:"event_type"`
	Total     int64              `db:"total" json:"total"`
}

type DashboardResponse struct {
	Since          time.Time    `json:"since"`
	TotalUsers     int64        `json:"total_users"`
	TotalListings  int64        `json:"total_listings"`
	TotalOrders    int64        `json:"total_orders"`
	RevenueTZS     int64        `json:"revenue_tzs"`
	EventsByType   []EventCount `json:"events_by_type"`
	ActiveSessions int64        `json:"active_sessions"`
}
