package model

import "time"

type Favorite struct {
	UserID    uint64    `db:"user_id" json:"user_id"`
	ListingID uint64    `db:"listing_id" json:"listing_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type FavoriteRequest struct {
	ListingID uint64 `json:"listing_id" validate:"required"`
}
