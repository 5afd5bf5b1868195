package model

import "time"

type UserSession struct {
	ID        string     `db:"id" json:"id"`
	UserID    uint64     `db:"user_id" json:"user_id"`
	UserEmail string     `db:"user_email" json:"user_email,omitempty"`
	UserAgent string     `db:"user_agent" json:"user_agent"`
	IPAddress string     `db:"ip_address" json:"ip_address"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
}

type SessionListResponse struct {
	Items      []UserSession `json:"items"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
}
