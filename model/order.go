package model

import (
	"time"

	"github.com/chapavet/marketplace/constant"
)

type OrderRequest struct {
	ListingID     uint64                 `json:"listing_id" validate:"required"`
	PaymentMethod constant.PaymentMethod `json:"payment_method" validate:"required,oneof=mpesa bank cash"`
	DeliveryNote  string                 `json:"delivery_note" validate:"max=500"`
}

type OrderResponse struct {
	OrderID   uint64    `json:"order_id"`
	Amount    int64     `json:"amount_tzs"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PaymentRequest struct {
	Reference string `json:"reference" validate:"required,max=64"`
}

type UpdateOrderStatusRequest struct {
	Status constant.OrderStatus `json:"status" validate:"required,oneof=paid completed canceled"`
}

type InsertOrderTxItem struct {
	BuyerID       uint64
	SellerID      uint64
	ListingID     uint64
	Amount        int64
	PaymentMethod constant.PaymentMethod
	DeliveryNote  string
	Status        constant.OrderStatus
	ExpiresAT     time.Time
}

type OrderDetail struct {
	ID               uint64                 `db:"id" json:"id"`
	BuyerID          uint64                 `db:"buyer_id" json:"buyer_id"`
	SellerID         uint64                 `db:"seller_id" json:"seller_id"`
	ListingID        uint64                 `db:"listing_id" json:"listing_id"`
	ListingName      string                 `db:"listing_name" json:"listing_name"`
	Amount           int64                  `db:"amount" json:"amount_tzs"`
	PaymentMethod    constant.PaymentMethod `db:"payment_method" json:"payment_method"`
	PaymentReference *string                `db:"payment_reference" json:"payment_reference,omitempty"`
	DeliveryNote     string                 `db:"delivery_note" json:"delivery_note,omitempty"`
	Status           constant.OrderStatus   `db:"status" json:"status"`
	ExpiresAt        time.Time              `db:"expires_at" json:"expires_at"`
	CreatedAt        time.Time              `db:"created_at" json:"created_at"`
}

type OrderFilter struct {
	Status  constant.OrderStatus
	BuyerID uint64
	Page    int
	PerPage int
}

type OrderListResponse struct {
	Items      []OrderDetail `json:"items"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
}
