package model

import (
	"time"

	"github.com/chapavet/marketplace/constant"
)

// LivestockItem is a listing as shown in the catalog.
type LivestockItem struct {
	ID          uint64                 `json:"id" yaml:"id"`
	Name        string                 `json:"name" yaml:"name"`
	Category    string                 `json:"category" yaml:"category"`
	Price       string                 `json:"price" yaml:"price"`
	PriceTZS    int64                  `json:"price_tzs" yaml:"price_tzs"`
	Image       string                 `json:"image" yaml:"image"`
	Location    string                 `json:"location" yaml:"location"`
	Verified    bool                   `json:"verified" yaml:"verified"`
	Featured    bool                   `json:"featured,omitempty" yaml:"featured"`
	Status      constant.ListingStatus `json:"status" yaml:"-"`
	Description string                 `json:"description,omitempty" yaml:"description"`
	SellerID    uint64                 `json:"seller_id,omitempty" yaml:"-"`
	Details     LivestockDetails       `json:"details" yaml:"details"`
	Seller      SellerInfo             `json:"seller" yaml:"seller"`
	CreatedAt   time.Time              `json:"created_at,omitempty" yaml:"-"`
}

type LivestockDetails struct {
	Breed  string `json:"breed" yaml:"breed"`
	Age    string `json:"age" yaml:"age"`
	Gender string `json:"gender" yaml:"gender"`
	Type   string `json:"type" yaml:"type"`
	Weight string `json:"weight" yaml:"weight"`
}

type SellerInfo struct {
	Name        string  `json:"name" yaml:"name"`
	Phone       string  `json:"phone" yaml:"phone"`
	Rating      float64 `json:"rating" yaml:"rating"`
	Description string  `json:"description" yaml:"description"`
}

// LivestockFilter narrows repository listing queries.
type LivestockFilter struct {
	Status   constant.ListingStatus
	SellerID uint64
}

type CreateLivestockRequest struct {
	Name        string           `json:"name" validate:"required,max=120"`
	Category    string           `json:"category" validate:"required,max=40"`
	Price       string           `json:"price" validate:"required,max=40"`
	PriceTZS    int64            `json:"price_tzs" validate:"required,gt=0"`
	Image       string           `json:"image" validate:"omitempty,url"`
	Location    string           `json:"location" validate:"required,max=80"`
	Description string           `json:"description" validate:"max=4000"`
	Details     LivestockDetails `json:"details"`
	SellerPhone string           `json:"seller_phone" validate:"required"`
}

type ToggleRequest struct {
	Value bool `json:"value"`
}
