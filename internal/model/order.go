package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDraft is the order handed to confirmation collaborators before the cart is cleared.
type OrderDraft struct {
	Reference uuid.UUID       `json:"reference"`
	SessionID string          `json:"-"`
	Lines     []CartLine      `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Receipt describes a placed order. It is reported to the caller and never stored.
type Receipt struct {
	Reference uuid.UUID       `json:"reference"`
	Items     []CartItemView  `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Count     int             `json:"count"`
	PlacedAt  time.Time       `json:"placedAt"`
}

// ProductView is the payload of the product detail page.
type ProductView struct {
	Product       Product        `json:"product"`
	CartCount     int            `json:"cartCount"`
	Notifications []Notification `json:"notifications"`
}

// StoreView is the payload of the home page.
type StoreView struct {
	Products      []Product      `json:"products"`
	CartCount     int            `json:"cartCount"`
	Notifications []Notification `json:"notifications"`
}

// CartPage is the payload of the cart and checkout pages.
type CartPage struct {
	CartView
	Notifications []Notification `json:"notifications"`
}
