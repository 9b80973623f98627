package model

import "github.com/shopspring/decimal"

// Product represents a bicycle in the catalogue.
type Product struct {
	ID          int             `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Category    string          `json:"category" db:"category"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Description string          `json:"description" db:"description"`
	Image       string          `json:"image" db:"image"`
	Stock       int             `json:"stock" db:"stock"`
}
