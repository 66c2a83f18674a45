package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product is the stored record. UpdatedAt stays nil until the first update.
type Product struct {
	ID        int64
	Name      string
	Price     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// ProductDTO is what goes over the wire. It never carries timestamps.
type ProductDTO struct {
	ID    string      `json:"id,omitempty"`
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
}
