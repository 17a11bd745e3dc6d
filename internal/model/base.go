package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Clients read prices as numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Timestamps is embedded by every table; GORM fills both fields.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
