package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line of a cart as the cashier screen keeps it.
type CartItem struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Barcode     string          `json:"barcode,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Unit        string          `json:"unit,omitempty"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartData is the parked cart snapshot stored with a held bill.
type CartData struct {
	Items    []CartItem      `json:"items"`
	Discount decimal.Decimal `json:"discount"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}

type HeldBill struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CartData  CartData  `gorm:"type:text;not null;serializer:json" json:"cart_data"`
	Note      *string   `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (HeldBill) TableName() string {
	return "held_bills"
}
