package model

import "github.com/shopspring/decimal"

type Product struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	Barcode string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"barcode"`
	Name    string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Price   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Cost    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cost"`
	Unit    string          `gorm:"type:varchar(32)" json:"unit"`
	Stock   int             `gorm:"not null;default:0" json:"stock"`
	Timestamps
}

func (Product) TableName() string {
	return "products"
}
