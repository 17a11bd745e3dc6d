package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusVoided    TransactionStatus = "voided"
)

// Common payment methods; any non-empty value is accepted.
const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
	PaymentQR       = "qr"
)

// Transaction is one completed sale. Only Status changes after creation.
type Transaction struct {
	ID            string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	Subtotal      decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount      decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	Total         decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"total"`
	PaymentMethod string            `gorm:"type:varchar(32);not null" json:"payment_method"`
	CashReceived  *decimal.Decimal  `gorm:"type:decimal(12,2)" json:"cash_received"`
	ChangeAmount  *decimal.Decimal  `gorm:"type:decimal(12,2)" json:"change_amount"`
	Status        TransactionStatus `gorm:"type:varchar(16);not null;default:'completed';index" json:"status"`
	CreatedAt     time.Time         `gorm:"index" json:"created_at"`
	Items         []TransactionItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// TransactionItem snapshots the product at sale time. ProductID carries no
// foreign key so products can be deleted after they were sold.
type TransactionItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID string          `gorm:"type:varchar(36);not null;index" json:"transaction_id"`
	ProductID     uint            `gorm:"not null;index" json:"product_id"`
	ProductName   string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Cost          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cost"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}

func (TransactionItem) TableName() string {
	return "transaction_items"
}
