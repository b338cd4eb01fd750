package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Sale struct {
	BaseModel
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer        *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	SoldAt          time.Time       `gorm:"not null;index" json:"sold_at"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Seller          string          `gorm:"type:varchar(255)" json:"seller"`
	TransactionCode string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_code"`
	Items           []SaleLineItem  `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// SaleLineItem captures quantity and unit price at the time of sale.
// Rows are written once and never updated.
type SaleLineItem struct {
	BaseModel
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}

// ItemsTotal sums the line subtotals.
func (s *Sale) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Subtotal)
	}
	return total
}
