package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductState is the lifecycle stage of a yarn record. Values are the labels
// the workshop uses, and are stored as-is.
type ProductState string

const (
	StateRawMaterial     ProductState = "Por Hilandar"
	StateWoundCones      ProductState = "Conos Devanados"
	StateVariegatedCones ProductState = "Conos Veteados"
)

// ConeLabel is the generic name given to finished goods coming out of spinning.
const ConeLabel = "Cono"

var ProductStates = []ProductState{StateRawMaterial, StateWoundCones, StateVariegatedCones}

func (s ProductState) Valid() bool {
	for _, v := range ProductStates {
		if s == v {
			return true
		}
	}
	return false
}

// Processed reports whether the state is one of the finished-goods states.
func (s ProductState) Processed() bool {
	return s == StateWoundCones || s == StateVariegatedCones
}

type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Color       string          `gorm:"type:varchar(100);index" json:"color"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	State       ProductState    `gorm:"type:varchar(30);not null;index" json:"state"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"base_price"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`
	Stock       int             `gorm:"not null;default:0;index" json:"stock"`
	// RawQuantity is only meaningful while State is StateRawMaterial, or as the
	// processed quantity of a cone record split off a raw batch.
	RawQuantity *int      `json:"raw_quantity,omitempty"`
	IngestedAt  time.Time `gorm:"not null" json:"ingested_at"`
}

// InProcess reports whether the product is still waiting for spinning.
func (p *Product) InProcess() bool {
	return p.State == StateRawMaterial
}

// Valuation is unit price times stock.
func (p *Product) Valuation() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// Quantity returns RawQuantity or zero.
func (p *Product) Quantity() int {
	if p.RawQuantity == nil {
		return 0
	}
	return *p.RawQuantity
}

// IntPtr is a small helper for optional quantities.
func IntPtr(v int) *int { return &v }
