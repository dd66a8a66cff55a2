package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto is a sellable item. Stock is mutated only through the inventory
// ledger (reserve / release) and may go negative after an oversold sale.
type Producto struct {
	ID                 uint            `gorm:"primaryKey"`
	Nombre             string          `gorm:"index;not null"`
	Stock              int             `gorm:"not null;default:0"`
	PrecioLista        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UtilidadPorcentual decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	PrecioFinal        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// CodigoBarras is optional but unique when present
	CodigoBarras *string `gorm:"uniqueIndex"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
