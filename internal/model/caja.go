package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Caja is an immutable cierre de caja: the aggregation of every venta that was
// pending when the register was closed.
type Caja struct {
	ID               uint            `gorm:"primaryKey"`
	TotalRecaudado   decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	FechaYHoraCierre time.Time       `gorm:"not null;index"`

	Ventas []Venta `gorm:"foreignKey:CajaID;constraint:OnDelete:SET NULL"`
}
