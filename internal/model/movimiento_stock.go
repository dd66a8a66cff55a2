package model

import (
	"time"
)

// Tipo de movimiento de stock
const (
	MovimientoVenta      = "venta"
	MovimientoLiberacion = "liberacion"
)

// MovimientoStock registra cada cambio de stock en un producto.
// Se crea automáticamente al reservar o liberar stock de una venta.
type MovimientoStock struct {
	ID            uint   `gorm:"primaryKey"`
	ProductoID    uint   `gorm:"not null;index"`
	Tipo          string `gorm:"type:varchar(20);not null"`
	Cantidad      int    `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int    `gorm:"not null"`
	StockNuevo    int    `gorm:"not null"`
	Motivo        string
	VentaID       *uint `gorm:"index"`
	CreatedAt     time.Time
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }
