package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipo de venta
const (
	TipoOrdenCompra = "orden_compra"
	TipoFacturaB    = "factura_b"
)

// Estado de venta. The only transition is pendiente → cerrada, performed by
// the cierre de caja.
const (
	EstadoPendiente = "pendiente"
	EstadoCerrada   = "cerrada"
)

// Venta is a single customer sale. ImporteTotal is always derived from the
// detalles; Redondeo is stored as informed by the client and never applied.
type Venta struct {
	ID               uint            `gorm:"primaryKey"`
	ImporteTotal     decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	FechaYHora       time.Time       `gorm:"not null;index"`
	Tipo             string          `gorm:"type:varchar(20);not null;default:'orden_compra'"`
	Estado           string          `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	DescuentoGeneral decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Redondeo         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CajaID           *uint           `gorm:"index"`

	Detalles []VentaDetalle `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
}

// Cerrada reports whether the venta already belongs to a cierre de caja.
func (v *Venta) Cerrada() bool { return v.Estado == EstadoCerrada }

// VentaDetalle is one line of a Venta. Lines are never edited one by one:
// they are created and deleted as a set together with their venta.
type VentaDetalle struct {
	ID                  uint            `gorm:"primaryKey"`
	VentaID             uint            `gorm:"not null;index"`
	ProductoID          *uint           `gorm:"index"`
	Cantidad            int             `gorm:"not null"`
	PrecioUnitario      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DescuentoIndividual decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Subtotal            decimal.Decimal `gorm:"type:decimal(18,6);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID;constraint:OnDelete:SET NULL"`
}

// TableName keeps the table name of the original schema.
func (VentaDetalle) TableName() string { return "venta_detalles" }
