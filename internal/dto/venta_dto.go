package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DetalleVentaRequest struct {
	IDProducto *uint `json:"id_producto" validate:"required"`
	Cantidad   int   `json:"cantidad"    validate:"required,min=1"`
	// PrecioUnitario is the price snapshot; when omitted the producto's precio_final is used.
	PrecioUnitario      *decimal.Decimal `json:"precio_unitario"`
	DescuentoIndividual decimal.Decimal  `json:"descuento_individual"`
	// Subtotal is accepted for compatibility with older clients and always recomputed.
	Subtotal *decimal.Decimal `json:"subtotal,omitempty"`
}

// VentaRequest is the body of POST /v1/ventas and PUT /v1/ventas/:id.
type VentaRequest struct {
	Tipo             string                `json:"tipo"              validate:"omitempty,oneof=orden_compra factura_b"`
	DescuentoGeneral decimal.Decimal       `json:"descuento_general"`
	Redondeo         decimal.Decimal       `json:"redondeo"`
	Detalles         []DetalleVentaRequest `json:"detalles"          validate:"required,min=1,dive"`
}

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Limit int `form:"limit,default=5" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResumen struct {
	ID           uint            `json:"id"`
	Nombre       string          `json:"nombre"`
	Stock        int             `json:"stock"`
	PrecioFinal  decimal.Decimal `json:"precio_final"`
	CodigoBarras *string         `json:"codigo_barras"`
}

type DetalleVentaResponse struct {
	ID uint `json:"id"`
	// Producto is null when the referenced producto no longer exists.
	Producto            *ProductoResumen `json:"producto"`
	Cantidad            int              `json:"cantidad"`
	PrecioUnitario      decimal.Decimal  `json:"precio_unitario"`
	DescuentoIndividual decimal.Decimal  `json:"descuento_individual"`
	Subtotal            decimal.Decimal  `json:"subtotal"`
}

type VentaResponse struct {
	ID               uint                   `json:"id"`
	ImporteTotal     decimal.Decimal        `json:"importe_total"`
	FechaYHora       string                 `json:"fecha_y_hora"`
	Caja             *uint                  `json:"caja"`
	Tipo             string                 `json:"tipo"`
	Estado           string                 `json:"estado"`
	DescuentoGeneral decimal.Decimal        `json:"descuento_general"`
	Redondeo         decimal.Decimal        `json:"redondeo"`
	Detalles         []DetalleVentaResponse `json:"detalles"`
}

// VentaRegistradaResponse is returned by create and update. Warnings is never
// null: an empty list means every detalle had enough stock.
type VentaRegistradaResponse struct {
	VentaResponse
	Warnings []string `json:"warnings"`
}
