package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	Nombre             string          `json:"nombre"              validate:"required,min=1,max=255"`
	Stock              int             `json:"stock"`
	PrecioLista        decimal.Decimal `json:"precio_lista"        validate:"min=0"`
	UtilidadPorcentual decimal.Decimal `json:"utilidad_porcentual" validate:"min=0"`
	// PrecioFinal defaults to precio_lista × (1 + utilidad_porcentual / 100).
	PrecioFinal  *decimal.Decimal `json:"precio_final"`
	CodigoBarras *string          `json:"codigo_barras"       validate:"omitempty,max=64"`
}

type ProductoResponse struct {
	ID                 uint            `json:"id"`
	Nombre             string          `json:"nombre"`
	Stock              int             `json:"stock"`
	PrecioLista        decimal.Decimal `json:"precio_lista"`
	UtilidadPorcentual decimal.Decimal `json:"utilidad_porcentual"`
	PrecioFinal        decimal.Decimal `json:"precio_final"`
	CodigoBarras       *string         `json:"codigo_barras"`
}

// ConsultaPreciosResponse is served (and cached) by GET /v1/precio/:barcode.
type ConsultaPreciosResponse struct {
	Nombre          string          `json:"nombre"`
	PrecioFinal     decimal.Decimal `json:"precio_final"`
	StockDisponible int             `json:"stock_disponible"`
}

type MovimientoFilter struct {
	Limit int `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovimientoStockResponse struct {
	ID            uint   `json:"id"`
	Tipo          string `json:"tipo"`
	Cantidad      int    `json:"cantidad"`
	StockAnterior int    `json:"stock_anterior"`
	StockNuevo    int    `json:"stock_nuevo"`
	Motivo        string `json:"motivo"`
	VentaID       *uint  `json:"venta_id"`
	Fecha         string `json:"fecha"`
}
