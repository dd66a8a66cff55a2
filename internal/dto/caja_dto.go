package dto

import "github.com/shopspring/decimal"

type CajaFilter struct {
	Limit int `form:"limit,default=20" validate:"min=1,max=100"`
}

type CajaResponse struct {
	ID               uint            `json:"id"`
	TotalRecaudado   decimal.Decimal `json:"total_recaudado"`
	FechaYHoraCierre string          `json:"fecha_y_hora_cierre"`
}

// ResumenDiarioResponse keeps the key names the POS frontend already reads.
type ResumenDiarioResponse struct {
	TotalOrdenesCompra decimal.Decimal `json:"totalOrdenesCompra"`
	TotalFacturasB     decimal.Decimal `json:"totalFacturasB"`
	TotalDia           decimal.Decimal `json:"totalDia"`
}
