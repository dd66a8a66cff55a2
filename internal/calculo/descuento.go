// Package calculo holds the pure money arithmetic of a venta.
// Percentages are not clamped: discounts above 100% yield zero or negative
// subtotals, which callers accept as-is.
package calculo

import "github.com/shopspring/decimal"

var cien = decimal.NewFromInt(100)

// SubtotalLinea returns precio × cantidad × (1 − (descIndividual + descGeneral) / 100).
// The result is exact; no rounding is applied.
func SubtotalLinea(precioUnitario decimal.Decimal, cantidad int, descIndividual, descGeneral decimal.Decimal) decimal.Decimal {
	bruto := precioUnitario.Mul(decimal.NewFromInt(int64(cantidad)))
	factor := decimal.NewFromInt(1).Sub(descIndividual.Add(descGeneral).Div(cien))
	return bruto.Mul(factor)
}

// TotalVenta is the exact sum of the line subtotals.
func TotalVenta(subtotales ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, s := range subtotales {
		total = total.Add(s)
	}
	return total
}
