package entity

import "github.com/shopspring/decimal"

// CostSource de dónde salió el costo unitario de una variante.
type CostSource string

const (
	CostSourceCache      CostSource = "cache"
	CostSourceRemote     CostSource = "remote"
	CostSourceUnresolved CostSource = "unresolved"
)

// VariantCost costo unitario resuelto de una variante.
// Resolved=false significa que el costo no está configurado o no se pudo obtener;
// Cost vale 0 en ese caso y la UI muestra "NOT SET".
type VariantCost struct {
	Cost     decimal.Decimal
	Source   CostSource
	Resolved bool
}

// VariantCosts costo por ID de variante de Shopify.
type VariantCosts map[int64]VariantCost

// Lookup devuelve el costo de una línea. Sin variante o sin entrada -> (0, false).
func (c VariantCosts) Lookup(variantID *int64) (decimal.Decimal, bool) {
	if variantID == nil {
		return decimal.Zero, false
	}
	vc, ok := c[*variantID]
	if !ok {
		return decimal.Zero, false
	}
	return vc.Cost, vc.Resolved
}
