package dto

import "github.com/shopspring/decimal"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Money monto redondeado que en JSON siempre sale con dos decimales ("50.00").
type Money struct {
	decimal.Decimal
}

// NewMoney redondea a centavos.
func NewMoney(d decimal.Decimal) Money {
	return Money{d.Round(2)}
}

// MarshalJSON serializa como string con dos decimales fijos.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

// Estado del costo mostrado al comerciante.
const (
	CostStatusOK     = "OK"
	CostStatusNotSet = "NOT_SET"
)

// CostStatus "NOT_SET" si alguna línea quedó sin costo resuelto.
func CostStatus(unresolved int) string {
	if unresolved > 0 {
		return CostStatusNotSet
	}
	return CostStatusOK
}
