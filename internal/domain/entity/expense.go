package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType frecuencia del gasto.
type ExpenseType string

const (
	ExpenseOneOff    ExpenseType = "one-off"
	ExpenseRecurring ExpenseType = "recurring"
)

// Valid indica si el tipo es uno de los admitidos.
func (t ExpenseType) Valid() bool {
	return t == ExpenseOneOff || t == ExpenseRecurring
}

// DefaultExpenseCategory categoría cuando no se indica ninguna.
const DefaultExpenseCategory = "general"

// Expense gasto operativo cargado a mano por el comerciante.
// LocationName es texto libre; se atribuye a una ubicación por igualdad exacta de nombre.
type Expense struct {
	ID           string
	Shop         string
	LocationName string
	Amount       decimal.Decimal
	Description  string
	ExpenseDate  time.Time // solo importa la fecha calendario
	ExpenseType  ExpenseType
	Category     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
