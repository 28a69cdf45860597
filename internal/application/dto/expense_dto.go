package dto

import "time"

// CreateExpenseRequest cuerpo de POST /api/expenses.
type CreateExpenseRequest struct {
	Shop         string `json:"shop"`
	LocationName string `json:"location_name"`
	Amount       string `json:"amount"` // decimal como string para no perder precisión
	Description  string `json:"description"`
	ExpenseDate  string `json:"expense_date"` // YYYY-MM-DD
	ExpenseType  string `json:"expense_type"` // one-off | recurring
	Category     string `json:"category"`
}

// ExpenseDTO gasto en respuestas.
type ExpenseDTO struct {
	ID           string    `json:"id"`
	Shop         string    `json:"shop"`
	LocationName string    `json:"location_name"`
	Amount       Money     `json:"amount"`
	Description  string    `json:"description"`
	ExpenseDate  string    `json:"expense_date"`
	ExpenseType  string    `json:"expense_type"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"created_at"`
}

// ExpenseListDTO respuesta de GET /api/expenses.
type ExpenseListDTO struct {
	Expenses []ExpenseDTO `json:"expenses"`
	Total    Money        `json:"total"`
	Count    int          `json:"count"`
}
