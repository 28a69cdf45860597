package repository

import (
	"context"
	"time"

	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
)

// ExpenseRepository define el puerto de persistencia para Expense (DIP).
type ExpenseRepository interface {
	Create(ctx context.Context, e *entity.Expense) error
	ListByShop(ctx context.Context, shop string) ([]entity.Expense, error)
	// ListByShopAndDates filtra por expense_date entre from y to (fechas calendario, inclusivo).
	ListByShopAndDates(ctx context.Context, shop string, from, to time.Time) ([]entity.Expense, error)
	// Delete devuelve domain.ErrNotFound si el gasto no existe para esa tienda.
	Delete(ctx context.Context, shop, id string) error
}
