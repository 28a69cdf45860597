package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/shopify-profit-api/internal/domain"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
	"github.com/jhoicas/shopify-profit-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo implementación del puerto ExpenseRepository sobre PostgreSQL.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador de persistencia para gastos.
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

const expenseColumns = `id, shop, location_name, amount, description, expense_date, expense_type, category, created_at, updated_at`

// Create persiste un gasto nuevo.
func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.Shop, e.LocationName, e.Amount, e.Description, e.ExpenseDate,
		string(e.ExpenseType), e.Category, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// ListByShop gastos de la tienda, más recientes primero.
func (r *ExpenseRepo) ListByShop(ctx context.Context, shop string) ([]entity.Expense, error) {
	return r.list(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE shop = $1
		ORDER BY expense_date DESC, created_at DESC`, shop)
}

// ListByShopAndDates gastos con expense_date dentro de [from, to], comparando solo la fecha.
func (r *ExpenseRepo) ListByShopAndDates(ctx context.Context, shop string, from, to time.Time) ([]entity.Expense, error) {
	return r.list(ctx, `SELECT `+expenseColumns+` FROM expenses
		WHERE shop = $1 AND expense_date >= $2::date AND expense_date <= $3::date
		ORDER BY expense_date`, shop, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

func (r *ExpenseRepo) list(ctx context.Context, query string, args ...any) ([]entity.Expense, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var list []entity.Expense
	for rows.Next() {
		var e entity.Expense
		var typ string
		if err := rows.Scan(&e.ID, &e.Shop, &e.LocationName, &e.Amount, &e.Description, &e.ExpenseDate,
			&typ, &e.Category, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.ExpenseType = entity.ExpenseType(typ)
		list = append(list, e)
	}
	return list, rows.Err()
}

// Delete borra un gasto de la tienda.
func (r *ExpenseRepo) Delete(ctx context.Context, shop, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND shop = $2`, id, shop)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
