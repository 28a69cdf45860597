package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
	"github.com/jhoicas/shopify-profit-api/internal/domain"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
	"github.com/jhoicas/shopify-profit-api/internal/domain/repository"
)

const expenseDateLayout = "2006-01-02"

// ExpenseUseCase casos de uso de gastos operativos por tienda.
type ExpenseUseCase struct {
	repo repository.ExpenseRepository
	now  func() time.Time
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(repo repository.ExpenseRepository) *ExpenseUseCase {
	return &ExpenseUseCase{repo: repo, now: time.Now}
}

// ValidationError campo rechazado; envuelve domain.ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap permite errors.Is(err, domain.ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Create valida y guarda un gasto. La categoría por defecto es "general".
func (uc *ExpenseUseCase) Create(ctx context.Context, shop string, in dto.CreateExpenseRequest) (*dto.ExpenseDTO, error) {
	e, err := uc.validate(shop, in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("crear gasto: %w", err)
	}
	out := toExpenseDTO(*e)
	return &out, nil
}

func (uc *ExpenseUseCase) validate(shop string, in dto.CreateExpenseRequest) (*entity.Expense, error) {
	if strings.TrimSpace(in.LocationName) == "" {
		return nil, invalid("location_name", "requerido")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, invalid("description", "requerido")
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(in.Amount))
	if err != nil {
		return nil, invalid("amount", "no es un número")
	}
	if !amount.IsPositive() {
		return nil, invalid("amount", "debe ser mayor que 0")
	}
	date, err := time.Parse(expenseDateLayout, in.ExpenseDate)
	if err != nil {
		return nil, invalid("expense_date", "formato YYYY-MM-DD")
	}
	typ := entity.ExpenseType(in.ExpenseType)
	if !typ.Valid() {
		return nil, invalid("expense_type", "debe ser one-off o recurring")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = entity.DefaultExpenseCategory
	}

	now := uc.now()
	return &entity.Expense{
		ID:           uuid.New().String(),
		Shop:         shop,
		LocationName: strings.TrimSpace(in.LocationName),
		Amount:       amount,
		Description:  strings.TrimSpace(in.Description),
		ExpenseDate:  date,
		ExpenseType:  typ,
		Category:     category,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// List gastos de la tienda con su total.
func (uc *ExpenseUseCase) List(ctx context.Context, shop string) (*dto.ExpenseListDTO, error) {
	list, err := uc.repo.ListByShop(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("listar gastos: %w", err)
	}
	total := decimal.Zero
	items := make([]dto.ExpenseDTO, 0, len(list))
	for _, e := range list {
		total = total.Add(e.Amount)
		items = append(items, toExpenseDTO(e))
	}
	return &dto.ExpenseListDTO{Expenses: items, Total: dto.NewMoney(total), Count: len(items)}, nil
}

// Delete borra un gasto de la tienda; domain.ErrNotFound si no existe.
func (uc *ExpenseUseCase) Delete(ctx context.Context, shop, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return invalid("id", "no es un UUID")
	}
	return uc.repo.Delete(ctx, shop, id)
}

func toExpenseDTO(e entity.Expense) dto.ExpenseDTO {
	return dto.ExpenseDTO{
		ID:           e.ID,
		Shop:         e.Shop,
		LocationName: e.LocationName,
		Amount:       dto.NewMoney(e.Amount),
		Description:  e.Description,
		ExpenseDate:  e.ExpenseDate.Format(expenseDateLayout),
		ExpenseType:  string(e.ExpenseType),
		Category:     e.Category,
		CreatedAt:    e.CreatedAt,
	}
}
