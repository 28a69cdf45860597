package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialStatus estado de pago de un pedido en Shopify.
type FinancialStatus string

const (
	FinancialPending           FinancialStatus = "pending"
	FinancialAuthorized        FinancialStatus = "authorized"
	FinancialPartiallyPaid     FinancialStatus = "partially_paid"
	FinancialPaid              FinancialStatus = "paid"
	FinancialPartiallyRefunded FinancialStatus = "partially_refunded"
	FinancialRefunded          FinancialStatus = "refunded"
	FinancialVoided            FinancialStatus = "voided"
)

// FulfillmentStatus estado de envío; vacío cuando el pedido no tiene fulfillment.
type FulfillmentStatus string

const (
	FulfillmentNone        FulfillmentStatus = ""
	FulfillmentUnfulfilled FulfillmentStatus = "unfulfilled"
	FulfillmentPartial     FulfillmentStatus = "partial"
	FulfillmentFulfilled   FulfillmentStatus = "fulfilled"
)

// Order pedido leído de Shopify. Solo lectura; nunca se guarda entre requests.
type Order struct {
	ID                int64
	Name              string // número visible, ej. "#1001"
	CreatedAt         time.Time
	TotalPrice        decimal.Decimal
	Currency          string
	FinancialStatus   FinancialStatus
	FulfillmentStatus FulfillmentStatus
	LocationID        *int64
	LineItems         []LineItem
}

// VariantIDs devuelve los IDs de variante distintos del pedido, en orden de aparición.
func (o Order) VariantIDs() []int64 {
	return CollectVariantIDs([]Order{o})
}

// ItemCount suma las cantidades de todas las líneas.
func (o Order) ItemCount() int {
	n := 0
	for _, li := range o.LineItems {
		n += li.Quantity
	}
	return n
}

// LineItem línea de un pedido.
type LineItem struct {
	Name         string
	VariantID    *int64 // nil para ítems personalizados o variantes borradas
	VariantTitle string
	SKU          string
	Quantity     int
	Price        decimal.Decimal
}

// CollectVariantIDs junta los IDs de variante distintos de varios pedidos.
// Las líneas sin variante se omiten.
func CollectVariantIDs(orders []Order) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, o := range orders {
		for _, li := range o.LineItems {
			if li.VariantID == nil {
				continue
			}
			if _, ok := seen[*li.VariantID]; ok {
				continue
			}
			seen[*li.VariantID] = struct{}{}
			ids = append(ids, *li.VariantID)
		}
	}
	return ids
}
