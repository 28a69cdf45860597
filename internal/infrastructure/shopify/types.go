package shopify

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
)

// Estructuras de la Admin REST API. Solo se decodifican los campos usados; los montos
// llegan como strings ("10.00") y se leen directo a decimal.

type orderWire struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	CreatedAt         time.Time       `json:"created_at"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	Currency          string          `json:"currency"`
	FinancialStatus   string          `json:"financial_status"`
	FulfillmentStatus *string         `json:"fulfillment_status"`
	LocationID        *int64          `json:"location_id"`
	LineItems         []lineItemWire  `json:"line_items"`
}

type lineItemWire struct {
	Name         string          `json:"name"`
	VariantID    *int64          `json:"variant_id"`
	VariantTitle *string         `json:"variant_title"`
	SKU          *string         `json:"sku"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

type imageWire struct {
	Src string `json:"src"`
}

type productWire struct {
	ID          int64         `json:"id"`
	Handle      string        `json:"handle"`
	Title       string        `json:"title"`
	Vendor      string        `json:"vendor"`
	ProductType string        `json:"product_type"`
	Status      string        `json:"status"`
	Tags        string        `json:"tags"`
	Image       *imageWire    `json:"image"`
	Variants    []variantWire `json:"variants"`
}

type variantWire struct {
	ID              int64               `json:"id"`
	ProductID       int64               `json:"product_id"`
	InventoryItemID int64               `json:"inventory_item_id"`
	Title           string              `json:"title"`
	SKU             *string             `json:"sku"`
	Option1         *string             `json:"option1"`
	Option2         *string             `json:"option2"`
	Option3         *string             `json:"option3"`
	Price           decimal.Decimal     `json:"price"`
	CompareAtPrice  decimal.NullDecimal `json:"compare_at_price"`
	Position        int                 `json:"position"`
}

type inventoryItemWire struct {
	ID   int64            `json:"id"`
	SKU  *string          `json:"sku"`
	Cost *decimal.Decimal `json:"cost"`
}

type locationWire struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Address1 *string `json:"address1"`
	City     *string `json:"city"`
	Active   bool    `json:"active"`
}

type inventoryLevelWire struct {
	InventoryItemID int64 `json:"inventory_item_id"`
	LocationID      int64 `json:"location_id"`
	Available       *int  `json:"available"`
}

type ordersEnvelope struct {
	Orders []orderWire `json:"orders"`
}

type productsEnvelope struct {
	Products []productWire `json:"products"`
}

type productEnvelope struct {
	Product productWire `json:"product"`
}

type variantsEnvelope struct {
	Variants []variantWire `json:"variants"`
}

type variantEnvelope struct {
	Variant variantWire `json:"variant"`
}

type inventoryItemsEnvelope struct {
	InventoryItems []inventoryItemWire `json:"inventory_items"`
}

type inventoryItemEnvelope struct {
	InventoryItem inventoryItemWire `json:"inventory_item"`
}

type locationsEnvelope struct {
	Locations []locationWire `json:"locations"`
}

type inventoryLevelsEnvelope struct {
	InventoryLevels []inventoryLevelWire `json:"inventory_levels"`
}

type countEnvelope struct {
	Count int `json:"count"`
}

type accessTokenWire struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// ── Conversión a entidades ──────────────────────────────────────────────────

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// normalizeCurrency devuelve el código ISO 4217 en mayúsculas o "" si no es válido.
func normalizeCurrency(code string) string {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return ""
	}
	return unit.String()
}

func (w orderWire) toEntity() entity.Order {
	o := entity.Order{
		ID:              w.ID,
		Name:            w.Name,
		CreatedAt:       w.CreatedAt,
		TotalPrice:      w.TotalPrice,
		Currency:        normalizeCurrency(w.Currency),
		FinancialStatus: entity.FinancialStatus(w.FinancialStatus),
		LocationID:      w.LocationID,
		LineItems:       make([]entity.LineItem, 0, len(w.LineItems)),
	}
	if w.FulfillmentStatus != nil {
		o.FulfillmentStatus = entity.FulfillmentStatus(*w.FulfillmentStatus)
	}
	for _, li := range w.LineItems {
		qty := li.Quantity
		if qty < 0 {
			qty = 0
		}
		o.LineItems = append(o.LineItems, entity.LineItem{
			Name:         li.Name,
			VariantID:    li.VariantID,
			VariantTitle: deref(li.VariantTitle),
			SKU:          deref(li.SKU),
			Quantity:     qty,
			Price:        li.Price,
		})
	}
	return o
}

func (w productWire) toEntity() entity.Product {
	p := entity.Product{
		ID:          w.ID,
		Handle:      w.Handle,
		Title:       w.Title,
		Vendor:      w.Vendor,
		ProductType: w.ProductType,
		Status:      w.Status,
		Tags:        w.Tags,
		Variants:    make([]entity.Variant, 0, len(w.Variants)),
	}
	if w.Image != nil {
		p.ImageURL = w.Image.Src
	}
	for _, v := range w.Variants {
		p.Variants = append(p.Variants, v.toEntity())
	}
	return p
}

func (w variantWire) toEntity() entity.Variant {
	return entity.Variant{
		ID:              w.ID,
		ProductID:       w.ProductID,
		InventoryItemID: w.InventoryItemID,
		Title:           w.Title,
		SKU:             deref(w.SKU),
		Option1:         w.Option1,
		Option2:         w.Option2,
		Option3:         w.Option3,
		Price:           w.Price,
		CompareAtPrice:  w.CompareAtPrice,
		Position:        w.Position,
	}
}

func (w inventoryItemWire) toEntity() entity.InventoryItem {
	return entity.InventoryItem{ID: w.ID, SKU: deref(w.SKU), Cost: w.Cost}
}

func (w locationWire) toEntity() entity.Location {
	return entity.Location{
		ID:       w.ID,
		Name:     w.Name,
		Address1: deref(w.Address1),
		City:     deref(w.City),
		Active:   w.Active,
	}
}
