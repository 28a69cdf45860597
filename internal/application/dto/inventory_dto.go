package dto

// InventoryLocationDTO unidades y valor de una variante en una ubicación.
type InventoryLocationDTO struct {
	LocationID   int64  `json:"location_id"`
	LocationName string `json:"location_name"`
	Available    int    `json:"available"`
	Value        Money  `json:"value"`
}

// InventoryVariantValueDTO valor de inventario de una variante (precio × disponibles).
type InventoryVariantValueDTO struct {
	ProductID    int64                  `json:"product_id"`
	ProductTitle string                 `json:"product_title"`
	VariantID    int64                  `json:"variant_id"`
	VariantTitle string                 `json:"variant_title"`
	SKU          string                 `json:"sku"`
	ImageURL     string                 `json:"image_url,omitempty"`
	Price        Money                  `json:"price"`
	Available    int                    `json:"available"`
	Value        Money                  `json:"value"`
	Locations    []InventoryLocationDTO `json:"locations"`
}

// InventoryValueDTO respuesta de GET /api/inventory/value.
type InventoryValueDTO struct {
	TotalValue    Money                      `json:"total_value"`
	TotalUnits    int                        `json:"total_units"`
	VariantsCount int                        `json:"variants_count"`
	Currency      string                     `json:"currency"`
	Locations     []LocationDTO              `json:"locations"`
	Variants      []InventoryVariantValueDTO `json:"variants"`
}
