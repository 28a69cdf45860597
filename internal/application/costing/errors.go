package costing

import "errors"

var (
	errVariantUnknown  = errors.New("variante no encontrada en su producto")
	errNoInventoryItem = errors.New("la variante no tiene inventory_item_id")
)
