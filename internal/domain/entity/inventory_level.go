package entity

// InventoryLevel unidades disponibles de un ítem de inventario en una ubicación.
type InventoryLevel struct {
	InventoryItemID int64
	LocationID      int64
	Available       int
}

// Location ubicación (tienda física o bodega) de Shopify.
type Location struct {
	ID       int64
	Name     string
	Address1 string
	City     string
	Active   bool
}

// Address dirección corta "address1, city" omitiendo partes vacías.
func (l Location) Address() string {
	switch {
	case l.Address1 == "":
		return l.City
	case l.City == "":
		return l.Address1
	default:
		return l.Address1 + ", " + l.City
	}
}
