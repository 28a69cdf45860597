// Package pricing reglas para comparar el catálogo de Shopify con la caché local.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
)

// Tolerance diferencia máxima que no se considera cambio de precio o costo.
var Tolerance = decimal.New(1, -2)

// Changed indica si remote y cached difieren en más de un centavo.
func Changed(remote, cached decimal.Decimal) bool {
	return remote.Sub(cached).Abs().GreaterThan(Tolerance)
}

// MatchVariant busca la variante en caché que corresponde a una variante remota.
// Primero por SKU (ambos no vacíos e iguales); si ninguna coincide, por la tripleta de opciones.
// Devuelve nil si no hay correspondencia.
func MatchVariant(remote entity.Variant, cached []entity.CachedVariant) *entity.CachedVariant {
	if remote.SKU != "" {
		for i := range cached {
			if cached[i].SKU != "" && cached[i].SKU == remote.SKU {
				return &cached[i]
			}
		}
	}
	for i := range cached {
		c := &cached[i]
		if sameOption(c.Option1, remote.Option1) && sameOption(c.Option2, remote.Option2) && sameOption(c.Option3, remote.Option3) {
			return c
		}
	}
	return nil
}

func sameOption(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ProductChanges campos del producto remoto que difieren de la caché.
// Vacío si no hay nada que actualizar.
func ProductChanges(remote entity.Product, cached entity.CachedProduct) []string {
	var fields []string
	if remote.Title != cached.Title {
		fields = append(fields, "title")
	}
	if remote.Vendor != cached.Vendor {
		fields = append(fields, "vendor")
	}
	if remote.ProductType != cached.ProductType {
		fields = append(fields, "product_type")
	}
	if remote.Status != cached.Status {
		fields = append(fields, "status")
	}
	if remote.ImageURL != cached.ImageURL {
		fields = append(fields, "image_url")
	}
	if cached.ShopifyProductID == nil || *cached.ShopifyProductID != remote.ID {
		fields = append(fields, "shopify_product_id")
	}
	return fields
}
