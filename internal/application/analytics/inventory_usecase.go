package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
)

const inventoryProductFields = "id,title,variants,image"

// Locations ubicaciones activas de la tienda.
func (uc *UseCase) Locations(ctx context.Context, auth ports.ShopAuth) ([]dto.LocationDTO, error) {
	all, err := uc.client.ListLocations(ctx, auth)
	if err != nil {
		return nil, fmt.Errorf("locations: %w", err)
	}
	return locationDTOs(activeOnly(all)), nil
}

func locationDTOs(locations []entity.Location) []dto.LocationDTO {
	out := make([]dto.LocationDTO, 0, len(locations))
	for _, l := range locations {
		out = append(out, dto.LocationDTO{ID: l.ID, Name: l.Name, Address: l.Address(), Active: l.Active})
	}
	return out
}

// InventoryValue valor del stock a precio de venta: Σ precio × disponibles en ubicaciones activas.
// Solo se listan variantes con stock; el resultado va ordenado por valor descendente.
func (uc *UseCase) InventoryValue(ctx context.Context, auth ports.ShopAuth) (*dto.InventoryValueDTO, error) {
	var (
		products  []entity.Product
		locations []entity.Location
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = uc.allProducts(gctx, auth)
		if err != nil {
			return fmt.Errorf("inventory value: productos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		all, err := uc.client.ListLocations(gctx, auth)
		if err != nil {
			return fmt.Errorf("inventory value: ubicaciones: %w", err)
		}
		locations = activeOnly(all)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &dto.InventoryValueDTO{
		TotalValue: dto.NewMoney(decimal.Zero),
		Currency:   uc.cfg.DefaultCurrency,
		Locations:  locationDTOs(locations),
		Variants:   []dto.InventoryVariantValueDTO{},
	}
	if len(locations) == 0 {
		return res, nil
	}

	var itemIDs []int64
	for _, p := range products {
		for _, v := range p.Variants {
			if v.InventoryItemID != 0 {
				itemIDs = append(itemIDs, v.InventoryItemID)
			}
		}
	}
	locIDs := make([]int64, 0, len(locations))
	for _, l := range locations {
		locIDs = append(locIDs, l.ID)
	}

	levels, err := uc.client.ListInventoryLevels(ctx, auth, itemIDs, locIDs)
	if err != nil {
		return nil, fmt.Errorf("inventory value: niveles: %w", err)
	}
	stock := make(map[int64]map[int64]int)
	for _, lv := range levels {
		if lv.Available <= 0 {
			continue
		}
		if stock[lv.InventoryItemID] == nil {
			stock[lv.InventoryItemID] = make(map[int64]int)
		}
		stock[lv.InventoryItemID][lv.LocationID] += lv.Available
	}

	totalValue := decimal.Zero
	for _, p := range products {
		for _, v := range p.Variants {
			byLoc := stock[v.InventoryItemID]
			if len(byLoc) == 0 {
				continue
			}
			row := dto.InventoryVariantValueDTO{
				ProductID:    p.ID,
				ProductTitle: p.Title,
				VariantID:    v.ID,
				VariantTitle: v.Title,
				SKU:          v.SKU,
				ImageURL:     p.ImageURL,
				Price:        dto.NewMoney(v.Price),
			}
			value := decimal.Zero
			// Orden de ubicaciones igual al de Shopify.
			for _, l := range locations {
				qty, ok := byLoc[l.ID]
				if !ok {
					continue
				}
				lv := v.Price.Mul(decimal.NewFromInt(int64(qty)))
				row.Locations = append(row.Locations, dto.InventoryLocationDTO{
					LocationID: l.ID, LocationName: l.Name, Available: qty, Value: dto.NewMoney(lv),
				})
				row.Available += qty
				value = value.Add(lv)
			}
			row.Value = dto.NewMoney(value)
			totalValue = totalValue.Add(value)
			res.TotalUnits += row.Available
			res.Variants = append(res.Variants, row)
		}
	}

	sort.SliceStable(res.Variants, func(i, j int) bool {
		return res.Variants[i].Value.GreaterThan(res.Variants[j].Value.Decimal)
	})
	res.TotalValue = dto.NewMoney(totalValue)
	res.VariantsCount = len(res.Variants)
	return res, nil
}

// allProducts recorre todas las páginas del catálogo con los campos que necesita el inventario.
func (uc *UseCase) allProducts(ctx context.Context, auth ports.ShopAuth) ([]entity.Product, error) {
	var all []entity.Product
	q := ports.ProductQuery{Limit: 250, Fields: inventoryProductFields}
	for {
		page, err := uc.client.ListProducts(ctx, auth, q)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Products...)
		if page.NextPageInfo == "" {
			return all, nil
		}
		q = ports.ProductQuery{Limit: 250, Fields: inventoryProductFields, PageInfo: page.NextPageInfo}
	}
}
