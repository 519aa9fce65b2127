package collections

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog/log"
)

// ── Definition structs ───────────────────────────────────────────────────

type itemDef struct {
	name  string
	spec  string
	unit  string
	price float64
}

type categoryDef struct {
	name  string
	items []itemDef
}

// starterCatalog is a small interior-fitout catalog so a fresh install has
// something to quote from.
var starterCatalog = []categoryDef{
	{
		name: "Nhà bếp",
		items: []itemDef{
			{name: "Tủ bếp dưới", spec: "MDF chống ẩm phủ Acrylic", unit: "md", price: 4500000},
			{name: "Tủ bếp trên", spec: "MDF chống ẩm phủ Acrylic", unit: "md", price: 3800000},
			{name: "Mặt đá bếp", spec: "Đá thạch anh trắng vân mây", unit: "md", price: 2900000},
			{name: "Kính ốp bếp", spec: "Kính cường lực 8mm sơn màu", unit: "m²", price: 1200000},
		},
	},
	{
		name: "Phòng khách",
		items: []itemDef{
			{name: "Kệ tivi", spec: "Gỗ sồi tự nhiên", unit: "md", price: 3200000},
			{name: "Vách ốp trang trí", spec: "Lam gỗ nhựa composite", unit: "m²", price: 950000},
			{name: "Sofa góc", spec: "Khung gỗ dầu, bọc vải bố", unit: "bộ", price: 18500000},
		},
	},
	{
		name: "Phòng ngủ",
		items: []itemDef{
			{name: "Tủ áo cánh lùa", spec: "MDF phủ Melamine", unit: "m²", price: 2600000},
			{name: "Giường ngủ 1m8", spec: "Gỗ óc chó, đầu giường bọc nỉ", unit: "chiếc", price: 14500000},
			{name: "Tab đầu giường", spec: "MDF phủ Melamine", unit: "chiếc", price: 1800000},
		},
	},
	{
		name: "Thi công",
		items: []itemDef{
			{name: "Vận chuyển và lắp đặt", unit: "lô", price: 3000000},
			{name: "Nhân công tháo dỡ", unit: "công", price: 450000},
		},
	},
}

// Seed populates an empty store with a starter catalog. It is safe to call
// on every startup because it returns early if any category or catalog item
// already exists.
func Seed(app core.App) error {
	// ── idempotency: skip if the catalog is in use ───────────────────
	for _, name := range []string{CategoriesCollection, CatalogCollection} {
		n, err := app.CountRecords(name)
		if err != nil {
			return fmt.Errorf("seed: could not count %s: %w", name, err)
		}
		if n > 0 {
			return nil // already seeded or user data present
		}
	}

	log.Info().Msg("seed: catalog is empty, inserting starter catalog")

	categoriesCol, err := app.FindCollectionByNameOrId(CategoriesCollection)
	if err != nil {
		return fmt.Errorf("seed: could not find %s collection: %w", CategoriesCollection, err)
	}
	catalogCol, err := app.FindCollectionByNameOrId(CatalogCollection)
	if err != nil {
		return fmt.Errorf("seed: could not find %s collection: %w", CatalogCollection, err)
	}

	var items int
	err = app.RunInTransaction(func(txApp core.App) error {
		for ci, cd := range starterCatalog {
			cat := core.NewRecord(categoriesCol)
			catID := "cat-" + uuid.NewString()
			cat.Set("cat_id", catID)
			cat.Set("name", cd.name)
			cat.Set("sort_order", ci+1)
			if err := txApp.Save(cat); err != nil {
				return fmt.Errorf("seed: save category %q: %w", cd.name, err)
			}

			for _, d := range cd.items {
				items++
				r := core.NewRecord(catalogCol)
				r.Set("item_id", "item-"+uuid.NewString())
				r.Set("name", d.name)
				r.Set("spec", d.spec)
				r.Set("unit", d.unit)
				r.Set("price", d.price)
				r.Set("main_category_id", catID)
				r.Set("sort_order", items)
				if err := txApp.Save(r); err != nil {
					return fmt.Errorf("seed: save catalog item %q: %w", d.name, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Int("categories", len(starterCatalog)).
		Int("items", items).
		Msg("seed: starter catalog inserted")
	return nil
}
