package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog/log"

	"quotebuilder/quoting"
)

// Collection names.
const (
	CategoriesCollection = "main_categories"
	CatalogCollection    = "catalog_items"
	QuotesCollection     = "quotes"
	DraftsCollection     = "drafts"
	SettingsCollection   = "company_settings"
)

// DraftKey is the key of the single working draft record.
const DraftKey = "current"

// maxQuoteJSON bounds a stored quote, line images included.
const maxQuoteJSON = 64 << 20

// Setup programmatically creates/ensures the main_categories, catalog_items,
// quotes, drafts and company_settings collections exist.
func Setup(app core.App) error {
	_, err := ensureCollection(app, CategoriesCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "cat_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "sort_order", OnlyInt: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_main_categories_cat_id", true, "cat_id", "")
	})
	if err != nil {
		return err
	}

	_, err = ensureCollection(app, CatalogCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "item_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "spec"})
		c.Fields.Add(&core.TextField{Name: "unit"})
		c.Fields.Add(&core.NumberField{Name: "price"})
		// Plain text, not a relation: deleting a category unlinks items
		// explicitly instead of cascading.
		c.Fields.Add(&core.TextField{Name: "main_category_id"})
		c.Fields.Add(&core.NumberField{Name: "sort_order", OnlyInt: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_catalog_items_item_id", true, "item_id", "")
	})
	if err != nil {
		return err
	}

	_, err = ensureCollection(app, QuotesCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quote_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "customer_name"})
		c.Fields.Add(&core.JSONField{Name: "data", Required: true, MaxSize: maxQuoteJSON})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_quotes_quote_id", true, "quote_id", "")
	})
	if err != nil {
		return err
	}

	_, err = ensureCollection(app, DraftsCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "key", Required: true})
		c.Fields.Add(&core.JSONField{Name: "data", Required: true, MaxSize: maxQuoteJSON})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_drafts_key", true, "key", "")
	})
	if err != nil {
		return err
	}

	_, err = ensureCollection(app, SettingsCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name"})
		c.Fields.Add(&core.TextField{Name: "address"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "tax_id"})
		c.Fields.Add(&core.TextField{Name: "bank_account"})
		c.Fields.Add(&core.TextField{Name: "logo_data_url", Max: quoting.MaxLogoLen})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
	return err
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) (*core.Collection, error) {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Debug().Str("collection", name).Msg("collection already exists, skipping creation")
		return existing, nil
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}

	log.Info().Str("collection", name).Str("id", collection.Id).Msg("created collection")
	return collection, nil
}
