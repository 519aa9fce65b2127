// Package store persists the quote builder workspace in pocketbase
// collections created by collections.Setup.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/collections"
	"quotebuilder/quoting"
)

// allRecords is the filter for listing a whole collection.
const allRecords = "id != ''"

// Store implements quoting.Repository on a pocketbase app. Domain ids live in
// their own text columns; pocketbase record ids are never exposed.
type Store struct {
	app core.App
}

func New(app core.App) *Store {
	return &Store{app: app}
}

// WithTx runs fn against a Store bound to one pocketbase transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx quoting.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.app.RunInTransaction(func(txApp core.App) error {
		return fn(&Store{app: txApp})
	})
}

// findOne returns the record of collection whose field equals value, or
// quoting.ErrNotFound.
func (s *Store) findOne(collection, field, value string) (*core.Record, error) {
	rec, err := s.app.FindFirstRecordByFilter(
		collection,
		field+" = {:value}",
		map[string]any{"value": value},
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", collection, value, quoting.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s %s: %w", collection, value, err)
	}
	return rec, nil
}

// findOrNew returns the existing record for value or a new unsaved one.
func (s *Store) findOrNew(collection, field, value string) (*core.Record, error) {
	rec, err := s.findOne(collection, field, value)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, quoting.ErrNotFound) {
		return nil, err
	}
	col, err := s.app.FindCollectionByNameOrId(collection)
	if err != nil {
		return nil, fmt.Errorf("%s collection not found: %w", collection, err)
	}
	rec = core.NewRecord(col)
	rec.Set(field, value)
	return rec, nil
}

// nextSortOrder returns one past the highest sort_order in collection.
func (s *Store) nextSortOrder(collection string) (int, error) {
	recs, err := s.app.FindRecordsByFilter(collection, allRecords, "-sort_order", 1, 0)
	if err != nil {
		return 0, fmt.Errorf("query %s sort order: %w", collection, err)
	}
	if len(recs) == 0 {
		return 1, nil
	}
	return recs[0].GetInt("sort_order") + 1, nil
}

func (s *Store) deleteBy(ctx context.Context, collection, field, value string) error {
	rec, err := s.findOne(collection, field, value)
	if err != nil {
		return err
	}
	if err := s.app.DeleteWithContext(ctx, rec); err != nil {
		return fmt.Errorf("delete %s %s: %w", collection, value, err)
	}
	return nil
}

// ── Draft ───────────────────────────────────────────────────────────────

func (s *Store) LoadDraft(ctx context.Context) (quoting.Quote, error) {
	var q quoting.Quote
	rec, err := s.findOne(collections.DraftsCollection, "key", collections.DraftKey)
	if err != nil {
		return q, err
	}
	if err := rec.UnmarshalJSONField("data", &q); err != nil {
		return q, fmt.Errorf("decode draft: %w", err)
	}
	return q, nil
}

func (s *Store) SaveDraft(ctx context.Context, q quoting.Quote) error {
	rec, err := s.findOrNew(collections.DraftsCollection, "key", collections.DraftKey)
	if err != nil {
		return err
	}
	rec.Set("data", q)
	if err := s.app.SaveWithContext(ctx, rec); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// ── Saved quotes ────────────────────────────────────────────────────────

func (s *Store) ListQuotes(ctx context.Context) ([]quoting.Quote, error) {
	recs, err := s.app.FindRecordsByFilter(collections.QuotesCollection, allRecords, "quote_id", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	out := make([]quoting.Quote, 0, len(recs))
	for _, rec := range recs {
		var q quoting.Quote
		if err := rec.UnmarshalJSONField("data", &q); err != nil {
			return nil, fmt.Errorf("decode quote %s: %w", rec.GetString("quote_id"), err)
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *Store) SaveQuote(ctx context.Context, q quoting.Quote) error {
	rec, err := s.findOrNew(collections.QuotesCollection, "quote_id", q.ID)
	if err != nil {
		return err
	}
	rec.Set("customer_name", q.CustomerName)
	rec.Set("data", q)
	if err := s.app.SaveWithContext(ctx, rec); err != nil {
		return fmt.Errorf("save quote %s: %w", q.ID, err)
	}
	return nil
}

func (s *Store) DeleteQuote(ctx context.Context, id string) error {
	return s.deleteBy(ctx, collections.QuotesCollection, "quote_id", id)
}

// ── Catalog ─────────────────────────────────────────────────────────────

func (s *Store) ListCatalog(ctx context.Context) ([]quoting.CatalogItem, error) {
	recs, err := s.app.FindRecordsByFilter(collections.CatalogCollection, allRecords, "sort_order", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	out := make([]quoting.CatalogItem, 0, len(recs))
	for _, rec := range recs {
		out = append(out, quoting.CatalogItem{
			ID:             rec.GetString("item_id"),
			Name:           rec.GetString("name"),
			Spec:           rec.GetString("spec"),
			Unit:           rec.GetString("unit"),
			Price:          rec.GetFloat("price"),
			MainCategoryID: rec.GetString("main_category_id"),
		})
	}
	return out, nil
}

// SaveCatalogItems upserts items by id. New items are appended after the
// existing ones in the given order.
func (s *Store) SaveCatalogItems(ctx context.Context, items ...quoting.CatalogItem) error {
	next, err := s.nextSortOrder(collections.CatalogCollection)
	if err != nil {
		return err
	}
	for _, it := range items {
		rec, err := s.findOrNew(collections.CatalogCollection, "item_id", it.ID)
		if err != nil {
			return err
		}
		if rec.IsNew() {
			rec.Set("sort_order", next)
			next++
		}
		rec.Set("name", it.Name)
		rec.Set("spec", it.Spec)
		rec.Set("unit", it.Unit)
		rec.Set("price", it.Price)
		rec.Set("main_category_id", it.MainCategoryID)
		if err := s.app.SaveWithContext(ctx, rec); err != nil {
			return fmt.Errorf("save catalog item %s: %w", it.ID, err)
		}
	}
	return nil
}

func (s *Store) DeleteCatalogItem(ctx context.Context, id string) error {
	return s.deleteBy(ctx, collections.CatalogCollection, "item_id", id)
}

// ── Categories ──────────────────────────────────────────────────────────

func (s *Store) ListCategories(ctx context.Context) ([]quoting.MainCategory, error) {
	recs, err := s.app.FindRecordsByFilter(collections.CategoriesCollection, allRecords, "sort_order", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	out := make([]quoting.MainCategory, 0, len(recs))
	for _, rec := range recs {
		out = append(out, quoting.MainCategory{
			ID:   rec.GetString("cat_id"),
			Name: rec.GetString("name"),
		})
	}
	return out, nil
}

func (s *Store) SaveCategories(ctx context.Context, cats ...quoting.MainCategory) error {
	next, err := s.nextSortOrder(collections.CategoriesCollection)
	if err != nil {
		return err
	}
	for _, c := range cats {
		rec, err := s.findOrNew(collections.CategoriesCollection, "cat_id", c.ID)
		if err != nil {
			return err
		}
		if rec.IsNew() {
			rec.Set("sort_order", next)
			next++
		}
		rec.Set("name", c.Name)
		if err := s.app.SaveWithContext(ctx, rec); err != nil {
			return fmt.Errorf("save category %s: %w", c.ID, err)
		}
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.deleteBy(ctx, collections.CategoriesCollection, "cat_id", id)
}

// ── Settings ────────────────────────────────────────────────────────────

func (s *Store) LoadSettings(ctx context.Context) (quoting.CompanySettings, error) {
	recs, err := s.app.FindRecordsByFilter(collections.SettingsCollection, allRecords, "", 1, 0)
	if err != nil {
		return quoting.CompanySettings{}, fmt.Errorf("query settings: %w", err)
	}
	if len(recs) == 0 {
		return quoting.CompanySettings{}, fmt.Errorf("settings: %w", quoting.ErrNotFound)
	}
	rec := recs[0]
	return quoting.CompanySettings{
		Name:        rec.GetString("name"),
		Address:     rec.GetString("address"),
		Phone:       rec.GetString("phone"),
		Email:       rec.GetString("email"),
		TaxID:       rec.GetString("tax_id"),
		BankAccount: rec.GetString("bank_account"),
		LogoDataURL: rec.GetString("logo_data_url"),
	}, nil
}

func (s *Store) SaveSettings(ctx context.Context, c quoting.CompanySettings) error {
	recs, err := s.app.FindRecordsByFilter(collections.SettingsCollection, allRecords, "", 1, 0)
	if err != nil {
		return fmt.Errorf("query settings: %w", err)
	}
	var rec *core.Record
	if len(recs) > 0 {
		rec = recs[0]
	} else {
		col, err := s.app.FindCollectionByNameOrId(collections.SettingsCollection)
		if err != nil {
			return fmt.Errorf("%s collection not found: %w", collections.SettingsCollection, err)
		}
		rec = core.NewRecord(col)
	}
	rec.Set("name", c.Name)
	rec.Set("address", c.Address)
	rec.Set("phone", c.Phone)
	rec.Set("email", c.Email)
	rec.Set("tax_id", c.TaxID)
	rec.Set("bank_account", c.BankAccount)
	rec.Set("logo_data_url", c.LogoDataURL)
	if err := s.app.SaveWithContext(ctx, rec); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

var _ quoting.Repository = (*Store)(nil)
