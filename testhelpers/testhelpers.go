// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog"

	"quotebuilder/collections"
	"quotebuilder/quoting"
	"quotebuilder/store"
)

// FixedNow is the clock used by NewTestSession.
var FixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	if err := collections.Setup(app); err != nil {
		t.Fatalf("failed to set up collections: %v", err)
	}

	return app
}

// NewTestSession returns a loaded session persisted in app, with a fixed clock.
func NewTestSession(t *testing.T, app core.App) *quoting.Session {
	t.Helper()

	sess := quoting.NewSession(store.New(app), zerolog.Nop(), quoting.SessionConfig{
		Defaults: quoting.QuoteDefaults{ApplyDiscount: true, ApplyTax: true, TaxPercent: 8},
		Now:      func() time.Time { return FixedNow },
	})
	if err := sess.Load(context.Background()); err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	return sess
}

// CreateTestCategory creates a main category record and returns it.
func CreateTestCategory(t *testing.T, app core.App, id, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.CategoriesCollection)
	if err != nil {
		t.Fatalf("failed to find main_categories collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("cat_id", id)
	record.Set("name", name)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test category: %v", err)
	}

	return record
}

// CreateTestCatalogItem creates a catalog item record and returns it.
func CreateTestCatalogItem(t *testing.T, app core.App, id, name, unit string, price float64, categoryID string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.CatalogCollection)
	if err != nil {
		t.Fatalf("failed to find catalog_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("item_id", id)
	record.Set("name", name)
	record.Set("unit", unit)
	record.Set("price", price)
	record.Set("main_category_id", categoryID)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test catalog item: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
