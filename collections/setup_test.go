package collections_test

import (
	"testing"

	"quotebuilder/collections"
	"quotebuilder/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	collections.CategoriesCollection,
	collections.CatalogCollection,
	collections.QuotesCollection,
	collections.DraftsCollection,
	collections.SettingsCollection,
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	// Collect IDs from first run
	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	// Run Setup() again
	if err := collections.Setup(app); err != nil {
		t.Fatalf("second Setup() error: %v", err)
	}

	// IDs should not change
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_Fields(t *testing.T) {
	tests := []struct {
		collection string
		fields     []string
	}{
		{collections.CategoriesCollection, []string{"cat_id", "name", "sort_order", "created", "updated"}},
		{collections.CatalogCollection, []string{"item_id", "name", "spec", "unit", "price", "main_category_id", "sort_order"}},
		{collections.QuotesCollection, []string{"quote_id", "customer_name", "data"}},
		{collections.DraftsCollection, []string{"key", "data", "updated"}},
		{collections.SettingsCollection, []string{"name", "address", "phone", "email", "tax_id", "bank_account", "logo_data_url"}},
	}

	app := testhelpers.NewTestApp(t)
	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			col, err := app.FindCollectionByNameOrId(tt.collection)
			if err != nil {
				t.Fatalf("collection not found: %v", err)
			}
			for _, f := range tt.fields {
				if col.Fields.GetByName(f) == nil {
					t.Errorf("%s: missing field %q", tt.collection, f)
				}
			}
		})
	}
}

func TestSetup_DomainIDsAreUnique(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestCategory(t, app, "cat-1", "Nhà bếp")

	col, _ := app.FindCollectionByNameOrId(collections.CategoriesCollection)
	dup := core.NewRecord(col)
	dup.Set("cat_id", "cat-1")
	dup.Set("name", "Khác")
	if err := app.Save(dup); err == nil {
		t.Error("expected duplicate cat_id to be rejected")
	}
}

func TestSetup_LogoFieldFitsLargeDataURL(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId(collections.SettingsCollection)

	tf, ok := col.Fields.GetByName("logo_data_url").(*core.TextField)
	if !ok {
		t.Fatal("logo_data_url is not a TextField")
	}
	if tf.Max < 1<<20 {
		t.Errorf("logo_data_url Max = %d, want at least 1 MiB", tf.Max)
	}
}

func TestSetup_QuoteDataIsJSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId(collections.QuotesCollection)

	if _, ok := col.Fields.GetByName("data").(*core.JSONField); !ok {
		t.Error("quotes.data is not a JSONField")
	}
}
