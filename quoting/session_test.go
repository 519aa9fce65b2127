package quoting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotebuilder/services"
)

func newTestSession(t *testing.T, repo *memRepo) *Session {
	t.Helper()
	s := NewSession(repo, zerolog.Nop(), SessionConfig{
		Defaults: QuoteDefaults{ApplyDiscount: true, ApplyTax: true, TaxPercent: 10},
		Now:      func() time.Time { return testNow },
	})
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestSessionLoad_EmptyRepoStartsNewQuote(t *testing.T) {
	repo := newMemRepo()
	s := newTestSession(t, repo)

	v := s.Quote()
	assert.Equal(t, "20260115-001", v.Quote.ID)
	assert.Empty(t, v.Quote.Items)
	assert.Equal(t, 10.0, v.Totals.TaxPercent)
	assert.Empty(t, s.Categories())
	assert.Empty(t, s.SavedQuotes())
	assert.Equal(t, CompanySettings{}, s.Settings())
}

func TestSessionLoad_RestoresState(t *testing.T) {
	repo := newMemRepo()
	repo.categories["cat-1"] = MainCategory{ID: "cat-1", Name: "Bếp"}
	repo.catalog["item-1"] = CatalogItem{ID: "item-1", Name: "Tủ", Unit: "m", Price: 100, MainCategoryID: "cat-1"}
	repo.catOrder = []string{"item-1"}
	repo.settings = &CompanySettings{Name: "An Phát"}
	repo.quotes["20260114-001"] = Quote{
		ID: "20260114-001", QuoteDate: "2026-01-14",
		Items:     []LineItem{{ID: "a", Name: "A", Quantity: 2, OriginalPrice: 50, CalcType: services.CalcUnit}},
		Timestamp: testNow.Add(-24 * time.Hour),
	}
	// Derived fields in storage are stale on purpose.
	repo.draft = &Quote{
		ID: "20260115-003", QuoteDate: "2026-01-15",
		Items: []LineItem{{ID: "b", Name: "B", Quantity: 3, OriginalPrice: 10, CalcType: services.CalcUnit, LineTotal: 999}},
	}

	s := newTestSession(t, repo)

	assert.Equal(t, []MainCategory{{ID: "cat-1", Name: "Bếp"}}, s.Categories())
	assert.Len(t, s.SearchCatalog("", ""), 1)
	assert.Equal(t, "An Phát", s.Settings().Name)

	saved := s.SavedQuotes()
	require.Len(t, saved, 1)
	assert.Equal(t, 100.0, saved[0].GrandTotal)

	v := s.Quote()
	assert.Equal(t, "20260115-003", v.Quote.ID)
	assert.Equal(t, 30.0, v.Quote.Items[0].LineTotal, "line totals are recomputed on load")
}

func TestSessionLoad_BrokenDraftStartsNewQuote(t *testing.T) {
	repo := newMemRepo()
	repo.draftErr = errors.New("invalid character '}' in draft json")

	s := newTestSession(t, repo)
	assert.Equal(t, "20260115-001", s.Quote().Quote.ID)
}

func TestSessionLoad_ListFailureIsPersistenceError(t *testing.T) {
	repo := newMemRepo()
	repo.failOn["ListCatalog"] = true

	s := NewSession(repo, zerolog.Nop(), SessionConfig{Now: func() time.Time { return testNow }})
	err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, errInjected)
}

func TestSession_MutationsPersist(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := newTestSession(t, repo)

	cat, err := s.AddCategory(ctx, "Nhà bếp")
	require.NoError(t, err)
	assert.Contains(t, repo.categories, cat.ID)

	item, err := s.AddCatalogItem(ctx, CatalogDraft{Name: "Tủ bếp", Unit: "m", Price: 1000, MainCategoryName: "Phòng ăn"})
	require.NoError(t, err)
	assert.Contains(t, repo.catalog, item.ID)
	assert.Contains(t, repo.categories, item.MainCategoryID, "created category persisted with the item")

	v, err := s.AddLine(ctx, LineDraft{CatalogItemID: item.ID, Quantity: f64(2)})
	require.NoError(t, err)
	require.Len(t, v.Quote.Items, 1)
	assert.Equal(t, 2000.0, v.Totals.SubTotal)
	assert.InDelta(t, 2200.0, v.Totals.GrandTotal, 1e-9)
	require.NotNil(t, repo.draft)
	assert.Len(t, repo.draft.Items, 1)

	name := "Chị Lan"
	v, err = s.UpdateQuote(ctx, QuotePatch{CustomerName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Chị Lan_20260115", v.SuggestedAs)
	assert.Equal(t, "Chị Lan", repo.draft.CustomerName)

	q, err := s.SaveQuote(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, repo.quotes, q.ID)

	u, err := s.DeleteCategory(ctx, item.MainCategoryID)
	require.NoError(t, err)
	assert.Equal(t, []string{item.ID}, u.CatalogItems)
	assert.Equal(t, []string{q.ID}, u.SavedQuotes)
	assert.Empty(t, repo.catalog[item.ID].MainCategoryID)
	assert.Empty(t, repo.quotes[q.ID].Items[0].MainCategoryID)
	assert.Empty(t, repo.draft.Items[0].MainCategoryID)
	assert.NotContains(t, repo.categories, item.MainCategoryID)

	lineID := v.Quote.Items[0].ID
	v, err = s.DeleteLine(ctx, lineID)
	require.NoError(t, err)
	assert.Empty(t, v.Quote.Items)

	v, err = s.LoadQuote(ctx, q.ID)
	require.NoError(t, err)
	assert.Len(t, v.Quote.Items, 1)

	require.NoError(t, s.DeleteQuote(ctx, q.ID))
	assert.NotContains(t, repo.quotes, q.ID)

	settings, err := s.UpdateSettings(ctx, CompanySettings{Name: "An Phát "})
	require.NoError(t, err)
	assert.Equal(t, "An Phát", settings.Name)
	assert.Equal(t, "An Phát", repo.settings.Name)
}

func TestSession_PersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := newTestSession(t, repo)

	_, err := s.AddLine(ctx, LineDraft{Name: "A", OriginalPrice: f64(100)})
	require.NoError(t, err)
	before := s.Quote()

	repo.failOn["SaveDraft"] = true
	_, err = s.AddLine(ctx, LineDraft{Name: "B", OriginalPrice: f64(100), MainCategoryName: "Mới"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, errInjected)

	assert.Equal(t, before, s.Quote())
	assert.Empty(t, s.Categories(), "category created by the failed call is discarded")
	assert.Empty(t, repo.categories, "transaction rolled back")

	repo.failOn["SaveDraft"] = false
	repo.failOn["SaveCatalogItems"] = true
	_, err = s.ImportCatalog(ctx, []services.CatalogRow{{Row: 2, Name: "X", Unit: "cái", Price: 1, MainCategory: "Mới"}})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Empty(t, s.SearchCatalog("", ""))
	assert.Empty(t, repo.categories)
}

func TestSession_ValidationErrorsAreNotPersistenceErrors(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := newTestSession(t, repo)
	repo.calls = nil

	_, err := s.AddLine(ctx, LineDraft{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrPersistence)

	_, err = s.SaveQuote(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyQuote)

	err = s.DeleteQuote(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, repo.calls, "nothing is written for rejected changes")
}

func TestSession_SaveToCatalogDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newMemRepo())

	v, err := s.AddLine(ctx, LineDraft{Name: "Kệ", Unit: "cái", OriginalPrice: f64(500)})
	require.NoError(t, err)
	lineID := v.Quote.Items[0].ID

	first, err := s.LineToCatalog(ctx, lineID, false)
	require.NoError(t, err)

	existing, err := s.SaveToCatalog(ctx, CatalogDraft{Name: "Kệ", Unit: "cái", Price: 700}, false)
	require.ErrorIs(t, err, ErrCatalogDuplicate)
	assert.Equal(t, first.ID, existing.ID)

	merged, err := s.SaveToCatalog(ctx, CatalogDraft{Name: "Kệ", Unit: "cái", Price: 700}, true)
	require.NoError(t, err)
	assert.Equal(t, 700.0, merged.Price)

	d, err := s.CatalogDraftFor(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 700.0, d.Price)
}
