package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotebuilder/quoting"
	"quotebuilder/testhelpers"
)

func ptr[T any](v T) *T { return &v }

// addLine posts a line and returns the resulting view.
func addLine(t *testing.T, env *testEnv, d quoting.LineDraft) quoting.QuoteView {
	t.Helper()
	rec := env.call(HandleLineAdd(env.sess), http.MethodPost, "/api/quote/items", "", d)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[quoting.QuoteView](t, rec)
}

func TestQuoteGet_NewQuoteDefaults(t *testing.T) {
	env := newTestEnv(t)

	rec := env.call(HandleQuoteGet(env.sess), http.MethodGet, "/api/quote", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeBody[quoting.QuoteView](t, rec)
	assert.Equal(t, "20260302-001", view.Quote.ID)
	assert.Equal(t, "2026-03-02", view.Quote.QuoteDate)
	assert.True(t, view.Quote.Tax.Apply)
	assert.Equal(t, 8.0, view.Totals.TaxPercent)
	assert.Empty(t, view.Quote.Items)
}

func TestLineHandlers(t *testing.T) {
	env := newTestEnv(t)

	view := addLine(t, env, quoting.LineDraft{
		Name:          "Tủ bếp dưới",
		Unit:          "md",
		CalcType:      "length",
		Length:        ptr(2500.0),
		Quantity:      ptr(1.0),
		OriginalPrice: ptr(4000000.0),
	})
	require.Len(t, view.Quote.Items, 1)
	line := view.Quote.Items[0]
	assert.Equal(t, 10000000.0, line.LineTotal)
	assert.Equal(t, 10000000.0, view.Totals.SubTotal)
	assert.Equal(t, 800000.0, view.Totals.TaxValue)
	assert.Equal(t, 10800000.0, view.Totals.GrandTotal)

	rec := env.call(HandleLineUpdate(env.sess), http.MethodPatch, "/api/quote/items/"+line.ID, line.ID,
		map[string]any{"itemDiscountValue": 10})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view = decodeBody[quoting.QuoteView](t, rec)
	updated := view.Quote.Items[0]
	assert.Equal(t, line.ID, updated.ID)
	assert.Equal(t, 3600000.0, updated.Price)
	assert.Equal(t, 9000000.0, updated.LineTotal)
	assert.Equal(t, 2500.0, *updated.Length, "fields missing from the body are kept")

	rec = env.call(HandleLineUpdate(env.sess), http.MethodPatch, "/api/quote/items/"+line.ID, line.ID,
		map[string]any{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[ErrorResponse](t, rec).Fields, "quantity")

	rec = env.call(HandleLineUpdate(env.sess), http.MethodPatch, "/api/quote/items/nope", "nope", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.call(HandleLineDelete(env.sess), http.MethodDelete, "/api/quote/items/"+line.ID, line.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[quoting.QuoteView](t, rec).Quote.Items)
}

func TestLineUpdate_RecategoriseByName(t *testing.T) {
	env := newTestEnv(t)
	view := addLine(t, env, quoting.LineDraft{
		Name: "Sofa góc", Unit: "bộ", Quantity: ptr(1.0), OriginalPrice: ptr(10000000.0), MainCategoryName: "Phòng khách",
	})
	line := view.Quote.Items[0]
	require.NotEmpty(t, line.MainCategoryID)

	rec := env.call(HandleLineUpdate(env.sess), http.MethodPatch, "/api/quote/items/"+line.ID, line.ID,
		map[string]any{"mainCategoryName": "Bếp"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[quoting.QuoteView](t, rec).Quote.Items[0]
	assert.NotEqual(t, line.MainCategoryID, updated.MainCategoryID)

	cats := env.sess.Categories()
	require.Len(t, cats, 2, "the named category is created")
	var kitchen string
	for _, c := range cats {
		if c.Name == "Bếp" {
			kitchen = c.ID
		}
	}
	assert.Equal(t, kitchen, updated.MainCategoryID)

	rec = env.call(HandleLineUpdate(env.sess), http.MethodPatch, "/api/quote/items/"+line.ID, line.ID,
		map[string]any{"mainCategoryId": line.MainCategoryID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, line.MainCategoryID, decodeBody[quoting.QuoteView](t, rec).Quote.Items[0].MainCategoryID,
		"an id alone still moves the line")
}

func TestLineAdd_FromCatalog(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateTestCatalogItem(t, env.app, "item-1", "Kệ tivi", "md", 3200000, "")
	env.sess = testhelpers.NewTestSession(t, env.app)

	view := addLine(t, env, quoting.LineDraft{CatalogItemID: "item-1", Name: "Kệ tivi", Quantity: ptr(2.0)})
	line := view.Quote.Items[0]
	assert.Equal(t, "md", line.Unit)
	assert.Equal(t, 3200000.0, line.OriginalPrice)
	assert.Equal(t, 6400000.0, line.LineTotal)
}

func TestQuoteUpdate(t *testing.T) {
	env := newTestEnv(t)
	addLine(t, env, quoting.LineDraft{Name: "Sofa góc", Unit: "bộ", Quantity: ptr(1.0), OriginalPrice: ptr(10000000.0)})

	rec := env.call(HandleQuoteUpdate(env.sess), http.MethodPatch, "/api/quote", "", map[string]any{
		"customerName": "Anh Minh",
		"discount":     map[string]any{"apply": true, "value": 10, "type": "percent"},
		"installmentData": map[string]any{
			"apply": true,
			"installments": []map[string]any{
				{"name": "Đợt 1", "value": 50, "type": "percent"},
				{"name": "Đợt 2", "value": 50, "type": "percent"},
			},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decodeBody[quoting.QuoteView](t, rec)
	assert.Equal(t, "Anh Minh", view.Quote.CustomerName)
	assert.Equal(t, 1000000.0, view.Totals.DiscountValue)
	assert.Equal(t, 9720000.0, view.Totals.GrandTotal)
	assert.Equal(t, "Anh Minh_20260302", view.SuggestedAs)
	assert.True(t, view.Installments.Applied)
	assert.Equal(t, 4860000.0, view.Installments.Slots[0].Amount)
	assert.False(t, view.Installments.PercentOverAllocated)

	rec = env.call(HandleQuoteUpdate(env.sess), http.MethodPatch, "/api/quote", "", map[string]any{"quoteDate": "02/03/2026"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[ErrorResponse](t, rec).Fields, "quoteDate")
}

func TestQuoteSave_LoadAndDelete(t *testing.T) {
	env := newTestEnv(t)

	rec := env.call(HandleQuoteSave(env.sess), http.MethodPost, "/api/quote/save", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "an empty quote cannot be saved")

	addLine(t, env, quoting.LineDraft{Name: "Nhân công", Unit: "công", Quantity: ptr(4.0), OriginalPrice: ptr(450000.0)})

	rec = env.call(HandleQuoteSave(env.sess), http.MethodPost, "/api/quote/save", "", saveQuoteRequest{Name: "Chị Lan_20260302"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decodeBody[quoting.Quote](t, rec)
	assert.Equal(t, "Chị Lan_20260302", saved.ID)

	rec = env.call(HandleSavedQuoteList(env.sess), http.MethodGet, "/api/quotes", "", nil)
	list := decodeBody[[]quoting.SavedQuoteSummary](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].ItemCount)

	rec = env.call(HandleQuoteNew(env.sess), http.MethodPost, "/api/quote/new", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[quoting.QuoteView](t, rec).Quote.Items)

	rec = env.call(HandleSavedQuoteLoad(env.sess), http.MethodPost, "/api/quotes/x/load", saved.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decodeBody[quoting.QuoteView](t, rec)
	assert.Equal(t, saved.ID, view.Quote.ID)
	assert.Len(t, view.Quote.Items, 1)

	rec = env.call(HandleSavedQuoteDelete(env.sess), http.MethodDelete, "/api/quotes/x", saved.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.call(HandleSavedQuoteLoad(env.sess), http.MethodPost, "/api/quotes/x/load", saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// A fresh session over the same app sees the working quote that was loaded.
	again := testhelpers.NewTestSession(t, env.app)
	assert.Equal(t, saved.ID, again.Quote().Quote.ID)
	assert.Empty(t, again.SavedQuotes())
}

func TestLineToCatalog(t *testing.T) {
	env := newTestEnv(t)
	view := addLine(t, env, quoting.LineDraft{
		Name: "Vách ốp", Unit: "m²", Quantity: ptr(3.0), OriginalPrice: ptr(950000.0), ItemDiscountValue: 20,
	})
	id := view.Quote.Items[0].ID

	rec := env.call(HandleLineToCatalog(env.sess), http.MethodPost, "/api/quote/items/x/catalog", id, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 950000.0, decodeBody[quoting.CatalogItem](t, rec).Price)

	rec = env.call(HandleLineToCatalog(env.sess), http.MethodPost, "/api/quote/items/x/catalog", id, overwriteRequest{})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.call(HandleLineToCatalog(env.sess), http.MethodPost, "/api/quote/items/x/catalog", id, overwriteRequest{Overwrite: true})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.sess.SearchCatalog("", ""), 1)
}

func TestQuoteExports(t *testing.T) {
	env := newTestEnv(t)
	env.call(HandleQuoteUpdate(env.sess), http.MethodPatch, "/api/quote", "", map[string]any{"customerName": "Anh Minh"})
	addLine(t, env, quoting.LineDraft{Name: "Tủ áo cánh lùa", Unit: "m²", MainCategoryName: "Phòng ngủ",
		Quantity: ptr(2.0), OriginalPrice: ptr(2600000.0)})

	t.Run("pdf", func(t *testing.T) {
		rec := env.call(HandleQuotePDF(env.sess), http.MethodGet, "/api/quote/pdf", "", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, pdfContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "BaoGia_20260302-001.pdf")
		assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
	})

	t.Run("xlsx", func(t *testing.T) {
		rec := env.call(HandleQuoteExcel(env.sess), http.MethodGet, "/api/quote/xlsx", "", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
	})

	t.Run("print", func(t *testing.T) {
		rec := env.call(HandleQuotePrint(env.sess), http.MethodGet, "/api/quote/print", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		testhelpers.AssertHTMLContains(t, rec.Body.String(), "BÁO GIÁ", "Anh Minh", "Phòng ngủ", "Tủ áo cánh lùa")
	})
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"20260302-001", "20260302-001"},
		{"Anh Minh_20260302", "Anh-Minh_20260302"},
		{`a/b\c:d"e`, "a-b-c-de"},
		{"  ", "BaoGia"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
