package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/quoting"
)

// HandleQuoteGet returns the working quote with its totals and payment schedule.
// Route: GET /api/quote
func HandleQuoteGet(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, sess.Quote())
	}
}

// HandleQuoteNew replaces the working quote with an empty one.
// Route: POST /api/quote/new
func HandleQuoteNew(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		view, err := sess.NewQuote(e.Request.Context())
		if err != nil {
			return respondError(e, "quote_new", err)
		}
		return e.JSON(http.StatusOK, view)
	}
}

// HandleQuoteUpdate patches the customer details, discount, tax or payment
// schedule of the working quote.
// Route: PATCH /api/quote
func HandleQuoteUpdate(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var p quoting.QuotePatch
		if err := decodeJSON(e, &p); err != nil {
			return badBody(e)
		}
		view, err := sess.UpdateQuote(e.Request.Context(), p)
		if err != nil {
			return respondError(e, "quote_update", err)
		}
		return e.JSON(http.StatusOK, view)
	}
}

// HandleLineAdd appends a line to the working quote.
// Route: POST /api/quote/items
func HandleLineAdd(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var d quoting.LineDraft
		if err := decodeJSON(e, &d); err != nil {
			return badBody(e)
		}
		view, err := sess.AddLine(e.Request.Context(), d)
		if err != nil {
			return respondError(e, "line_add", err)
		}
		return e.JSON(http.StatusCreated, view)
	}
}

// HandleLineUpdate applies the fields present in the body to a line.
// Route: PATCH /api/quote/items/{id}
func HandleLineUpdate(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		d, err := sess.LineDraftFor(id)
		if err != nil {
			return respondError(e, "line_update", err)
		}
		if err := decodeJSON(e, &d); err != nil {
			return badBody(e)
		}
		view, err := sess.UpdateLine(e.Request.Context(), id, d)
		if err != nil {
			return respondError(e, "line_update", err)
		}
		return e.JSON(http.StatusOK, view)
	}
}

// HandleLineDelete removes a line from the working quote.
// Route: DELETE /api/quote/items/{id}
func HandleLineDelete(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		view, err := sess.DeleteLine(e.Request.Context(), e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "line_delete", err)
		}
		return e.JSON(http.StatusOK, view)
	}
}

type overwriteRequest struct {
	Overwrite bool `json:"overwrite"`
}

// HandleLineToCatalog stores a quote line in the catalog at its original price.
// Route: POST /api/quote/items/{id}/catalog
func HandleLineToCatalog(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req overwriteRequest
		if err := decodeJSON(e, &req); err != nil {
			return badBody(e)
		}
		item, err := sess.LineToCatalog(e.Request.Context(), e.Request.PathValue("id"), req.Overwrite)
		if err != nil {
			return catalogSaveError(e, "line_to_catalog", item, err)
		}
		SetToast(e, "success", "Saved to catalog")
		return e.JSON(http.StatusOK, item)
	}
}

type saveQuoteRequest struct {
	Name string `json:"name"`
}

// HandleQuoteSave stores the working quote under the given name, or under its
// own id when the name is blank.
// Route: POST /api/quote/save
func HandleQuoteSave(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req saveQuoteRequest
		if err := decodeJSON(e, &req); err != nil {
			return badBody(e)
		}
		q, err := sess.SaveQuote(e.Request.Context(), req.Name)
		if err != nil {
			return respondError(e, "quote_save", err)
		}
		SetToast(e, "success", "Quote saved")
		return e.JSON(http.StatusOK, q)
	}
}
