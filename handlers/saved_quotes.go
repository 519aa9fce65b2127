package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/quoting"
)

// HandleSavedQuoteList lists saved quotes, newest first.
// Route: GET /api/quotes
func HandleSavedQuoteList(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, sess.SavedQuotes())
	}
}

// HandleSavedQuoteLoad copies a saved quote into the working quote.
// Route: POST /api/quotes/{id}/load
func HandleSavedQuoteLoad(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		view, err := sess.LoadQuote(e.Request.Context(), e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "quote_load", err)
		}
		SetToast(e, "success", "Quote loaded")
		return e.JSON(http.StatusOK, view)
	}
}

// HandleSavedQuoteDelete removes a saved quote.
// Route: DELETE /api/quotes/{id}
func HandleSavedQuoteDelete(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := sess.DeleteQuote(e.Request.Context(), e.Request.PathValue("id")); err != nil {
			return respondError(e, "quote_delete", err)
		}
		SetToast(e, "success", "Quote deleted")
		return e.NoContent(http.StatusNoContent)
	}
}
