package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog/log"

	"quotebuilder/quoting"
	"quotebuilder/services"
)

// SetToast sets the HX-Trigger response header to show a toast notification
// on the client via HTMX. If an HX-Trigger header already exists, the toast
// payload is merged into the existing JSON object.
// It also sets a flash cookie so toasts survive regular (non-HTMX) redirects.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	toast := map[string]any{
		"showToast": map[string]string{
			"message": message,
			"type":    toastType,
		},
	}

	existing := e.Response.Header().Get("HX-Trigger")
	if existing == "" {
		data, err := json.Marshal(toast)
		if err != nil {
			log.Warn().Err(err).Msg("toast: failed to marshal HX-Trigger JSON")
			return
		}
		e.Response.Header().Set("HX-Trigger", string(data))
	} else {
		// Merge with existing HX-Trigger value
		var merged map[string]any
		if err := json.Unmarshal([]byte(existing), &merged); err != nil {
			log.Warn().Err(err).Msg("toast: existing HX-Trigger is not valid JSON, overwriting")
			data, err := json.Marshal(toast)
			if err != nil {
				log.Warn().Err(err).Msg("toast: failed to marshal HX-Trigger JSON")
				return
			}
			e.Response.Header().Set("HX-Trigger", string(data))
		} else {
			merged["showToast"] = toast["showToast"]
			data, err := json.Marshal(merged)
			if err != nil {
				log.Warn().Err(err).Msg("toast: failed to marshal merged HX-Trigger JSON")
				return
			}
			e.Response.Header().Set("HX-Trigger", string(data))
		}
	}

	// Also set a flash cookie for non-HTMX redirects (302) where HX-Trigger is lost
	toastData := map[string]string{"message": message, "type": toastType}
	cookieVal, err := json.Marshal(toastData)
	if err == nil {
		http.SetCookie(e.Response, &http.Cookie{
			Name:     "flash_toast",
			Value:    url.QueryEscape(string(cookieVal)),
			Path:     "/",
			MaxAge:   10,
			HttpOnly: false, // JS needs to read it
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	// Fields maps input fields to validation messages.
	Fields map[string]string `json:"fields,omitempty"`
	// Import describes a rejected catalog import.
	Import *services.ImportError `json:"import,omitempty"`
	// Existing is the catalog item a save-to-catalog call collided with.
	Existing *quoting.CatalogItem `json:"existing,omitempty"`
}

// ErrorToast sets an error toast and prevents HTMX from swapping the error body into the DOM.
// It sets HX-Reswap: none so the response body is ignored by HTMX, while the HX-Trigger
// header still fires the toast event.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	return errorJSON(e, statusCode, ErrorResponse{Error: message})
}

func errorJSON(e *core.RequestEvent, statusCode int, body ErrorResponse) error {
	SetToast(e, "error", body.Error)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.JSON(statusCode, body)
}

// respondError maps a session or import error to its HTTP status. Server-side
// failures are logged under op.
func respondError(e *core.RequestEvent, op string, err error) error {
	var ve *quoting.ValidationError
	var ie *services.ImportError
	switch {
	case errors.Is(err, quoting.ErrPersistence):
		log.Error().Err(err).Str("op", op).Msg("request failed")
		return ErrorToast(e, http.StatusInternalServerError, "Could not save your changes. Please try again.")
	case errors.As(err, &ve):
		return errorJSON(e, http.StatusBadRequest, ErrorResponse{Error: "Please correct the highlighted fields", Fields: ve.Fields})
	case errors.As(err, &ie):
		log.Warn().Str("op", op).Str("file", ie.FileName).Int("row_errors", len(ie.Errors)).Msg("import rejected")
		return errorJSON(e, http.StatusBadRequest, ErrorResponse{Error: ie.Error(), Import: ie})
	case errors.Is(err, quoting.ErrEmptyQuote):
		return ErrorToast(e, http.StatusBadRequest, "Add at least one item before saving the quote")
	case errors.Is(err, quoting.ErrNotFound):
		return ErrorToast(e, http.StatusNotFound, "Not found")
	case errors.Is(err, quoting.ErrDuplicateCategory):
		return ErrorToast(e, http.StatusConflict, "A category with this name already exists")
	case errors.Is(err, quoting.ErrCatalogDuplicate):
		return ErrorToast(e, http.StatusConflict, "An item with this name and spec is already in the catalog")
	}
	log.Error().Err(err).Str("op", op).Msg("request failed")
	return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
}
