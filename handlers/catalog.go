package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog/log"

	"quotebuilder/quoting"
	"quotebuilder/services"
)

// HandleCatalogList searches the catalog. Query params: q (name or spec
// substring) and category (category id).
// Route: GET /api/catalog
func HandleCatalogList(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := e.Request.URL.Query()
		return e.JSON(http.StatusOK, sess.SearchCatalog(q.Get("q"), q.Get("category")))
	}
}

// HandleCatalogCreate adds a catalog item.
// Route: POST /api/catalog
func HandleCatalogCreate(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var d quoting.CatalogDraft
		if err := decodeJSON(e, &d); err != nil {
			return badBody(e)
		}
		item, err := sess.AddCatalogItem(e.Request.Context(), d)
		if err != nil {
			return respondError(e, "catalog_create", err)
		}
		SetToast(e, "success", "Item added to catalog")
		return e.JSON(http.StatusCreated, item)
	}
}

// HandleCatalogUpdate applies the fields present in the body to a catalog item.
// Route: PATCH /api/catalog/{id}
func HandleCatalogUpdate(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		d, err := sess.CatalogDraftFor(id)
		if err != nil {
			return respondError(e, "catalog_update", err)
		}
		if err := decodeJSON(e, &d); err != nil {
			return badBody(e)
		}
		item, err := sess.UpdateCatalogItem(e.Request.Context(), id, d)
		if err != nil {
			return respondError(e, "catalog_update", err)
		}
		return e.JSON(http.StatusOK, item)
	}
}

// HandleCatalogDelete removes a catalog item.
// Route: DELETE /api/catalog/{id}
func HandleCatalogDelete(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := sess.DeleteCatalogItem(e.Request.Context(), e.Request.PathValue("id")); err != nil {
			return respondError(e, "catalog_delete", err)
		}
		SetToast(e, "success", "Item deleted")
		return e.NoContent(http.StatusNoContent)
	}
}

type saveToCatalogRequest struct {
	quoting.CatalogDraft
	Overwrite bool `json:"overwrite"`
}

// HandleCatalogSave stores an item in the catalog. When an item with the same
// name and spec exists the response is 409 with the existing item, and the
// client repeats the call with overwrite set.
// Route: POST /api/catalog/save
func HandleCatalogSave(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req saveToCatalogRequest
		if err := decodeJSON(e, &req); err != nil {
			return badBody(e)
		}
		item, err := sess.SaveToCatalog(e.Request.Context(), req.CatalogDraft, req.Overwrite)
		if err != nil {
			return catalogSaveError(e, "catalog_save", item, err)
		}
		SetToast(e, "success", "Saved to catalog")
		return e.JSON(http.StatusOK, item)
	}
}

// catalogSaveError reports a duplicate together with the item it collided with.
func catalogSaveError(e *core.RequestEvent, op string, existing quoting.CatalogItem, err error) error {
	if errors.Is(err, quoting.ErrCatalogDuplicate) {
		return errorJSON(e, http.StatusConflict, ErrorResponse{
			Error:    fmt.Sprintf("%q is already in the catalog. Overwrite it?", existing.Name),
			Existing: &existing,
		})
	}
	return respondError(e, op, err)
}

// HandleCatalogImport merges an uploaded .csv or .xlsx catalog file. Nothing
// is imported when any row is invalid.
// Route: POST /api/catalog/import
func HandleCatalogImport(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "No file uploaded")
		}
		defer file.Close()

		rows, err := services.ParseCatalogFile(file, header.Filename)
		if err != nil {
			var ie *services.ImportError
			if errors.As(err, &ie) {
				return respondError(e, "catalog_import", err)
			}
			log.Warn().Err(err).Str("file", header.Filename).Msg("catalog_import: unreadable file")
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		sum, err := sess.ImportCatalog(e.Request.Context(), rows)
		if err != nil {
			return respondError(e, "catalog_import", err)
		}
		SetToast(e, "success", fmt.Sprintf("Imported %d new and %d updated items", sum.Added, sum.Updated))
		return e.JSON(http.StatusOK, sum)
	}
}

// HandleCatalogErrorReport downloads the row errors of a rejected import as
// an Excel file.
// Route: POST /api/catalog/import/errors
func HandleCatalogErrorReport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var rowErrors []services.ValidationError
		if err := decodeJSON(e, &rowErrors); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(rowErrors)
		if err != nil {
			log.Error().Err(err).Msg("catalog_error_report: failed to generate")
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		filename := fmt.Sprintf("Catalog_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		return sendFile(e, xlsxContentType, filename, xlsxBytes)
	}
}

// HandleWorkbookExport downloads the whole catalog, categories and saved
// quotes as one workbook.
// Route: GET /api/export
func HandleWorkbookExport(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateWorkbook(sess.WorkbookData())
		if err != nil {
			log.Error().Err(err).Msg("workbook_export: failed to generate")
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("QuoteBuilder_%s.xlsx", time.Now().Format("2006-01-02"))
		return sendFile(e, xlsxContentType, filename, xlsxBytes)
	}
}
