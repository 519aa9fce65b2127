package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/quoting"
)

type categoryRequest struct {
	Name string `json:"name"`
}

// HandleCategoryList returns the main categories in display order.
// Route: GET /api/categories
func HandleCategoryList(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, sess.Categories())
	}
}

// HandleCategoryCreate adds a main category.
// Route: POST /api/categories
func HandleCategoryCreate(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req categoryRequest
		if err := decodeJSON(e, &req); err != nil {
			return badBody(e)
		}
		cat, err := sess.AddCategory(e.Request.Context(), req.Name)
		if err != nil {
			return respondError(e, "category_create", err)
		}
		SetToast(e, "success", "Category added")
		return e.JSON(http.StatusCreated, cat)
	}
}

// HandleCategoryRename renames a main category.
// Route: PATCH /api/categories/{id}
func HandleCategoryRename(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req categoryRequest
		if err := decodeJSON(e, &req); err != nil {
			return badBody(e)
		}
		cat, err := sess.RenameCategory(e.Request.Context(), e.Request.PathValue("id"), req.Name)
		if err != nil {
			return respondError(e, "category_rename", err)
		}
		return e.JSON(http.StatusOK, cat)
	}
}

// HandleCategoryDelete removes a main category and reports what it was
// unlinked from.
// Route: DELETE /api/categories/{id}
func HandleCategoryDelete(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		unlink, err := sess.DeleteCategory(e.Request.Context(), e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "category_delete", err)
		}
		SetToast(e, "success", "Category deleted")
		return e.JSON(http.StatusOK, unlink)
	}
}
