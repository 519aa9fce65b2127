package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/quoting"
	"quotebuilder/services"
)

// HandleSettingsGet returns the company settings printed on every quote.
// Route: GET /api/company
func HandleSettingsGet(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, sess.Settings())
	}
}

// HandleSettingsUpdate replaces the company settings.
// Route: PUT /api/company
func HandleSettingsUpdate(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var c quoting.CompanySettings
		if err := decodeJSON(e, &c); err != nil {
			return badBody(e)
		}
		saved, err := sess.UpdateSettings(e.Request.Context(), c)
		if err != nil {
			return respondError(e, "settings_update", err)
		}
		SetToast(e, "success", "Settings saved")
		return e.JSON(http.StatusOK, saved)
	}
}

// Options lists the choices offered by the quote editor's dropdowns.
type Options struct {
	Units     []string            `json:"units"`
	CalcTypes []services.CalcType `json:"calcTypes"`
	TaxRates  []float64           `json:"taxRates"`
}

// HandleOptions returns the dropdown choices.
// Route: GET /api/options
func HandleOptions() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, Options{
			Units:     services.UnitOptions,
			CalcTypes: services.CalcTypeOptions,
			TaxRates:  services.TaxOptions,
		})
	}
}
