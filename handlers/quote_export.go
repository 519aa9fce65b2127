package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog/log"

	"quotebuilder/quoting"
	"quotebuilder/services"
)

// HandleQuotePDF downloads the working quote as a PDF.
// Route: GET /api/quote/pdf
func HandleQuotePDF(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc := sess.Document()
		pdfBytes, err := services.GenerateQuotePDF(doc)
		if err != nil {
			log.Error().Err(err).Str("quote_id", doc.QuoteID).Msg("quote_pdf: failed to generate")
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate PDF file")
		}
		return sendFile(e, pdfContentType, "BaoGia_"+sanitizeFilename(doc.QuoteID)+".pdf", pdfBytes)
	}
}

// HandleQuoteExcel downloads the working quote as an Excel file.
// Route: GET /api/quote/xlsx
func HandleQuoteExcel(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc := sess.Document()
		xlsxBytes, err := services.GenerateQuoteExcel(doc)
		if err != nil {
			log.Error().Err(err).Str("quote_id", doc.QuoteID).Msg("quote_excel: failed to generate")
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}
		return sendFile(e, xlsxContentType, "BaoGia_"+sanitizeFilename(doc.QuoteID)+".xlsx", xlsxBytes)
	}
}

// HandleQuotePrint renders the printable HTML view of the working quote.
// Route: GET /api/quote/print
func HandleQuotePrint(sess *quoting.Session) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		return services.QuoteHTML(sess.Document()).Render(e.Request.Context(), e.Response)
	}
}
