package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// errBadBody marks a request body that is not valid JSON for its target.
var errBadBody = errors.New("invalid JSON body")

// decodeJSON decodes the request body into dst. An empty body leaves dst
// untouched.
func decodeJSON(e *core.RequestEvent, dst any) error {
	if e.Request.Body == nil {
		return nil
	}
	err := json.NewDecoder(e.Request.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errBadBody
}

// badBody answers a request whose body could not be decoded.
func badBody(e *core.RequestEvent) error {
	return ErrorToast(e, http.StatusBadRequest, "Invalid request data")
}

// sendFile writes body as a download named filename.
func sendFile(e *core.RequestEvent, contentType, filename string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	_, err := e.Response.Write(body)
	return err
}

// sanitizeFilename replaces characters that are unsafe in filenames with hyphens.
func sanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	if s == "" {
		return "BaoGia"
	}
	return s
}
