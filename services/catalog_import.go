package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Catalog import field keys.
const (
	FieldID             = "id"
	FieldMainCategoryID = "mainCategoryId"
	FieldName           = "name"
	FieldSpec           = "spec"
	FieldUnit           = "unit"
	FieldPrice          = "price"
)

// catalogAliases lists accepted column headers per field, already normalized.
var catalogAliases = map[string][]string{
	FieldID:             {"id", "ma", "mahangmuc", "itemid"},
	FieldMainCategoryID: {"maincategoryid", "maincategory", "category", "madanhmuc", "danhmucchinh", "danhmuc"},
	FieldName:           {"name", "tenhangmuc", "ten", "hangmuc", "itemname"},
	FieldSpec:           {"spec", "quycach", "specification", "mota"},
	FieldUnit:           {"unit", "donvitinh", "dvt", "donvi", "uom"},
	FieldPrice:          {"price", "dongia", "gia", "unitprice"},
}

var requiredCatalogFields = []string{FieldName, FieldUnit, FieldPrice}

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportError rejects a whole import. Missing lists required fields no column
// maps to; Errors lists row-level problems.
type ImportError struct {
	FileName string            `json:"fileName"`
	Missing  []string          `json:"missing,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

func (e *ImportError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("import %s: missing required columns: %s", e.FileName, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("import %s: %d invalid value(s), first at row %d: %s",
		e.FileName, len(e.Errors), e.Errors[0].Row, e.Errors[0].Message)
}

// CatalogRow is one validated row of an imported catalog file.
type CatalogRow struct {
	Row          int
	ID           string
	MainCategory string // category id or name
	Name         string
	Spec         string
	Unit         string
	Price        float64
}

// ParseCatalogFile reads a .csv or .xlsx catalog file. Either every row is valid
// and all rows are returned, or an *ImportError describes why nothing was.
func ParseCatalogFile(r io.Reader, fileName string) ([]CatalogRow, error) {
	var headers []string
	var dataRows [][]string
	var err error
	parsePrice := ParsePrice

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(r)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(r)
		parsePrice = parseCellPrice
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys := mapCatalogHeaders(headers)
	mapped := make(map[string]bool, len(columnKeys))
	for _, k := range columnKeys {
		if k != "" {
			mapped[k] = true
		}
	}
	var missing []string
	for _, f := range requiredCatalogFields {
		if !mapped[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &ImportError{FileName: fileName, Missing: missing}
	}

	var rows []CatalogRow
	var errs []ValidationError
	for rowIdx, raw := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		values := make(map[string]string, len(columnKeys))
		blank := true
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(raw) {
				continue
			}
			v := unsanitizeExcelCell(strings.TrimSpace(raw[colIdx]))
			if v != "" {
				blank = false
			}
			if _, seen := values[key]; !seen || values[key] == "" {
				values[key] = v
			}
		}
		if blank {
			continue
		}

		row := CatalogRow{
			Row:          rowNum,
			ID:           values[FieldID],
			MainCategory: values[FieldMainCategoryID],
			Name:         values[FieldName],
			Spec:         values[FieldSpec],
			Unit:         values[FieldUnit],
		}
		if row.Name == "" {
			errs = append(errs, ValidationError{Row: rowNum, Field: FieldName, Message: "name is required"})
		}
		if row.Unit == "" {
			errs = append(errs, ValidationError{Row: rowNum, Field: FieldUnit, Message: "unit is required"})
		}
		price, err := parsePrice(values[FieldPrice])
		switch {
		case err != nil:
			errs = append(errs, ValidationError{Row: rowNum, Field: FieldPrice, Message: err.Error()})
		case price < 0:
			errs = append(errs, ValidationError{Row: rowNum, Field: FieldPrice, Message: "price must be zero or greater"})
		}
		row.Price = price
		rows = append(rows, row)
	}

	if len(errs) > 0 {
		return nil, &ImportError{FileName: fileName, Errors: errs}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows, nil
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	headers := allRows[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	return headers, allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	// Raw values keep numeric cells as stored rather than as displayed.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return rows[0], rows[1:], nil
}

// mapCatalogHeaders maps uploaded column headers to catalog field keys.
// Unrecognized columns map to "".
func mapCatalogHeaders(headers []string) []string {
	aliasToKey := make(map[string]string)
	for key, aliases := range catalogAliases {
		for _, a := range aliases {
			aliasToKey[a] = key
		}
	}

	mapped := make([]string, len(headers))
	for i, h := range headers {
		mapped[i] = aliasToKey[normalizeHeader(h)]
	}
	return mapped
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeader folds case, Vietnamese diacritics and every non-alphanumeric
// character, so "Đơn giá (VNĐ)" and "dongia_vnd" compare equal.
func normalizeHeader(h string) string {
	folded, _, err := transform.String(stripMarks, h)
	if err != nil {
		folded = h
	}
	folded = strings.NewReplacer("đ", "d", "Đ", "d").Replace(folded)
	folded = strings.TrimSuffix(strings.TrimSpace(folded), "*")

	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	key := b.String()
	// Drop currency suffixes such as "dongia(vnd)".
	for _, suffix := range []string{"vnd", "dong"} {
		if s, ok := strings.CutSuffix(key, suffix); ok && s != "" {
			if _, known := lookupAlias(s); known {
				return s
			}
		}
	}
	return key
}

func lookupAlias(normalized string) (string, bool) {
	for key, aliases := range catalogAliases {
		for _, a := range aliases {
			if a == normalized {
				return key, true
			}
		}
	}
	return "", false
}

// ParsePrice parses a price cell, tolerating currency marks, spaces and
// thousands separators ("1.200.000 ₫", "1,200,000", "150.000", "1200000.5").
// A single separator followed by exactly three digits is a thousands separator.
func ParsePrice(s string) (float64, error) {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return 0, fmt.Errorf("price is required")
	}

	dots, commas := strings.Count(clean, "."), strings.Count(clean, ",")
	switch {
	case dots > 1:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case commas > 1:
		clean = strings.ReplaceAll(clean, ",", "")
	case dots == 1 && commas == 1:
		if strings.Index(clean, ".") < strings.Index(clean, ",") {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case dots == 1 && commas == 0:
		if _, frac, _ := strings.Cut(clean, "."); len(frac) == 3 {
			clean = strings.ReplaceAll(clean, ".", "")
		}
	case commas == 1 && dots == 0:
		if _, frac, _ := strings.Cut(clean, ","); len(frac) == 3 {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.Replace(clean, ",", ".", 1)
		}
	}

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("price %q is not a number", s)
	}
	return v, nil
}

// parseCellPrice parses an xlsx price cell. A numeric cell arrives as its
// stored value and is taken as is; text cells go through ParsePrice.
func parseCellPrice(s string) (float64, error) {
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return v, nil
	}
	return ParsePrice(s)
}

// GenerateErrorReport creates a downloadable .xlsx file from import errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := strconv.Itoa(i + 2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
