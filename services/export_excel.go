package services

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetCatalog    = "Catalog"
	SheetCategories = "Categories"
	SheetQuotes     = "Quotes"
)

// CatalogSheetHeaders are import-compatible, so an exported catalog re-imports as is.
var CatalogSheetHeaders = []string{FieldID, FieldMainCategoryID, FieldName, FieldSpec, FieldUnit, FieldPrice}

type WorkbookCatalogRow struct {
	ID             string
	MainCategoryID string
	Name           string
	Spec           string
	Unit           string
	Price          float64
}

type WorkbookCategory struct {
	ID   string
	Name string
}

type WorkbookQuote struct {
	ID           string
	CustomerName string
	QuoteDate    string
	ItemCount    int
	GrandTotal   float64
	SavedAt      time.Time
}

// WorkbookData holds the collections exported to one workbook, one sheet each.
type WorkbookData struct {
	Catalog    []WorkbookCatalogRow
	Categories []WorkbookCategory
	Quotes     []WorkbookQuote
}

// GenerateWorkbook exports the catalog, categories and saved quotes.
func GenerateWorkbook(data WorkbookData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetCatalog); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	for _, name := range []string{SheetCategories, SheetQuotes} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		return nil, err
	}

	// Catalog
	writeHeaderRow(f, SheetCatalog, CatalogSheetHeaders, headerStyle)
	for i, w := range []float64{40, 40, 40, 30, 10, 16} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(SheetCatalog, col, col, w)
	}
	for i, item := range data.Catalog {
		row := strconv.Itoa(i + 2)
		f.SetCellValue(SheetCatalog, "A"+row, sanitizeExcelCell(item.ID))
		f.SetCellValue(SheetCatalog, "B"+row, sanitizeExcelCell(item.MainCategoryID))
		f.SetCellValue(SheetCatalog, "C"+row, sanitizeExcelCell(item.Name))
		f.SetCellValue(SheetCatalog, "D"+row, sanitizeExcelCell(item.Spec))
		f.SetCellValue(SheetCatalog, "E"+row, sanitizeExcelCell(item.Unit))
		f.SetCellValue(SheetCatalog, "F"+row, item.Price)
	}

	// Categories
	writeHeaderRow(f, SheetCategories, []string{"id", "name"}, headerStyle)
	f.SetColWidth(SheetCategories, "A", "B", 40)
	for i, c := range data.Categories {
		row := strconv.Itoa(i + 2)
		f.SetCellValue(SheetCategories, "A"+row, sanitizeExcelCell(c.ID))
		f.SetCellValue(SheetCategories, "B"+row, sanitizeExcelCell(c.Name))
	}

	// Saved quotes
	writeHeaderRow(f, SheetQuotes, []string{"id", "customer", "date", "items", "grandTotal", "savedAt"}, headerStyle)
	f.SetColWidth(SheetQuotes, "A", "B", 30)
	f.SetColWidth(SheetQuotes, "C", "F", 18)
	for i, q := range data.Quotes {
		row := strconv.Itoa(i + 2)
		f.SetCellValue(SheetQuotes, "A"+row, sanitizeExcelCell(q.ID))
		f.SetCellValue(SheetQuotes, "B"+row, sanitizeExcelCell(q.CustomerName))
		f.SetCellValue(SheetQuotes, "C"+row, q.QuoteDate)
		f.SetCellValue(SheetQuotes, "D"+row, q.ItemCount)
		f.SetCellValue(SheetQuotes, "E"+row, q.GrandTotal)
		savedAt := ""
		if !q.SavedAt.IsZero() {
			savedAt = q.SavedAt.Format("02/01/2006 15:04")
		}
		f.SetCellValue(SheetQuotes, "F"+row, savedAt)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateQuoteExcel lays out a single quote the way it prints: header block,
// items grouped by main category, then the totals and payment schedule.
func GenerateQuoteExcel(doc QuoteDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Determine sheet name (max 31 chars).
	sheetName := doc.QuoteID
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Quote"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// Columns A through H.
	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	lastCol := columns[len(columns)-1]
	widths := []float64{6, 42, 8, 12, 10, 18, 18, 20}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	subtitleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 11}})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}
	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		return nil, err
	}
	categoryStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#E8E8E8"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create category style: %w", err)
	}
	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}
	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}
	summaryValueStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header block ────────────────────────────────────────────────────

	row := 1
	mergedLine := func(text string, style int) error {
		r := strconv.Itoa(row)
		if err := f.MergeCell(sheetName, "A"+r, lastCol+r); err != nil {
			return fmt.Errorf("merge row %d: %w", row, err)
		}
		f.SetCellValue(sheetName, "A"+r, sanitizeExcelCell(text))
		f.SetCellStyle(sheetName, "A"+r, lastCol+r, style)
		row++
		return nil
	}

	if doc.Company.Name != "" {
		if err := mergedLine(doc.Company.Name, subtitleStyle); err != nil {
			return nil, err
		}
	}
	if err := mergedLine("BÁO GIÁ", titleStyle); err != nil {
		return nil, err
	}
	if err := mergedLine("Số: "+doc.QuoteID+"    Ngày: "+doc.Date, subtitleStyle); err != nil {
		return nil, err
	}
	if doc.CustomerName != "" {
		if err := mergedLine("Khách hàng: "+doc.CustomerName, subtitleStyle); err != nil {
			return nil, err
		}
	}
	if doc.CustomerAddress != "" {
		if err := mergedLine("Địa chỉ: "+doc.CustomerAddress, subtitleStyle); err != nil {
			return nil, err
		}
	}
	row++

	// ── Column headers ──────────────────────────────────────────────────

	headers := []string{"STT", "Hạng mục", "ĐVT", "Khối lượng", "SL", "Đơn giá", "Giá gốc", "Thành tiền"}
	for i, h := range headers {
		f.SetCellValue(sheetName, columns[i]+strconv.Itoa(row), h)
	}
	f.SetCellStyle(sheetName, "A"+strconv.Itoa(row), lastCol+strconv.Itoa(row), headerStyle)
	row++

	// ── Groups and items ────────────────────────────────────────────────

	for _, g := range doc.Groups {
		if g.Name != "" {
			r := strconv.Itoa(row)
			f.SetCellValue(sheetName, "A"+r, g.Numeral)
			if err := f.MergeCell(sheetName, "B"+r, "G"+r); err != nil {
				return nil, fmt.Errorf("merge category: %w", err)
			}
			f.SetCellValue(sheetName, "B"+r, sanitizeExcelCell(g.Name))
			f.SetCellValue(sheetName, "H"+r, g.Subtotal)
			f.SetCellStyle(sheetName, "A"+r, lastCol+r, categoryStyle)
			row++
		}
		for _, item := range g.Rows {
			r := strconv.Itoa(row)
			desc := item.Name
			if item.Dimensions != "" {
				desc += "\nKT: " + item.Dimensions
			}
			if item.Spec != "" {
				desc += "\n" + item.Spec
			}
			f.SetCellValue(sheetName, "A"+r, item.Index)
			f.SetCellValue(sheetName, "B"+r, sanitizeExcelCell(desc))
			f.SetCellValue(sheetName, "C"+r, sanitizeExcelCell(item.Unit))
			f.SetCellValue(sheetName, "D"+r, item.Measure)
			f.SetCellValue(sheetName, "E"+r, item.Quantity)
			f.SetCellValue(sheetName, "F"+r, item.Price)
			if item.Discounted {
				f.SetCellValue(sheetName, "G"+r, item.OriginalPrice)
			}
			f.SetCellValue(sheetName, "H"+r, item.LineTotal)
			f.SetCellStyle(sheetName, "A"+r, lastCol+r, itemStyle)
			row++
		}
	}

	// ── Summary ─────────────────────────────────────────────────────────

	row++
	summary := func(label string, value float64) {
		r := strconv.Itoa(row)
		f.SetCellValue(sheetName, "G"+r, label)
		f.SetCellStyle(sheetName, "G"+r, "G"+r, summaryLabelStyle)
		f.SetCellValue(sheetName, "H"+r, value)
		f.SetCellStyle(sheetName, "H"+r, "H"+r, summaryValueStyle)
		row++
	}

	t := doc.Totals
	summary("Cộng:", t.SubTotal)
	if t.ApplyDiscount && t.DiscountValue != 0 {
		summary("Chiết khấu:", -t.DiscountValue)
		summary("Sau chiết khấu:", t.SubTotalAfterDiscount)
	}
	if t.ApplyTax {
		summary(fmt.Sprintf("Thuế (%s%%):", FormatQty(t.TaxPercent)), t.TaxValue)
	}
	summary("Tổng cộng:", t.GrandTotal)

	if doc.AmountInWords != "" {
		if err := mergedLine("Bằng chữ: "+doc.AmountInWords, subtitleStyle); err != nil {
			return nil, err
		}
	}

	if len(doc.Schedule) > 0 {
		row++
		if err := mergedLine("Tiến độ thanh toán", summaryValueStyle); err != nil {
			return nil, err
		}
		for _, s := range doc.Schedule {
			summary(s.Name+":", s.Amount)
		}
		for _, w := range doc.AllocationWarnings() {
			if err := mergedLine(w, subtitleStyle); err != nil {
				return nil, err
			}
		}
	}

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func newHeaderStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return 0, fmt.Errorf("create header style: %w", err)
	}
	return style, nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", h)
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	f.SetCellStyle(sheet, "A1", last+"1", style)
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// unsanitizeExcelCell reverses sanitizeExcelCell on import.
func unsanitizeExcelCell(s string) string {
	if len(s) < 2 || s[0] != '\'' {
		return s
	}
	switch s[1] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return s[1:]
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
