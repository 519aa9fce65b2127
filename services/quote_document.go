package services

import (
	"fmt"
	"strings"
)

// DocumentCompany is the issuing company shown in a printed quote header.
type DocumentCompany struct {
	Name        string
	Address     string
	Phone       string
	Email       string
	TaxID       string
	BankAccount string
	LogoDataURL string
}

// ContactLines returns the non-empty contact lines printed under the company
// name.
func (c DocumentCompany) ContactLines() []string {
	var out []string
	for _, line := range []string{
		c.Address,
		joinNonEmpty(" | ", labelled("ĐT: ", c.Phone), labelled("Email: ", c.Email)),
		joinNonEmpty(" | ", labelled("MST: ", c.TaxID), labelled("TK: ", c.BankAccount)),
	} {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// DocumentRow is one printed line item.
type DocumentRow struct {
	Index         int
	Name          string
	Spec          string
	Dimensions    string // "D 1200mm x C 600mm", empty when no dimension is set
	Unit          string
	Measure       string // formatted measure for non-unit calc types
	Quantity      float64
	OriginalPrice float64
	Price         float64
	Discounted    bool
	LineTotal     float64
	ImageDataURL  string
}

// DocumentGroup is a run of rows under one main category. Uncategorized rows
// form a final group with an empty Name.
type DocumentGroup struct {
	Numeral  string
	Name     string
	Subtotal float64
	Rows     []DocumentRow
}

// QuoteDocument holds everything needed to print or export a quote.
type QuoteDocument struct {
	QuoteID         string
	Date            string
	CustomerName    string
	CustomerAddress string
	Notes           string
	Company         DocumentCompany
	Groups          []DocumentGroup
	Totals          QuoteTotals
	Schedule        []InstallmentAmount
	AmountInWords   string

	// Over-allocation flags of the installment plan, copied from its summary.
	PercentOverAllocated bool
	AmountOverAllocated  bool
}

// AllocationWarnings returns the warning lines printed under an over-allocated
// payment schedule.
func (d QuoteDocument) AllocationWarnings() []string {
	var out []string
	if d.PercentOverAllocated {
		out = append(out, "Tổng tỷ lệ các đợt vượt quá 100%")
	}
	if d.AmountOverAllocated {
		out = append(out, "Tổng các đợt vượt quá tổng giá trị báo giá")
	}
	return out
}

// InstallmentShare renders a slot's share as entered: "30%" or "5.000.000 ₫".
func InstallmentShare(s InstallmentAmount) string {
	if s.Type == AmountPercent {
		return FormatQty(s.Value) + "%"
	}
	return FormatVND(s.Value)
}

// RowCount returns the number of line rows across all groups.
func (d QuoteDocument) RowCount() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Rows)
	}
	return n
}

// DimensionLabel renders the dimensions that are set, e.g. "D 1200mm x C 600mm".
func DimensionLabel(d Dimensions) string {
	var parts []string
	if present(d.Length) {
		parts = append(parts, fmt.Sprintf("D %smm", FormatQty(*d.Length)))
	}
	if present(d.Height) {
		parts = append(parts, fmt.Sprintf("C %smm", FormatQty(*d.Height)))
	}
	if present(d.Depth) {
		parts = append(parts, fmt.Sprintf("S %smm", FormatQty(*d.Depth)))
	}
	return strings.Join(parts, " x ")
}

// MeasureLabel renders the pricing measure of a non-unit line in meters,
// square meters or cubic meters. Unit lines and lines whose dimensions are
// incomplete render as "".
func MeasureLabel(calc CalcType, d Dimensions) string {
	if calc == CalcUnit {
		return ""
	}
	m := MeasureMultiplier(calc, d)
	if m == 1 && !dimensionsComplete(calc, d) {
		return ""
	}
	return FormatMeasure(m)
}

func dimensionsComplete(calc CalcType, d Dimensions) bool {
	switch calc {
	case CalcLength:
		return present(d.Length)
	case CalcArea:
		return present(d.Length) && present(d.Height)
	case CalcVolume:
		return present(d.Length) && present(d.Height) && present(d.Depth)
	case CalcUnit:
	}
	return false
}
