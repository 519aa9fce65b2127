package services

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	mutedColor   = &props.Color{Red: 80, Green: 80, Blue: 80}
	headerBg     = &props.Color{Red: 33, Green: 37, Blue: 41}
	categoryBg   = &props.Color{Red: 232, Green: 232, Blue: 232}
	summaryBg    = &props.Color{Red: 240, Green: 240, Blue: 240}
	warningColor = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// GenerateQuotePDF renders a quote document to PDF bytes.
func GenerateQuotePDF(doc QuoteDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Trang {current}/{total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, doc)
	addQuoteTableHeader(m)
	for _, g := range doc.Groups {
		if g.Name != "" {
			addCategoryRow(m, g)
		}
		for _, r := range g.Rows {
			addQuoteRow(m, r)
		}
	}
	addQuoteSummary(m, doc)
	addSchedule(m, doc)
	if doc.Notes != "" {
		m.AddRows(row.New(4))
		m.AddRows(textRow(6, "Ghi chú: "+doc.Notes, props.Text{Size: 8, Align: align.Left}))
	}

	pdf, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdf.GetBytes(), nil
}

// addQuoteHeader adds the company block, title, quote number and customer.
func addQuoteHeader(m core.Maroto, doc QuoteDocument) {
	c := doc.Company
	if c.Name != "" {
		m.AddRows(textRow(7, c.Name, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Left}))
	}
	small := props.Text{Size: 8, Align: align.Left, Color: mutedColor}
	for _, line := range c.ContactLines() {
		m.AddRows(textRow(5, line, small))
	}

	m.AddRows(row.New(4))
	m.AddRows(textRow(12, "BÁO GIÁ", props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center}))

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(
				text.New("Số: "+doc.QuoteID, props.Text{Size: 9, Align: align.Left, Color: mutedColor}),
			),
			col.New(6).Add(
				text.New("Ngày: "+doc.Date, props.Text{Size: 9, Align: align.Right, Color: mutedColor}),
			),
		),
	)
	if doc.CustomerName != "" {
		m.AddRows(textRow(6, "Khách hàng: "+doc.CustomerName, props.Text{Size: 9, Align: align.Left}))
	}
	if doc.CustomerAddress != "" {
		m.AddRows(textRow(6, "Địa chỉ: "+doc.CustomerAddress, props.Text{Size: 9, Align: align.Left}))
	}
	m.AddRows(row.New(4))
}

func addQuoteTableHeader(m core.Maroto) {
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := &props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("STT", headerText)).WithStyle(headerCell),
			col.New(4).Add(text.New("Hạng mục", headerTextLeft)).WithStyle(headerCell),
			col.New(1).Add(text.New("ĐVT", headerText)).WithStyle(headerCell),
			col.New(1).Add(text.New("KL", headerText)).WithStyle(headerCell),
			col.New(1).Add(text.New("SL", headerText)).WithStyle(headerCell),
			col.New(2).Add(text.New("Đơn giá", headerText)).WithStyle(headerCell),
			col.New(2).Add(text.New("Thành tiền", headerText)).WithStyle(headerCell),
		),
	)
}

func addCategoryRow(m core.Maroto, g DocumentGroup) {
	bold := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left}
	boldRight := bold
	boldRight.Align = align.Right
	cell := &props.Cell{BackgroundColor: categoryBg}

	m.AddRows(
		row.New(7).Add(
			col.New(1).Add(text.New(g.Numeral, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center})).WithStyle(cell),
			col.New(9).Add(text.New(g.Name, bold)).WithStyle(cell),
			col.New(2).Add(text.New(FormatVND(g.Subtotal), boldRight)).WithStyle(cell),
		),
	)
}

// addQuoteRow adds one line item. The description wraps its spec and
// dimensions under the name, so the row height grows with them.
func addQuoteRow(m core.Maroto, r DocumentRow) {
	base := props.Text{Size: 7, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	desc := r.Name
	if r.Dimensions != "" {
		desc += "\nKT: " + r.Dimensions
	}
	if r.Spec != "" {
		desc += "\n" + r.Spec
	}

	priceCol := col.New(2).Add(text.New(FormatVND(r.Price), right))
	if r.Discounted {
		struck := right
		struck.Color = mutedColor
		struck.Top = 4
		priceCol = col.New(2).Add(
			text.New(FormatVND(r.Price), right),
			text.New("("+FormatVND(r.OriginalPrice)+")", struck),
		)
	}

	lines := strings.Count(desc, "\n") + 1
	m.AddRows(row.New(float64(4 + 3*lines)).Add(
		col.New(1).Add(text.New(fmt.Sprintf("%d", r.Index), base)),
		col.New(4).Add(text.New(desc, left)),
		col.New(1).Add(text.New(r.Unit, base)),
		col.New(1).Add(text.New(r.Measure, right)),
		col.New(1).Add(text.New(FormatQty(r.Quantity), right)),
		priceCol,
		col.New(2).Add(text.New(FormatVND(r.LineTotal), right)),
	))
}

// addQuoteSummary adds the totals block and the amount in words.
func addQuoteSummary(m core.Maroto, doc QuoteDocument) {
	m.AddRows(row.New(6))

	cell := &props.Cell{BackgroundColor: summaryBg}
	label := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	value := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	line := func(l string, v float64) {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(l, label)).WithStyle(cell),
				col.New(4).Add(text.New(FormatVND(v), value)).WithStyle(cell),
			),
		)
	}

	t := doc.Totals
	line("Cộng", t.SubTotal)
	if t.ApplyDiscount && t.DiscountValue != 0 {
		line("Chiết khấu", -t.DiscountValue)
		line("Sau chiết khấu", t.SubTotalAfterDiscount)
	}
	if t.ApplyTax {
		line(fmt.Sprintf("Thuế (%s%%)", FormatQty(t.TaxPercent)), t.TaxValue)
	}
	line("Tổng cộng", t.GrandTotal)

	if doc.AmountInWords != "" {
		m.AddRows(textRow(7, "Bằng chữ: "+doc.AmountInWords, props.Text{
			Size:  8,
			Style: fontstyle.Italic,
			Align: align.Left,
			Top:   2,
		}))
	}
}

// addSchedule adds the payment schedule. Over-allocated plans are printed as
// entered, with a warning line per flag.
func addSchedule(m core.Maroto, doc QuoteDocument) {
	if len(doc.Schedule) == 0 {
		return
	}
	m.AddRows(row.New(4))
	m.AddRows(textRow(7, "Tiến độ thanh toán", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left}))

	for _, s := range doc.Schedule {
		m.AddRows(
			row.New(6).Add(
				col.New(6).Add(text.New(s.Name, props.Text{Size: 8, Align: align.Left})),
				col.New(2).Add(text.New(InstallmentShare(s), props.Text{Size: 8, Align: align.Right})),
				col.New(4).Add(text.New(FormatVND(s.Amount), props.Text{Size: 8, Align: align.Right})),
			),
		)
	}
	for _, w := range doc.AllocationWarnings() {
		m.AddRows(textRow(6, w, props.Text{
			Size:  8,
			Align: align.Left,
			Color: warningColor,
		}))
	}
}

// textRow is a full-width row holding a single text.
func textRow(height float64, value string, p props.Text) core.Row {
	return row.New(height).Add(col.New(12).Add(text.New(value, p)))
}

func labelled(label, v string) string {
	if v == "" {
		return ""
	}
	return label + v
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
