package quoting

import (
	"quotebuilder/services"
)

// Document builds the printable view of the working quote. Lines are grouped
// by main category in alphabetical category order, each group headed by a
// Roman numeral; lines without a known category come last in an unnamed group.
// Rows are numbered in print order.
func (w *Workspace) Document() services.QuoteDocument {
	q := w.Current
	totals := q.Totals()
	schedule := services.CalcInstallments(q.Installments, totals.GrandTotal)

	date := q.QuoteDate
	if d, err := services.ParseQuoteDate(q.QuoteDate); err == nil {
		date = services.FormatDate(d)
	}

	doc := services.QuoteDocument{
		QuoteID:         q.ID,
		Date:            date,
		CustomerName:    q.CustomerName,
		CustomerAddress: q.CustomerAddress,
		Notes:           q.Notes,
		Company: services.DocumentCompany{
			Name:        w.Settings.Name,
			Address:     w.Settings.Address,
			Phone:       w.Settings.Phone,
			Email:       w.Settings.Email,
			TaxID:       w.Settings.TaxID,
			BankAccount: w.Settings.BankAccount,
			LogoDataURL: w.Settings.LogoDataURL,
		},
		Totals:               totals,
		Schedule:             schedule.Printable(),
		PercentOverAllocated: schedule.PercentOverAllocated,
		AmountOverAllocated:  schedule.AmountOverAllocated,
		AmountInWords:        services.AmountToWordsVi(totals.GrandTotal),
	}

	byCategory := make(map[string][]LineItem)
	var uncategorized []LineItem
	for _, l := range q.Items {
		if w.categoryIndex(l.MainCategoryID) < 0 {
			uncategorized = append(uncategorized, l)
			continue
		}
		byCategory[l.MainCategoryID] = append(byCategory[l.MainCategoryID], l)
	}

	index := 0
	toGroup := func(name string, lines []LineItem) services.DocumentGroup {
		g := services.DocumentGroup{Name: name}
		for _, l := range lines {
			index++
			g.Subtotal += l.LineTotal
			g.Rows = append(g.Rows, documentRow(index, l))
		}
		return g
	}

	for _, c := range w.SortedCategories() {
		lines := byCategory[c.ID]
		if len(lines) == 0 {
			continue
		}
		g := toGroup(c.Name, lines)
		g.Numeral = services.NumberToRoman(len(doc.Groups) + 1)
		doc.Groups = append(doc.Groups, g)
	}
	if len(uncategorized) > 0 {
		doc.Groups = append(doc.Groups, toGroup("", uncategorized))
	}
	return doc
}

func documentRow(index int, l LineItem) services.DocumentRow {
	dims := l.Dimensions()
	return services.DocumentRow{
		Index:         index,
		Name:          l.Name,
		Spec:          l.Spec,
		Dimensions:    services.DimensionLabel(dims),
		Unit:          l.Unit,
		Measure:       services.MeasureLabel(l.CalcType, dims),
		Quantity:      l.Quantity,
		OriginalPrice: l.OriginalPrice,
		Price:         l.Price,
		Discounted:    l.ItemDiscountAmount != 0,
		LineTotal:     l.LineTotal,
		ImageDataURL:  l.ImageDataURL,
	}
}

// WorkbookData collects the catalog, categories and saved quotes for export.
func (w *Workspace) WorkbookData() services.WorkbookData {
	var data services.WorkbookData
	for _, it := range w.Catalog {
		data.Catalog = append(data.Catalog, services.WorkbookCatalogRow{
			ID:             it.ID,
			MainCategoryID: it.MainCategoryID,
			Name:           it.Name,
			Spec:           it.Spec,
			Unit:           it.Unit,
			Price:          it.Price,
		})
	}
	for _, c := range w.Categories {
		data.Categories = append(data.Categories, services.WorkbookCategory{ID: c.ID, Name: c.Name})
	}
	for _, s := range w.SavedQuotes() {
		date := s.QuoteDate
		if d, err := services.ParseQuoteDate(s.QuoteDate); err == nil {
			date = services.FormatDate(d)
		}
		data.Quotes = append(data.Quotes, services.WorkbookQuote{
			ID:           s.ID,
			CustomerName: s.CustomerName,
			QuoteDate:    date,
			ItemCount:    s.ItemCount,
			GrandTotal:   s.GrandTotal,
			SavedAt:      s.Timestamp,
		})
	}
	return data
}
