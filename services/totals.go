package services

// DiscountConfig is the quote-level discount.
type DiscountConfig struct {
	Apply bool       `json:"apply"`
	Value float64    `json:"value"`
	Type  AmountType `json:"type"`
}

// TaxConfig is the quote-level tax, charged on the discounted subtotal.
type TaxConfig struct {
	Apply   bool    `json:"apply"`
	Percent float64 `json:"percent"`
}

// QuoteTotals holds the monetary summary of a quote. Installments, printing and
// catalog quick-save all read these values instead of recomputing them.
type QuoteTotals struct {
	SubTotal              float64 `json:"subTotal"`
	DiscountValue         float64 `json:"discountValue"`
	SubTotalAfterDiscount float64 `json:"subTotalAfterDiscount"`
	TaxValue              float64 `json:"taxValue"`
	GrandTotal            float64 `json:"grandTotal"`
	TaxPercent            float64 `json:"taxPercent"`
	ApplyDiscount         bool    `json:"applyDiscount"`
	ApplyTax              bool    `json:"applyTax"`
}

// CalcQuoteTotals sums the line totals, applies the discount and then the tax.
// The discount is not bounded by the subtotal.
func CalcQuoteTotals(lineTotals []float64, discount DiscountConfig, tax TaxConfig) QuoteTotals {
	var subTotal float64
	for _, lt := range lineTotals {
		subTotal += lt
	}

	var discountValue float64
	if discount.Apply && discount.Value > 0 {
		discountValue = discount.Type.Of(subTotal, discount.Value)
	}
	afterDiscount := subTotal - discountValue

	var taxValue float64
	if tax.Apply {
		taxValue = afterDiscount * tax.Percent / 100
	}

	return QuoteTotals{
		SubTotal:              subTotal,
		DiscountValue:         discountValue,
		SubTotalAfterDiscount: afterDiscount,
		TaxValue:              taxValue,
		GrandTotal:            afterDiscount + taxValue,
		TaxPercent:            tax.Percent,
		ApplyDiscount:         discount.Apply,
		ApplyTax:              tax.Apply,
	}
}
