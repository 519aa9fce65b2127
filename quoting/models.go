// Package quoting holds the quote builder's state: the catalog, its main
// categories, the working quote, saved quotes and company settings, plus the
// session that keeps that state in step with the persistence layer.
package quoting

import (
	"math"
	"strings"
	"time"

	"quotebuilder/services"
)

// MaxDraftImageLen is the longest line image data URL kept in a persisted
// draft. Longer images stay in memory but are dropped from the draft copy.
const MaxDraftImageLen = 500000

// MaxLineImageLen bounds a line image data URL (about 500 KiB once decoded).
const MaxLineImageLen = 700000

// MaxLogoLen bounds the company logo data URL.
const MaxLogoLen = 1 << 20

type MainCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CatalogItem struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Spec           string  `json:"spec"`
	Unit           string  `json:"unit"`
	Price          float64 `json:"price"`
	MainCategoryID string  `json:"mainCategoryId"`
}

// LineItem is one priced row of a quote. ItemDiscountAmount, Price and
// LineTotal are derived by Recompute and never set on their own.
type LineItem struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Spec               string              `json:"spec"`
	Unit               string              `json:"unit"`
	MainCategoryID     string              `json:"mainCategoryId"`
	CalcType           services.CalcType   `json:"calcType"`
	Length             *float64            `json:"length"`
	Height             *float64            `json:"height"`
	Depth              *float64            `json:"depth"`
	Quantity           float64             `json:"quantity"`
	OriginalPrice      float64             `json:"originalPrice"`
	ItemDiscountValue  float64             `json:"itemDiscountValue"`
	ItemDiscountType   services.AmountType `json:"itemDiscountType"`
	ItemDiscountAmount float64             `json:"itemDiscountAmount"`
	Price              float64             `json:"price"`
	LineTotal          float64             `json:"lineTotal"`
	ImageDataURL       string              `json:"imageDataUrl,omitempty"`
}

func (l LineItem) Dimensions() services.Dimensions {
	return services.Dimensions{Length: l.Length, Height: l.Height, Depth: l.Depth}
}

// Recompute derives the discount, unit price and line total from the inputs.
func (l *LineItem) Recompute() {
	calc := services.CalcLine(services.LineInput{
		OriginalPrice: l.OriginalPrice,
		DiscountValue: l.ItemDiscountValue,
		DiscountType:  l.ItemDiscountType,
		CalcType:      l.CalcType,
		Dimensions:    l.Dimensions(),
		Quantity:      l.Quantity,
	})
	l.ItemDiscountAmount = calc.DiscountAmount
	l.Price = calc.Price
	l.LineTotal = calc.LineTotal
}

func (l LineItem) clone() LineItem {
	l.Length = copyFloat(l.Length)
	l.Height = copyFloat(l.Height)
	l.Depth = copyFloat(l.Depth)
	return l
}

// Quote is the quote aggregate. The working quote and every saved quote share
// this shape.
type Quote struct {
	ID              string                   `json:"id"`
	CustomerName    string                   `json:"customerName"`
	CustomerAddress string                   `json:"customerAddress"`
	QuoteDate       string                   `json:"quoteDate"` // YYYY-MM-DD
	Notes           string                   `json:"notes"`
	Items           []LineItem               `json:"items"`
	Discount        services.DiscountConfig  `json:"discount"`
	Tax             services.TaxConfig       `json:"tax"`
	Installments    services.InstallmentPlan `json:"installmentData"`
	Timestamp       time.Time                `json:"timestamp"`
}

// Totals is the single source of the quote's monetary summary.
func (q Quote) Totals() services.QuoteTotals {
	lineTotals := make([]float64, len(q.Items))
	for i, it := range q.Items {
		lineTotals[i] = it.LineTotal
	}
	return services.CalcQuoteTotals(lineTotals, q.Discount, q.Tax)
}

func (q Quote) InstallmentSummary() services.InstallmentSummary {
	return services.CalcInstallments(q.Installments, q.Totals().GrandTotal)
}

// RecomputeAll refreshes every derived line field, e.g. after loading.
func (q *Quote) RecomputeAll() {
	for i := range q.Items {
		normalizeDims(&q.Items[i])
		q.Items[i].Recompute()
	}
}

func (q Quote) Clone() Quote {
	c := q
	c.Items = make([]LineItem, len(q.Items))
	for i, it := range q.Items {
		c.Items[i] = it.clone()
	}
	return c
}

// DraftCopy returns the copy written as the working draft: oversized line
// images are left out.
func (q Quote) DraftCopy() Quote {
	c := q.Clone()
	for i := range c.Items {
		if len(c.Items[i].ImageDataURL) > MaxDraftImageLen {
			c.Items[i].ImageDataURL = ""
		}
	}
	return c
}

func (q Quote) lineIndex(id string) int {
	for i, it := range q.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

type CompanySettings struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email" validate:"omitempty,email"`
	TaxID       string `json:"taxId"`
	BankAccount string `json:"bankAccount"`
	LogoDataURL string `json:"logoDataUrl" validate:"omitempty,max=1048576"`
}

func (c *CompanySettings) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Address = strings.TrimSpace(c.Address)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.TaxID = strings.TrimSpace(c.TaxID)
	c.BankAccount = strings.TrimSpace(c.BankAccount)
}

// QuoteDefaults seeds the discount and tax configuration of new quotes.
type QuoteDefaults struct {
	ApplyDiscount bool
	ApplyTax      bool
	TaxPercent    float64
}

// QuoteView is the working quote together with its computed summaries.
type QuoteView struct {
	Quote        Quote                       `json:"quote"`
	Totals       services.QuoteTotals        `json:"totals"`
	Installments services.InstallmentSummary `json:"installments"`
	SuggestedAs  string                      `json:"suggestedSaveName"`
}

// SavedQuoteSummary is one row of the saved quotes list.
type SavedQuoteSummary struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	QuoteDate    string    `json:"quoteDate"`
	ItemCount    int       `json:"itemCount"`
	GrandTotal   float64   `json:"grandTotal"`
	Timestamp    time.Time `json:"timestamp"`
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// normalizeDims drops zero and non-finite dimensions; they count as absent.
func normalizeDims(l *LineItem) {
	for _, d := range []**float64{&l.Length, &l.Height, &l.Depth} {
		if *d != nil && (**d == 0 || math.IsNaN(**d) || math.IsInf(**d, 0)) {
			*d = nil
		}
	}
}
