// Package services provides pricing, totals and export functions for quotes.
package services

import (
	"fmt"
	"strings"
)

// AmountType says whether a value is a percentage of some base or a fixed amount.
type AmountType string

const (
	AmountPercent AmountType = "percent"
	AmountFixed   AmountType = "fixed"
)

// ParseAmountType parses "percent" or "fixed". An empty string yields AmountPercent,
// matching records written before the type was stored.
func ParseAmountType(s string) (AmountType, error) {
	switch AmountType(strings.ToLower(strings.TrimSpace(s))) {
	case "", AmountPercent:
		return AmountPercent, nil
	case AmountFixed:
		return AmountFixed, nil
	}
	return "", fmt.Errorf("unknown amount type %q", s)
}

// UnmarshalText rejects anything ParseAmountType rejects.
func (t *AmountType) UnmarshalText(b []byte) error {
	v, err := ParseAmountType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Of returns the amount value represents relative to base.
func (t AmountType) Of(base, value float64) float64 {
	switch t {
	case AmountFixed:
		return value
	case AmountPercent:
		return base * value / 100
	}
	return 0
}

// CalcType is the dimensional pricing mode of a line item.
type CalcType string

const (
	CalcUnit   CalcType = "unit"   // price per unit
	CalcLength CalcType = "length" // price per linear meter
	CalcArea   CalcType = "area"   // price per square meter
	CalcVolume CalcType = "volume" // price per cubic meter
)

// ParseCalcType parses a calc type name. An empty string yields CalcUnit.
func ParseCalcType(s string) (CalcType, error) {
	switch CalcType(strings.ToLower(strings.TrimSpace(s))) {
	case "", CalcUnit:
		return CalcUnit, nil
	case CalcLength:
		return CalcLength, nil
	case CalcArea:
		return CalcArea, nil
	case CalcVolume:
		return CalcVolume, nil
	}
	return "", fmt.Errorf("unknown calc type %q", s)
}

func (c *CalcType) UnmarshalText(b []byte) error {
	v, err := ParseCalcType(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Dimensions are measured in millimeters. A nil dimension is absent.
type Dimensions struct {
	Length *float64 `json:"length"`
	Height *float64 `json:"height"`
	Depth  *float64 `json:"depth"`
}

// MeasureMultiplier converts dimensions into the quantity of meters, square meters
// or cubic meters the unit price applies to. Any missing dimension needed by the
// calc type degrades the multiplier to 1, i.e. plain per-unit pricing.
func MeasureMultiplier(calc CalcType, d Dimensions) float64 {
	switch calc {
	case CalcLength:
		if present(d.Length) {
			return *d.Length / 1000
		}
	case CalcArea:
		if present(d.Length) && present(d.Height) {
			return (*d.Length * *d.Height) / 1_000_000
		}
	case CalcVolume:
		if present(d.Length) && present(d.Height) && present(d.Depth) {
			return (*d.Length * *d.Height * *d.Depth) / 1_000_000_000
		}
	case CalcUnit:
	}
	return 1
}

// present treats zero like a blank form field.
func present(v *float64) bool {
	return v != nil && *v != 0
}

// LineInput holds the raw inputs of a single priced row.
type LineInput struct {
	OriginalPrice float64
	DiscountValue float64
	DiscountType  AmountType
	CalcType      CalcType
	Dimensions    Dimensions
	Quantity      float64
}

// LineCalc holds the derived values of a line item.
type LineCalc struct {
	DiscountAmount float64 // per-unit discount
	Price          float64 // OriginalPrice - DiscountAmount, may be negative
	Measure        float64 // MeasureMultiplier for the calc type
	LineTotal      float64 // Price * Measure * Quantity
}

// CalcLine computes the discounted unit price and extended total of one line.
// A discount larger than the price is not clamped.
func CalcLine(in LineInput) LineCalc {
	var discount float64
	if in.DiscountValue > 0 {
		discount = in.DiscountType.Of(in.OriginalPrice, in.DiscountValue)
	}
	price := in.OriginalPrice - discount
	measure := MeasureMultiplier(in.CalcType, in.Dimensions)

	return LineCalc{
		DiscountAmount: discount,
		Price:          price,
		Measure:        measure,
		LineTotal:      price * measure * in.Quantity,
	}
}
