package services

import "testing"

func TestDimensionLabel(t *testing.T) {
	tests := []struct {
		name   string
		dims   Dimensions
		expect string
	}{
		{"none", Dimensions{}, ""},
		{"length only", Dimensions{Length: f64(1200)}, "D 1200mm"},
		{"all", Dimensions{Length: f64(1200), Height: f64(600), Depth: f64(350)}, "D 1200mm x C 600mm x S 350mm"},
		{"zero skipped", Dimensions{Length: f64(0), Height: f64(600)}, "C 600mm"},
		{"fractional", Dimensions{Length: f64(12.5)}, "D 12.5mm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DimensionLabel(tt.dims); got != tt.expect {
				t.Errorf("DimensionLabel() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestMeasureLabel(t *testing.T) {
	tests := []struct {
		name   string
		calc   CalcType
		dims   Dimensions
		expect string
	}{
		{"unit", CalcUnit, Dimensions{Length: f64(1000)}, ""},
		{"length", CalcLength, Dimensions{Length: f64(2500)}, "2,5"},
		{"length of exactly one meter", CalcLength, Dimensions{Length: f64(1000)}, "1"},
		{"area incomplete", CalcArea, Dimensions{Length: f64(1000)}, ""},
		{"area", CalcArea, Dimensions{Length: f64(2000), Height: f64(1500)}, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MeasureLabel(tt.calc, tt.dims); got != tt.expect {
				t.Errorf("MeasureLabel() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestQuoteDocument_RowCount(t *testing.T) {
	if got := sampleDocument().RowCount(); got != 2 {
		t.Errorf("RowCount() = %d, want 2", got)
	}
}
