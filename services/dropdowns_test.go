package services

import (
	"testing"
)

func TestUnitOptions(t *testing.T) {
	if len(UnitOptions) == 0 {
		t.Fatal("UnitOptions should not be empty")
	}

	expected := map[string]bool{"cái": true, "bộ": true, "m": true, "m²": true, "m³": true}
	found := make(map[string]bool)
	for _, opt := range UnitOptions {
		if opt == "" {
			t.Error("UnitOptions contains empty string")
		}
		if found[opt] {
			t.Errorf("duplicate unit %q", opt)
		}
		found[opt] = true
	}
	for k := range expected {
		if !found[k] {
			t.Errorf("expected unit option %q not found", k)
		}
	}
}

func TestCalcTypeOptions(t *testing.T) {
	for _, c := range CalcTypeOptions {
		if _, err := ParseCalcType(string(c)); err != nil {
			t.Errorf("option %q does not parse: %v", c, err)
		}
	}
	if CalcTypeOptions[0] != CalcUnit {
		t.Errorf("expected unit first, got %q", CalcTypeOptions[0])
	}
}

func TestTaxOptions(t *testing.T) {
	expected := []float64{0, 5, 8, 10}
	if len(TaxOptions) != len(expected) {
		t.Fatalf("expected %d tax options, got %d", len(expected), len(TaxOptions))
	}
	for i, v := range expected {
		if TaxOptions[i] != v {
			t.Errorf("TaxOptions[%d] = %v, want %v", i, TaxOptions[i], v)
		}
	}
}
