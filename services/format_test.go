package services

import (
	"testing"
	"time"
)

func TestFormatVND(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "0 ₫"},
		{"small", 5, "5 ₫"},
		{"hundreds", 999, "999 ₫"},
		{"thousands", 1000, "1.000 ₫"},
		{"millions", 1234567, "1.234.567 ₫"},
		{"rounds half up", 1499.5, "1.500 ₫"},
		{"rounds down", 1499.4, "1.499 ₫"},
		{"negative", -250000, "-250.000 ₫"},
		{"billions", 12345678901, "12.345.678.901 ₫"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatVND(tt.input)
			if got != tt.expect {
				t.Errorf("FormatVND(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestApplyThousandsGrouping(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"", ""},
		{"1", "1"},
		{"123", "123"},
		{"1234", "1.234"},
		{"123456", "123.456"},
		{"1234567", "1.234.567"},
	}
	for _, tt := range tests {
		if got := applyThousandsGrouping(tt.input, "."); got != tt.expect {
			t.Errorf("applyThousandsGrouping(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 1, 5, 10, 30, 0, 0, time.UTC)
	if got := FormatDate(d); got != "05/01/2026" {
		t.Errorf("FormatDate() = %q, want 05/01/2026", got)
	}
	if got := FormatDate(time.Time{}); got != "" {
		t.Errorf("FormatDate(zero) = %q, want empty", got)
	}
}

func TestParseQuoteDate(t *testing.T) {
	d, err := ParseQuoteDate(" 2026-03-15 ")
	if err != nil {
		t.Fatalf("ParseQuoteDate() error = %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.March || d.Day() != 15 {
		t.Errorf("ParseQuoteDate() = %v", d)
	}
	if _, err := ParseQuoteDate("15/03/2026"); err == nil {
		t.Error("expected error for DD/MM/YYYY input")
	}
}

func TestFormatMeasure(t *testing.T) {
	tests := []struct {
		input  float64
		expect string
	}{
		{0, "0"},
		{2.5, "2,5"},
		{3, "3"},
		{0.06, "0,06"},
		{1.23456, "1,2346"},
		{1234.5, "1.234,5"},
	}
	for _, tt := range tests {
		if got := FormatMeasure(tt.input); got != tt.expect {
			t.Errorf("FormatMeasure(%v) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		input  float64
		expect string
	}{
		{0, "0"},
		{5, "5"},
		{2.5, "2.5"},
		{1.25, "1.25"},
	}
	for _, tt := range tests {
		if got := FormatQty(tt.input); got != tt.expect {
			t.Errorf("FormatQty(%v) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}

func TestNumberToRoman(t *testing.T) {
	tests := []struct {
		input  int
		expect string
	}{
		{0, ""},
		{-3, ""},
		{1, "I"},
		{4, "IV"},
		{9, "IX"},
		{14, "XIV"},
		{40, "XL"},
		{1994, "MCMXCIV"},
	}
	for _, tt := range tests {
		if got := NumberToRoman(tt.input); got != tt.expect {
			t.Errorf("NumberToRoman(%d) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}
