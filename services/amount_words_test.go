package services

import "testing"

func TestAmountToWordsVi(t *testing.T) {
	tests := []struct {
		input  float64
		expect string
	}{
		{0, "Không đồng"},
		{1, "Một đồng"},
		{5, "Năm đồng"},
		{10, "Mười đồng"},
		{11, "Mười một đồng"},
		{15, "Mười lăm đồng"},
		{21, "Hai mươi mốt đồng"},
		{25, "Hai mươi lăm đồng"},
		{100, "Một trăm đồng"},
		{105, "Một trăm lẻ năm đồng"},
		{1005, "Một nghìn lẻ năm đồng"},
		{1250000, "Một triệu hai trăm năm mươi nghìn đồng"},
		{2000000000, "Hai tỷ đồng"},
		{-21, "Âm hai mươi mốt đồng"},
		{99.6, "Một trăm đồng"},
	}

	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			got := AmountToWordsVi(tt.input)
			if got != tt.expect {
				t.Errorf("AmountToWordsVi(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestGroupUnit(t *testing.T) {
	tests := []struct {
		g      int
		expect string
	}{
		{0, ""},
		{1, "nghìn"},
		{2, "triệu"},
		{3, "tỷ"},
		{4, "nghìn tỷ"},
		{6, "tỷ tỷ"},
	}
	for _, tt := range tests {
		if got := groupUnit(tt.g); got != tt.expect {
			t.Errorf("groupUnit(%d) = %q, want %q", tt.g, got, tt.expect)
		}
	}
}
