package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestQuoteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := QuoteHTML(sampleDocument()).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<!doctype html>",
		"Nội Thất An Phát",
		"20260115-001",
		"<td>I</td>",
		"Nhà bếp",
		"KT: D 2000mm",
		`<span class="strike">1.500.000 ₫</span>`,
		"Tiến độ thanh toán",
		"Bằng chữ:",
		"Hạng mục khác",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output does not contain %q", want)
		}
	}
	if strings.Contains(html, "<Bàn đá>") {
		t.Error("item name was not escaped")
	}
	if !strings.Contains(html, "&lt;Bàn đá&gt;") {
		t.Error("expected escaped item name")
	}
}

func TestQuoteHTML_OnlyDataImages(t *testing.T) {
	doc := QuoteDocument{
		Groups: []DocumentGroup{{Rows: []DocumentRow{
			{Index: 1, Name: "A", ImageDataURL: "javascript:alert(1)"},
			{Index: 2, Name: "B", ImageDataURL: "data:image/png;base64,AAAA"},
		}}},
	}
	var buf bytes.Buffer
	if err := QuoteHTML(doc).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := buf.String()
	if strings.Contains(html, "javascript:") {
		t.Error("non-data image URL was rendered")
	}
	if strings.Count(html, "<img") != 1 {
		t.Errorf("expected exactly one image, got %d", strings.Count(html, "<img"))
	}
}

func TestQuoteHTML_AllocationWarnings(t *testing.T) {
	schedule := []InstallmentAmount{{Slot: 1, Name: "A", Value: 150, Type: AmountFixed, Amount: 150, Active: true}}
	tests := []struct {
		name  string
		doc   QuoteDocument
		warns []string
	}{
		{
			name: "within plan",
			doc:  QuoteDocument{Totals: QuoteTotals{GrandTotal: 100}, Schedule: schedule},
		},
		{
			name:  "amount over",
			doc:   QuoteDocument{Schedule: schedule, AmountOverAllocated: true},
			warns: []string{"Tổng các đợt vượt quá tổng giá trị báo giá"},
		},
		{
			name:  "percent and amount over",
			doc:   QuoteDocument{Schedule: schedule, PercentOverAllocated: true, AmountOverAllocated: true},
			warns: []string{"Tổng tỷ lệ các đợt vượt quá 100%", "Tổng các đợt vượt quá tổng giá trị báo giá"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := QuoteHTML(tt.doc).Render(context.Background(), &buf); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			html := buf.String()
			if got := strings.Count(html, `class="warn"`); got != len(tt.warns) {
				t.Errorf("warning count = %d, want %d", got, len(tt.warns))
			}
			for _, w := range tt.warns {
				if !strings.Contains(html, w) {
					t.Errorf("output does not contain %q", w)
				}
			}
		})
	}
}

func TestQuoteHTML_OtherGroupHeading(t *testing.T) {
	only := QuoteDocument{Groups: []DocumentGroup{{Rows: []DocumentRow{{Index: 1, Name: "A"}}}}}
	var buf bytes.Buffer
	if err := QuoteHTML(only).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(buf.String(), "Hạng mục khác") {
		t.Error("a lone uncategorised group needs no heading")
	}
}
