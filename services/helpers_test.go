package services

import "bytes"

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// sampleDocument returns a two-group quote with a discount, tax and schedule.
func sampleDocument() QuoteDocument {
	totals := CalcQuoteTotals(
		[]float64{2400000, 850000},
		DiscountConfig{Apply: true, Value: 10, Type: AmountPercent},
		TaxConfig{Apply: true, Percent: 8},
	)
	plan := InstallmentPlan{
		Apply: true,
		Installments: [InstallmentSlots]Installment{
			{Name: "Tạm ứng", Value: 50, Type: AmountPercent},
			{Name: "Hoàn thành", Value: 50, Type: AmountPercent},
		},
	}
	schedule := CalcInstallments(plan, totals.GrandTotal)
	return QuoteDocument{
		QuoteID:         "20260115-001",
		Date:            "15/01/2026",
		CustomerName:    "Anh Minh",
		CustomerAddress: "12 Lý Thường Kiệt, Hà Nội",
		Notes:           "Giá chưa bao gồm vận chuyển",
		Company: DocumentCompany{
			Name:    "Nội Thất An Phát",
			Phone:   "0901 234 567",
			TaxID:   "0101234567",
			Address: "Hà Nội",
		},
		Groups: []DocumentGroup{
			{
				Numeral:  "I",
				Name:     "Nhà bếp",
				Subtotal: 2400000,
				Rows: []DocumentRow{{
					Index: 1, Name: "Tủ bếp trên", Spec: "MDF chống ẩm", Dimensions: "D 2000mm",
					Unit: "m", Measure: "2", Quantity: 1, OriginalPrice: 1500000, Price: 1200000,
					Discounted: true, LineTotal: 2400000,
				}},
			},
			{
				Rows: []DocumentRow{{
					Index: 2, Name: "<Bàn đá>", Unit: "cái", Quantity: 1,
					OriginalPrice: 850000, Price: 850000, LineTotal: 850000,
				}},
			},
		},
		Totals:               totals,
		Schedule:             schedule.Printable(),
		PercentOverAllocated: schedule.PercentOverAllocated,
		AmountOverAllocated:  schedule.AmountOverAllocated,
		AmountInWords:        AmountToWordsVi(totals.GrandTotal),
	}
}
