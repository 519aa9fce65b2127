package quoting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotebuilder/services"
)

func TestValidateStruct_CatalogDraft(t *testing.T) {
	tests := []struct {
		name   string
		draft  CatalogDraft
		fields []string
	}{
		{"valid", CatalogDraft{Name: "Tủ", Unit: "cái", Price: 0}, nil},
		{"missing name and unit", CatalogDraft{Price: 10}, []string{"name", "unit"}},
		{"negative price", CatalogDraft{Name: "Tủ", Unit: "cái", Price: -1}, []string{"price"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStruct(tt.draft)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Len(t, ve.Fields, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, ve.Fields, f)
			}
		})
	}
}

func TestLineDraftNormalize(t *testing.T) {
	d := LineDraft{Name: "  Tủ ", MainCategoryName: " Bếp "}
	d.normalize()
	assert.Equal(t, "Tủ", d.Name)
	assert.Equal(t, "Bếp", d.MainCategoryName)
	assert.Equal(t, services.CalcUnit, d.CalcType)
	assert.Equal(t, services.AmountPercent, d.ItemDiscountType)
}

func TestValidateStruct_LineImageLimit(t *testing.T) {
	d := LineDraft{Name: "A", ImageDataURL: string(make([]byte, MaxLineImageLen+1))}
	d.normalize()
	var ve *ValidationError
	require.ErrorAs(t, validateStruct(d), &ve)
	assert.Equal(t, "is too long", ve.Fields["imageDataUrl"])
}

func TestQuotePatchValidate(t *testing.T) {
	date := "2026-02-30"
	blank := ""
	plan := services.InstallmentPlan{}
	plan.Installments[1].Value = -5

	err := QuotePatch{QuoteDate: &date, Discount: &services.DiscountConfig{Value: -1}, Installments: &plan}.validate()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "quoteDate")
	assert.Contains(t, ve.Fields, "discount.value")
	assert.Contains(t, ve.Fields, "installmentData.installments[1].value")

	assert.NoError(t, QuotePatch{QuoteDate: &blank}.validate(), "a blank date clears the field")
}
