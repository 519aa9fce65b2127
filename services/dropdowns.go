package services

// UnitOptions lists the units offered when editing catalog and line items.
// Any other unit is still accepted.
var UnitOptions = []string{
	"cái",
	"bộ",
	"chiếc",
	"m",
	"m²",
	"m³",
	"md",
	"tấm",
	"cánh",
	"ô",
	"gói",
	"lô",
	"công",
}

// CalcTypeOptions lists the calc types in the order they are offered.
var CalcTypeOptions = []CalcType{CalcUnit, CalcLength, CalcArea, CalcVolume}

// TaxOptions lists the common VAT percentages.
var TaxOptions = []float64{0, 5, 8, 10}
