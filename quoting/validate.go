package quoting

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"quotebuilder/services"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct's validate tags and converts failures into a
// *ValidationError keyed by json field name.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	ve := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ve.Fields[fe.Field()] = validationMessage(fe)
	}
	return ve
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "max":
		return "is too long"
	}
	return "is invalid"
}

// CatalogDraft is the input for creating or editing a catalog item. The
// category is given either by id or by name; a name is resolved with
// find-or-create.
type CatalogDraft struct {
	Name             string  `json:"name" validate:"required"`
	Spec             string  `json:"spec"`
	Unit             string  `json:"unit" validate:"required"`
	Price            float64 `json:"price" validate:"gte=0"`
	MainCategoryID   string  `json:"mainCategoryId"`
	MainCategoryName string  `json:"mainCategoryName"`
}

func (d *CatalogDraft) normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Spec = strings.TrimSpace(d.Spec)
	d.Unit = strings.TrimSpace(d.Unit)
	d.MainCategoryID = strings.TrimSpace(d.MainCategoryID)
	d.MainCategoryName = strings.TrimSpace(d.MainCategoryName)
}

// LineDraft is the input for adding or editing a quote line. When
// CatalogItemID is set, blank fields are filled from that catalog item.
type LineDraft struct {
	CatalogItemID     string              `json:"catalogItemId"`
	Name              string              `json:"name" validate:"required"`
	Spec              string              `json:"spec"`
	Unit              string              `json:"unit"`
	MainCategoryID    string              `json:"mainCategoryId"`
	MainCategoryName  string              `json:"mainCategoryName"`
	CalcType          services.CalcType   `json:"calcType" validate:"omitempty,oneof=unit length area volume"`
	Length            *float64            `json:"length" validate:"omitempty,gte=0"`
	Height            *float64            `json:"height" validate:"omitempty,gte=0"`
	Depth             *float64            `json:"depth" validate:"omitempty,gte=0"`
	Quantity          *float64            `json:"quantity" validate:"omitempty,gt=0"`
	OriginalPrice     *float64            `json:"originalPrice" validate:"omitempty,gte=0"`
	ItemDiscountValue float64             `json:"itemDiscountValue" validate:"gte=0"`
	ItemDiscountType  services.AmountType `json:"itemDiscountType" validate:"omitempty,oneof=percent fixed"`
	ImageDataURL      string              `json:"imageDataUrl" validate:"omitempty,max=700000"`
}

func (d *LineDraft) normalize() {
	d.CatalogItemID = strings.TrimSpace(d.CatalogItemID)
	d.Name = strings.TrimSpace(d.Name)
	d.Spec = strings.TrimSpace(d.Spec)
	d.Unit = strings.TrimSpace(d.Unit)
	d.MainCategoryID = strings.TrimSpace(d.MainCategoryID)
	d.MainCategoryName = strings.TrimSpace(d.MainCategoryName)
	if d.CalcType == "" {
		d.CalcType = services.CalcUnit
	}
	if d.ItemDiscountType == "" {
		d.ItemDiscountType = services.AmountPercent
	}
}

// QuotePatch updates the working quote's header, discount, tax or payment
// schedule. Nil fields are left alone.
type QuotePatch struct {
	CustomerName    *string                   `json:"customerName"`
	CustomerAddress *string                   `json:"customerAddress"`
	QuoteDate       *string                   `json:"quoteDate"`
	Notes           *string                   `json:"notes"`
	Discount        *services.DiscountConfig  `json:"discount"`
	Tax             *services.TaxConfig       `json:"tax"`
	Installments    *services.InstallmentPlan `json:"installmentData"`
}

func (p QuotePatch) validate() error {
	ve := &ValidationError{Fields: map[string]string{}}
	if p.QuoteDate != nil && strings.TrimSpace(*p.QuoteDate) != "" {
		if _, err := services.ParseQuoteDate(*p.QuoteDate); err != nil {
			ve.Fields["quoteDate"] = "must be a date in YYYY-MM-DD form"
		}
	}
	if p.Discount != nil && p.Discount.Value < 0 {
		ve.Fields["discount.value"] = "must be at least 0"
	}
	if p.Tax != nil && p.Tax.Percent < 0 {
		ve.Fields["tax.percent"] = "must be at least 0"
	}
	if p.Installments != nil {
		for i, inst := range p.Installments.Installments {
			if inst.Value < 0 {
				ve.Fields["installmentData.installments["+strconv.Itoa(i)+"].value"] = "must be at least 0"
			}
		}
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}
