package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// fieldErrors сопоставляет поля форм с ошибками, которые понимает клиент.
var fieldErrors = map[string]error{
	"Name":            e.ErrNameRequired,
	"CategoryID":      e.ErrCategoryRequired,
	"DiscountPercent": e.ErrInvalidDiscount,
	"ExtraID":         e.ErrInvalidID,
	"Quantity":        e.ErrInvalidQuantity,
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// validateStruct возвращает первую ошибку формы в виде sentinel-ошибки из pkg/e.
func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return e.Wrap("validateStruct", err)
	}

	for _, fe := range fieldErrs {
		if sentinel, ok := fieldErrors[fe.StructField()]; ok {
			return sentinel
		}
	}

	return fmt.Errorf("%w: %s failed on %s", e.ErrValidation, fieldErrs[0].Field(), fieldErrs[0].Tag())
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return e.ErrInvalidPrice
	}

	if !price.Equal(price.Round(2)) {
		return e.ErrPricePrecision
	}

	return nil
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
