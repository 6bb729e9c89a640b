package payment

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/lanten/lanten/core"
)

var (
	intervalTag  = "recurringinterval"
	intervalText = "invalid recurring interval"

	paymentTypeTag  = "paymenttype"
	paymentTypeText = "invalid payment type"
)

// InitValidators registers the payment package's custom validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(intervalTag, intervalValidation)
	core.RegisterCustomTranslation(validate, translator, intervalTag, intervalText)

	_ = validate.RegisterValidation(paymentTypeTag, paymentTypeValidation)
	core.RegisterCustomTranslation(validate, translator, paymentTypeTag, paymentTypeText)
}

// intervalValidation checks that the provided interval is in AllIntervals
func intervalValidation(fl validator.FieldLevel) bool {
	val := Interval(fl.Field().String())
	for _, iv := range AllIntervals {
		if val == iv {
			return true
		}
	}
	return false
}

// paymentTypeValidation checks that the provided payment type is in AllTypes
func paymentTypeValidation(fl validator.FieldLevel) bool {
	typ := fl.Field().String()
	for _, t := range AllTypes {
		if typ == t {
			return true
		}
	}
	return false
}
