package validator

import (
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var (
	validate = validator.New()
	dniRegex = regexp.MustCompile(`^[0-9]{8}$`)
)

var (
	productStates   = map[string]bool{"Por Hilandar": true, "Conos Devanados": true, "Conos Veteados": true}
	processedStates = map[string]bool{"Conos Devanados": true, "Conos Veteados": true}
)

func init() {
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	// Peruvian DNI: exactly 8 digits
	validate.RegisterValidation("dni", func(fl validator.FieldLevel) bool {
		return dniRegex.MatchString(fl.Field().String())
	})

	// decimals are validated through their string form
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	validate.RegisterValidation("money_gt0", decimalRule(func(d decimal.Decimal) bool { return d.IsPositive() }))
	validate.RegisterValidation("money_gte0", decimalRule(func(d decimal.Decimal) bool { return !d.IsNegative() }))

	validate.RegisterValidation("product_state", func(fl validator.FieldLevel) bool {
		return productStates[fl.Field().String()]
	})
	validate.RegisterValidation("processed_state", func(fl validator.FieldLevel) bool {
		return processedStates[fl.Field().String()]
	})
}

// decimalRule checks a decimal field for the predicate and for having at
// most two fraction digits. Optional (*decimal.Decimal) fields need omitempty.
func decimalRule(pred func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return pred(d) && d.Equal(d.Truncate(2))
	}
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "body", Tag: "invalid"}}
		}
		for _, err := range validationErrors {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// IsDNI reports whether s is a well formed DNI
func IsDNI(s string) bool {
	return dniRegex.MatchString(s)
}
