// Package validation validates request and config structs with
// go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and is safe for concurrent use. Field names in errors come from the
// json tag when one is present, so messages match the wire names clients send.
//
//	type AddExpenseRequest struct {
//	    PeriodID string `json:"period_id" validate:"required"`
//	    Amount   string `json:"amount" validate:"required,decimal_gt0"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    return nil, connect.NewError(connect.CodeInvalidArgument, err)
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single failed rule.
type FieldError struct {
	field   string
	tag     string
	param   string
	message string
}

// Field returns the wire name of the field that failed.
func (e *FieldError) Field() string { return e.field }

// Tag returns the rule that failed.
func (e *FieldError) Tag() string { return e.tag }

// Param returns the rule parameter, e.g. "100" for "max=100".
func (e *FieldError) Param() string { return e.param }

func (e *FieldError) Error() string { return e.message }

// RequestValidationError collects every failed rule of one struct.
type RequestValidationError struct {
	errors []FieldError
}

// Errors returns the failed rules in declaration order.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

// Field returns the first failed field, or "" when there is none.
func (ve *RequestValidationError) Field() string {
	if len(ve.errors) == 0 {
		return ""
	}
	return ve.errors[0].field
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i, err := range ve.errors {
		messages[i] = err.message
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)

		// Money travels as decimal strings.
		must(validate.RegisterValidation("decimal", isDecimal))
		must(validate.RegisterValidation("decimal_gt0", isPositiveDecimal))
		must(validate.RegisterValidation("decimal_gte0", isNonNegativeDecimal))
		must(validate.RegisterValidation("date", isDate))
	})
	return validate
}

// ValidateStruct validates s with the shared instance. It returns nil or a
// *RequestValidationError.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{errors: []FieldError{{
			field:   "unknown",
			tag:     "unknown",
			message: err.Error(),
		}}}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fieldErrors[i] = FieldError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			message: translateError(fe),
		}
	}
	return &RequestValidationError{errors: fieldErrors}
}

var errorMessageTemplates = map[string]string{
	"required":     "%s is required",
	"email":        "%s must be a valid email address",
	"uuid":         "%s must be a valid UUID",
	"decimal":      "%s must be a decimal number",
	"decimal_gt0":  "%s must be a decimal number greater than 0",
	"decimal_gte0": "%s must be a decimal number greater than or equal to 0",
	"date":         "%s must be a date in YYYY-MM-DD format",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translateError(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	isString := fe.Kind() == reflect.String
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "dive":
		return fmt.Sprintf("%s contains an invalid entry", field)
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		if k := f.Tag.Get("koanf"); k != "" {
			return k
		}
		return f.Name
	}
	return name
}

func parseDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	if fl.Field().Kind() != reflect.String {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(fl.Field().String())
	return d, err == nil
}

func isDecimal(fl validator.FieldLevel) bool {
	_, ok := parseDecimal(fl)
	return ok
}

func isPositiveDecimal(fl validator.FieldLevel) bool {
	d, ok := parseDecimal(fl)
	return ok && d.IsPositive()
}

func isNonNegativeDecimal(fl validator.FieldLevel) bool {
	d, ok := parseDecimal(fl)
	return ok && !d.IsNegative()
}

func isDate(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
