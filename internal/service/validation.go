package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Amounts carry at most maxAmountDigits significant digits and an exponent
// within ±maxAmountScale. Anything past that would make decimal comparisons
// rescale to arbitrarily large integers.
const (
	maxAmountDigits = 30
	maxAmountScale  = 20
	// a literal longer than this cannot satisfy both bounds
	maxAmountLen = 64

	amountOutOfRange = "number out of range"
)

var (
	ErrAmountOutOfRange = errors.New("amount out of range")

	amountType = reflect.TypeOf(Amount{})
)

// Amount is a decimal that decodes from either a JSON number or a numeric
// string
type Amount struct {
	decimal.Decimal
}

// NewAmount parses s into an Amount
func NewAmount(s string) (*Amount, error) {
	if len(s) > maxAmountLen {
		return nil, ErrAmountOutOfRange
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	if !amountInRange(d) {
		return nil, ErrAmountOutOfRange
	}
	return &Amount{Decimal: d}, nil
}

func amountInRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -maxAmountScale && exp <= maxAmountScale && d.NumDigits() <= maxAmountDigits
}

// MustAmount is NewAmount for literals known to be valid
func MustAmount(s string) *Amount {
	a, err := NewAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// UnmarshalJSON reports malformed or out of range input as a
// *json.UnmarshalTypeError so the decoder attaches the offending field name
// to it
func (a *Amount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > maxAmountLen {
		return &json.UnmarshalTypeError{Value: amountOutOfRange, Type: amountType}
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return &json.UnmarshalTypeError{Value: string(b), Type: amountType}
	}
	if !amountInRange(d) {
		return &json.UnmarshalTypeError{Value: amountOutOfRange, Type: amountType}
	}
	a.Decimal = d
	return nil
}

var labels = map[string]string{
	"account_number": "account number",
	"balance":        "balance",
	"payment_type":   "payment type",
	"value":          "value",
}

func label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return strings.ReplaceAll(field, "_", " ")
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// out of range amounts are never rendered; they surface as a marker the
	// amount rule rejects before dmin compares anything
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		a, ok := field.Interface().(Amount)
		if !ok {
			return nil
		}
		if !amountInRange(a.Decimal) {
			return amountOutOfRange
		}
		return a.String()
	}, Amount{})
	mustRegister(v, "amount", func(fl validator.FieldLevel) bool {
		return fl.Field().String() != amountOutOfRange
	})
	// dmin compares decimal strings exactly; the parameter is the lower bound
	mustRegister(v, "dmin", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return d.GreaterThanOrEqual(decimal.RequireFromString(fl.Param()))
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// validateStruct runs struct tag validation and translates failures into a
// *ValidationError
func (s *Service) validateStruct(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	verr := &ValidationError{}
	for _, fe := range errs {
		verr.add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	name := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "oneof":
		opts := strings.Fields(fe.Param())
		if len(opts) > 1 {
			return fmt.Sprintf("The %s must be %s or %s.", name, strings.Join(opts[:len(opts)-1], ", "), opts[len(opts)-1])
		}
		return fmt.Sprintf("The %s must be %s.", name, fe.Param())
	case "dmin":
		return fmt.Sprintf("The %s must be at least %s.", name, fe.Param())
	case "amount":
		return amountRangeMessage(name)
	default:
		return fmt.Sprintf("The %s is invalid.", name)
	}
}

func amountRangeMessage(name string) string {
	return fmt.Sprintf("The %s must have at most %d digits and %d decimal places.", name, maxAmountDigits, maxAmountScale)
}

// DecodeError builds the validation error for a field whose JSON value could
// not be decoded
func DecodeError(err *json.UnmarshalTypeError) *ValidationError {
	if err.Value == amountOutOfRange {
		return NewValidationError(err.Field, amountRangeMessage(label(err.Field)))
	}
	return TypeMismatchError(err.Field, err.Type)
}

// TypeMismatchError builds the validation error for a field whose JSON value
// has the wrong type
func TypeMismatchError(field string, want reflect.Type) *ValidationError {
	for want.Kind() == reflect.Pointer {
		want = want.Elem()
	}
	name := label(field)
	switch {
	case want == amountType:
		return NewValidationError(field, fmt.Sprintf("The %s must be a number.", name))
	case want.Kind() >= reflect.Int && want.Kind() <= reflect.Uint64:
		return NewValidationError(field, fmt.Sprintf("The %s must be an integer.", name))
	case want.Kind() == reflect.String:
		return NewValidationError(field, fmt.Sprintf("The %s must be a string.", name))
	default:
		return NewValidationError(field, fmt.Sprintf("The %s is invalid.", name))
	}
}
