package config

import (
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// NewValidator reports field errors by their JSON names. It adds the
// trimmin=N tag: the value must keep at least N characters once surrounding
// whitespace is stripped, which is how names are stored.
func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("trimmin", trimMin)
	return validate
}

func trimMin(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	min, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic("trimmin: invalid parameter " + fl.Param())
	}

	return utf8.RuneCountInString(strings.TrimSpace(field.String())) >= min
}
