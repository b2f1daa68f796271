package helper

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"kostku_backend/internals/features/billing/engine"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator dipakai bersama oleh semua controller.
//   - nama field = tag json
//   - tag `period` untuk label YYYY-MM
//   - decimal.Decimal divalidasi sebagai angka (gt=0, gte=0, ...)
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = NewValidator()
	})
	return validate
}

func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("period", func(fl validator.FieldLevel) bool {
		return engine.IsValidPeriod(fl.Field().String())
	})

	return v
}

// ValidationErrorsToMap: {field: [tag, ...]}. Error non-validator masuk ke key "_".
func ValidationErrorsToMap(err error) map[string][]string {
	out := map[string][]string{}
	if err == nil {
		return out
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = append(out[fe.Field()], fe.Tag())
	}
	return out
}
