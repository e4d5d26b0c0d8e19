package validator

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// Report fields by their JSON name, which is what API clients see
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Register custom validation for UUID
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	// finite rejects NaN and +/-Inf
	validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			f := fl.Field().Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		}
		return true
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
	}
	for _, err := range verrs {
		var element ErrorResponse
		element.FailedField = fieldPath(err.Namespace())
		element.Tag = err.Tag()
		element.Value = err.Param()
		errs = append(errs, &element)
	}
	return errs
}

// First returns the first failure of data, or nil when it is valid.
func First(data interface{}) *ErrorResponse {
	if errs := ValidateStruct(data); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// fieldPath drops the root struct name: "Draft.materials[0].units_used"
// becomes "materials[0].units_used".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// Message renders a failure the way API clients read it.
func (e *ErrorResponse) Message() string {
	switch e.Tag {
	case "required", "uuid_required":
		return "is required"
	case "gte":
		return "must be greater than or equal to " + e.Value
	case "gt":
		return "must be greater than " + e.Value
	case "lte":
		return "must be less than or equal to " + e.Value
	case "max":
		return "must be at most " + e.Value + " characters"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(e.Value, " ", ", ")
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Value + " characters"
	case "finite":
		return "must be a finite number"
	case "dive":
		return "is invalid"
	}
	return "failed on '" + e.Tag + "'"
}
