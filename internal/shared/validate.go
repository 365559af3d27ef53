package shared

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report field errors under their JSON names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("species", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "dog", "cat", "bird", "rabbit", "other":
			return true
		}
		return false
	})
}

// Validate checks a request struct and returns per-field messages, or nil.
func Validate(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": "invalid request"}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "this field is required"
		case "email":
			out[fe.Field()] = "invalid email format"
		case "min":
			out[fe.Field()] = "value is too short (min: " + fe.Param() + ")"
		case "max":
			out[fe.Field()] = "value is too long (max: " + fe.Param() + ")"
		case "gte":
			out[fe.Field()] = "value must be at least " + fe.Param()
		case "gt":
			out[fe.Field()] = "value must be greater than " + fe.Param()
		case "species":
			out[fe.Field()] = "invalid species. Must be: dog, cat, bird, rabbit, or other"
		default:
			out[fe.Field()] = "invalid value"
		}
	}
	return out
}
