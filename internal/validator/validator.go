// Package validator wraps go-playground/validator with the event domain's
// custom tags and readable, JSON-named error messages.
package validator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Shivanand-hulikatti/college-events/internal/model"
)

var global = New()

// New returns a validator with the domain tags registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return model.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("eventtype", func(fl validator.FieldLevel) bool {
		return model.EventType(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks s against its validate tags. The returned error describes
// the first failing field.
func Validate(ctx context.Context, s any) error {
	return describe(global.StructCtx(ctx, s))
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "required_without":
		return fmt.Errorf("%s is required when %s is empty", field, lowerFirst(fe.Param()))
	case "max":
		if isCollection(fe.Kind()) {
			return fmt.Errorf("%s must have at most %s items", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Errorf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Errorf("%s must be at most %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Errorf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Errorf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Errorf("%s must not be negative", field)
	case "email":
		return fmt.Errorf("%s must be a valid email address", field)
	case "url":
		return fmt.Errorf("%s must be a valid URL", field)
	case "category":
		return fmt.Errorf("%s %q is not a known category", field, fe.Value())
	case "oneof":
		return fmt.Errorf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eventtype":
		return fmt.Errorf("%s must be one of online, offline, hybrid", field)
	default:
		return fmt.Errorf("%s failed %s validation", field, fe.Tag())
	}
}

func isCollection(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
