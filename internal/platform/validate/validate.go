// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError], plus a bridge from
// go-playground struct tags to the same error shape.
//
// # Architecture
//
// Request DTOs carry `validate` tags checked by [Struct] while decoding.
// Rules that depend on more than one field live in the service layer and use
// the chainable [Validator].
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/invitation/internal/platform/apperr"
)

var (
	// dateTokenRegex matches the YYMMDD disambiguator used in page URLs.
	dateTokenRegex = regexp.MustCompile(`^[0-9]{6}$`)
	// handleRegex matches a normalized page handle.
	handleRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

	structValidator = validator.New(validator.WithRequiredStructEnabled())
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// DateToken fails if a non-empty value is not exactly six digits (YYMMDD).
// An empty value passes: the token is optional.
func (v *Validator) DateToken(field, value string) *Validator {
	if value != "" && !dateTokenRegex.MatchString(value) {
		v.add(field, "Must be a 6-digit date (YYMMDD)")
	}
	return v
}

// Handle fails if the value is not a normalized page handle.
func (v *Validator) Handle(field, value string) *Validator {
	if !handleRegex.MatchString(value) {
		v.add(field, "Must contain only lowercase letters, digits, '-' or '_'")
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method: call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError(message, apperr.FieldError{
		Field:   field,
		Message: message,
	})
}

// # Struct Tags

// Struct checks the `validate` tags of target and converts failures into a
// VALIDATION_ERROR. Field names are reported by their `json` tag.
func Struct(target any) error {
	err := structValidator.Struct(target)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperr.Internal(fmt.Errorf("validate: %w", err))
	}

	details := make([]apperr.FieldError, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		details = append(details, apperr.FieldError{
			Field:   fieldError.Field(),
			Message: describe(fieldError),
		})
	}
	return apperr.ValidationError("Validation failed", details...)
}

func describe(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return fmt.Sprintf("Maximum %s", fieldError.Param())
	case "min":
		return fmt.Sprintf("Minimum %s", fieldError.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s", fieldError.Param())
	default:
		return fmt.Sprintf("Failed rule '%s'", fieldError.Tag())
	}
}

func init() {
	structValidator.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
}
