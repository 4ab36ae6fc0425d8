// Package validation holds the request-boundary rules applied before a use
// case runs.
package validation

import "fmt"

// RequiredFieldError reports a missing or empty required field.
type RequiredFieldError struct {
	Field string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("the field %s is required", e.Field)
}

// Validator checks a single rule.
type Validator interface {
	Validate() error
}

// RequiredStringValidator fails when Value is empty.
type RequiredStringValidator struct {
	Value string
	Field string
}

func (v RequiredStringValidator) Validate() error {
	return RequiredString(v.Value, v.Field)
}

// RequiredString returns a *RequiredFieldError naming field when value is empty.
func RequiredString(value, field string) error {
	if value == "" {
		return &RequiredFieldError{Field: field}
	}
	return nil
}

// Compose runs validators in order and returns the first failure.
func Compose(validators ...Validator) error {
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
