package middleware

import (
	"errors"
	"testing"
)

func TestFieldErrorsFlattensFailures(t *testing.T) {
	v := NewValidator()

	type payload struct {
		Name string `validate:"required"`
		Size int    `validate:"gt=0"`
	}

	err := v.Validate(&payload{})
	if err == nil {
		t.Fatal("Validate() accepted an invalid payload")
	}

	fields := FieldErrors(err)
	if fields["Name"] != "required" {
		t.Errorf("Name rule = %q, want required", fields["Name"])
	}
	if fields["Size"] != "gt" {
		t.Errorf("Size rule = %q, want gt", fields["Size"])
	}
}

func TestFieldErrorsNonValidationError(t *testing.T) {
	v := NewValidator()

	// Validating a non-struct yields *validator.InvalidValidationError,
	// which must flatten without panicking.
	err := v.Validate("not a struct")
	if err == nil {
		t.Fatal("Validate() accepted a non-struct")
	}
	if fields := FieldErrors(err); len(fields) == 0 {
		t.Error("invalid-validation error produced no entries")
	}

	if fields := FieldErrors(errors.New("boom")); fields["request"] != "boom" {
		t.Errorf("plain error fallback = %v, want request entry", fields)
	}
}
