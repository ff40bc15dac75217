package utils

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

type sampleRequest struct {
	VariantID   string `json:"variantId" validate:"required"`
	ProductType string `json:"productType" validate:"required,oneof=iPhone Mac"`
	Quantity    int    `json:"quantity" validate:"min=1,max=99"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

func TestSanitizeValidationErrorRequired(t *testing.T) {
	err := newValidator().Struct(sampleRequest{Quantity: 1})
	if err == nil {
		t.Fatal("expected validation error for missing required fields")
	}

	msg := SanitizeValidationError(err)
	if !strings.Contains(msg, "variantId is required") {
		t.Errorf("expected JSON field name in message, got: %s", msg)
	}
	if strings.Contains(msg, "VariantID") {
		t.Errorf("message leaks struct field name: %s", msg)
	}
}

func TestSanitizeValidationErrorBounds(t *testing.T) {
	err := newValidator().Struct(sampleRequest{VariantID: "x", ProductType: "Mac", Quantity: 0})
	msg := SanitizeValidationError(err)
	if msg != "quantity must be at least 1" {
		t.Errorf("unexpected message: %s", msg)
	}

	err = newValidator().Struct(sampleRequest{VariantID: "x", ProductType: "Mac", Quantity: 100})
	msg = SanitizeValidationError(err)
	if msg != "quantity must be at most 99" {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestSanitizeValidationErrorOneOf(t *testing.T) {
	err := newValidator().Struct(sampleRequest{VariantID: "x", ProductType: "Toaster", Quantity: 1})
	msg := SanitizeValidationError(err)
	if !strings.Contains(msg, "productType must be one of") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestSanitizeValidationErrorNilReturnsEmpty(t *testing.T) {
	if msg := SanitizeValidationError(nil); msg != "" {
		t.Errorf("expected empty string for nil error, got: %s", msg)
	}
}

func TestSanitizeValidationErrorNonValidation(t *testing.T) {
	msg := SanitizeValidationError(errors.New("json: cannot unmarshal string into Go value of type int"))
	if msg != "Invalid request body" {
		t.Errorf("expected generic message, got: %s", msg)
	}
}

func TestJSONFieldName(t *testing.T) {
	typ := reflect.TypeOf(struct {
		A string `json:"alpha,omitempty"`
		B string `json:"-"`
		C string
	}{})

	if got := jsonFieldName(typ.Field(0)); got != "alpha" {
		t.Errorf("expected alpha, got %s", got)
	}
	if got := jsonFieldName(typ.Field(1)); got != "" {
		t.Errorf("expected empty name for skipped field, got %s", got)
	}
	if got := jsonFieldName(typ.Field(2)); got != "C" {
		t.Errorf("expected struct name fallback, got %s", got)
	}
}
