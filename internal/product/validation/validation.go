// Package validation checks product payloads sent to the create and update endpoints.
package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/abgdnv/productcatalog/internal/platform/apperror"
	"github.com/abgdnv/productcatalog/internal/platform/pipeline"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds how much of a request body is read.
const maxBodyBytes = 1 << 20

const (
	msgFailed      = "Validation failed"
	msgInvalidBody = "Request body must be a valid JSON object"
)

// Payload is a product payload that passed validation.
// Optional fields are nil when the client did not send them.
type Payload struct {
	Name        *string  `json:"name"        validate:"required,notblank"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Category    *string  `json:"category"    validate:"required,notblank"`
	InStock     *bool    `json:"inStock"`
}

// rule pairs a payload field with the violation reported when it is invalid.
type rule struct {
	field   string
	message string
}

// rules are reported in this order.
var rules = []rule{
	{field: "name", message: "Name is required and must be a non-empty string"},
	{field: "description", message: "Description must be a string"},
	{field: "price", message: "Price is required and must be a non-negative number"},
	{field: "category", message: "Category is required and must be a non-empty string"},
	{field: "inStock", message: "inStock must be a boolean value"},
}

// Validator validates product payloads.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		return name
	})
	// notblank rejects strings that are empty after trimming whitespace.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &Validator{validate: v}
}

// Validate decodes a JSON object and checks it against every rule.
// All violations are returned, not just the first. An empty slice means the payload is valid.
func (v *Validator) Validate(body []byte) (Payload, []string) {
	raw := map[string]any{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
			return Payload{}, []string{msgInvalidBody}
		}
	}

	failed := map[string]bool{}
	var p Payload
	p.Name = typed[string](raw, "name", failed)
	p.Description = typed[string](raw, "description", failed)
	p.Price = typed[float64](raw, "price", failed)
	p.Category = typed[string](raw, "category", failed)
	p.InStock = typed[bool](raw, "inStock", failed)

	if err := v.validate.Struct(p); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return Payload{}, []string{msgInvalidBody}
		}
		for _, fieldErr := range validationErrors {
			failed[fieldErr.Field()] = true
		}
	}

	violations := make([]string, 0, len(failed))
	for _, r := range rules {
		if failed[r.field] {
			violations = append(violations, r.message)
		}
	}
	return p, violations
}

// typed returns the value of key if it is present and of type T.
// A present value of any other type, null included, marks the field as failed.
func typed[T any](raw map[string]any, key string, failed map[string]bool) *T {
	value, ok := raw[key]
	if !ok {
		return nil
	}
	t, ok := value.(T)
	if !ok {
		failed[key] = true
		return nil
	}
	return &t
}

// Stage returns a pipeline stage that validates the request body and stores the
// payload in the request context.
func (v *Validator) Stage() pipeline.Stage {
	return func(r *http.Request) (*http.Request, error) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return nil, apperror.Validation(msgFailed, msgInvalidBody)
		}
		payload, violations := v.Validate(body)
		if len(violations) > 0 {
			return nil, apperror.Validation(msgFailed, violations...)
		}
		return r.WithContext(WithPayload(r.Context(), payload)), nil
	}
}

type payloadKey struct{}

// WithPayload adds a validated payload to the context.
func WithPayload(ctx context.Context, p Payload) context.Context {
	return context.WithValue(ctx, payloadKey{}, p)
}

// PayloadFrom retrieves the validated payload from the context.
// Returns the payload and a boolean indicating whether it was found.
func PayloadFrom(ctx context.Context) (Payload, bool) {
	p, ok := ctx.Value(payloadKey{}).(Payload)
	return p, ok
}
