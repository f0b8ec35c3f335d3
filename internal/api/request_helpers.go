package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// maxRequestBodySize bounds request bodies to 1 MiB.
const maxRequestBodySize = 1 << 20

// DecodeJSON decodes the request body into v, rejecting unknown fields and
// oversized bodies.
func DecodeJSON(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}

	return nil
}

// ValidationDetails converts validator errors into a structured list of
// violated fields suitable for the details field of an error envelope.
func ValidationDetails(err error) []map[string]string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	details := make([]map[string]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		details = append(details, map[string]string{
			"field":  fieldErr.Field(),
			"reason": validationTagMessage(fieldErr.Tag()),
		})
	}
	return details
}

// validationTagMessage maps validation tags to user-friendly error messages
func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte", "gt":
		return "value too small"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
