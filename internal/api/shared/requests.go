// Package shared holds helpers used across the API handlers: request
// decoding, validated responses, and context plumbing.
package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Validate is the global validator instance reused across handlers.
var Validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// ValidateRequest validates the given struct using the validator package.
// Types implementing their own Validate method take precedence.
func ValidateRequest(v interface{}) error {
	if validating, ok := v.(interface{ Validate() error }); ok {
		return validating.Validate()
	}
	return Validate.Struct(v)
}
