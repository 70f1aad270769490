package server

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
)

//go:embed openapi.yaml
var openapiSpec []byte

// LoadSpec parses and validates the embedded API document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("loading openapi spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validating openapi spec: %w", err)
	}
	return doc, nil
}

// ValidateBodies rejects request bodies that do not match the document's
// schema for the route with a 400 before they reach next. Routes are
// matched on baseURL plus the document path.
func ValidateBodies(doc *openapi3.T, baseURL string, next http.Handler) http.Handler {
	bodies := make(map[string]*openapi3.RequestBody)
	for path, item := range doc.Paths.Map() {
		for method, op := range item.Operations() {
			if op.RequestBody == nil || op.RequestBody.Value == nil {
				continue
			}
			bodies[method+" "+baseURL+path] = op.RequestBody.Value
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.Method+" "+r.URL.Path]
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get("Content-Type") == "" {
			r.Header.Set("Content-Type", "application/json")
		}
		input := &openapi3filter.RequestValidationInput{
			Request: r,
			Options: &openapi3filter.Options{MultiError: false},
		}
		if err := openapi3filter.ValidateRequestBody(r.Context(), input, body); err != nil {
			writeError(w, http.StatusBadRequest, firstLine(err.Error()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
