// Package auth gates mutating routes behind a static shared secret.
package auth

import (
	"net/http"

	"github.com/abgdnv/productcatalog/internal/platform/apperror"
	"github.com/abgdnv/productcatalog/internal/platform/pipeline"
)

// HeaderName is the request header that carries the API key.
const HeaderName = "x-api-key"

const msgUnauthorized = "Unauthorized: Invalid or missing API key"

// Authorize reports whether header is present and equals secret.
// The comparison is a plain case-sensitive string match and is not constant time.
func Authorize(header, secret string) bool {
	return header != "" && header == secret
}

// Stage returns a pipeline stage that rejects requests without a matching API key.
func Stage(secret string) pipeline.Stage {
	return func(r *http.Request) (*http.Request, error) {
		if !Authorize(r.Header.Get(HeaderName), secret) {
			return nil, apperror.Unauthorized(msgUnauthorized)
		}
		return r, nil
	}
}
