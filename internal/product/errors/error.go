// Package errors provides sentinel errors for product-related operations.
package errors

import "errors"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrSearchQueryRequired = errors.New("search query is required")
)
