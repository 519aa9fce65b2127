package quoting

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateCategory = errors.New("category already exists")
	// ErrCatalogDuplicate means a catalog item with the same name and spec
	// exists; the caller must confirm an overwrite.
	ErrCatalogDuplicate = errors.New("catalog item already exists")
	ErrEmptyQuote       = errors.New("quote has no line items")
	ErrPersistence      = errors.New("persistence failed")
	ErrValidation       = errors.New("validation failed")
)

// ValidationError maps field names to messages. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}
