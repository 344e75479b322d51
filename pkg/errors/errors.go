package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSkipPart signals that a part cannot be processed this run (missing or
// unreachable enrichment data). It is not a failure: the caller logs and
// moves on without touching any store.
var ErrSkipPart = errors.New("part skipped")

// MediaFetchError is returned when a remote image cannot be retrieved.
// It fails the whole image batch for the owning part.
type MediaFetchError struct {
	URL    string
	Status int
}

func (e *MediaFetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("media fetch failed: no response from %s", e.URL)
	}
	return fmt.Sprintf("media fetch failed: status %d from %s", e.Status, e.URL)
}

// FieldError is a single user-level error reported by a Shopify mutation
type FieldError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// UserError is returned when a Shopify mutation reports a non-empty
// userErrors list. It is a hard failure for that operation.
type UserError struct {
	Operation string
	Errors    []FieldError
}

func (e *UserError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Message
	}
	return fmt.Sprintf("%s user errors: %s", e.Operation, strings.Join(msgs, "; "))
}

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// CatalogError is returned when the parts API is unreachable or rejects the
// credentials. On the first page it aborts the whole reconciliation run.
type CatalogError struct {
	Page int
	Err  error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("parts API page %d: %v", e.Page, e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }
