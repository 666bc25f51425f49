package core

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed or out-of-range input. It carries every
// violated rule so callers can surface the full list, not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NotFoundError reports an absent sale or sale item.
type NotFoundError struct {
	Kind string // "sale" or "sale item"
	Ref  string // id or sale number
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Ref)
}

// InvalidOperationError reports a business-rule violation: mutating a
// cancelled sale or item, or a quantity outside the allowed bounds.
type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string { return e.Reason }

// ConflictError reports an optimistic-concurrency failure: the aggregate was
// modified between load and store, so the write was refused.
type ConflictError struct {
	Kind string
	Ref  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently", e.Kind, e.Ref)
}

func invalidOperation(format string, args ...any) error {
	return &InvalidOperationError{Reason: fmt.Sprintf(format, args...)}
}
