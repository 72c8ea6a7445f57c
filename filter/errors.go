package filter

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrNilExpression is returned when a tree contains a nil node.
	ErrNilExpression = errors.New("filter: nil expression")

	// ErrEmptyFilter is returned when a wire filter has no kind set.
	ErrEmptyFilter = errors.New("filter: wire filter has no kind set")

	// ErrFalseFlag is returned when a wire flag filter (pass_all, block_all,
	// sink, strip_value) is present but set to false.
	ErrFalseFlag = errors.New("filter: flag filter set to false")

	// ErrNotUTF8 is returned when a pattern, label or bound cannot be
	// represented in JSON.
	ErrNotUTF8 = errors.New("filter: byte field is not valid UTF-8")
)

// ValidationError reports an out-of-domain argument passed to a constructor.
type ValidationError struct {
	// Field names the rejected argument (e.g., "probability", "cells per row limit").
	Field string
	Value any
	// Reason states the accepted domain.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("filter: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// GRPCStatus maps the error to InvalidArgument so RPC layers can return it as is.
func (e *ValidationError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// UnknownKindError is returned when a document or wire message names a filter
// kind this package does not know.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	if e.Kind == "" {
		return "filter: missing filter type"
	}
	return "filter: unknown filter type: " + e.Kind
}
