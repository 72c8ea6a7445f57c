// Package recovery turns panics raised while decoding untrusted filter
// payloads into errors.
package recovery

import (
	"log/slog"
	"runtime/debug"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RecoverToValue runs fn and converts a panic into a codes.Internal status
// error, logging the panic with its stack trace.
//
// Example:
//
//	expr, err := recovery.RecoverToValue(logger, "decode", func() (filter.Expression, error) {
//	    return filter.FromProto(pb)
//	})
func RecoverToValue[T any](logger *slog.Logger, operation string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic recovered",
				"operation", operation,
				"panic", r,
				"stack", string(debug.Stack()),
			)

			var zero T
			result = zero
			err = status.Errorf(codes.Internal, "%s panicked: %v", operation, r)
		}
	}()

	return fn()
}
