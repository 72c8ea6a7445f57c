package rowfilter

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultMaxSize is the largest serialized filter the store accepts.
const DefaultMaxSize = 20 << 10

// PayloadConfig contains configuration for PayloadCodec.
type PayloadConfig struct {
	// MaxSize is the largest uncompressed wire filter, in bytes.
	// OPTIONAL: If 0, uses DefaultMaxSize. MUST NOT be negative.
	MaxSize int

	// Compress enables zstd compression of encoded payloads.
	// OPTIONAL: Defaults to false (raw protobuf bytes).
	Compress bool

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	// Note: If LogLevel is specified, a new logger will be created with that level.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, the logger's own level applies.
	// Valid values: slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level

	// Registerer receives the codec's Prometheus collectors.
	// OPTIONAL: If nil, no metrics are recorded.
	// Registering two codecs on the same Registerer panics.
	Registerer prometheus.Registerer
}

// Standard errors returned by rowfilter package.
var (
	// ErrInvalidConfig indicates PayloadConfig validation failed.
	ErrInvalidConfig = errors.New("invalid payload config")

	// ErrPayloadTooLarge indicates a filter exceeds PayloadConfig.MaxSize.
	ErrPayloadTooLarge = errors.New("filter payload too large")
)
