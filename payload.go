package rowfilter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	btpb "cloud.google.com/go/bigtable/apiv2/bigtablepb"
	"github.com/cespare/xxhash/v2"
	"google.golang.org/protobuf/proto"

	"github.com/hugr-lab/rowfilter/filter"
	"github.com/hugr-lab/rowfilter/internal/metrics"
	"github.com/hugr-lab/rowfilter/internal/recovery"
	"github.com/hugr-lab/rowfilter/internal/serialize"
)

// Payload is a serialized filter.
type Payload struct {
	// Data holds the wire bytes, zstd-compressed when Compressed is set.
	Data []byte

	Compressed bool

	// Size is the length of the uncompressed wire message.
	Size int

	// Fingerprint is the xxhash64 of the uncompressed wire message. Equal
	// filters have equal fingerprints regardless of compression.
	Fingerprint uint64
}

// PayloadCodec converts filter expressions to and from wire payloads.
// Safe for concurrent use.
type PayloadCodec struct {
	maxSize      int
	compress     bool
	logger       *slog.Logger
	metrics      *metrics.Payload
	compressor   *serialize.Compressor
	decompressor *serialize.Decompressor
}

// NewPayloadCodec validates config and creates a codec.
// Caller must call Close() when done to release the zstd workers.
//
// Example:
//
//	level := slog.LevelDebug
//	codec, err := rowfilter.NewPayloadCodec(rowfilter.PayloadConfig{
//	    Compress:   true,
//	    LogLevel:   &level,
//	    Registerer: prometheus.DefaultRegisterer,
//	})
func NewPayloadCodec(config PayloadConfig) (*PayloadCodec, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	maxSize := config.MaxSize
	if maxSize == 0 {
		maxSize = DefaultMaxSize
	}

	logger := config.Logger
	if logger == nil {
		if config.LogLevel != nil {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: *config.LogLevel}))
		} else {
			logger = slog.Default()
		}
	}

	compressor, err := serialize.NewCompressor()
	if err != nil {
		return nil, err
	}
	decompressor, err := serialize.NewDecompressor(uint64(maxSize))
	if err != nil {
		compressor.Close()
		return nil, err
	}

	return &PayloadCodec{
		maxSize:      maxSize,
		compress:     config.Compress,
		logger:       logger,
		metrics:      metrics.NewPayload(config.Registerer),
		compressor:   compressor,
		decompressor: decompressor,
	}, nil
}

// validateConfig checks that PayloadConfig fields are valid.
func validateConfig(config PayloadConfig) error {
	if config.MaxSize < 0 {
		return fmt.Errorf("max size must not be negative, got %d", config.MaxSize)
	}
	return nil
}

// MaxSize returns the effective payload size limit.
func (c *PayloadCodec) MaxSize() int { return c.maxSize }

// Encode serializes expr with deterministic field ordering, so equal trees
// always produce equal bytes.
//
// Error conditions:
//   - A nil node anywhere in the tree (filter.ErrNilExpression)
//   - The wire message exceeds MaxSize (ErrPayloadTooLarge)
func (c *PayloadCodec) Encode(expr filter.Expression) (*Payload, error) {
	p, err := c.encode(expr)
	c.metrics.Inc(metrics.OpEncode, err)
	if err != nil {
		return nil, err
	}

	c.metrics.ObserveSize(len(p.Data), p.Compressed)
	c.logger.Debug("Encoded filter payload",
		"kind", expr.Kind(),
		"bytes", len(p.Data),
		"size", p.Size,
		"compressed", p.Compressed,
		"fingerprint", p.Fingerprint,
	)

	return p, nil
}

func (c *PayloadCodec) encode(expr filter.Expression) (*Payload, error) {
	pb, err := filter.ToProto(expr)
	if err != nil {
		return nil, err
	}

	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(pb)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal filter: %w", err)
	}
	if len(data) > c.maxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadTooLarge, len(data), c.maxSize)
	}

	p := &Payload{
		Data:        data,
		Size:        len(data),
		Fingerprint: xxhash.Sum64(data),
	}
	if c.compress {
		p.Data = c.compressor.Compress(data)
		p.Compressed = true
	}

	return p, nil
}

// Decode rebuilds an expression from payload bytes. compressed must match
// the Compressed flag of the payload that produced data.
//
// Error conditions:
//   - data (after decompression) exceeds MaxSize (ErrPayloadTooLarge)
//   - data is not a valid RowFilter message
//   - the message fails filter.FromProto validation
func (c *PayloadCodec) Decode(data []byte, compressed bool) (filter.Expression, error) {
	expr, err := recovery.RecoverToValue(c.logger, "decode", func() (filter.Expression, error) {
		return c.decode(data, compressed)
	})
	c.metrics.Inc(metrics.OpDecode, err)
	if err != nil {
		c.logger.Debug("Failed to decode filter payload",
			"bytes", len(data),
			"compressed", compressed,
			"error", err,
		)
		return nil, err
	}

	c.logger.Debug("Decoded filter payload",
		"kind", expr.Kind(),
		"bytes", len(data),
		"compressed", compressed,
	)

	return expr, nil
}

func (c *PayloadCodec) decode(data []byte, compressed bool) (filter.Expression, error) {
	if compressed {
		raw, err := c.decompressor.Decompress(data)
		if err != nil {
			if errors.Is(err, serialize.ErrTooLarge) {
				return nil, fmt.Errorf("%w: %v", ErrPayloadTooLarge, err)
			}
			return nil, err
		}
		data = raw
	}
	if len(data) > c.maxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadTooLarge, len(data), c.maxSize)
	}

	pb := &btpb.RowFilter{}
	if err := proto.Unmarshal(data, pb); err != nil {
		return nil, fmt.Errorf("failed to unmarshal filter: %w", err)
	}

	return filter.FromProto(pb)
}

// ApplyToReadRows sets req.Filter to the wire form of expr, replacing any
// filter already present. req is left unchanged on error.
func (c *PayloadCodec) ApplyToReadRows(req *btpb.ReadRowsRequest, expr filter.Expression) error {
	if req == nil {
		return errors.New("nil read request")
	}

	pb, err := filter.ToProto(expr)
	if err != nil {
		return err
	}
	if size := proto.Size(pb); size > c.maxSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadTooLarge, size, c.maxSize)
	}

	req.Filter = pb
	return nil
}

// Close releases codec resources.
func (c *PayloadCodec) Close() error {
	c.decompressor.Close()
	return c.compressor.Close()
}
