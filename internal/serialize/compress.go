package serialize

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// ErrTooLarge is returned when decompressed data would exceed the
// decompressor's limit.
var ErrTooLarge = errors.New("decompressed data exceeds limit")

// Compressor handles ZStandard compression of filter payloads.
// Create once and reuse to eliminate allocations.
type Compressor struct {
	encoder *zstd.Encoder
}

// NewCompressor creates a reusable ZStandard compressor.
// Uses SpeedDefault (level 3). Filter payloads are small, so the window is
// kept at the minimum to avoid large per-call buffers.
// Caller must call Close() when done to release resources.
func NewCompressor() (*Compressor, error) {
	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithWindowSize(zstd.MinWindowSize),
		zstd.WithEncoderCRC(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	return &Compressor{
		encoder: encoder,
	}, nil
}

// Compress compresses data using ZStandard.
// Safe for concurrent use from multiple goroutines.
func (c *Compressor) Compress(data []byte) []byte {
	if len(data) == 0 {
		return []byte{}
	}

	// EncodeAll is goroutine-safe
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data)/2))
}

// Close releases compressor resources.
func (c *Compressor) Close() error {
	if c.encoder != nil {
		return c.encoder.Close()
	}
	return nil
}

// Decompressor handles ZStandard decompression.
// Create once and reuse to eliminate allocations.
type Decompressor struct {
	decoder *zstd.Decoder
	limit   uint64
}

// NewDecompressor creates a reusable ZStandard decompressor that refuses to
// produce more than limit bytes. A limit of 0 means the zstd default.
// Caller must call Close() when done to release resources.
func NewDecompressor(limit uint64) (*Decompressor, error) {
	opts := []zstd.DOption{zstd.WithDecoderConcurrency(0)}
	if limit > 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(limit))
	}

	decoder, err := zstd.NewReader(nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &Decompressor{
		decoder: decoder,
		limit:   limit,
	}, nil
}

// Decompress decompresses ZStandard data.
// Safe for concurrent use from multiple goroutines.
func (d *Decompressor) Decompress(compressed []byte) ([]byte, error) {
	if len(compressed) == 0 {
		return []byte{}, nil
	}

	// DecodeAll is goroutine-safe
	decompressed, err := d.decoder.DecodeAll(compressed, nil)
	if err != nil {
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
			return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, d.limit)
		}
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	if d.limit > 0 && uint64(len(decompressed)) > d.limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, d.limit)
	}

	return decompressed, nil
}

// Close releases decompressor resources.
func (d *Decompressor) Close() {
	if d.decoder != nil {
		d.decoder.Close()
	}
}
