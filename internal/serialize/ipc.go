// Package serialize provides the byte-level encodings shared by the payload
// codec and the explain tables: ZStandard framing and Arrow IPC streams.
package serialize

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// WriteIPC serializes a single record as an Arrow IPC stream.
func WriteIPC(record arrow.RecordBatch, allocator memory.Allocator) ([]byte, error) {
	if record == nil {
		return nil, errors.New("nil record")
	}
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}

	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(record.Schema()), ipc.WithAllocator(allocator))
	defer writer.Close()

	if err := writer.Write(record); err != nil {
		return nil, fmt.Errorf("failed to write IPC record: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close IPC writer: %w", err)
	}

	return buf.Bytes(), nil
}

// ReadIPC reads the first record of an Arrow IPC stream. The caller owns the
// returned record and must Release it.
func ReadIPC(data []byte, allocator memory.Allocator) (arrow.RecordBatch, error) {
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}

	reader, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(allocator))
	if err != nil {
		return nil, fmt.Errorf("failed to open IPC stream: %w", err)
	}
	defer reader.Release()

	if !reader.Next() {
		if err := reader.Err(); err != nil {
			return nil, fmt.Errorf("failed to read IPC record: %w", err)
		}
		return nil, errors.New("IPC stream has no records")
	}

	record := reader.RecordBatch()
	record.Retain()
	return record, nil
}
