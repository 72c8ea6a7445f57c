// Package msgpack provides MessagePack encoding/decoding for filter documents.
// Used by filter.ParseMsgpack and filter.EncodeMsgpack.
package msgpack

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Decode deserializes MessagePack data into a Go value.
// The v parameter should be a pointer to the target structure.
//
// Map keys that v does not declare are rejected, so typos in hand-written
// documents surface as errors. Integers and floats held in interface{} fields
// decode as int64/uint64/float64 regardless of their wire width.
//
// Example:
//
//	type endpoint struct {
//	    Open   any `msgpack:"open"`
//	    Closed any `msgpack:"closed"`
//	}
//
//	var ep endpoint
//	err := msgpack.Decode(data, &ep)
func Decode(data []byte, v interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("empty MessagePack data")
	}

	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields(true)
	dec.UseLooseInterfaceDecoding(true)

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}

	return nil
}

// Encode serializes a Go value into MessagePack format.
//
// Keys of map[string]string, map[string]bool and map[string]interface{}
// values are sorted; other map types keep Go's iteration order. Structs
// encode fields in declaration order, so filter documents are always
// byte-stable.
func Encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer

	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)

	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	return buf.Bytes(), nil
}
