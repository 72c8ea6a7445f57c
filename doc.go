// Package rowfilter builds Cloud Bigtable row filters and turns them into
// payloads ready to attach to a read request.
//
// Filters are assembled with the Filters entry point and serialized to the
// store's own bigtablepb.RowFilter message. Everything that executes the
// filter (connections, tables, retries) lives elsewhere; this package only
// produces a validated, size-checked wire filter.
//
// # Quick Start
//
//	expr := rowfilter.Filters.Chain().
//	    Filter(rowfilter.Filters.Family().ExactMatch("cf")).
//	    Filter(rowfilter.Filters.Qualifier().RangeWithinFamily("cf").
//	        StartClosed([]byte("a")).
//	        EndOpen([]byte("m")).
//	        Build()).
//	    Filter(rowfilter.Filters.Timestamp().Between(from, to)).
//	    Build()
//
//	codec, err := rowfilter.NewPayloadCodec(rowfilter.PayloadConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer codec.Close()
//
//	req := &bigtablepb.ReadRowsRequest{TableName: table}
//	if err := codec.ApplyToReadRows(req, expr); err != nil {
//	    log.Fatal(err)
//	}
//
// # Payloads
//
// PayloadCodec.Encode produces the deterministic wire bytes of a filter,
// optionally zstd-compressed, together with an xxhash64 fingerprint that
// identifies equal filters across processes. Decode reverses it. Payloads
// larger than PayloadConfig.MaxSize are rejected with ErrPayloadTooLarge in
// both directions.
//
// # Observability
//
// The codec logs through log/slog at debug level and, when
// PayloadConfig.Registerer is set, exports Prometheus metrics:
//
//	rowfilter_payload_bytes{compressed}
//	rowfilter_payloads_total{operation,status}
//
// See the filter package for the expression model and the explain package
// for a tabular view of a filter tree.
package rowfilter
