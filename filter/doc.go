// Package filter provides the row-filter expression model for Bigtable scans.
//
// This package enables client developers to:
//   - Build filter trees from leaf predicates and Chain/Interleave/Condition combinators
//   - Serialize trees to the store's wire message (bigtablepb.RowFilter)
//   - Decode wire messages captured from requests back into trees
//   - Render trees as text for logs, and as JSON/MessagePack documents for configuration
//
// # Basic Usage
//
// Construct a filter through the Builder and serialize it:
//
//	var f filter.Builder
//
//	expr := f.Chain().
//	    Filter(f.Family().ExactMatch("cf")).
//	    Filter(f.Qualifier().Regex("^user_")).
//	    Filter(f.Timestamp().RangeMicros(start, end)).
//	    Build()
//
//	pb, err := filter.ToProto(expr)
//	if err != nil {
//	    return err // nil node somewhere in the tree
//	}
//
// # Exact Matches
//
// ExactMatch constructors never produce a node of their own. The literal is
// escaped with EscapeLiteral and stored in the corresponding regex node, so
// the wire form only ever carries regex filters.
//
// # Ranges
//
// Qualifier, value and timestamp ranges share one generic RangeBuilder. Each
// side accepts an open or closed bound; setting the same side twice keeps the
// last value. Omitted sides are unbounded.
//
//	r := f.Qualifier().RangeWithinFamily("cf").
//	    StartClosed([]byte("a")).
//	    EndOpen([]byte("m")).
//	    Build()
//
// Timestamps travel as a half-open [start, end) interval in microseconds. Open
// starts and closed ends are shifted by one microsecond during encoding.
//
// # Validation
//
// Sample probabilities outside (0, 1] and cell counts outside [0, MaxInt32]
// are rejected when the node is constructed, with a *ValidationError. Regex
// patterns are passed to the store unchecked.
//
// # Expression Types
//
// The package supports the following expression types:
//   - Chain, Interleave, Condition: combinators
//   - PassAll, BlockAll, Sink, Label, StripValue: flag and transformer leaves
//   - RowKeyRegex, FamilyNameRegex, ColumnQualifierRegex, ValueRegex: pattern leaves
//   - RowSample: probabilistic row selection
//   - QualifierRange, ValueRange, TimestampRange: range leaves
//   - CellsPerRowOffset, CellsPerRowLimit, CellsPerColumnLimit: count leaves
package filter
