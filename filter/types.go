package filter

import (
	"bytes"
	"slices"
)

// Kind identifies the variant of a filter expression.
// The values double as the "type" discriminator of the document form.
type Kind string

const (
	// Combinators
	KindChain      Kind = "chain"
	KindInterleave Kind = "interleave"
	KindCondition  Kind = "condition"

	// Flag leaves
	KindPassAll  Kind = "pass_all"
	KindBlockAll Kind = "block_all"
	KindSink     Kind = "sink"

	// Pattern leaves
	KindRowKeyRegex          Kind = "row_key_regex"
	KindFamilyNameRegex      Kind = "family_name_regex"
	KindColumnQualifierRegex Kind = "column_qualifier_regex"
	KindValueRegex           Kind = "value_regex"

	KindRowSample Kind = "row_sample"

	// Range leaves
	KindColumnRange    Kind = "column_range"
	KindValueRange     Kind = "value_range"
	KindTimestampRange Kind = "timestamp_range"

	// Transformers
	KindStripValue Kind = "strip_value"
	KindLabel      Kind = "apply_label"

	// Count leaves
	KindCellsPerRowOffset   Kind = "cells_per_row_offset"
	KindCellsPerRowLimit    Kind = "cells_per_row_limit"
	KindCellsPerColumnLimit Kind = "cells_per_column_limit"
)

// Expression is the interface implemented by all filter expression types.
// Use type switches to access specific expression data.
//
// The set of implementations is closed: it mirrors the RowFilter oneof of the
// wire protocol.
type Expression interface {
	// Kind returns the variant discriminant.
	Kind() Kind

	// String renders the expression with Format.
	String() string

	// expressionMarker is a marker method to prevent external implementation.
	expressionMarker()
}

// sealed is embedded by every expression type.
type sealed struct{}

func (sealed) expressionMarker() {}

// Chain applies its filters in sequence, each consuming the previous output.
type Chain struct {
	sealed
	filters []Expression
}

// Filters returns a copy of the chained filters in application order.
func (c *Chain) Filters() []Expression { return slices.Clone(c.filters) }

// Interleave applies its filters to the same input and unions the results.
type Interleave struct {
	sealed
	filters []Expression
}

// Filters returns a copy of the interleaved filters in declaration order.
func (i *Interleave) Filters() []Expression { return slices.Clone(i.filters) }

// Condition routes each row to one of two branches depending on whether the
// predicate produces any cells for it. Both branches are optional.
type Condition struct {
	sealed
	predicate Expression
	onTrue    Expression
	onFalse   Expression
}

func (c *Condition) Predicate() Expression { return c.predicate }

// TrueFilter returns the branch applied on match, or nil.
func (c *Condition) TrueFilter() Expression { return c.onTrue }

// FalseFilter returns the branch applied on no match, or nil.
func (c *Condition) FalseFilter() Expression { return c.onFalse }

// PassAll matches every cell.
type PassAll struct{ sealed }

// BlockAll matches no cell.
type BlockAll struct{ sealed }

// Sink outputs matched cells directly, bypassing the rest of the tree.
type Sink struct{ sealed }

// StripValue replaces each cell value with the empty string.
type StripValue struct{ sealed }

// Label attaches a label to every output cell.
type Label struct {
	sealed
	label string
}

func (l *Label) Label() string { return l.label }

// RowKeyRegex matches rows whose key matches an RE2 pattern.
type RowKeyRegex struct {
	sealed
	pattern []byte
}

func (r *RowKeyRegex) Pattern() []byte { return bytes.Clone(r.pattern) }

// FamilyNameRegex matches cells whose family name matches an RE2 pattern.
type FamilyNameRegex struct {
	sealed
	pattern string
}

func (r *FamilyNameRegex) Pattern() string { return r.pattern }

// ColumnQualifierRegex matches cells whose qualifier matches an RE2 pattern.
type ColumnQualifierRegex struct {
	sealed
	pattern []byte
}

func (r *ColumnQualifierRegex) Pattern() []byte { return bytes.Clone(r.pattern) }

// ValueRegex matches cells whose value matches an RE2 pattern.
type ValueRegex struct {
	sealed
	pattern []byte
}

func (r *ValueRegex) Pattern() []byte { return bytes.Clone(r.pattern) }

// RowSample keeps each row with the given probability.
type RowSample struct {
	sealed
	probability float64
}

func (s *RowSample) Probability() float64 { return s.probability }

// QualifierRange matches qualifiers of a single family within a range.
type QualifierRange struct {
	sealed
	family string
	bounds RangeDescriptor[[]byte]
}

func (r *QualifierRange) Family() string { return r.family }

func (r *QualifierRange) Range() RangeDescriptor[[]byte] { return r.bounds.clone() }

// ValueRange matches cell values within a range.
type ValueRange struct {
	sealed
	bounds RangeDescriptor[[]byte]
}

func (r *ValueRange) Range() RangeDescriptor[[]byte] { return r.bounds.clone() }

// TimestampRange matches cells whose timestamp, in microseconds, is within a range.
type TimestampRange struct {
	sealed
	bounds RangeDescriptor[int64]
}

func (r *TimestampRange) Range() RangeDescriptor[int64] { return r.bounds }

// CellsPerRowOffset skips the first N cells of each row.
type CellsPerRowOffset struct {
	sealed
	count int32
}

func (c *CellsPerRowOffset) Count() int32 { return c.count }

// CellsPerRowLimit keeps at most N cells of each row.
type CellsPerRowLimit struct {
	sealed
	count int32
}

func (c *CellsPerRowLimit) Count() int32 { return c.count }

// CellsPerColumnLimit keeps at most N versions of each column.
type CellsPerColumnLimit struct {
	sealed
	count int32
}

func (c *CellsPerColumnLimit) Count() int32 { return c.count }

func (*Chain) Kind() Kind                { return KindChain }
func (*Interleave) Kind() Kind           { return KindInterleave }
func (*Condition) Kind() Kind            { return KindCondition }
func (*PassAll) Kind() Kind              { return KindPassAll }
func (*BlockAll) Kind() Kind             { return KindBlockAll }
func (*Sink) Kind() Kind                 { return KindSink }
func (*StripValue) Kind() Kind           { return KindStripValue }
func (*Label) Kind() Kind                { return KindLabel }
func (*RowKeyRegex) Kind() Kind          { return KindRowKeyRegex }
func (*FamilyNameRegex) Kind() Kind      { return KindFamilyNameRegex }
func (*ColumnQualifierRegex) Kind() Kind { return KindColumnQualifierRegex }
func (*ValueRegex) Kind() Kind           { return KindValueRegex }
func (*RowSample) Kind() Kind            { return KindRowSample }
func (*QualifierRange) Kind() Kind       { return KindColumnRange }
func (*ValueRange) Kind() Kind           { return KindValueRange }
func (*TimestampRange) Kind() Kind       { return KindTimestampRange }
func (*CellsPerRowOffset) Kind() Kind    { return KindCellsPerRowOffset }
func (*CellsPerRowLimit) Kind() Kind     { return KindCellsPerRowLimit }
func (*CellsPerColumnLimit) Kind() Kind  { return KindCellsPerColumnLimit }

func (c *Chain) String() string                { return Format(c) }
func (i *Interleave) String() string           { return Format(i) }
func (c *Condition) String() string            { return Format(c) }
func (p *PassAll) String() string              { return Format(p) }
func (b *BlockAll) String() string             { return Format(b) }
func (s *Sink) String() string                 { return Format(s) }
func (s *StripValue) String() string           { return Format(s) }
func (l *Label) String() string                { return Format(l) }
func (r *RowKeyRegex) String() string          { return Format(r) }
func (r *FamilyNameRegex) String() string      { return Format(r) }
func (r *ColumnQualifierRegex) String() string { return Format(r) }
func (r *ValueRegex) String() string           { return Format(r) }
func (s *RowSample) String() string            { return Format(s) }
func (r *QualifierRange) String() string       { return Format(r) }
func (r *ValueRange) String() string           { return Format(r) }
func (r *TimestampRange) String() string       { return Format(r) }
func (c *CellsPerRowOffset) String() string    { return Format(c) }
func (c *CellsPerRowLimit) String() string     { return Format(c) }
func (c *CellsPerColumnLimit) String() string  { return Format(c) }
