package filter

import (
	"math"
	"slices"
	"time"
)

// Builder is the entry point for constructing filter expressions.
// It is stateless; the zero value is ready to use.
//
// Example:
//
//	var f filter.Builder
//	expr := f.Condition(f.Key().Regex("^user#")).
//	    Then(f.Label("user")).
//	    Otherwise(f.Block()).
//	    Build()
type Builder struct{}

// Key returns constructors for row key filters.
func (Builder) Key() KeyFilters { return KeyFilters{} }

// Family returns constructors for column family filters.
func (Builder) Family() FamilyFilters { return FamilyFilters{} }

// Qualifier returns constructors for column qualifier filters.
func (Builder) Qualifier() QualifierFilters { return QualifierFilters{} }

// Value returns constructors for cell value filters.
func (Builder) Value() ValueFilters { return ValueFilters{} }

// Timestamp returns constructors for cell timestamp filters.
func (Builder) Timestamp() TimestampFilters { return TimestampFilters{} }

// Offset returns constructors for offset filters.
func (Builder) Offset() OffsetFilters { return OffsetFilters{} }

// Limit returns constructors for limit filters.
func (Builder) Limit() LimitFilters { return LimitFilters{} }

// Chain starts a sequential composition.
func (Builder) Chain() ChainBuilder { return ChainBuilder{} }

// Interleave starts a parallel composition.
func (Builder) Interleave() InterleaveBuilder { return InterleaveBuilder{} }

// Condition starts a conditional filter on predicate. The predicate is
// required: a nil predicate is accepted here but fails with ErrNilExpression
// when the tree is encoded.
func (Builder) Condition(predicate Expression) ConditionBuilder {
	return ConditionBuilder{predicate: predicate}
}

// Label returns a filter that labels every output cell.
func (Builder) Label(label string) *Label { return &Label{label: label} }

// Pass returns a filter that matches everything.
func (Builder) Pass() *PassAll { return &PassAll{} }

// Block returns a filter that matches nothing.
func (Builder) Block() *BlockAll { return &BlockAll{} }

// Sink returns a filter that emits its input directly to the output.
func (Builder) Sink() *Sink { return &Sink{} }

// KeyFilters builds row key filters.
type KeyFilters struct{}

func (KeyFilters) Regex(pattern string) *RowKeyRegex {
	return &RowKeyRegex{pattern: []byte(pattern)}
}

// RegexBytes is Regex for patterns that are not valid UTF-8.
func (KeyFilters) RegexBytes(pattern []byte) *RowKeyRegex {
	return &RowKeyRegex{pattern: slices.Clone(pattern)}
}

// ExactMatch matches the row whose key equals key.
func (KeyFilters) ExactMatch(key []byte) *RowKeyRegex {
	return &RowKeyRegex{pattern: EscapeLiteral(key)}
}

func (KeyFilters) ExactMatchString(key string) *RowKeyRegex {
	return &RowKeyRegex{pattern: EscapeLiteral([]byte(key))}
}

// Sample keeps each row with the given probability, which must be in (0, 1].
func (KeyFilters) Sample(probability float64) (*RowSample, error) {
	// Negated so that NaN is rejected too.
	if !(probability > 0 && probability <= 1) {
		return nil, &ValidationError{
			Field:  "probability",
			Value:  probability,
			Reason: "must be in (0, 1]",
		}
	}
	return &RowSample{probability: probability}, nil
}

// FamilyFilters builds column family filters.
type FamilyFilters struct{}

func (FamilyFilters) Regex(pattern string) *FamilyNameRegex {
	return &FamilyNameRegex{pattern: pattern}
}

func (FamilyFilters) ExactMatch(family string) *FamilyNameRegex {
	return &FamilyNameRegex{pattern: EscapeLiteralString(family)}
}

// QualifierFilters builds column qualifier filters.
type QualifierFilters struct{}

func (QualifierFilters) Regex(pattern string) *ColumnQualifierRegex {
	return &ColumnQualifierRegex{pattern: []byte(pattern)}
}

func (QualifierFilters) RegexBytes(pattern []byte) *ColumnQualifierRegex {
	return &ColumnQualifierRegex{pattern: slices.Clone(pattern)}
}

func (QualifierFilters) ExactMatch(qualifier []byte) *ColumnQualifierRegex {
	return &ColumnQualifierRegex{pattern: EscapeLiteral(qualifier)}
}

func (QualifierFilters) ExactMatchString(qualifier string) *ColumnQualifierRegex {
	return &ColumnQualifierRegex{pattern: EscapeLiteral([]byte(qualifier))}
}

// RangeWithinFamily starts a qualifier range scoped to family.
func (QualifierFilters) RangeWithinFamily(family string) RangeBuilder[[]byte, *QualifierRange] {
	return newRangeBuilder(func(r RangeDescriptor[[]byte]) *QualifierRange {
		return &QualifierRange{family: family, bounds: r}
	})
}

// ValueFilters builds cell value filters.
type ValueFilters struct{}

func (ValueFilters) Regex(pattern string) *ValueRegex {
	return &ValueRegex{pattern: []byte(pattern)}
}

func (ValueFilters) RegexBytes(pattern []byte) *ValueRegex {
	return &ValueRegex{pattern: slices.Clone(pattern)}
}

func (ValueFilters) ExactMatch(value []byte) *ValueRegex {
	return &ValueRegex{pattern: EscapeLiteral(value)}
}

func (ValueFilters) ExactMatchString(value string) *ValueRegex {
	return &ValueRegex{pattern: EscapeLiteral([]byte(value))}
}

// Range starts a value range.
func (ValueFilters) Range() RangeBuilder[[]byte, *ValueRange] {
	return newRangeBuilder(func(r RangeDescriptor[[]byte]) *ValueRange {
		return &ValueRange{bounds: r}
	})
}

// Strip returns a transformer that clears cell values.
func (ValueFilters) Strip() *StripValue { return &StripValue{} }

// TimestampFilters builds cell timestamp filters. Timestamps are
// microseconds since the Unix epoch.
type TimestampFilters struct{}

// Range starts a timestamp range with individually set bounds.
func (TimestampFilters) Range() RangeBuilder[int64, *TimestampRange] {
	return newRangeBuilder(func(r RangeDescriptor[int64]) *TimestampRange {
		return &TimestampRange{bounds: r}
	})
}

// RangeMicros returns the half-open range [start, end).
func (t TimestampFilters) RangeMicros(start, end int64) *TimestampRange {
	return t.Range().StartClosed(start).EndOpen(end).Build()
}

// Between returns the half-open range [start, end), truncated to
// milliseconds, the granularity at which the store keeps timestamps.
func (t TimestampFilters) Between(start, end time.Time) *TimestampRange {
	return t.RangeMicros(start.UnixMilli()*1000, end.UnixMilli()*1000)
}

// OffsetFilters builds offset filters.
type OffsetFilters struct{}

// CellsPerRow skips the first count cells of each row.
func (OffsetFilters) CellsPerRow(count int) (*CellsPerRowOffset, error) {
	n, err := validateCount("cells per row offset", count)
	if err != nil {
		return nil, err
	}
	return &CellsPerRowOffset{count: n}, nil
}

// LimitFilters builds limit filters.
type LimitFilters struct{}

// CellsPerRow keeps the first count cells of each row.
func (LimitFilters) CellsPerRow(count int) (*CellsPerRowLimit, error) {
	n, err := validateCount("cells per row limit", count)
	if err != nil {
		return nil, err
	}
	return &CellsPerRowLimit{count: n}, nil
}

// CellsPerColumn keeps the most recent count versions of each column.
func (LimitFilters) CellsPerColumn(count int) (*CellsPerColumnLimit, error) {
	n, err := validateCount("cells per column limit", count)
	if err != nil {
		return nil, err
	}
	return &CellsPerColumnLimit{count: n}, nil
}

// validateCount checks that count fits the wire's int32 field.
func validateCount(field string, count int) (int32, error) {
	if count < 0 {
		return 0, &ValidationError{Field: field, Value: count, Reason: "must be non-negative"}
	}
	if count > math.MaxInt32 {
		return 0, &ValidationError{Field: field, Value: count, Reason: "exceeds int32 range"}
	}
	return int32(count), nil
}

// ChainBuilder accumulates the filters of a Chain.
// Each Filter call returns a new accumulator that does not share storage with
// its receiver, so earlier states stay valid. Not safe for concurrent use of
// the same value.
type ChainBuilder struct {
	filters []Expression
}

// Filter appends f to the chain.
func (b ChainBuilder) Filter(f Expression) ChainBuilder {
	b.filters = append(slices.Clip(b.filters), f)
	return b
}

// Build returns the chain. An empty or single-element chain is valid.
func (b ChainBuilder) Build() *Chain {
	return &Chain{filters: slices.Clone(b.filters)}
}

// InterleaveBuilder accumulates the filters of an Interleave.
// It has the same copy semantics as ChainBuilder.
type InterleaveBuilder struct {
	filters []Expression
}

// Filter appends f to the interleave.
func (b InterleaveBuilder) Filter(f Expression) InterleaveBuilder {
	b.filters = append(slices.Clip(b.filters), f)
	return b
}

func (b InterleaveBuilder) Build() *Interleave {
	return &Interleave{filters: slices.Clone(b.filters)}
}

// ConditionBuilder accumulates the branches of a Condition.
type ConditionBuilder struct {
	predicate Expression
	onTrue    Expression
	onFalse   Expression
}

// Then sets the filter applied to rows the predicate matches.
func (b ConditionBuilder) Then(f Expression) ConditionBuilder {
	b.onTrue = f
	return b
}

// Otherwise sets the filter applied to rows the predicate does not match.
func (b ConditionBuilder) Otherwise(f Expression) ConditionBuilder {
	b.onFalse = f
	return b
}

// Build returns the condition with whichever branches were set.
func (b ConditionBuilder) Build() *Condition {
	return &Condition{predicate: b.predicate, onTrue: b.onTrue, onFalse: b.onFalse}
}
