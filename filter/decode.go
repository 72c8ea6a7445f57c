package filter

import (
	"bytes"
	"fmt"
	"strconv"

	btpb "cloud.google.com/go/bigtable/apiv2/bigtablepb"
)

// FromProto rebuilds an expression tree from a wire message.
//
// Decoding goes through the same constructors as Builder, so out-of-range
// samples and counts fail with *ValidationError. A message (or nested message)
// with no filter kind set fails with ErrEmptyFilter. Regex filters decode to
// regex nodes; the exact-match origin of a pattern is not recoverable.
func FromProto(pb *btpb.RowFilter) (Expression, error) {
	return fromProto(pb, "root")
}

func fromProto(pb *btpb.RowFilter, path string) (Expression, error) {
	var b Builder

	switch f := pb.GetFilter().(type) {
	case *btpb.RowFilter_Chain_:
		children, err := fromProtoList(f.Chain.GetFilters(), path+".chain")
		if err != nil {
			return nil, err
		}
		return &Chain{filters: children}, nil
	case *btpb.RowFilter_Interleave_:
		children, err := fromProtoList(f.Interleave.GetFilters(), path+".interleave")
		if err != nil {
			return nil, err
		}
		return &Interleave{filters: children}, nil
	case *btpb.RowFilter_Condition_:
		return decodeCondition(f.Condition, path+".condition")
	case *btpb.RowFilter_PassAllFilter:
		if !f.PassAllFilter {
			return nil, flagError(KindPassAll, path)
		}
		return b.Pass(), nil
	case *btpb.RowFilter_BlockAllFilter:
		if !f.BlockAllFilter {
			return nil, flagError(KindBlockAll, path)
		}
		return b.Block(), nil
	case *btpb.RowFilter_Sink:
		if !f.Sink {
			return nil, flagError(KindSink, path)
		}
		return b.Sink(), nil
	case *btpb.RowFilter_StripValueTransformer:
		if !f.StripValueTransformer {
			return nil, flagError(KindStripValue, path)
		}
		return b.Value().Strip(), nil
	case *btpb.RowFilter_ApplyLabelTransformer:
		return b.Label(f.ApplyLabelTransformer), nil
	case *btpb.RowFilter_RowKeyRegexFilter:
		return b.Key().RegexBytes(f.RowKeyRegexFilter), nil
	case *btpb.RowFilter_FamilyNameRegexFilter:
		return b.Family().Regex(f.FamilyNameRegexFilter), nil
	case *btpb.RowFilter_ColumnQualifierRegexFilter:
		return b.Qualifier().RegexBytes(f.ColumnQualifierRegexFilter), nil
	case *btpb.RowFilter_ValueRegexFilter:
		return b.Value().RegexBytes(f.ValueRegexFilter), nil
	case *btpb.RowFilter_RowSampleFilter:
		s, err := b.Key().Sample(f.RowSampleFilter)
		if err != nil {
			return nil, fmt.Errorf("at %s: %w", path, err)
		}
		return s, nil
	case *btpb.RowFilter_ColumnRangeFilter:
		return decodeColumnRange(f.ColumnRangeFilter), nil
	case *btpb.RowFilter_ValueRangeFilter:
		return decodeValueRange(f.ValueRangeFilter), nil
	case *btpb.RowFilter_TimestampRangeFilter:
		return decodeTimestampRange(f.TimestampRangeFilter), nil
	case *btpb.RowFilter_CellsPerRowOffsetFilter:
		o, err := b.Offset().CellsPerRow(int(f.CellsPerRowOffsetFilter))
		if err != nil {
			return nil, fmt.Errorf("at %s: %w", path, err)
		}
		return o, nil
	case *btpb.RowFilter_CellsPerRowLimitFilter:
		l, err := b.Limit().CellsPerRow(int(f.CellsPerRowLimitFilter))
		if err != nil {
			return nil, fmt.Errorf("at %s: %w", path, err)
		}
		return l, nil
	case *btpb.RowFilter_CellsPerColumnLimitFilter:
		l, err := b.Limit().CellsPerColumn(int(f.CellsPerColumnLimitFilter))
		if err != nil {
			return nil, fmt.Errorf("at %s: %w", path, err)
		}
		return l, nil
	case nil:
		return nil, fmt.Errorf("%w at %s", ErrEmptyFilter, path)
	default:
		return nil, fmt.Errorf("at %s: %w", path, &UnknownKindError{Kind: fmt.Sprintf("%T", f)})
	}
}

func flagError(kind Kind, path string) error {
	return fmt.Errorf("%w: %s at %s", ErrFalseFlag, kind, path)
}

func fromProtoList(pbs []*btpb.RowFilter, path string) ([]Expression, error) {
	if len(pbs) == 0 {
		return nil, nil
	}
	children := make([]Expression, 0, len(pbs))
	for i, pb := range pbs {
		child, err := fromProto(pb, path+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func decodeCondition(pb *btpb.RowFilter_Condition, path string) (Expression, error) {
	predicate, err := fromProto(pb.GetPredicateFilter(), path+".predicate")
	if err != nil {
		return nil, err
	}
	c := &Condition{predicate: predicate}

	if pb.GetTrueFilter() != nil {
		if c.onTrue, err = fromProto(pb.GetTrueFilter(), path+".true"); err != nil {
			return nil, err
		}
	}
	if pb.GetFalseFilter() != nil {
		if c.onFalse, err = fromProto(pb.GetFalseFilter(), path+".false"); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func decodeColumnRange(pb *btpb.ColumnRange) *QualifierRange {
	r := &QualifierRange{family: pb.GetFamilyName()}

	switch start := pb.GetStartQualifier().(type) {
	case *btpb.ColumnRange_StartQualifierOpen:
		r.bounds.Start = Endpoint[[]byte]{Kind: Open, Value: bytes.Clone(start.StartQualifierOpen)}
	case *btpb.ColumnRange_StartQualifierClosed:
		r.bounds.Start = Endpoint[[]byte]{Kind: Closed, Value: bytes.Clone(start.StartQualifierClosed)}
	}

	switch end := pb.GetEndQualifier().(type) {
	case *btpb.ColumnRange_EndQualifierOpen:
		r.bounds.End = Endpoint[[]byte]{Kind: Open, Value: bytes.Clone(end.EndQualifierOpen)}
	case *btpb.ColumnRange_EndQualifierClosed:
		r.bounds.End = Endpoint[[]byte]{Kind: Closed, Value: bytes.Clone(end.EndQualifierClosed)}
	}

	return r
}

func decodeValueRange(pb *btpb.ValueRange) *ValueRange {
	r := &ValueRange{}

	switch start := pb.GetStartValue().(type) {
	case *btpb.ValueRange_StartValueOpen:
		r.bounds.Start = Endpoint[[]byte]{Kind: Open, Value: bytes.Clone(start.StartValueOpen)}
	case *btpb.ValueRange_StartValueClosed:
		r.bounds.Start = Endpoint[[]byte]{Kind: Closed, Value: bytes.Clone(start.StartValueClosed)}
	}

	switch end := pb.GetEndValue().(type) {
	case *btpb.ValueRange_EndValueOpen:
		r.bounds.End = Endpoint[[]byte]{Kind: Open, Value: bytes.Clone(end.EndValueOpen)}
	case *btpb.ValueRange_EndValueClosed:
		r.bounds.End = Endpoint[[]byte]{Kind: Closed, Value: bytes.Clone(end.EndValueClosed)}
	}

	return r
}

// decodeTimestampRange reads [start, end) with zero as unbounded.
func decodeTimestampRange(pb *btpb.TimestampRange) *TimestampRange {
	r := &TimestampRange{}
	if s := pb.GetStartTimestampMicros(); s != 0 {
		r.bounds.Start = Endpoint[int64]{Kind: Closed, Value: s}
	}
	if e := pb.GetEndTimestampMicros(); e != 0 {
		r.bounds.End = Endpoint[int64]{Kind: Open, Value: e}
	}
	return r
}
