package filter

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strconv"

	btpb "cloud.google.com/go/bigtable/apiv2/bigtablepb"
)

// ToProto converts an expression tree to the store's wire message.
//
// Children keep their order for both Chain and Interleave. Condition branches
// are emitted only when set. The only error is a nil node in the tree, reported
// as ErrNilExpression together with its position.
func ToProto(expr Expression) (*btpb.RowFilter, error) {
	return toProto(expr, "root")
}

func toProto(expr Expression, path string) (*btpb.RowFilter, error) {
	if isNil(expr) {
		return nil, fmt.Errorf("%w at %s", ErrNilExpression, path)
	}

	switch ex := expr.(type) {
	case *Chain:
		filters, err := toProtoList(ex.filters, path+".chain")
		if err != nil {
			return nil, err
		}
		return &btpb.RowFilter{Filter: &btpb.RowFilter_Chain_{
			Chain: &btpb.RowFilter_Chain{Filters: filters},
		}}, nil
	case *Interleave:
		filters, err := toProtoList(ex.filters, path+".interleave")
		if err != nil {
			return nil, err
		}
		return &btpb.RowFilter{Filter: &btpb.RowFilter_Interleave_{
			Interleave: &btpb.RowFilter_Interleave{Filters: filters},
		}}, nil
	case *Condition:
		return encodeCondition(ex, path)
	case *PassAll:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_PassAllFilter{PassAllFilter: true}}, nil
	case *BlockAll:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_BlockAllFilter{BlockAllFilter: true}}, nil
	case *Sink:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_Sink{Sink: true}}, nil
	case *StripValue:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_StripValueTransformer{StripValueTransformer: true}}, nil
	case *Label:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_ApplyLabelTransformer{ApplyLabelTransformer: ex.label}}, nil
	case *RowKeyRegex:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_RowKeyRegexFilter{RowKeyRegexFilter: bytes.Clone(ex.pattern)}}, nil
	case *FamilyNameRegex:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_FamilyNameRegexFilter{FamilyNameRegexFilter: ex.pattern}}, nil
	case *ColumnQualifierRegex:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_ColumnQualifierRegexFilter{ColumnQualifierRegexFilter: bytes.Clone(ex.pattern)}}, nil
	case *ValueRegex:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_ValueRegexFilter{ValueRegexFilter: bytes.Clone(ex.pattern)}}, nil
	case *RowSample:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_RowSampleFilter{RowSampleFilter: ex.probability}}, nil
	case *QualifierRange:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_ColumnRangeFilter{ColumnRangeFilter: encodeColumnRange(ex)}}, nil
	case *ValueRange:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_ValueRangeFilter{ValueRangeFilter: encodeValueRange(ex)}}, nil
	case *TimestampRange:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_TimestampRangeFilter{TimestampRangeFilter: encodeTimestampRange(ex)}}, nil
	case *CellsPerRowOffset:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_CellsPerRowOffsetFilter{CellsPerRowOffsetFilter: ex.count}}, nil
	case *CellsPerRowLimit:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_CellsPerRowLimitFilter{CellsPerRowLimitFilter: ex.count}}, nil
	case *CellsPerColumnLimit:
		return &btpb.RowFilter{Filter: &btpb.RowFilter_CellsPerColumnLimitFilter{CellsPerColumnLimitFilter: ex.count}}, nil
	default:
		// Unreachable while Expression stays sealed.
		return nil, &UnknownKindError{Kind: fmt.Sprintf("%T", expr)}
	}
}

func toProtoList(exprs []Expression, path string) ([]*btpb.RowFilter, error) {
	filters := make([]*btpb.RowFilter, 0, len(exprs))
	for i, child := range exprs {
		pb, err := toProto(child, path+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		filters = append(filters, pb)
	}
	return filters, nil
}

func encodeCondition(c *Condition, path string) (*btpb.RowFilter, error) {
	path += ".condition"

	predicate, err := toProto(c.predicate, path+".predicate")
	if err != nil {
		return nil, err
	}
	cond := &btpb.RowFilter_Condition{PredicateFilter: predicate}

	if c.onTrue != nil {
		if cond.TrueFilter, err = toProto(c.onTrue, path+".true"); err != nil {
			return nil, err
		}
	}
	if c.onFalse != nil {
		if cond.FalseFilter, err = toProto(c.onFalse, path+".false"); err != nil {
			return nil, err
		}
	}

	return &btpb.RowFilter{Filter: &btpb.RowFilter_Condition_{Condition: cond}}, nil
}

func encodeColumnRange(r *QualifierRange) *btpb.ColumnRange {
	cr := &btpb.ColumnRange{FamilyName: r.family}

	switch start := r.bounds.Start; start.Kind {
	case Open:
		cr.StartQualifier = &btpb.ColumnRange_StartQualifierOpen{StartQualifierOpen: bytes.Clone(start.Value)}
	case Closed:
		cr.StartQualifier = &btpb.ColumnRange_StartQualifierClosed{StartQualifierClosed: bytes.Clone(start.Value)}
	}

	switch end := r.bounds.End; end.Kind {
	case Open:
		cr.EndQualifier = &btpb.ColumnRange_EndQualifierOpen{EndQualifierOpen: bytes.Clone(end.Value)}
	case Closed:
		cr.EndQualifier = &btpb.ColumnRange_EndQualifierClosed{EndQualifierClosed: bytes.Clone(end.Value)}
	}

	return cr
}

func encodeValueRange(r *ValueRange) *btpb.ValueRange {
	vr := &btpb.ValueRange{}

	switch start := r.bounds.Start; start.Kind {
	case Open:
		vr.StartValue = &btpb.ValueRange_StartValueOpen{StartValueOpen: bytes.Clone(start.Value)}
	case Closed:
		vr.StartValue = &btpb.ValueRange_StartValueClosed{StartValueClosed: bytes.Clone(start.Value)}
	}

	switch end := r.bounds.End; end.Kind {
	case Open:
		vr.EndValue = &btpb.ValueRange_EndValueOpen{EndValueOpen: bytes.Clone(end.Value)}
	case Closed:
		vr.EndValue = &btpb.ValueRange_EndValueClosed{EndValueClosed: bytes.Clone(end.Value)}
	}

	return vr
}

// emptyTimestampRange matches no cell.
func emptyTimestampRange() *btpb.TimestampRange {
	return &btpb.TimestampRange{StartTimestampMicros: 1, EndTimestampMicros: 1}
}

// encodeTimestampRange maps the bounds onto the wire's [start, end), where 0
// means unbounded on either side. Bounds that cannot be shifted into that
// form without overflowing or landing on 0 are folded: an end that no
// timestamp can exceed is dropped, and a range nothing can satisfy becomes
// emptyTimestampRange.
func encodeTimestampRange(r *TimestampRange) *btpb.TimestampRange {
	tr := &btpb.TimestampRange{}

	switch start := r.bounds.Start; start.Kind {
	case Closed:
		tr.StartTimestampMicros = start.Value
	case Open:
		if start.Value == math.MaxInt64 {
			return emptyTimestampRange()
		}
		tr.StartTimestampMicros = start.Value + 1
	}

	switch end := r.bounds.End; end.Kind {
	case Open:
		if end.Value <= 0 {
			return emptyTimestampRange()
		}
		tr.EndTimestampMicros = end.Value
	case Closed:
		if end.Value < 0 {
			return emptyTimestampRange()
		}
		if end.Value < math.MaxInt64 {
			tr.EndTimestampMicros = end.Value + 1
		}
	}

	return tr
}

// isNil reports whether expr is nil or a typed nil pointer.
func isNil(expr Expression) bool {
	if expr == nil {
		return true
	}
	v := reflect.ValueOf(expr)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
