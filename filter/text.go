package filter

import (
	"strconv"
	"strings"
)

// Format renders an expression as a compact, single-line string for logs and
// error messages. The output is not parseable; use EncodeJSON for a
// round-trippable form.
//
//	(family("cf") | col_range("cf",["a","m")) | cells_per_column(1))
//
// Chain children are joined with " | ", interleave children with " + ", and a
// condition reads (predicate ? true : false) with missing branches left empty.
func Format(expr Expression) string {
	var sb strings.Builder
	format(&sb, expr)
	return sb.String()
}

func format(sb *strings.Builder, expr Expression) {
	if isNil(expr) {
		sb.WriteString("<nil>")
		return
	}

	switch ex := expr.(type) {
	case *Chain:
		formatList(sb, ex.filters, " | ")
	case *Interleave:
		formatList(sb, ex.filters, " + ")
	case *Condition:
		sb.WriteByte('(')
		format(sb, ex.predicate)
		sb.WriteString(" ? ")
		if ex.onTrue != nil {
			format(sb, ex.onTrue)
		}
		sb.WriteString(" : ")
		if ex.onFalse != nil {
			format(sb, ex.onFalse)
		}
		sb.WriteByte(')')
	case *PassAll:
		sb.WriteString("pass_all()")
	case *BlockAll:
		sb.WriteString("block_all()")
	case *Sink:
		sb.WriteString("sink()")
	case *StripValue:
		sb.WriteString("strip_value()")
	case *Label:
		call(sb, "label", strconv.Quote(ex.label))
	case *RowKeyRegex:
		call(sb, "row", quoteBytes(ex.pattern))
	case *FamilyNameRegex:
		call(sb, "family", strconv.Quote(ex.pattern))
	case *ColumnQualifierRegex:
		call(sb, "col", quoteBytes(ex.pattern))
	case *ValueRegex:
		call(sb, "value_match", quoteBytes(ex.pattern))
	case *RowSample:
		call(sb, "row_sample", strconv.FormatFloat(ex.probability, 'g', -1, 64))
	case *QualifierRange:
		call(sb, "col_range", strconv.Quote(ex.family)+","+formatRange(ex.bounds, quoteBytes))
	case *ValueRange:
		call(sb, "value_range", formatRange(ex.bounds, quoteBytes))
	case *TimestampRange:
		call(sb, "timestamp_range", formatRange(ex.bounds, formatMicros))
	case *CellsPerRowOffset:
		call(sb, "cells_per_row_offset", strconv.Itoa(int(ex.count)))
	case *CellsPerRowLimit:
		call(sb, "cells_per_row", strconv.Itoa(int(ex.count)))
	case *CellsPerColumnLimit:
		call(sb, "cells_per_column", strconv.Itoa(int(ex.count)))
	default:
		sb.WriteString("<unknown>")
	}
}

func formatList(sb *strings.Builder, exprs []Expression, sep string) {
	sb.WriteByte('(')
	for i, child := range exprs {
		if i > 0 {
			sb.WriteString(sep)
		}
		format(sb, child)
	}
	sb.WriteByte(')')
}

func call(sb *strings.Builder, name, args string) {
	sb.WriteString(name)
	sb.WriteByte('(')
	sb.WriteString(args)
	sb.WriteByte(')')
}

// formatRange renders bounds in interval notation: [ and ] are closed,
// ( and ) are open, and an unbounded side prints as -inf or +inf.
func formatRange[T Bound](r RangeDescriptor[T], value func(T) string) string {
	var sb strings.Builder

	switch r.Start.Kind {
	case Closed:
		sb.WriteString("[" + value(r.Start.Value))
	case Open:
		sb.WriteString("(" + value(r.Start.Value))
	default:
		sb.WriteString("(-inf")
	}

	sb.WriteByte(',')

	switch r.End.Kind {
	case Closed:
		sb.WriteString(value(r.End.Value) + "]")
	case Open:
		sb.WriteString(value(r.End.Value) + ")")
	default:
		sb.WriteString("+inf)")
	}

	return sb.String()
}

// quoteBytes quotes b as a Go string literal, escaping non-printable bytes.
func quoteBytes(b []byte) string {
	return strconv.Quote(string(b))
}

func formatMicros(v int64) string {
	return strconv.FormatInt(v, 10)
}
