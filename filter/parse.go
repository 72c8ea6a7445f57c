package filter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/hugr-lab/rowfilter/internal/msgpack"
)

// Parse parses a JSON filter document into an expression tree.
//
// A document is one object per node, discriminated by "type" (see Kind):
//
//	{"type": "chain", "filters": [
//	    {"type": "family_name_regex", "pattern": "cf"},
//	    {"type": "column_range", "family": "cf",
//	     "start": {"closed": "a"}, "end": {"open": "m"}},
//	    {"type": "cells_per_column_limit", "count": 1}
//	]}
//
// Byte fields are strings. Timestamp bounds are integer microseconds.
// Nodes are built with the Builder constructors, so invalid probabilities and
// counts fail with *ValidationError.
//
// Error conditions:
//   - Invalid JSON syntax or unknown fields
//   - Unknown or missing "type" (*UnknownKindError)
//   - Missing fields required by the node type, or fields it does not use
//   - Trailing data after the document
func Parse(data []byte) (Expression, error) {
	if len(data) == 0 {
		return nil, errors.New("filter: empty document")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("filter: invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("filter: invalid JSON: trailing data after document")
	}

	return fromDocument(&doc, "root")
}

// ParseMsgpack parses a MessagePack filter document. The layout is the same
// as Parse; byte fields may hold arbitrary bytes.
func ParseMsgpack(data []byte) (Expression, error) {
	var doc document
	if err := msgpack.Decode(data, &doc); err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	return fromDocument(&doc, "root")
}

// EncodeJSON renders an expression as a JSON document accepted by Parse.
// Patterns, labels, family names and bounds that are not valid UTF-8 fail
// with ErrNotUTF8; use EncodeMsgpack for binary content.
func EncodeJSON(expr Expression) ([]byte, error) {
	doc, err := toDocument(expr, "root", true)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("filter: failed to encode JSON: %w", err)
	}
	return data, nil
}

// EncodeMsgpack renders an expression as a MessagePack document accepted by
// ParseMsgpack.
func EncodeMsgpack(expr Expression) ([]byte, error) {
	doc, err := toDocument(expr, "root", false)
	if err != nil {
		return nil, err
	}

	data, err := msgpack.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	return data, nil
}

// document is the serialized form of one node.
type document struct {
	Type        Kind        `json:"type" msgpack:"type"`
	Filters     []*document `json:"filters,omitempty" msgpack:"filters,omitempty"`
	Predicate   *document   `json:"predicate,omitempty" msgpack:"predicate,omitempty"`
	True        *document   `json:"true,omitempty" msgpack:"true,omitempty"`
	False       *document   `json:"false,omitempty" msgpack:"false,omitempty"`
	Pattern     *string     `json:"pattern,omitempty" msgpack:"pattern,omitempty"`
	Label       *string     `json:"label,omitempty" msgpack:"label,omitempty"`
	Probability *float64    `json:"probability,omitempty" msgpack:"probability,omitempty"`
	Family      *string     `json:"family,omitempty" msgpack:"family,omitempty"`
	Start       *endpoint   `json:"start,omitempty" msgpack:"start,omitempty"`
	End         *endpoint   `json:"end,omitempty" msgpack:"end,omitempty"`
	Count       *int64      `json:"count,omitempty" msgpack:"count,omitempty"`
}

// endpoint holds at most one of Open and Closed. Values are strings for byte
// ranges and integers for timestamp ranges. The msgpack tags keep both keys so
// an empty string bound survives encoding.
type endpoint struct {
	Open   any `json:"open,omitempty" msgpack:"open"`
	Closed any `json:"closed,omitempty" msgpack:"closed"`
}

func fromDocument(doc *document, path string) (Expression, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w at %s", ErrNilExpression, path)
	}

	if err := checkFields(doc, path); err != nil {
		return nil, err
	}

	var b Builder

	switch doc.Type {
	case KindChain:
		children, err := fromDocumentList(doc.Filters, path+".chain")
		if err != nil {
			return nil, err
		}
		return &Chain{filters: children}, nil
	case KindInterleave:
		children, err := fromDocumentList(doc.Filters, path+".interleave")
		if err != nil {
			return nil, err
		}
		return &Interleave{filters: children}, nil
	case KindCondition:
		return conditionFromDocument(doc, path+".condition")
	case KindPassAll:
		return b.Pass(), nil
	case KindBlockAll:
		return b.Block(), nil
	case KindSink:
		return b.Sink(), nil
	case KindStripValue:
		return b.Value().Strip(), nil
	case KindLabel:
		if doc.Label == nil {
			return nil, missingField(doc.Type, "label", path)
		}
		return b.Label(*doc.Label), nil
	case KindRowKeyRegex, KindFamilyNameRegex, KindColumnQualifierRegex, KindValueRegex:
		if doc.Pattern == nil {
			return nil, missingField(doc.Type, "pattern", path)
		}
		return regexFromDocument(doc.Type, *doc.Pattern), nil
	case KindRowSample:
		if doc.Probability == nil {
			return nil, missingField(doc.Type, "probability", path)
		}
		s, err := b.Key().Sample(*doc.Probability)
		if err != nil {
			return nil, fmt.Errorf("at %s: %w", path, err)
		}
		return s, nil
	case KindColumnRange:
		if doc.Family == nil {
			return nil, missingField(doc.Type, "family", path)
		}
		return bytesRangeFromDocument(b.Qualifier().RangeWithinFamily(*doc.Family), doc, path)
	case KindValueRange:
		return bytesRangeFromDocument(b.Value().Range(), doc, path)
	case KindTimestampRange:
		return timestampRangeFromDocument(doc, path)
	case KindCellsPerRowOffset, KindCellsPerRowLimit, KindCellsPerColumnLimit:
		if doc.Count == nil {
			return nil, missingField(doc.Type, "count", path)
		}
		return countFromDocument(doc.Type, *doc.Count, path)
	default:
		return nil, fmt.Errorf("at %s: %w", path, &UnknownKindError{Kind: string(doc.Type)})
	}
}

// documentFields lists the fields each node type reads besides "type".
var documentFields = map[Kind][]string{
	KindChain:                {"filters"},
	KindInterleave:           {"filters"},
	KindCondition:            {"predicate", "true", "false"},
	KindPassAll:              nil,
	KindBlockAll:             nil,
	KindSink:                 nil,
	KindStripValue:           nil,
	KindLabel:                {"label"},
	KindRowKeyRegex:          {"pattern"},
	KindFamilyNameRegex:      {"pattern"},
	KindColumnQualifierRegex: {"pattern"},
	KindValueRegex:           {"pattern"},
	KindRowSample:            {"probability"},
	KindColumnRange:          {"family", "start", "end"},
	KindValueRange:           {"start", "end"},
	KindTimestampRange:       {"start", "end"},
	KindCellsPerRowOffset:    {"count"},
	KindCellsPerRowLimit:     {"count"},
	KindCellsPerColumnLimit:  {"count"},
}

// checkFields rejects fields that are set but unused by the node type.
// Unknown types are left to fromDocument.
func checkFields(doc *document, path string) error {
	allowed, ok := documentFields[doc.Type]
	if !ok {
		return nil
	}

	set := []struct {
		name    string
		present bool
	}{
		{"filters", doc.Filters != nil},
		{"predicate", doc.Predicate != nil},
		{"true", doc.True != nil},
		{"false", doc.False != nil},
		{"pattern", doc.Pattern != nil},
		{"label", doc.Label != nil},
		{"probability", doc.Probability != nil},
		{"family", doc.Family != nil},
		{"start", doc.Start != nil},
		{"end", doc.End != nil},
		{"count", doc.Count != nil},
	}
	for _, f := range set {
		if f.present && !slices.Contains(allowed, f.name) {
			return fmt.Errorf("filter: %s does not take %q at %s", doc.Type, f.name, path)
		}
	}
	return nil
}

func fromDocumentList(docs []*document, path string) ([]Expression, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	children := make([]Expression, 0, len(docs))
	for i, d := range docs {
		child, err := fromDocument(d, path+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func conditionFromDocument(doc *document, path string) (Expression, error) {
	if doc.Predicate == nil {
		return nil, missingField(KindCondition, "predicate", path)
	}
	predicate, err := fromDocument(doc.Predicate, path+".predicate")
	if err != nil {
		return nil, err
	}
	c := &Condition{predicate: predicate}

	if doc.True != nil {
		if c.onTrue, err = fromDocument(doc.True, path+".true"); err != nil {
			return nil, err
		}
	}
	if doc.False != nil {
		if c.onFalse, err = fromDocument(doc.False, path+".false"); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func regexFromDocument(kind Kind, pattern string) Expression {
	var b Builder
	switch kind {
	case KindRowKeyRegex:
		return b.Key().Regex(pattern)
	case KindFamilyNameRegex:
		return b.Family().Regex(pattern)
	case KindColumnQualifierRegex:
		return b.Qualifier().Regex(pattern)
	default:
		return b.Value().Regex(pattern)
	}
}

func countFromDocument(kind Kind, count int64, path string) (Expression, error) {
	var b Builder

	// Clamp before narrowing to int so 32-bit platforms still report the
	// original value as out of range.
	n := int(max(min(count, math.MaxInt32+1), -1))

	var (
		expr Expression
		err  error
	)
	switch kind {
	case KindCellsPerRowOffset:
		expr, err = asExpression(b.Offset().CellsPerRow(n))
	case KindCellsPerRowLimit:
		expr, err = asExpression(b.Limit().CellsPerRow(n))
	default:
		expr, err = asExpression(b.Limit().CellsPerColumn(n))
	}
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Value = count
		}
		return nil, fmt.Errorf("at %s: %w", path, err)
	}
	return expr, nil
}

// asExpression drops the concrete type of a constructor result without
// turning a nil pointer into a non-nil interface.
func asExpression[E Expression](expr E, err error) (Expression, error) {
	if err != nil {
		return nil, err
	}
	return expr, nil
}

// bytesRangeFromDocument applies the document bounds to a qualifier or value
// range builder.
func bytesRangeFromDocument[E Expression](rb RangeBuilder[[]byte, E], doc *document, path string) (Expression, error) {
	if doc.Start != nil {
		kind, raw, err := doc.Start.bound(path + ".start")
		if err != nil {
			return nil, err
		}
		v, err := boundBytes(raw, path+".start")
		if err != nil {
			return nil, err
		}
		if kind == Open {
			rb = rb.StartOpen(v)
		} else {
			rb = rb.StartClosed(v)
		}
	}

	if doc.End != nil {
		kind, raw, err := doc.End.bound(path + ".end")
		if err != nil {
			return nil, err
		}
		v, err := boundBytes(raw, path+".end")
		if err != nil {
			return nil, err
		}
		if kind == Open {
			rb = rb.EndOpen(v)
		} else {
			rb = rb.EndClosed(v)
		}
	}

	return rb.Build(), nil
}

func timestampRangeFromDocument(doc *document, path string) (Expression, error) {
	var b Builder
	rb := b.Timestamp().Range()

	if doc.Start != nil {
		kind, raw, err := doc.Start.bound(path + ".start")
		if err != nil {
			return nil, err
		}
		v, err := boundMicros(raw, path+".start")
		if err != nil {
			return nil, err
		}
		if kind == Open {
			rb = rb.StartOpen(v)
		} else {
			rb = rb.StartClosed(v)
		}
	}

	if doc.End != nil {
		kind, raw, err := doc.End.bound(path + ".end")
		if err != nil {
			return nil, err
		}
		v, err := boundMicros(raw, path+".end")
		if err != nil {
			return nil, err
		}
		if kind == Open {
			rb = rb.EndOpen(v)
		} else {
			rb = rb.EndClosed(v)
		}
	}

	return rb.Build(), nil
}

// bound returns the single bound an endpoint object carries.
func (e *endpoint) bound(path string) (BoundKind, any, error) {
	switch {
	case e.Open != nil && e.Closed != nil:
		return Unbounded, nil, fmt.Errorf("filter: both open and closed bound at %s", path)
	case e.Open != nil:
		return Open, e.Open, nil
	case e.Closed != nil:
		return Closed, e.Closed, nil
	default:
		return Unbounded, nil, fmt.Errorf("filter: empty bound at %s", path)
	}
}

func boundBytes(v any, path string) ([]byte, error) {
	switch x := v.(type) {
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	default:
		return nil, fmt.Errorf("filter: expected string bound at %s, got %T", path, v)
	}
}

func boundMicros(v any, path string) (int64, error) {
	switch x := v.(type) {
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("filter: invalid timestamp at %s: %w", path, err)
		}
		return n, nil
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("filter: timestamp overflows int64 at %s", path)
		}
		return int64(x), nil
	default:
		return 0, fmt.Errorf("filter: expected integer timestamp at %s, got %T", path, v)
	}
}

func missingField(kind Kind, field, path string) error {
	return fmt.Errorf("filter: %s requires %q at %s", kind, field, path)
}

func toDocument(expr Expression, path string, requireUTF8 bool) (*document, error) {
	if isNil(expr) {
		return nil, fmt.Errorf("%w at %s", ErrNilExpression, path)
	}

	doc := &document{Type: expr.Kind()}

	text := func(b []byte, field string) (*string, error) {
		if requireUTF8 && !utf8.Valid(b) {
			return nil, fmt.Errorf("%w: %s at %s", ErrNotUTF8, field, path)
		}
		s := string(b)
		return &s, nil
	}
	str := func(s, field string) (*string, error) {
		if requireUTF8 && !utf8.ValidString(s) {
			return nil, fmt.Errorf("%w: %s at %s", ErrNotUTF8, field, path)
		}
		return &s, nil
	}

	var err error
	switch ex := expr.(type) {
	case *Chain:
		doc.Filters, err = toDocumentList(ex.filters, path+".chain", requireUTF8)
	case *Interleave:
		doc.Filters, err = toDocumentList(ex.filters, path+".interleave", requireUTF8)
	case *Condition:
		p := path + ".condition"
		if doc.Predicate, err = toDocument(ex.predicate, p+".predicate", requireUTF8); err != nil {
			return nil, err
		}
		if ex.onTrue != nil {
			if doc.True, err = toDocument(ex.onTrue, p+".true", requireUTF8); err != nil {
				return nil, err
			}
		}
		if ex.onFalse != nil {
			doc.False, err = toDocument(ex.onFalse, p+".false", requireUTF8)
		}
	case *PassAll, *BlockAll, *Sink, *StripValue:
	case *Label:
		doc.Label, err = str(ex.label, "label")
	case *RowKeyRegex:
		doc.Pattern, err = text(ex.pattern, "pattern")
	case *FamilyNameRegex:
		doc.Pattern, err = str(ex.pattern, "pattern")
	case *ColumnQualifierRegex:
		doc.Pattern, err = text(ex.pattern, "pattern")
	case *ValueRegex:
		doc.Pattern, err = text(ex.pattern, "pattern")
	case *RowSample:
		doc.Probability = &ex.probability
	case *QualifierRange:
		if doc.Family, err = str(ex.family, "family"); err != nil {
			return nil, err
		}
		doc.Start, doc.End, err = bytesEndpoints(ex.bounds, text)
	case *ValueRange:
		doc.Start, doc.End, err = bytesEndpoints(ex.bounds, text)
	case *TimestampRange:
		doc.Start = microsEndpoint(ex.bounds.Start)
		doc.End = microsEndpoint(ex.bounds.End)
	case *CellsPerRowOffset:
		doc.Count = countPtr(ex.count)
	case *CellsPerRowLimit:
		doc.Count = countPtr(ex.count)
	case *CellsPerColumnLimit:
		doc.Count = countPtr(ex.count)
	default:
		return nil, &UnknownKindError{Kind: fmt.Sprintf("%T", expr)}
	}
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func toDocumentList(exprs []Expression, path string, requireUTF8 bool) ([]*document, error) {
	docs := make([]*document, 0, len(exprs))
	for i, child := range exprs {
		d, err := toDocument(child, path+"["+strconv.Itoa(i)+"]", requireUTF8)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func bytesEndpoints(r RangeDescriptor[[]byte], text func([]byte, string) (*string, error)) (start, end *endpoint, err error) {
	convert := func(ep Endpoint[[]byte], field string) (*endpoint, error) {
		if ep.Kind == Unbounded {
			return nil, nil
		}
		s, err := text(ep.Value, field)
		if err != nil {
			return nil, err
		}
		if ep.Kind == Open {
			return &endpoint{Open: *s}, nil
		}
		return &endpoint{Closed: *s}, nil
	}

	if start, err = convert(r.Start, "start"); err != nil {
		return nil, nil, err
	}
	if end, err = convert(r.End, "end"); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func microsEndpoint(ep Endpoint[int64]) *endpoint {
	switch ep.Kind {
	case Open:
		return &endpoint{Open: ep.Value}
	case Closed:
		return &endpoint{Closed: ep.Value}
	default:
		return nil
	}
}

func countPtr(n int32) *int64 {
	v := int64(n)
	return &v
}
