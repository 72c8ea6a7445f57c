package explain

import (
	"errors"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/rowfilter/filter"
	"github.com/hugr-lab/rowfilter/internal/serialize"
)

func testTree() filter.Expression {
	var f filter.Builder

	return f.Chain().
		Filter(f.Family().ExactMatch("cf")).
		Filter(f.Condition(f.Qualifier().Regex("^q")).
			Then(f.Interleave().
				Filter(f.Label("a")).
				Filter(f.Value().Strip()).
				Build()).
			Otherwise(f.Sink()).
			Build()).
		Filter(f.Timestamp().RangeMicros(1000, 2000)).
		Build()
}

func TestRecord(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer alloc.AssertSize(t, 0)

	record, err := Record(testTree(), alloc)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	defer record.Release()

	want := []struct {
		id, parent, depth int32
		kind              filter.Kind
		detail            string
	}{
		{0, -1, 0, filter.KindChain, "3 filters"},
		{1, 0, 1, filter.KindFamilyNameRegex, `family("cf")`},
		{2, 0, 1, filter.KindCondition, ""},
		{3, 2, 2, filter.KindColumnQualifierRegex, `predicate: col("^q")`},
		{4, 2, 2, filter.KindInterleave, "true: 2 filters"},
		{5, 4, 3, filter.KindLabel, `label("a")`},
		{6, 4, 3, filter.KindStripValue, "strip_value()"},
		{7, 2, 2, filter.KindSink, "false: sink()"},
		{8, 0, 1, filter.KindTimestampRange, "timestamp_range([1000,2000))"},
	}

	if record.NumRows() != int64(len(want)) {
		t.Fatalf("expected %d rows, got %d", len(want), record.NumRows())
	}
	if !record.Schema().Equal(Schema) {
		t.Errorf("unexpected schema: %s", record.Schema())
	}

	ids := record.Column(0).(*array.Int32)
	parents := record.Column(1).(*array.Int32)
	depths := record.Column(2).(*array.Int32)
	kinds := record.Column(3).(*array.String)
	details := record.Column(4).(*array.String)

	for i, w := range want {
		if ids.Value(i) != w.id {
			t.Errorf("row %d: expected node_id %d, got %d", i, w.id, ids.Value(i))
		}
		if w.parent < 0 {
			if !parents.IsNull(i) {
				t.Errorf("row %d: expected null parent_id, got %d", i, parents.Value(i))
			}
		} else if parents.IsNull(i) || parents.Value(i) != w.parent {
			t.Errorf("row %d: expected parent_id %d, got %v", i, w.parent, parents.GetOneForMarshal(i))
		}
		if depths.Value(i) != w.depth {
			t.Errorf("row %d: expected depth %d, got %d", i, w.depth, depths.Value(i))
		}
		if kinds.Value(i) != string(w.kind) {
			t.Errorf("row %d: expected kind %s, got %s", i, w.kind, kinds.Value(i))
		}
		if details.Value(i) != w.detail {
			t.Errorf("row %d: expected detail %q, got %q", i, w.detail, details.Value(i))
		}
	}
}

func TestRecordLeafRoot(t *testing.T) {
	var f filter.Builder

	record, err := Record(f.Pass(), nil)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	defer record.Release()

	if record.NumRows() != 1 {
		t.Fatalf("expected 1 row, got %d", record.NumRows())
	}
	if !record.Column(1).IsNull(0) {
		t.Error("expected null parent_id for the root")
	}
}

func TestRecordNilNode(t *testing.T) {
	var f filter.Builder

	tests := []struct {
		name string
		expr filter.Expression
	}{
		{"nil root", nil},
		{"typed nil root", (*filter.Chain)(nil)},
		{"nil chain child", f.Chain().Filter(f.Pass()).Filter(nil).Build()},
		{"nil predicate", f.Condition(nil).Build()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Record(tt.expr, nil)
			if !errors.Is(err, filter.ErrNilExpression) {
				t.Errorf("expected ErrNilExpression, got %v", err)
			}
		})
	}
}

func TestIPC(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer alloc.AssertSize(t, 0)

	data, err := IPC(testTree(), alloc)
	if err != nil {
		t.Fatalf("IPC failed: %v", err)
	}

	record, err := serialize.ReadIPC(data, alloc)
	if err != nil {
		t.Fatalf("ReadIPC failed: %v", err)
	}
	defer record.Release()

	if record.NumRows() != 9 {
		t.Errorf("expected 9 rows, got %d", record.NumRows())
	}
	if got := record.Column(3).(*array.String).Value(0); got != string(filter.KindChain) {
		t.Errorf("expected root kind chain, got %s", got)
	}
}
