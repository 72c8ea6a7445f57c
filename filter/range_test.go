package filter

import (
	"bytes"
	"testing"
)

func TestRangeBuilderDefaultsToUnbounded(t *testing.T) {
	var f Builder

	r := f.Value().Range().Descriptor()
	if r.Start.Kind != Unbounded || r.End.Kind != Unbounded {
		t.Errorf("expected both sides unbounded, got [%s, %s]", r.Start.Kind, r.End.Kind)
	}

	r = f.Value().Range().StartOpen([]byte("b")).Descriptor()
	if r.Start.Kind != Open || !bytes.Equal(r.Start.Value, []byte("b")) {
		t.Errorf("expected open start 'b', got %s %q", r.Start.Kind, r.Start.Value)
	}
	if r.End.Kind != Unbounded {
		t.Errorf("expected unbounded end, got %s", r.End.Kind)
	}
}

func TestRangeBuilderLastWriteWins(t *testing.T) {
	var f Builder

	tests := []struct {
		name      string
		build     func() RangeDescriptor[int64]
		wantStart Endpoint[int64]
		wantEnd   Endpoint[int64]
	}{
		{
			name: "closed overrides open",
			build: func() RangeDescriptor[int64] {
				return f.Timestamp().Range().StartOpen(1).StartClosed(2).Descriptor()
			},
			wantStart: Endpoint[int64]{Kind: Closed, Value: 2},
		},
		{
			name: "open overrides closed",
			build: func() RangeDescriptor[int64] {
				return f.Timestamp().Range().EndClosed(9).EndOpen(8).Descriptor()
			},
			wantEnd: Endpoint[int64]{Kind: Open, Value: 8},
		},
		{
			name: "same kind twice",
			build: func() RangeDescriptor[int64] {
				return f.Timestamp().Range().StartClosed(1).StartClosed(5).EndOpen(10).Descriptor()
			},
			wantStart: Endpoint[int64]{Kind: Closed, Value: 5},
			wantEnd:   Endpoint[int64]{Kind: Open, Value: 10},
		},
		{
			name: "sides are independent",
			build: func() RangeDescriptor[int64] {
				return f.Timestamp().Range().EndClosed(3).StartOpen(7).Descriptor()
			},
			wantStart: Endpoint[int64]{Kind: Open, Value: 7},
			wantEnd:   Endpoint[int64]{Kind: Closed, Value: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build()
			if got.Start != tt.wantStart {
				t.Errorf("start: expected %+v, got %+v", tt.wantStart, got.Start)
			}
			if got.End != tt.wantEnd {
				t.Errorf("end: expected %+v, got %+v", tt.wantEnd, got.End)
			}
		})
	}
}

func TestRangeBuilderIsAValue(t *testing.T) {
	var f Builder

	base := f.Qualifier().RangeWithinFamily("cf").StartClosed([]byte("a"))
	narrowed := base.EndOpen([]byte("m"))

	if base.Descriptor().End.Kind != Unbounded {
		t.Error("setting the end on a copy changed the original builder")
	}
	if narrowed.Descriptor().End.Kind != Open {
		t.Error("expected the copy to carry the open end")
	}

	r := narrowed.Build()
	if r.Family() != "cf" {
		t.Errorf("expected family 'cf', got '%s'", r.Family())
	}
}

func TestRangeDescriptorCopies(t *testing.T) {
	var f Builder

	r := f.Qualifier().RangeWithinFamily("cf").StartClosed([]byte("a")).Build()

	d := r.Range()
	d.Start.Value[0] = 'z'

	if got := string(r.Range().Start.Value); got != "a" {
		t.Errorf("expected node to keep 'a', got '%s'", got)
	}
}

func TestBoundKindString(t *testing.T) {
	tests := map[BoundKind]string{
		Unbounded: "unbounded",
		Open:      "open",
		Closed:    "closed",
	}
	for kind, want := range tests {
		if kind.String() != want {
			t.Errorf("expected %q, got %q", want, kind.String())
		}
	}
}
