package filter

import "testing"

func TestFormat(t *testing.T) {
	var f Builder

	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"pass", f.Pass(), "pass_all()"},
		{"block", f.Block(), "block_all()"},
		{"sink", f.Sink(), "sink()"},
		{"strip", f.Value().Strip(), "strip_value()"},
		{"label", f.Label("x"), `label("x")`},
		{"key", f.Key().ExactMatch([]byte(".*")), `row("\\.\\*")`},
		{"key binary", f.Key().RegexBytes([]byte{0x00, 0xff}), `row("\x00\xff")`},
		{"family", f.Family().Regex("cf"), `family("cf")`},
		{"qualifier", f.Qualifier().Regex("^q"), `col("^q")`},
		{"value", f.Value().Regex("v"), `value_match("v")`},
		{"sample", must(t)(f.Key().Sample(0.5)), "row_sample(0.5)"},
		{
			"column range",
			f.Qualifier().RangeWithinFamily("cf").StartClosed([]byte("a")).EndOpen([]byte("m")).Build(),
			`col_range("cf",["a","m"))`,
		},
		{"value range open start", f.Value().Range().StartOpen([]byte("a")).Build(), `value_range(("a",+inf))`},
		{"value range closed end", f.Value().Range().EndClosed([]byte("z")).Build(), `value_range((-inf,"z"])`},
		{"timestamp", f.Timestamp().RangeMicros(1000, 2000), "timestamp_range([1000,2000))"},
		{"offset", must(t)(f.Offset().CellsPerRow(2)), "cells_per_row_offset(2)"},
		{"row limit", must(t)(f.Limit().CellsPerRow(3)), "cells_per_row(3)"},
		{"column limit", must(t)(f.Limit().CellsPerColumn(1)), "cells_per_column(1)"},
		{"empty chain", f.Chain().Build(), "()"},
		{
			"chain",
			f.Chain().Filter(f.Family().Regex("cf")).Filter(f.Pass()).Build(),
			`(family("cf") | pass_all())`,
		},
		{
			"interleave",
			f.Interleave().Filter(f.Label("a")).Filter(f.Label("b")).Build(),
			`(label("a") + label("b"))`,
		},
		{
			"condition",
			f.Condition(f.Pass()).Then(f.Label("t")).Otherwise(f.Label("f")).Build(),
			`(pass_all() ? label("t") : label("f"))`,
		},
		{"condition without branches", f.Condition(f.Pass()).Build(), "(pass_all() ?  : )"},
		{"nil child", f.Chain().Filter(nil).Build(), "(<nil>)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.expr); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
			if got := tt.expr.String(); got != tt.want {
				t.Errorf("String(): expected %s, got %s", tt.want, got)
			}
		})
	}
}
