package rowfilter_test

import (
	"fmt"
	"log"
	"time"

	btpb "cloud.google.com/go/bigtable/apiv2/bigtablepb"

	"github.com/hugr-lab/rowfilter"
	"github.com/hugr-lab/rowfilter/filter"
)

func Example() {
	f := rowfilter.Filters

	expr := f.Chain().
		Filter(f.Family().ExactMatch("cf")).
		Filter(f.Qualifier().RangeWithinFamily("cf").
			StartClosed([]byte("a")).
			EndOpen([]byte("m")).
			Build()).
		Filter(f.Timestamp().Between(
			time.UnixMilli(1000),
			time.UnixMilli(2000),
		)).
		Build()

	fmt.Println(expr)
	// Output: (family("cf") | col_range("cf",["a","m")) | timestamp_range([1000000,2000000)))
}

func Example_exactMatch() {
	expr := rowfilter.Filters.Qualifier().ExactMatchString("some[0-9]regex")

	fmt.Println(string(expr.Pattern()))
	// Output: some\[0\-9\]regex
}

func Example_condition() {
	f := rowfilter.Filters

	expr := f.Condition(f.Chain().
		Filter(f.Qualifier().ExactMatchString("data_plan_10gb")).
		Filter(f.Value().ExactMatchString("true")).
		Build()).
		Then(f.Label("passed-filter")).
		Otherwise(f.Label("filtered-out")).
		Build()

	fmt.Println(expr)
	// Output: ((col("data_plan_10gb") | value_match("true")) ? label("passed-filter") : label("filtered-out"))
}

func ExamplePayloadCodec_ApplyToReadRows() {
	codec, err := rowfilter.NewPayloadCodec(rowfilter.PayloadConfig{})
	if err != nil {
		log.Fatal(err)
	}
	defer codec.Close()

	limit, err := rowfilter.Filters.Limit().CellsPerColumn(1)
	if err != nil {
		log.Fatal(err)
	}

	req := &btpb.ReadRowsRequest{TableName: "projects/p/instances/i/tables/t"}
	if err := codec.ApplyToReadRows(req, limit); err != nil {
		log.Fatal(err)
	}

	fmt.Println(req.GetFilter().GetCellsPerColumnLimitFilter())
	// Output: 1
}

func ExamplePayloadCodec_Encode() {
	codec, err := rowfilter.NewPayloadCodec(rowfilter.PayloadConfig{Compress: true})
	if err != nil {
		log.Fatal(err)
	}
	defer codec.Close()

	p, err := codec.Encode(rowfilter.Filters.Key().ExactMatchString("user#42"))
	if err != nil {
		log.Fatal(err)
	}

	expr, err := codec.Decode(p.Data, p.Compressed)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(expr.Kind() == filter.KindRowKeyRegex, expr)
	// Output: true row("user\\#42")
}
