// Package explain flattens a filter tree into an Arrow table with one row per
// node, for tooling that inspects filters as tabular data.
//
// Columns, in pre-order:
//
//	node_id    int32   position of the node in pre-order, starting at 0
//	parent_id  int32   node_id of the parent, null for the root
//	depth      int32   0 for the root
//	kind       utf8    filter.Kind of the node
//	detail     utf8    filter.Format of leaves; branch role for children
//	                   of a condition ("predicate", "true", "false")
package explain

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/rowfilter/filter"
	"github.com/hugr-lab/rowfilter/internal/serialize"
)

// Schema is the schema of records produced by Record.
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: "node_id", Type: arrow.PrimitiveTypes.Int32, Nullable: false},
	{Name: "parent_id", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
	{Name: "depth", Type: arrow.PrimitiveTypes.Int32, Nullable: false},
	{Name: "kind", Type: arrow.BinaryTypes.String, Nullable: false},
	{Name: "detail", Type: arrow.BinaryTypes.String, Nullable: false},
}, nil)

// Record builds the explain table of expr. The caller must Release the
// returned record.
//
// A nil node anywhere in the tree fails with filter.ErrNilExpression.
func Record(expr filter.Expression, allocator memory.Allocator) (arrow.RecordBatch, error) {
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}

	rows, err := flatten(expr)
	if err != nil {
		return nil, err
	}

	builder := array.NewRecordBuilder(allocator, Schema)
	defer builder.Release()

	nodeIDs := builder.Field(0).(*array.Int32Builder)
	parentIDs := builder.Field(1).(*array.Int32Builder)
	depths := builder.Field(2).(*array.Int32Builder)
	kinds := builder.Field(3).(*array.StringBuilder)
	details := builder.Field(4).(*array.StringBuilder)

	for _, r := range rows {
		nodeIDs.Append(r.id)
		if r.parent < 0 {
			parentIDs.AppendNull()
		} else {
			parentIDs.Append(r.parent)
		}
		depths.Append(r.depth)
		kinds.Append(string(r.kind))
		details.Append(r.detail)
	}

	return builder.NewRecordBatch(), nil
}

// IPC returns the explain table of expr as an Arrow IPC stream.
func IPC(expr filter.Expression, allocator memory.Allocator) ([]byte, error) {
	record, err := Record(expr, allocator)
	if err != nil {
		return nil, err
	}
	defer record.Release()

	return serialize.WriteIPC(record, allocator)
}
