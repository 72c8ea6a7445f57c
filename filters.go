package rowfilter

import "github.com/hugr-lab/rowfilter/filter"

// Filters is the entry point for building filter expressions.
//
//	rowfilter.Filters.Limit().CellsPerColumn(1)
//	rowfilter.Filters.Key().ExactMatchString("user#42")
//
// Builder is stateless, so Filters is safe to use from any goroutine.
var Filters filter.Builder
