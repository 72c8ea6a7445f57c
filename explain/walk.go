package explain

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/hugr-lab/rowfilter/filter"
)

type row struct {
	id     int32
	parent int32 // -1 for the root
	depth  int32
	kind   filter.Kind
	detail string
}

type walker struct {
	rows []row
}

func flatten(expr filter.Expression) ([]row, error) {
	w := &walker{}
	if err := w.visit(expr, -1, 0, "", "root"); err != nil {
		return nil, err
	}
	return w.rows, nil
}

// visit appends expr and its descendants in pre-order. role labels the
// children of a condition; path locates the node in error messages.
func (w *walker) visit(expr filter.Expression, parent, depth int32, role, path string) error {
	if expr == nil || isTypedNil(expr) {
		return fmt.Errorf("%w at %s", filter.ErrNilExpression, path)
	}

	id := int32(len(w.rows))
	w.rows = append(w.rows, row{
		id:     id,
		parent: parent,
		depth:  depth,
		kind:   expr.Kind(),
		detail: detail(expr, role),
	})

	switch ex := expr.(type) {
	case *filter.Chain:
		for i, child := range ex.Filters() {
			if err := w.visit(child, id, depth+1, "", path+".chain["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
	case *filter.Interleave:
		for i, child := range ex.Filters() {
			if err := w.visit(child, id, depth+1, "", path+".interleave["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
	case *filter.Condition:
		p := path + ".condition"
		if err := w.visit(ex.Predicate(), id, depth+1, "predicate", p+".predicate"); err != nil {
			return err
		}
		if t := ex.TrueFilter(); t != nil {
			if err := w.visit(t, id, depth+1, "true", p+".true"); err != nil {
				return err
			}
		}
		if f := ex.FalseFilter(); f != nil {
			if err := w.visit(f, id, depth+1, "false", p+".false"); err != nil {
				return err
			}
		}
	}
	return nil
}

func detail(expr filter.Expression, role string) string {
	switch ex := expr.(type) {
	case *filter.Chain:
		return withRole(role, strconv.Itoa(len(ex.Filters()))+" filters")
	case *filter.Interleave:
		return withRole(role, strconv.Itoa(len(ex.Filters()))+" filters")
	case *filter.Condition:
		return withRole(role, "")
	default:
		return withRole(role, filter.Format(expr))
	}
}

func withRole(role, s string) string {
	switch {
	case role == "":
		return s
	case s == "":
		return role
	default:
		return role + ": " + s
	}
}

// isTypedNil reports whether expr is a nil pointer of a concrete variant.
func isTypedNil(expr filter.Expression) bool {
	v := reflect.ValueOf(expr)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
