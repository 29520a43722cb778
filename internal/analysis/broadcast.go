package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrDimensionMismatch is returned when a vector and a table cannot be combined.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// Table is a labelled matrix. Data is nil for a table without rows or columns.
type Table struct {
	Index   []string
	Columns []string
	Data    *mat.Dense
}

// NewTable builds a table from row-major values.
func NewTable(index, columns []string, values []float64) (Table, error) {
	if len(values) != len(index)*len(columns) {
		return Table{}, fmt.Errorf("%w: %d values for %dx%d table", ErrDimensionMismatch, len(values), len(index), len(columns))
	}
	t := Table{Index: index, Columns: columns}
	if len(values) > 0 {
		t.Data = mat.NewDense(len(index), len(columns), values)
	}
	return t, nil
}

// At returns the value at row i, column j.
func (t Table) At(i, j int) float64 {
	return t.Data.At(i, j)
}

// Row returns a copy of row i.
func (t Table) Row(i int) []float64 {
	return mat.Row(nil, i, t.Data)
}

// Broadcast scales row i of h by v's i-th value. The result keeps v's
// labels as rows and h's column labels.
func Broadcast(v Series, h Table) (Table, error) {
	rows := len(h.Index)
	r, c := 0, 0
	if h.Data != nil {
		r, c = h.Data.Dims()
	}
	if (r != rows || c != len(h.Columns)) && rows*len(h.Columns) > 0 {
		return Table{}, fmt.Errorf("%w: %dx%d data for %d rows and %d columns", ErrDimensionMismatch, r, c, rows, len(h.Columns))
	}
	if v.Len() != rows {
		return Table{}, fmt.Errorf("%w: vector has %d rows, table has %d", ErrDimensionMismatch, v.Len(), rows)
	}
	out := Table{
		Index:   append([]string(nil), v.Index...),
		Columns: append([]string(nil), h.Columns...),
	}
	if rows == 0 || len(h.Columns) == 0 {
		return out, nil
	}
	var res mat.Dense
	res.Mul(mat.NewDiagDense(rows, append([]float64(nil), v.Values...)), h.Data)
	out.Data = &res
	return out, nil
}
