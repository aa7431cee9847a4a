// Package frame provides indexed tables over gota dataframes.
//
// A Frame is a gota DataFrame whose rows carry a unique string identifier
// (the index). Every derived frame keeps the index of its source in order,
// so rows can always be traced back to the respondent they came from.
package frame

import (
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/vaxset/pkg/errors"
)

// NaN is the stored representation of a missing cell.
const NaN = "NaN"

// Frame is an immutable table with a row index.
type Frame struct {
	df        dataframe.DataFrame
	index     []string
	indexName string
}

// New builds a Frame from an index and columns of equal length.
func New(indexName string, index []string, cols ...series.Series) (*Frame, error) {
	if err := checkIndex("New", indexName, index); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c.Err != nil {
			return nil, errors.NewDataError("New", "series", c.Err)
		}
		if c.Len() != len(index) {
			return nil, errors.NewDimensionError("New", len(index), c.Len(), 0)
		}
		if c.Name == indexName || seen[c.Name] {
			return nil, errors.NewDataError("New", "header",
				errors.Newf("duplicate column name %q", c.Name))
		}
		seen[c.Name] = true
	}

	f := &Frame{
		index:     append([]string(nil), index...),
		indexName: indexName,
	}
	if len(cols) == 0 {
		return f, nil
	}
	df := dataframe.New(cols...)
	if err := df.Error(); err != nil {
		return nil, errors.NewDataError("New", "dataframe", err)
	}
	f.df = df
	return f, nil
}

func checkIndex(op, name string, index []string) error {
	seen := make(map[string]bool, len(index))
	for _, v := range index {
		if v == "" || v == NaN {
			return errors.NewIndexError(op, name, "missing value", v)
		}
		if seen[v] {
			return errors.NewIndexError(op, name, "duplicate value", v)
		}
		seen[v] = true
	}
	return nil
}

// Index returns a copy of the row identifiers.
func (f *Frame) Index() []string {
	return append([]string(nil), f.index...)
}

// IndexName returns the name of the identifier column.
func (f *Frame) IndexName() string {
	return f.indexName
}

// Names returns the column names, excluding the index.
func (f *Frame) Names() []string {
	if f.df.Ncol() == 0 {
		return []string{}
	}
	return f.df.Names()
}

// Nrow returns the number of rows.
func (f *Frame) Nrow() int {
	return len(f.index)
}

// Ncol returns the number of columns, excluding the index.
func (f *Frame) Ncol() int {
	return f.df.Ncol()
}

// Has reports whether the frame has a column called name.
func (f *Frame) Has(name string) bool {
	for _, n := range f.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Copy returns a deep copy.
func (f *Frame) Copy() *Frame {
	c := &Frame{
		index:     f.Index(),
		indexName: f.indexName,
	}
	if f.df.Ncol() > 0 {
		c.df = f.df.Copy()
	}
	return c
}

// Select returns a frame holding only cols, in the given order.
func (f *Frame) Select(cols ...string) (*Frame, error) {
	for _, c := range cols {
		if !f.Has(c) {
			return nil, errors.NewColumnNotFoundError("Select", c, "")
		}
	}
	out := &Frame{
		index:     f.Index(),
		indexName: f.indexName,
	}
	if len(cols) == 0 {
		return out, nil
	}
	df := f.df.Select(cols)
	if err := df.Error(); err != nil {
		return nil, errors.NewDataError("Select", "dataframe", err)
	}
	out.df = df
	return out, nil
}

// Drop returns a frame without cols. Every name in cols must exist.
func (f *Frame) Drop(cols ...string) (*Frame, error) {
	drop := make(map[string]bool, len(cols))
	for _, c := range cols {
		if !f.Has(c) {
			return nil, errors.NewColumnNotFoundError("Drop", c, "")
		}
		drop[c] = true
	}
	keep := make([]string, 0, f.Ncol())
	for _, n := range f.Names() {
		if !drop[n] {
			keep = append(keep, n)
		}
	}
	return f.Select(keep...)
}

// Col returns one column as a Series sharing the frame's index.
func (f *Frame) Col(name string) (*Series, error) {
	if !f.Has(name) {
		return nil, errors.NewColumnNotFoundError("Col", name, "")
	}
	return &Series{
		s:         f.df.Col(name),
		index:     f.Index(),
		indexName: f.indexName,
	}, nil
}

// Concat stacks the rows of other below f. Both frames must have the same
// column set; other's columns are matched by name. The combined index is not
// checked for uniqueness.
func (f *Frame) Concat(other *Frame) (*Frame, error) {
	if f.Ncol() != other.Ncol() {
		return nil, errors.NewDimensionError("Concat", f.Ncol(), other.Ncol(), 1)
	}
	for _, n := range f.Names() {
		if !other.Has(n) {
			return nil, errors.NewColumnNotFoundError("Concat", n, "right-hand frame")
		}
	}
	out := &Frame{
		index:     append(f.Index(), other.index...),
		indexName: f.indexName,
	}
	if f.Ncol() == 0 {
		return out, nil
	}
	df := f.df.RBind(other.df)
	if err := df.Error(); err != nil {
		return nil, errors.NewDataError("Concat", "dataframe", err)
	}
	out.df = df
	return out, nil
}

// Records returns the frame as string records. The first record is the
// header and the index is the first column.
func (f *Frame) Records() [][]string {
	records := make([][]string, 0, f.Nrow()+1)
	records = append(records, append([]string{f.indexName}, f.Names()...))
	var body [][]string
	if f.Ncol() > 0 {
		body = f.df.Records()[1:]
	}
	for i, id := range f.index {
		row := []string{id}
		if body != nil {
			row = append(row, body[i]...)
		}
		records = append(records, row)
	}
	return records
}

// Matrix returns the cells as a dense matrix. Missing cells become NaN and
// non-numeric cells are an error.
func (f *Frame) Matrix() (*mat.Dense, error) {
	r, c := f.Nrow(), f.Ncol()
	if r == 0 || c == 0 {
		return nil, errors.ErrEmptyData
	}
	var m *mat.Dense
	err := errors.SafeExecute("Frame.Matrix", func() error {
		m = mat.NewDense(r, c, nil)
		for j, name := range f.Names() {
			vals, err := parseFloats("Matrix", name, f.df.Col(name).Records())
			if err != nil {
				return err
			}
			m.SetCol(j, vals)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DataFrame returns a copy of the underlying gota DataFrame, without the index.
func (f *Frame) DataFrame() dataframe.DataFrame {
	if f.Ncol() == 0 {
		return dataframe.DataFrame{}
	}
	return f.df.Copy()
}

func parseFloats(op, column string, cells []string) ([]float64, error) {
	out := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, errors.NewDataError(op, "numeric",
				errors.Wrapf(err, "column %s row %d", column, i))
		}
		out[i] = v
	}
	return out, nil
}
