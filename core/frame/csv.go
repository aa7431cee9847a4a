package frame

import (
	"encoding/csv"
	"io"
	"io/fs"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/YuminosukeSato/vaxset/pkg/errors"
)

// missing cell spellings, stored as NaN
var nanValues = map[string]bool{"": true, "NA": true, "NaN": true, "nan": true}

// ReadCSV reads a CSV file with a header row and indexes it by indexCol.
// A header-only file yields a frame with zero rows.
func ReadCSV(path, indexCol string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewFileNotFoundError(path, err)
		}
		return nil, errors.Wrapf(err, "frame: open %s", path)
	}
	defer file.Close()

	f, err := Read(file, indexCol)
	if err != nil {
		var cnf *errors.ColumnNotFoundError
		if errors.As(err, &cnf) && cnf.Source == "" {
			return nil, errors.NewColumnNotFoundError("ReadCSV", cnf.Column, path)
		}
		return nil, errors.Wrapf(err, "frame: read %s", path)
	}
	return f, nil
}

// Read is ReadCSV for an arbitrary reader.
func Read(r io.Reader, indexCol string) (*Frame, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.NewDataError("ReadCSV", "csv", err)
	}
	return FromRecords(records, indexCol)
}

// FromRecords builds a frame from string records whose first record is the
// header. Every column is stored as a gota String series.
func FromRecords(records [][]string, indexCol string) (*Frame, error) {
	if len(records) == 0 {
		return nil, errors.NewDataError("FromRecords", "header", errors.ErrEmptyData)
	}
	header := records[0]
	indexPos := -1
	for j, name := range header {
		if name == indexCol {
			indexPos = j
		}
	}
	if indexPos < 0 {
		return nil, errors.NewColumnNotFoundError("FromRecords", indexCol, "")
	}

	rows := records[1:]
	index := make([]string, len(rows))
	cells := make([][]string, len(header))
	for j := range cells {
		cells[j] = make([]string, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, errors.NewDimensionError("FromRecords", len(header), len(row), 1)
		}
		for j, v := range row {
			if nanValues[v] {
				v = NaN
			}
			if j == indexPos {
				index[i] = v
				continue
			}
			cells[j][i] = v
		}
	}

	cols := make([]series.Series, 0, len(header)-1)
	for j, name := range header {
		if j == indexPos {
			continue
		}
		cols = append(cols, series.New(cells[j], series.String, name))
	}
	return New(indexCol, index, cols...)
}

// WriteCSV writes the frame with a header row and the index as the first
// column.
func (f *Frame) WriteCSV(w io.Writer) error {
	cols := make([]series.Series, 0, f.Ncol()+1)
	cols = append(cols, series.New(f.index, series.String, f.indexName))
	for _, name := range f.Names() {
		cols = append(cols, f.df.Col(name))
	}
	df := dataframe.New(cols...)
	if err := df.WriteCSV(w); err != nil {
		return errors.Wrap(err, "frame: write csv")
	}
	return nil
}
