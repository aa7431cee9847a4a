package frame

import (
	"strconv"

	"github.com/go-gota/gota/series"

	"github.com/YuminosukeSato/vaxset/pkg/errors"
)

// Series is a single named column together with the index of the frame it
// was taken from.
type Series struct {
	s         series.Series
	index     []string
	indexName string
}

func (s *Series) Name() string { return s.s.Name }

func (s *Series) Len() int { return len(s.index) }

// Index returns a copy of the row identifiers.
func (s *Series) Index() []string {
	return append([]string(nil), s.index...)
}

func (s *Series) IndexName() string { return s.indexName }

// Records returns the cells as strings. Missing cells are "NaN".
func (s *Series) Records() []string {
	return s.s.Records()
}

// Float parses every cell as float64. Missing cells become NaN.
func (s *Series) Float() ([]float64, error) {
	return parseFloats("Series.Float", s.Name(), s.Records())
}

// Int parses every cell as an integer label.
func (s *Series) Int() ([]int, error) {
	cells := s.Records()
	out := make([]int, len(cells))
	for i, cell := range cells {
		v, err := strconv.Atoi(cell)
		if err != nil {
			return nil, errors.NewDataError("Series.Int", "integer",
				errors.Wrapf(err, "column %s row %s", s.Name(), s.index[i]))
		}
		out[i] = v
	}
	return out, nil
}

// Frame returns the series as a one-column frame.
func (s *Series) Frame() (*Frame, error) {
	return New(s.indexName, s.index, s.s)
}
