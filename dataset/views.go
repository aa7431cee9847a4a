package dataset

import (
	"time"

	"github.com/YuminosukeSato/vaxset/core/frame"
	"github.com/YuminosukeSato/vaxset/pkg/log"
	"github.com/YuminosukeSato/vaxset/preprocessing"
)

// Feature blocks tied to one of the two labels. Each Division slice drops
// the block that belongs to the other label.
var (
	SeasonalFeatures = []string{
		"doctor_recc_seasonal",
		"opinion_seas_vacc_effective",
		"opinion_seas_risk",
		"opinion_seas_sick_from_vacc",
	}
	H1N1Features = []string{
		"h1n1_concern",
		"h1n1_knowledge",
		"doctor_recc_h1n1",
		"opinion_h1n1_vacc_effective",
		"opinion_h1n1_risk",
		"opinion_h1n1_sick_from_vacc",
	}
)

// View is a feature table, its targets and the matching test table.
// Encoder is set only by the one-hot views.
type View struct {
	X       *frame.Frame
	Y       *frame.Frame
	Test    *frame.Frame
	Encoder *preprocessing.OneHotEncoder
}

// Subset is the slice of the data used to train one label.
type Subset struct {
	X    *frame.Frame
	Y    *frame.Series
	Test *frame.Frame
}

// Raw returns copies of the training features and targets.
func (d *Dataset) Raw() (x, y *frame.Frame) {
	defer d.traced(log.ViewRaw, time.Now())
	return d.x.Copy(), d.y.Copy()
}

// OneHot one-hot encodes the training and test features with a single
// encoder fitted on both, so their columns match.
func (d *Dataset) OneHot() (*View, error) {
	defer d.traced(log.ViewOneHot, time.Now())
	return encodeUnion(d.x, d.y, d.test)
}

// Division returns one slice per label. The h1n1 slice drops the
// seasonal-specific features and the seasonal slice drops the h1n1-specific
// ones; the test table is cut the same way.
func (d *Dataset) Division() (h1n1, seasonal *Subset, err error) {
	defer d.traced(log.ViewDivision, time.Now())

	if h1n1, err = d.subset(d.cfg.Targets[0], SeasonalFeatures); err != nil {
		return nil, nil, err
	}
	if seasonal, err = d.subset(d.cfg.Targets[1], H1N1Features); err != nil {
		return nil, nil, err
	}
	return h1n1, seasonal, nil
}

func (d *Dataset) subset(target string, exclude []string) (*Subset, error) {
	x, err := d.x.Drop(exclude...)
	if err != nil {
		return nil, err
	}
	test, err := d.test.Drop(exclude...)
	if err != nil {
		return nil, err
	}
	y, err := d.y.Col(target)
	if err != nil {
		return nil, err
	}
	return &Subset{X: x, Y: y, Test: test}, nil
}

// AllFeatures reads the variant that keeps every original column, including
// the noisy ones dropped elsewhere.
func (d *Dataset) AllFeatures() (*View, error) {
	defer d.traced(log.ViewAllFeatures, time.Now())
	return d.allFeatures()
}

func (d *Dataset) allFeatures() (*View, error) {
	return d.loadView(d.cfg.DatasetAllPath, d.cfg.DatasetTestAllPath)
}

// NoOutliers reads the outlier-filtered training variant. Test is a copy of
// the primary test table, which is not filtered.
func (d *Dataset) NoOutliers() (*View, error) {
	defer d.traced(log.ViewNoOutliers, time.Now())

	x, y, err := loadSplit(d.cfg.DatasetNoOutliersPath, d.cfg.AlternateIndex, d.cfg.Targets)
	if err != nil {
		return nil, err
	}
	return &View{X: x, Y: y, Test: d.test.Copy()}, nil
}

// NoOutliersOneHot is NoOutliers followed by a one-hot encoding fitted on the
// filtered features and the primary test table together.
func (d *Dataset) NoOutliersOneHot() (*View, error) {
	defer d.traced(log.ViewNoOutliersOneHot, time.Now())

	x, y, err := loadSplit(d.cfg.DatasetNoOutliersPath, d.cfg.AlternateIndex, d.cfg.Targets)
	if err != nil {
		return nil, err
	}
	return encodeUnion(x, y, d.test)
}

// AllOneHot is AllFeatures followed by a one-hot encoding fitted on its
// features and test table together.
func (d *Dataset) AllOneHot() (*View, error) {
	defer d.traced(log.ViewAllOneHot, time.Now())

	v, err := d.allFeatures()
	if err != nil {
		return nil, err
	}
	return encodeUnion(v.X, v.Y, v.Test)
}

// NoNulls reads the variant pair with missing values removed or imputed.
func (d *Dataset) NoNulls() (*View, error) {
	defer d.traced(log.ViewNoNulls, time.Now())
	return d.loadView(d.cfg.DatasetNoNullsPath, d.cfg.DatasetTestNoNullsPath)
}

func (d *Dataset) loadView(trainPath, testPath string) (*View, error) {
	x, y, err := loadSplit(trainPath, d.cfg.AlternateIndex, d.cfg.Targets)
	if err != nil {
		return nil, err
	}
	test, err := frame.ReadCSV(testPath, d.cfg.AlternateIndex)
	if err != nil {
		return nil, err
	}
	return &View{X: x, Y: y, Test: test}, nil
}

// encodeUnion fits one encoder on x and test stacked together, then encodes
// each of them on its own.
func encodeUnion(x, y, test *frame.Frame) (*View, error) {
	all, err := x.Concat(test)
	if err != nil {
		return nil, err
	}
	enc := preprocessing.NewOneHotEncoderDefault()
	if err := enc.Fit(all); err != nil {
		return nil, err
	}
	encX, err := enc.Transform(x)
	if err != nil {
		return nil, err
	}
	encTest, err := enc.Transform(test)
	if err != nil {
		return nil, err
	}
	return &View{X: encX, Y: y.Copy(), Test: encTest, Encoder: enc}, nil
}

func (d *Dataset) traced(view string, start time.Time) {
	d.logger.Debug("view built",
		log.ViewKey, view,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
}
