// Package dataset loads the H1N1/seasonal flu vaccine survey tables and
// builds the feature views used for model training.
//
// A Dataset reads the primary training and test CSVs once, at construction.
// Every view returns fresh copies; the variant views re-read their own files
// on each call.
package dataset

import (
	"time"

	"github.com/YuminosukeSato/vaxset/config"
	"github.com/YuminosukeSato/vaxset/core/frame"
	"github.com/YuminosukeSato/vaxset/pkg/errors"
	"github.com/YuminosukeSato/vaxset/pkg/log"
)

// Dataset holds the primary training features, targets and held-out test
// features, all indexed by the configured identifier column.
type Dataset struct {
	x    *frame.Frame
	y    *frame.Frame
	test *frame.Frame

	cfg    config.DataConfig
	logger log.Logger
}

// Option configures a Dataset.
type Option func(*Dataset)

// WithLogger sets the logger. The default is the package-wide logger named
// "dataset".
func WithLogger(l log.Logger) Option {
	return func(d *Dataset) {
		if l != nil {
			d.logger = l
		}
	}
}

// New loads the training and test CSVs named by cfg and splits the targets
// off the training table.
func New(cfg *config.Config, opts ...Option) (*Dataset, error) {
	if cfg == nil {
		return nil, errors.NewConfigError(config.SectionData, "configuration is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Dataset{
		cfg:    cfg.Data,
		logger: log.GetLoggerWithName("dataset"),
	}
	for _, opt := range opts {
		opt(d)
	}
	start := time.Now()

	x, y, err := loadSplit(d.cfg.DatasetPath, d.cfg.DatasetIndex, d.cfg.Targets)
	if err != nil {
		d.logger.Error("failed to load training data", err, log.PathKey, d.cfg.DatasetPath)
		return nil, err
	}
	test, err := frame.ReadCSV(d.cfg.DatasetTestPath, d.cfg.DatasetIndex)
	if err != nil {
		d.logger.Error("failed to load test data", err, log.PathKey, d.cfg.DatasetTestPath)
		return nil, err
	}
	if err := checkDisjoint(x, test); err != nil {
		return nil, err
	}
	d.x, d.y, d.test = x, y, test

	d.logger.Info("dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.PathKey, d.cfg.DatasetPath,
		log.IndexKey, d.cfg.DatasetIndex,
		log.SamplesKey, x.Nrow(),
		log.FeaturesKey, x.Ncol(),
		log.TargetsKey, y.Ncol(),
		log.TestSamplesKey, test.Nrow(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return d, nil
}

// loadSplit reads a target-bearing CSV and separates the target columns, in
// the given order, from the features.
func loadSplit(path, indexCol string, targets []string) (x, y *frame.Frame, err error) {
	data, err := frame.ReadCSV(path, indexCol)
	if err != nil {
		return nil, nil, err
	}
	for _, t := range targets {
		if !data.Has(t) {
			return nil, nil, errors.NewColumnNotFoundError("loadSplit", t, path)
		}
	}
	if y, err = data.Select(targets...); err != nil {
		return nil, nil, err
	}
	if x, err = data.Drop(targets...); err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func checkDisjoint(train, test *frame.Frame) error {
	seen := make(map[string]bool, train.Nrow())
	for _, id := range train.Index() {
		seen[id] = true
	}
	for _, id := range test.Index() {
		if seen[id] {
			return errors.NewIndexError("New", test.IndexName(), "test identifier also present in training data", id)
		}
	}
	return nil
}
