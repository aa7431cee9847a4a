// Package vaxset prepares the H1N1 and seasonal flu vaccine survey data for
// model training.
//
// It reads a training CSV carrying the two vaccination labels and a held-out
// test CSV without them, indexes both by the respondent identifier, and
// builds the feature views the training jobs consume: raw, one-hot encoded,
// split per label, full-feature, outlier-filtered and null-free.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "log"
//	    "os"
//
//	    "github.com/YuminosukeSato/vaxset/config"
//	    "github.com/YuminosukeSato/vaxset/dataset"
//	)
//
//	func main() {
//	    cfg, err := config.Load("config.ini")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    ds, err := dataset.New(cfg)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    v, err := ds.OneHot()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    // v.X and v.Test share the same encoded columns
//	    if err := v.Test.WriteCSV(os.Stdout); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Configuration
//
// The INI file has a required [data] section:
//
//	[data]
//	dataset_path               = data/train.csv
//	dataset_test_path          = data/test.csv
//	dataset_index              = respondent_id
//	dataset_all_path           = data/train_all.csv
//	dataset_test_all_path      = data/test_all.csv
//	dataset_no_outliers_path   = data/train_no_outliers.csv
//	dataset_no_nulls_path      = data/train_no_nulls.csv
//	dataset_test_no_nulls_path = data/test_no_nulls.csv
//
// and an optional [log] section with level and format. Every key can be
// overridden with a VAXSET_ environment variable, for example
// VAXSET_DATASET_PATH or VAXSET_LOG_LEVEL.
//
// # Packages
//
//   - config: INI loading, environment overrides and validation
//   - dataset: the Dataset and its views
//   - preprocessing: OneHotEncoder
//   - core/frame: indexed tables over gota dataframes
//   - core/model: fitted state, Transformer interface and gob persistence
//   - pkg/errors: typed errors with stack traces, warnings
//   - pkg/log: structured logging over zerolog or slog
package vaxset
