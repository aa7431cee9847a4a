// Standard attribute keys for dataset preparation logs.
//
// Keys follow a hierarchical naming convention ("data.samples",
// "dataset.view") so log pipelines can filter on them.

package log

// Component and operation context.
const (
	// ComponentKey identifies which package is emitting the record.
	// Examples: "dataset", "preprocessing", "config"
	ComponentKey = "ml.component"

	// OperationKey specifies the operation being performed.
	// Standard values: "load", "fit", "transform", "fit_transform"
	OperationKey = "ml.operation"

	// ModelNameKey identifies the transformer type, e.g. "OneHotEncoder".
	ModelNameKey = "model.name"

	// ViewKey names the dataset view being built.
	ViewKey = "dataset.view"
)

// Data shape and source.
const (
	// SamplesKey is the number of rows.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns.
	FeaturesKey = "data.features"

	// TargetsKey is the number of target columns.
	TargetsKey = "data.targets"

	// TestSamplesKey is the number of rows in the held-out test table.
	TestSamplesKey = "data.test_samples"

	// EncodedFeaturesKey is the number of columns after one-hot encoding.
	EncodedFeaturesKey = "data.encoded_features"

	// PathKey is the file a table was read from.
	PathKey = "data.path"

	// IndexKey is the row-identifier column.
	IndexKey = "data.index"

	// ColumnKey names a single column.
	ColumnKey = "data.column"
)

// Performance.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error context.
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the error or warning, e.g. "ConfigError".
	ErrorTypeKey = "error.type"

	// ErrorDetailKey carries the structured fields of typed errors.
	ErrorDetailKey = "error.detail"

	// SuggestionKey provides a hint for resolving the issue.
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationLoad         = "load"
	OperationFit          = "fit"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"

	ViewRaw              = "raw"
	ViewOneHot           = "onehot"
	ViewDivision         = "division"
	ViewAllFeatures      = "all_features"
	ViewNoOutliers       = "no_outliers"
	ViewNoOutliersOneHot = "no_outliers_onehot"
	ViewAllOneHot        = "all_onehot"
	ViewNoNulls          = "no_nulls"

	ErrorConfig          = "CONFIG_INVALID"
	ErrorFileNotFound    = "FILE_NOT_FOUND"
	ErrorColumnNotFound  = "COLUMN_NOT_FOUND"
	ErrorUnknownCategory = "UNKNOWN_CATEGORY"
	ErrorEmptyData       = "EMPTY_DATA"
)
