// Package log defines standard attribute keys for evaluation operations.
//
// The keys follow the hierarchical naming convention ("ml.operation",
// "data.samples") so records from the fitter, the evaluation engine and the
// CLI can be filtered together.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model, e.g. "Binomial".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "evaluate", "roc_auc"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// FormulaKey records the model formula as written by the caller.
	FormulaKey = "model.formula"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of rows in the table being processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of design-matrix columns.
	FeaturesKey = "data.features"

	// ColumnKey names the table column a record refers to.
	ColumnKey = "data.column"
)

// Evaluation Context
const (
	// ModeKey is "in-sample" or "cross-validated".
	ModeKey = "eval.mode"

	// FoldKey is the 1-based fold id currently being processed.
	FoldKey = "eval.fold"

	// FoldsKey is the total number of folds.
	FoldsKey = "eval.folds"

	// RandomSeedKey records the seed used for fold assignment.
	RandomSeedKey = "config.random_seed"

	// WorkersKey is the number of goroutines fitting folds.
	WorkersKey = "eval.workers"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records accuracy at the cutoff.
	AccuracyKey = "metrics.accuracy"

	// PrecisionKey records precision at the cutoff.
	PrecisionKey = "metrics.precision"

	// RecallKey records recall at the cutoff.
	RecallKey = "metrics.recall"

	// F1Key records the F1 score at the cutoff.
	F1Key = "metrics.f1"

	// AUCKey records the area under the ROC curve.
	AUCKey = "metrics.auc"

	// DevianceKey records the binomial deviance of a fit.
	DevianceKey = "metrics.deviance"

	// IterationKey records the IRLS iteration number.
	IterationKey = "training.iteration"

	// ThresholdKey records the probability cutoff.
	ThresholdKey = "preds.threshold"
)

// Standard attribute values.
const (
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationEvaluate = "evaluate"
	OperationROCAUC   = "roc_auc"

	ModeInSample       = "in-sample"
	ModeCrossValidated = "cross-validated"
)
