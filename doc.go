// Package logiteval evaluates binary logistic regression models fitted from
// an R-style formula against a row table.
//
// The module is organised the way a single evaluation flows:
//
//   - dataset: typed columns (numeric, boolean, text, categorical), tables
//     built from records or CSV, row subsetting
//   - formula: "y ~ x + group" and "y ~ ." parsing and column resolution
//   - preprocessing: 0/1 response encoding with a baseline label, treatment
//     coding of factor predictors, column standardization
//   - glm: binomial GLM with a logit link fitted by IRLS, and FitFormula
//     which binds a fitted model to the columns it was trained on
//   - metrics: confusion counts, accuracy, precision, recall, F1, ROC/AUC,
//     Brier score and log loss, with explicit undefined values
//   - evaluation: in-sample and k-fold cross-validated Evaluate, RocAuc and
//     Predictions, with optional concurrent folds
//   - plots: ROC curves and kernel-smoothed monotonicity diagnostics
//   - cmd/logiteval: the command line front end
//
// # Quick Start
//
//	frame, err := dataset.ReadCSVFile("admissions.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	f := formula.MustParse("admit ~ gre + gpa + rank")
//
//	m, err := evaluation.Evaluate(ctx, f, frame,
//	    evaluation.WithMode(evaluation.CrossValidated),
//	    evaluation.WithFolds(10),
//	    evaluation.WithBaseline("no"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(m) // accuracy=0.71 precision=0.6 recall=0.19 f1=0.29
//
//	roc, err := evaluation.RocAuc(ctx, f, frame, evaluation.WithMode(evaluation.CrossValidated))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = plots.SaveROC(roc, "roc.png")
//
// # Undefined metrics
//
// Precision is undefined when nothing is predicted positive, recall when the
// scored rows contain no positives. Such values are reported as metrics.Value
// with OK false (printed "NA") rather than 0 or NaN. Cross-validated means
// skip undefined folds.
//
// # Errors
//
// Errors come from pkg/errors and can be inspected with errors.As:
// UnsupportedResponseTypeError, DegenerateLabelSetError,
// InvalidFoldCountError, ValidationError, ValueError, DimensionError and
// ModelError (wrapping ErrSingularMatrix for collinear predictors).
//
// # Logging
//
// Library packages log through pkg/log. The default logger discards
// everything; call log.SetupLogger or log.SetLogger to enable output.
package logiteval
