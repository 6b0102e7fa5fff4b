// Package evaluation scores logistic models fitted through glm.FitFormula,
// either in-sample or by k-fold cross-validation.
//
// Evaluate reports accuracy, precision, recall and F1 at a cutoff; under
// cross-validation these are averaged across folds, skipping undefined
// entries. RocAuc reports the ROC curve and its area; under
// cross-validation the out-of-fold predictions of all folds are pooled in
// fold order before the curve is computed. Predictions exposes that pooled
// set directly.
//
// Example:
//
//	f := formula.MustParse("default ~ .")
//	m, err := evaluation.Evaluate(ctx, f, frame,
//	    evaluation.WithMode(evaluation.CrossValidated),
//	    evaluation.WithFolds(5),
//	    evaluation.WithBaseline("no"),
//	)
package evaluation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/YuminosukeSato/logiteval/core/parallel"
	"github.com/YuminosukeSato/logiteval/dataset"
	"github.com/YuminosukeSato/logiteval/formula"
	"github.com/YuminosukeSato/logiteval/metrics"
	"github.com/YuminosukeSato/logiteval/pkg/errors"
	"github.com/YuminosukeSato/logiteval/pkg/log"
	"github.com/YuminosukeSato/logiteval/preprocessing"
)

// Evaluate returns classification metrics at the configured cutoff.
func Evaluate(ctx context.Context, f formula.Formula, frame *dataset.Frame, opts ...Option) (metrics.Classification, error) {
	cfg := newConfig(opts)
	if math.IsNaN(cfg.cutoff) || cfg.cutoff < 0 || cfg.cutoff > 1 {
		return metrics.Classification{}, errors.NewValidationError("cutoff", "must be in [0, 1]", cfg.cutoff)
	}
	logger := cfg.logger.With(
		log.ComponentKey, "evaluation",
		log.OperationKey, log.OperationEvaluate,
		log.ModeKey, cfg.mode.String(),
		log.FormulaKey, f.String(),
	)
	start := time.Now()

	scored, err := score(ctx, f, frame, cfg, logger)
	if err != nil {
		return metrics.Classification{}, err
	}

	records := make([]metrics.Classification, len(scored))
	for i, s := range scored {
		if records[i], err = metrics.ClassificationAt(s.labels, s.proba, cfg.cutoff); err != nil {
			return metrics.Classification{}, err
		}
	}
	result := records[0]
	if cfg.mode == CrossValidated {
		result = metrics.MeanClassification(records)
	}

	logger.Info("evaluation finished",
		log.ThresholdKey, cfg.cutoff,
		log.AccuracyKey, result.Accuracy.String(),
		log.PrecisionKey, result.Precision.String(),
		log.RecallKey, result.Recall.String(),
		log.F1Key, result.F1.String(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return result, nil
}

// RocAuc returns the ROC curve and its area.
func RocAuc(ctx context.Context, f formula.Formula, frame *dataset.Frame, opts ...Option) (*metrics.ROC, error) {
	cfg := newConfig(opts)
	logger := cfg.logger.With(
		log.ComponentKey, "evaluation",
		log.OperationKey, log.OperationROCAUC,
		log.ModeKey, cfg.mode.String(),
		log.FormulaKey, f.String(),
	)
	start := time.Now()

	scored, err := score(ctx, f, frame, cfg, logger)
	if err != nil {
		return nil, err
	}
	pooled := pool(scored)
	roc, err := metrics.ROCCurve(pooled.Labels, pooled.Proba)
	if err != nil {
		return nil, err
	}

	logger.Info("roc computed",
		log.AUCKey, roc.AUC,
		log.SamplesKey, len(pooled.Labels),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return roc, nil
}

// Pooled holds the scored rows of an evaluation in scoring order: the table
// order in-sample, fold id then row order under cross-validation.
type Pooled struct {
	Rows   []int     // row index in the input table
	Fold   []int     // 1-based fold id, 0 in-sample
	Labels []float64 // encoded 0/1 response
	Proba  []float64 // predicted P(y=1)
}

// Predictions returns the probabilities RocAuc would pool, with the row and
// fold each one came from. Calibration metrics such as metrics.Brier and
// metrics.LogLoss are computed from it.
func Predictions(ctx context.Context, f formula.Formula, frame *dataset.Frame, opts ...Option) (*Pooled, error) {
	cfg := newConfig(opts)
	logger := cfg.logger.With(
		log.ComponentKey, "evaluation",
		log.OperationKey, log.OperationPredict,
		log.ModeKey, cfg.mode.String(),
		log.FormulaKey, f.String(),
	)
	scored, err := score(ctx, f, frame, cfg, logger)
	if err != nil {
		return nil, err
	}
	return pool(scored), nil
}

func pool(scored []scoredSet) *Pooled {
	p := &Pooled{}
	for i, s := range scored {
		fold := i + 1
		if s.inSample {
			fold = 0
		}
		p.Rows = append(p.Rows, s.rows...)
		p.Labels = append(p.Labels, s.labels...)
		p.Proba = append(p.Proba, s.proba...)
		for range s.rows {
			p.Fold = append(p.Fold, fold)
		}
	}
	return p
}

// scoredSet holds true 0/1 labels and predicted probabilities for the rows
// a model was scored on.
type scoredSet struct {
	rows     []int
	labels   []float64
	proba    []float64
	inSample bool
}

// score returns one scored set for in-sample mode and one per fold, in fold
// id order, for cross-validation.
func score(ctx context.Context, f formula.Formula, frame *dataset.Frame, cfg *config, logger log.Logger) ([]scoredSet, error) {
	if _, err := f.Resolve(frame); err != nil {
		return nil, err
	}
	frame, resp, err := prepareResponse(f, frame, cfg.baseline)
	if err != nil {
		return nil, err
	}
	n := frame.NRows()
	if pos := resp.Positives(); pos == 0 || pos == n {
		return nil, errors.NewDegenerateLabelSetError(cfg.mode.String()+" evaluation", pos, n-pos)
	}

	switch cfg.mode {
	case InSample:
		return inSample(f, frame, resp, cfg, logger)
	case CrossValidated:
		return crossValidate(ctx, f, frame, resp, cfg, logger)
	default:
		return nil, errors.NewValidationError("mode", "unknown evaluation mode", int(cfg.mode))
	}
}

// prepareResponse encodes the response of the full table once. A text
// response is replaced by a categorical column so every fold, whatever
// values it happens to contain, sees the same level order.
func prepareResponse(f formula.Formula, frame *dataset.Frame, baseline *string) (*dataset.Frame, preprocessing.Response, error) {
	col, _ := frame.Column(f.Response)
	resp, err := preprocessing.NormalizeResponse(col, baseline)
	if err != nil {
		return nil, preprocessing.Response{}, err
	}
	if text, ok := col.(*dataset.Text); ok {
		frame, err = frame.WithColumn(dataset.Coerce(text))
		if err != nil {
			return nil, preprocessing.Response{}, err
		}
	}
	return frame, resp, nil
}

func inSample(f formula.Formula, frame *dataset.Frame, resp preprocessing.Response, cfg *config, logger log.Logger) ([]scoredSet, error) {
	fit, err := cfg.fitter(frame, f, cfg.fitOptions()...)
	if err != nil {
		return nil, err
	}
	proba := fit.FittedProbabilities()
	if len(proba) != frame.NRows() {
		return nil, errors.NewDimensionError("evaluation.inSample", frame.NRows(), len(proba), 0)
	}
	logger.Debug("model fitted", log.SamplesKey, frame.NRows())

	rows := make([]int, frame.NRows())
	for i := range rows {
		rows[i] = i
	}
	return []scoredSet{{rows: rows, labels: resp.Values, proba: proba, inSample: true}}, nil
}

// crossValidate assigns folds once, then fits each fold on the remaining
// rows and predicts the held-out rows. Folds may run concurrently; results
// are stored by fold index. The first failing fold by id aborts the call.
func crossValidate(ctx context.Context, f formula.Formula, frame *dataset.Frame, resp preprocessing.Response, cfg *config, logger log.Logger) ([]scoredSet, error) {
	n := frame.NRows()
	folds, err := AssignFolds(n, cfg.folds, cfg.seed)
	if err != nil {
		return nil, err
	}
	logger = logger.With(log.FoldsKey, cfg.folds, log.RandomSeedKey, cfg.seed)
	logger.Debug("folds assigned", log.SamplesKey, n, log.WorkersKey, cfg.workers)

	fitOpts := cfg.fitOptions()
	results := make([]scoredSet, cfg.folds)
	err = parallel.Indexed(ctx, cfg.folds, cfg.workers, func(ctx context.Context, i int) (err error) {
		id := i + 1
		defer errors.Recover(&err, fmt.Sprintf("fold %d", id))

		train, test := folds.Split(id)
		trainFrame, err := frame.Subset(train)
		if err != nil {
			return err
		}
		testFrame, err := frame.Subset(test)
		if err != nil {
			return err
		}

		fit, err := cfg.fitter(trainFrame, f, fitOpts...)
		if err != nil {
			return errors.Wrapf(err, "fold %d", id)
		}
		proba, err := fit.PredictTable(testFrame)
		if err != nil {
			return errors.Wrapf(err, "fold %d", id)
		}
		if len(proba) != len(test) {
			return errors.NewDimensionError("evaluation.crossValidate", len(test), len(proba), 0)
		}

		results[i] = scoredSet{rows: test, labels: resp.Subset(test).Values, proba: proba}
		logger.Debug("fold scored", log.FoldKey, id, log.SamplesKey, len(test))
		return nil
	})
	if err != nil {
		logger.Error("cross-validation aborted", err)
		return nil, err
	}
	return results, nil
}
