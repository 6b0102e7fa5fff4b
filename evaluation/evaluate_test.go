package evaluation

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/logiteval/core/model"
	"github.com/YuminosukeSato/logiteval/dataset"
	"github.com/YuminosukeSato/logiteval/formula"
	"github.com/YuminosukeSato/logiteval/glm"
	"github.com/YuminosukeSato/logiteval/metrics"
	"github.com/YuminosukeSato/logiteval/pkg/errors"
	"github.com/YuminosukeSato/logiteval/pkg/log"
)

func scenarioFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	f, err := dataset.FromRecords([]map[string]any{
		{"x": 1, "y": 0}, {"x": 2, "y": 1}, {"x": 3, "y": 0}, {"x": 4, "y": 1},
		{"x": 3, "y": 0}, {"x": 7, "y": 1}, {"x": 2, "y": 0}, {"x": 6, "y": 1},
	})
	require.NoError(t, err)
	return f
}

// overlapFrame stays non-separable after removing any seven rows, so every
// training set of four or more folds has a finite maximum likelihood fit.
func overlapFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	var x []float64
	var y []string
	for _, grp := range []struct {
		label string
		from  float64
	}{{"no", 0}, {"yes", 1}} {
		for rep := 0; rep < 2; rep++ {
			for v := grp.from; v < grp.from+6; v++ {
				x = append(x, v)
				y = append(y, grp.label)
			}
		}
	}
	f, err := dataset.NewFrame(dataset.NewNumeric("x", x), dataset.NewText("y", y))
	require.NoError(t, err)
	return f
}

// scaledModel scores each row as x/10 without fitting anything.
type scaledModel struct{ fitted []float64 }

func (m scaledModel) FittedProbabilities() []float64 { return m.fitted }

func (m scaledModel) PredictTable(f *dataset.Frame) ([]float64, error) {
	col, _ := f.Column("x")
	out := make([]float64, f.NRows())
	for i, v := range col.(*dataset.Numeric).Values {
		out[i] = v / 10
	}
	return out, nil
}

func scaledFitter(calls *atomic.Int32) Fitter {
	return func(frame *dataset.Frame, _ formula.Formula, _ ...glm.FitOption) (model.TableModel, error) {
		if calls != nil {
			calls.Add(1)
		}
		m := scaledModel{}
		p, _ := m.PredictTable(frame)
		m.fitted = p
		return m, nil
	}
}

func TestEvaluateInSampleScenario(t *testing.T) {
	got, err := Evaluate(context.Background(), formula.MustParse("y ~ x"), scenarioFrame(t),
		WithMode(InSample), WithCutoff(0.5))
	require.NoError(t, err)

	for _, v := range []metrics.Value{got.Accuracy, got.Precision, got.Recall, got.F1} {
		require.True(t, v.OK)
		assert.GreaterOrEqual(t, v.V, 0.0)
		assert.LessOrEqual(t, v.V, 1.0)
	}
	assert.InDelta(t, 0.875, got.Accuracy.V, 1e-12)
	assert.InDelta(t, 1.0, got.Precision.V, 1e-12)
	assert.InDelta(t, 0.75, got.Recall.V, 1e-12)
	assert.InDelta(t, 6.0/7.0, got.F1.V, 1e-12)
}

func TestRocAucInSampleScenario(t *testing.T) {
	roc, err := RocAuc(context.Background(), formula.MustParse("y ~ x"), scenarioFrame(t))
	require.NoError(t, err)

	// positives x={2,4,7,6}, negatives x={1,3,3,2}; the fit is increasing in x
	// so AUC is the Mann-Whitney statistic with the tie at x=2 counted half
	assert.InDelta(t, 13.5/16, roc.AUC, 1e-12)
	assert.Len(t, roc.FPR, 9)
	assert.Equal(t, 0.0, roc.FPR[0])
	assert.Equal(t, 1.0, roc.TPR[len(roc.TPR)-1])
}

func TestInvalidFoldCount(t *testing.T) {
	frame := scenarioFrame(t)
	for _, k := range []int{1, 9} {
		var calls atomic.Int32
		_, err := Evaluate(context.Background(), formula.MustParse("y ~ x"), frame,
			WithMode(CrossValidated), WithFolds(k), WithFitter(scaledFitter(&calls)))
		var foldErr *errors.InvalidFoldCountError
		assert.True(t, errors.As(err, &foldErr), "folds=%d", k)
		assert.Zero(t, calls.Load(), "no fit before the fold count is checked")

		_, err = RocAuc(context.Background(), formula.MustParse("y ~ x"), frame,
			WithMode(CrossValidated), WithFolds(k), WithFitter(scaledFitter(&calls)))
		assert.True(t, errors.As(err, &foldErr), "folds=%d", k)
		assert.Zero(t, calls.Load())
	}
}

func TestDegenerateLabelSet(t *testing.T) {
	records := make([]map[string]any, 10)
	for i := range records {
		records[i] = map[string]any{"x": float64(i), "y": 1}
	}
	frame, err := dataset.FromRecords(records)
	require.NoError(t, err)
	f := formula.MustParse("y ~ x")
	ctx := context.Background()

	for _, mode := range []Mode{InSample, CrossValidated} {
		var degenerate *errors.DegenerateLabelSetError

		_, err := Evaluate(ctx, f, frame, WithMode(mode), WithFolds(5))
		assert.True(t, errors.As(err, &degenerate), "Evaluate %s: %v", mode, err)

		_, err = RocAuc(ctx, f, frame, WithMode(mode), WithFolds(5))
		assert.True(t, errors.As(err, &degenerate), "RocAuc %s: %v", mode, err)
		assert.Equal(t, 10, degenerate.Positives)
	}
}

func TestUnsupportedResponseType(t *testing.T) {
	values := make([]any, 8)
	for i := range values {
		values[i] = struct{ v int }{i % 2}
	}
	frame, err := scenarioFrame(t).WithColumn(dataset.NewOther("y", values))
	require.NoError(t, err)

	var calls atomic.Int32
	_, err = Evaluate(context.Background(), formula.MustParse("y ~ x"), frame, WithFitter(scaledFitter(&calls)))
	var unsupported *errors.UnsupportedResponseTypeError
	assert.True(t, errors.As(err, &unsupported))
	assert.Zero(t, calls.Load())
}

// With one row per fold, cross-validation is leave-one-out.
func TestLeaveOneOut(t *testing.T) {
	frame := overlapFrame(t)
	f := formula.MustParse("y ~ x")
	n := frame.NRows()
	ctx := context.Background()

	var records []metrics.Classification
	var labels, proba []float64
	for i := 0; i < n; i++ {
		var train []int
		for j := 0; j < n; j++ {
			if j != i {
				train = append(train, j)
			}
		}
		trainFrame, err := frame.Subset(train)
		require.NoError(t, err)
		testFrame, err := frame.Subset([]int{i})
		require.NoError(t, err)

		fit, err := glm.FitFormula(trainFrame, f)
		require.NoError(t, err)
		p, err := fit.PredictTable(testFrame)
		require.NoError(t, err)

		y := 0.0
		if i >= n/2 {
			y = 1
		}
		m, err := metrics.ClassificationAt([]float64{y}, p, 0.5)
		require.NoError(t, err)
		records = append(records, m)
		labels = append(labels, y)
		proba = append(proba, p[0])
	}
	want := metrics.MeanClassification(records)
	wantAUC, err := metrics.AUC(labels, proba)
	require.NoError(t, err)

	got, err := Evaluate(ctx, f, frame, WithMode(CrossValidated), WithFolds(n))
	require.NoError(t, err)
	assertClassification(t, want, got)

	roc, err := RocAuc(ctx, f, frame, WithMode(CrossValidated), WithFolds(n))
	require.NoError(t, err)
	assert.InDelta(t, wantAUC, roc.AUC, 1e-12)
	assert.Len(t, roc.FPR, n+1)
}

func TestCrossValidatedReproducible(t *testing.T) {
	frame := overlapFrame(t)
	f := formula.MustParse("y ~ .")
	ctx := context.Background()

	first, err := Evaluate(ctx, f, frame, WithMode(CrossValidated), WithFolds(4), WithSeed(99))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := Evaluate(ctx, f, frame, WithMode(CrossValidated), WithFolds(4), WithSeed(99))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	frame := overlapFrame(t)
	f := formula.MustParse("y ~ x")
	ctx := context.Background()

	seq, err := Evaluate(ctx, f, frame, WithMode(CrossValidated), WithFolds(6), WithWorkers(1))
	require.NoError(t, err)
	par, err := Evaluate(ctx, f, frame, WithMode(CrossValidated), WithFolds(6), WithWorkers(4))
	require.NoError(t, err)
	assert.Equal(t, seq, par)

	rocSeq, err := RocAuc(ctx, f, frame, WithMode(CrossValidated), WithFolds(6), WithWorkers(1))
	require.NoError(t, err)
	rocPar, err := RocAuc(ctx, f, frame, WithMode(CrossValidated), WithFolds(6), WithWorkers(3))
	require.NoError(t, err)
	assert.Equal(t, rocSeq, rocPar)
}

func TestCrossValidatedPoolsOutOfFold(t *testing.T) {
	frame := scenarioFrame(t)
	var calls atomic.Int32

	roc, err := RocAuc(context.Background(), formula.MustParse("y ~ x"), frame,
		WithMode(CrossValidated), WithFolds(4), WithFitter(scaledFitter(&calls)))
	require.NoError(t, err)
	assert.EqualValues(t, 4, calls.Load())

	// pooled x/10 scores over all rows give the same ranking as x itself
	col, _ := frame.Column("x")
	yCol, _ := frame.Column("y")
	want, err := metrics.AUC(yCol.(*dataset.Numeric).Values, col.(*dataset.Numeric).Values)
	require.NoError(t, err)
	assert.InDelta(t, want, roc.AUC, 1e-12)
}

func TestPredictionsPooledInFoldOrder(t *testing.T) {
	frame := scenarioFrame(t)
	ctx := context.Background()
	f := formula.MustParse("y ~ x")

	got, err := Predictions(ctx, f, frame, WithMode(CrossValidated), WithFolds(4), WithFitter(scaledFitter(nil)))
	require.NoError(t, err)
	folds, err := AssignFolds(frame.NRows(), 4, DefaultSeed)
	require.NoError(t, err)

	require.Len(t, got.Rows, frame.NRows())
	x, _ := frame.Column("x")
	y, _ := frame.Column("y")
	var prev int
	seen := map[int]bool{}
	for i, row := range got.Rows {
		assert.False(t, seen[row], "row %d pooled twice", row)
		seen[row] = true
		assert.Equal(t, folds[row], got.Fold[i])
		assert.GreaterOrEqual(t, got.Fold[i], prev)
		prev = got.Fold[i]
		assert.Equal(t, y.(*dataset.Numeric).Values[row], got.Labels[i])
		assert.InDelta(t, x.(*dataset.Numeric).Values[row]/10, got.Proba[i], 1e-12)
	}

	roc, err := RocAuc(ctx, f, frame, WithMode(CrossValidated), WithFolds(4), WithFitter(scaledFitter(nil)))
	require.NoError(t, err)
	want, err := metrics.ROCCurve(got.Labels, got.Proba)
	require.NoError(t, err)
	assert.Equal(t, want, roc)
}

func TestPredictionsInSample(t *testing.T) {
	frame := scenarioFrame(t)
	got, err := Predictions(context.Background(), formula.MustParse("y ~ x"), frame)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, got.Rows)
	assert.Equal(t, make([]int, 8), got.Fold)
	assert.InDelta(t, 0.0724778, got.Proba[0], 1e-5)

	brier, err := metrics.Brier(got.Labels, got.Proba)
	require.NoError(t, err)
	assert.Greater(t, brier, 0.0)
	assert.Less(t, brier, 0.25)
}

func TestCrossValidatedAveragesFolds(t *testing.T) {
	frame := scenarioFrame(t)
	folds, err := AssignFolds(frame.NRows(), 2, DefaultSeed)
	require.NoError(t, err)

	x, _ := frame.Column("x")
	y, _ := frame.Column("y")
	var records []metrics.Classification
	for id := 1; id <= 2; id++ {
		_, test := folds.Split(id)
		var labels, proba []float64
		for _, row := range test {
			labels = append(labels, y.(*dataset.Numeric).Values[row])
			proba = append(proba, x.(*dataset.Numeric).Values[row]/10)
		}
		m, err := metrics.ClassificationAt(labels, proba, 0.25)
		require.NoError(t, err)
		records = append(records, m)
	}

	got, err := Evaluate(context.Background(), formula.MustParse("y ~ x"), frame,
		WithMode(CrossValidated), WithFolds(2), WithCutoff(0.25), WithFitter(scaledFitter(nil)))
	require.NoError(t, err)
	assertClassification(t, metrics.MeanClassification(records), got)
}

func TestFailingFoldAborts(t *testing.T) {
	boom := errors.New("fit failed")
	var calls atomic.Int32
	fitter := func(frame *dataset.Frame, f formula.Formula, opts ...glm.FitOption) (model.TableModel, error) {
		if calls.Add(1) == 2 {
			return nil, boom
		}
		return scaledFitter(nil)(frame, f, opts...)
	}

	for _, workers := range []int{1, 3} {
		calls.Store(0)
		_, err := Evaluate(context.Background(), formula.MustParse("y ~ x"), scenarioFrame(t),
			WithMode(CrossValidated), WithFolds(4), WithWorkers(workers), WithFitter(fitter))
		require.Error(t, err, "workers=%d", workers)
		assert.True(t, errors.Is(err, boom), "workers=%d: %v", workers, err)
	}
}

func TestPanickingFoldIsRecovered(t *testing.T) {
	fitter := func(*dataset.Frame, formula.Formula, ...glm.FitOption) (model.TableModel, error) {
		panic("solver exploded")
	}
	_, err := RocAuc(context.Background(), formula.MustParse("y ~ x"), scenarioFrame(t),
		WithMode(CrossValidated), WithFolds(2), WithWorkers(2), WithFitter(fitter))
	var panicErr *errors.PanicError
	require.True(t, errors.As(err, &panicErr), "%v", err)
	assert.Equal(t, "solver exploded", panicErr.PanicValue)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Evaluate(ctx, formula.MustParse("y ~ x"), scenarioFrame(t),
		WithMode(CrossValidated), WithFolds(2), WithFitter(scaledFitter(nil)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBaselineConsistentAcrossFolds(t *testing.T) {
	frame := overlapFrame(t)
	f := formula.MustParse("y ~ x")
	ctx := context.Background()

	no, err := RocAuc(ctx, f, frame, WithMode(CrossValidated), WithFolds(4), WithBaseline("no"))
	require.NoError(t, err)
	yes, err := RocAuc(ctx, f, frame, WithMode(CrossValidated), WithFolds(4), WithBaseline("yes"))
	require.NoError(t, err)
	assert.InDelta(t, no.AUC, yes.AUC, 1e-9)
	assert.Greater(t, no.AUC, 0.5)

	_, err = Evaluate(ctx, f, frame, WithBaseline("maybe"))
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestInvalidCutoff(t *testing.T) {
	_, err := Evaluate(context.Background(), formula.MustParse("y ~ x"), scenarioFrame(t), WithCutoff(-0.1))
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestEvaluateLogs(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	_, err := Evaluate(context.Background(), formula.MustParse("y ~ x"), overlapFrame(t),
		WithMode(CrossValidated), WithFolds(4), WithLogger(logger))
	require.NoError(t, err)

	assert.True(t, logger.ContainsMessage("evaluation finished"))
	assert.True(t, logger.ContainsField(log.ModeKey, log.ModeCrossValidated))
	assert.True(t, logger.ContainsField(log.FoldKey, 3.0))
	assert.True(t, logger.ContainsField(log.OperationKey, log.OperationEvaluate))
}

func assertClassification(t *testing.T, want, got metrics.Classification) {
	t.Helper()
	pairs := []struct {
		name      string
		want, got metrics.Value
	}{
		{"accuracy", want.Accuracy, got.Accuracy},
		{"precision", want.Precision, got.Precision},
		{"recall", want.Recall, got.Recall},
		{"f1", want.F1, got.F1},
	}
	for _, p := range pairs {
		require.Equal(t, p.want.OK, p.got.OK, p.name)
		if p.want.OK {
			assert.InDelta(t, p.want.V, p.got.V, 1e-12, p.name)
		}
	}
}
