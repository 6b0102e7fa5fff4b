package evaluation

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

// DefaultSeed seeds fold assignment when no seed is given.
const DefaultSeed uint64 = 42

// Folds maps each row index to a fold id in [1, K].
type Folds []int

// AssignFolds partitions n rows into k folds whose sizes differ by at most
// one. The labels 1..k are repeated to length n and shuffled with a PCG
// source seeded from seed, so the result depends only on (n, k, seed).
func AssignFolds(n, k int, seed uint64) (Folds, error) {
	if k < 2 || k > n {
		return nil, errors.NewInvalidFoldCountError(k, n)
	}
	folds := make(Folds, n)
	for i := range folds {
		folds[i] = i%k + 1
	}
	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(n, func(i, j int) {
		folds[i], folds[j] = folds[j], folds[i]
	})
	return folds, nil
}

// K returns the number of folds.
func (f Folds) K() int {
	k := 0
	for _, id := range f {
		if id > k {
			k = id
		}
	}
	return k
}

// Split returns the rows outside and inside fold id, each in row order.
func (f Folds) Split(id int) (train, test []int) {
	for row, fold := range f {
		if fold == id {
			test = append(test, row)
		} else {
			train = append(train, row)
		}
	}
	return train, test
}

// Sizes returns the number of rows in each fold; Sizes()[0] is fold 1.
func (f Folds) Sizes() []int {
	sizes := make([]int, f.K())
	for _, id := range f {
		sizes[id-1]++
	}
	return sizes
}
