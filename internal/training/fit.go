// Package training fits the price regression offline: it cleans a historical
// listing CSV, standardizes the features, solves an ordinary-least-squares
// fit, and reports holdout R². The resulting snapshot is persisted by the
// artifact package and is the only writer of estimator state.
package training

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/abhijithns29/propchain/internal/domain"
)

// Result summarizes one training run.
type Result struct {
	Snapshot   *domain.ModelSnapshot
	TrainR2    float64
	TestR2     float64
	TrainCount int
	TestCount  int
}

// Fit standardizes X column-wise, fits OLS on a train split, and evaluates on
// the holdout. Rows of X must be in featureNames order. seed drives the
// train/test shuffle so runs are reproducible.
func Fit(featureNames []string, X [][]float64, y []float64, seed int64) (*Result, error) {
	n := len(X)
	if n == 0 || n != len(y) {
		return nil, fmt.Errorf("need matching samples, got %d rows and %d targets", n, len(y))
	}
	p := len(featureNames)
	for i, row := range X {
		if len(row) != p {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), p)
		}
	}
	if n < p+2 {
		return nil, fmt.Errorf("%d samples cannot fit %d features", n, p)
	}

	trainIdx, testIdx := split(n, 0.2, seed)

	scaler := fitScaler(X, trainIdx)
	scaledTrain := transformRows(scaler, X, trainIdx)
	scaledTest := transformRows(scaler, X, testIdx)

	yTrain := pick(y, trainIdx)
	yTest := pick(y, testIdx)

	model, err := fitOLS(scaledTrain, yTrain)
	if err != nil {
		return nil, err
	}

	return &Result{
		Snapshot: &domain.ModelSnapshot{
			FeatureNames: featureNames,
			Scaler:       scaler,
			Model:        model,
			TrainedAt:    time.Now().UTC(),
		},
		TrainR2:    rSquared(model, scaledTrain, yTrain),
		TestR2:     rSquared(model, scaledTest, yTest),
		TrainCount: len(trainIdx),
		TestCount:  len(testIdx),
	}, nil
}

// split shuffles row indices and carves off testFraction for the holdout,
// keeping at least one sample on each side.
func split(n int, testFraction float64, seed int64) (train, test []int) {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	testSize := int(float64(n) * testFraction)
	if testSize < 1 {
		testSize = 1
	}
	if testSize >= n {
		testSize = n - 1
	}
	return idx[testSize:], idx[:testSize]
}

func fitScaler(X [][]float64, rows []int) domain.Scaler {
	p := len(X[0])
	mean := make([]float64, p)
	scale := make([]float64, p)

	for _, r := range rows {
		for j, v := range X[r] {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(len(rows))
	}

	for _, r := range rows {
		for j, v := range X[r] {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / float64(len(rows)))
	}

	return domain.Scaler{Mean: mean, Scale: scale}
}

func transformRows(s domain.Scaler, X [][]float64, rows []int) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		scaled, _ := s.Transform(X[r])
		out[i] = scaled
	}
	return out
}

func pick(y []float64, rows []int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = y[r]
	}
	return out
}

// fitOLS solves the normal equations (XᵀX)w = Xᵀy with an intercept column,
// using Gaussian elimination with partial pivoting. Thirteen features keep
// the system tiny, so no numeric library is needed.
func fitOLS(X [][]float64, y []float64) (domain.LinearModel, error) {
	n := len(X)
	p := len(X[0])
	d := p + 1 // intercept last

	ata := make([][]float64, d)
	for i := range ata {
		ata[i] = make([]float64, d+1) // augmented with Xᵀy
	}

	row := make([]float64, d)
	for k := 0; k < n; k++ {
		copy(row, X[k])
		row[p] = 1
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				ata[i][j] += row[i] * row[j]
			}
			ata[i][d] += row[i] * y[k]
		}
	}

	w, err := solve(ata)
	if err != nil {
		return domain.LinearModel{}, err
	}

	return domain.LinearModel{
		Weights:   w[:p],
		Intercept: w[p],
	}, nil
}

// solve runs Gaussian elimination on an augmented matrix [A|b].
func solve(aug [][]float64) ([]float64, error) {
	d := len(aug)

	for col := 0; col < d; col++ {
		pivot := col
		for r := col + 1; r < d; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(aug[pivot][col]) < 1e-12 {
			return nil, errors.New("singular design matrix: remove constant or duplicate features")
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		for r := 0; r < d; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col] / aug[col][col]
			for c := col; c <= d; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}

	w := make([]float64, d)
	for i := 0; i < d; i++ {
		w[i] = aug[i][d] / aug[i][i]
	}
	return w, nil
}

func rSquared(m domain.LinearModel, X [][]float64, y []float64) float64 {
	if len(y) == 0 {
		return 0
	}

	var meanY float64
	for _, v := range y {
		meanY += v
	}
	meanY /= float64(len(y))

	var ssRes, ssTot float64
	for i, row := range X {
		pred, _ := m.Predict(row)
		ssRes += (y[i] - pred) * (y[i] - pred)
		ssTot += (y[i] - meanY) * (y[i] - meanY)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}
