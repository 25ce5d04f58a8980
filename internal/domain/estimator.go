package domain

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// Scaler standardizes features to zero mean and unit variance using the
// statistics captured at training time.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform standardizes a vector in place-order. A zero Scale entry passes
// the centered value through unscaled (constant feature in training data).
func (s Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) || len(x) != len(s.Scale) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		centered := v - s.Mean[i]
		if s.Scale[i] != 0 {
			out[i] = centered / s.Scale[i]
		} else {
			out[i] = centered
		}
	}
	return out, nil
}

// LinearModel is a fitted linear regression over scaled features.
type LinearModel struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Predict evaluates the regression for one scaled feature vector.
func (m LinearModel) Predict(x []float64) (float64, error) {
	if len(x) != len(m.Weights) {
		return 0, fmt.Errorf("model expects %d features, got %d", len(m.Weights), len(x))
	}
	y := m.Intercept
	for i, v := range x {
		y += m.Weights[i] * v
	}
	return y, nil
}

// ModelSnapshot is one fully-fitted estimator state: the feature order, the
// scaler, and the regression fitted on it, all persisted and loaded together.
// A snapshot is immutable once published.
type ModelSnapshot struct {
	FeatureNames []string    `json:"feature_names"`
	Scaler       Scaler      `json:"scaler"`
	Model        LinearModel `json:"model"`
	TrainedAt    time.Time   `json:"trained_at"`
}

// heuristicBasePrices is the estimator's own per-sqft base table, keyed
// state → district. Independent from the feature engineer's prior table.
var heuristicBasePrices = map[string]map[string]float64{
	"Kerala": {
		"Ernakulam":          3000,
		"Thiruvananthapuram": 2800,
		"Kozhikode":          2500,
	},
	"Karnataka": {
		"Bangalore": 4500,
		"Mysore":    2000,
	},
	"Tamil Nadu": {
		"Chennai":    4000,
		"Coimbatore": 2200,
	},
}

const (
	defaultHeuristicBase = 2000.0
	heuristicConfidence  = 0.60
	heuristicNote        = "Prediction based on market averages (model training in progress)"
)

// Estimator turns feature vectors into price estimates. It dispatches on a
// process-wide model snapshot: statistical when one is loaded, heuristic
// otherwise or whenever the statistical path fails. Predict never returns an
// error; concurrent calls are safe because the snapshot is read atomically
// and never mutated.
type Estimator struct {
	snapshot atomic.Pointer[ModelSnapshot]
	logger   *slog.Logger
}

// NewEstimator creates an untrained Estimator.
func NewEstimator(logger *slog.Logger) *Estimator {
	return &Estimator{logger: logger}
}

// Swap atomically replaces the model snapshot. Pass nil to revert to the
// untrained state. In-flight predictions keep the snapshot they loaded.
func (e *Estimator) Swap(s *ModelSnapshot) {
	e.snapshot.Store(s)
}

// Ready reports whether a trained snapshot is loaded.
func (e *Estimator) Ready() bool {
	return e.snapshot.Load() != nil
}

// Predict produces an estimate for one feature vector. The vector must come
// from the feature engineer, which guarantees a positive area slot.
func (e *Estimator) Predict(fv FeatureVector) Estimate {
	snap := e.snapshot.Load()
	if snap == nil {
		return e.heuristicEstimate(fv)
	}

	est, err := e.statisticalEstimate(snap, fv)
	if err != nil {
		e.logger.Warn("statistical estimate failed, using heuristic", "error", err)
		return e.heuristicEstimate(fv)
	}
	return est
}

func (e *Estimator) statisticalEstimate(snap *ModelSnapshot, fv FeatureVector) (Estimate, error) {
	vector := make([]float64, len(snap.FeatureNames))
	for i, name := range snap.FeatureNames {
		vector[i] = fv.Slot(name)
	}

	scaled, err := snap.Scaler.Transform(vector)
	if err != nil {
		return Estimate{}, err
	}
	price, err := snap.Model.Predict(scaled)
	if err != nil {
		return Estimate{}, err
	}

	margin := price * 0.15

	return Estimate{
		Price:        price,
		PricePerSqft: price / fv.Slot(FeatAreaSqft),
		Confidence:   confidenceScore(fv),
		Interval:     PriceInterval{Min: price - margin, Max: price + margin},
		Factors:      analyzeFactors(fv),
		Branch:       BranchStatistical,
	}, nil
}

// heuristicEstimate is the rule-based path used while no model is trained.
func (e *Estimator) heuristicEstimate(fv FeatureVector) Estimate {
	base := heuristicBasePrice(fv.State, fv.District)

	if fv.Slot(FeatDistanceToCity) < 5 {
		base *= 1.3
	}
	if fv.Slot(FeatDistanceToMetro) < 2 {
		base *= 1.2
	}
	if fv.Slot(FeatElectricity) != 0 && fv.Slot(FeatWaterSupply) != 0 {
		base *= 1.1
	}

	price := base * fv.Slot(FeatAreaSqft)

	infrastructure := "needs_improvement"
	if fv.Slot(FeatElectricity) != 0 {
		infrastructure = "positive"
	}

	return Estimate{
		Price:        price,
		PricePerSqft: base,
		Confidence:   heuristicConfidence,
		Interval:     PriceInterval{Min: price * 0.8, Max: price * 1.2},
		Factors: map[string]string{
			"location":       "moderate_impact",
			"infrastructure": infrastructure,
			"note":           heuristicNote,
		},
		Branch: BranchHeuristic,
	}
}

func heuristicBasePrice(state, district string) float64 {
	if price, ok := heuristicBasePrices[state][district]; ok {
		return price
	}
	return defaultHeuristicBase
}

// confidenceScore grades the statistical estimate by feature completeness.
func confidenceScore(fv FeatureVector) float64 {
	confidence := 0.70
	if fv.Has(FeatDistanceToCity) {
		confidence += 0.10
	}
	if fv.Has(FeatAvgPriceInArea) {
		confidence += 0.15
	}
	if confidence > 0.95 {
		confidence = 0.95
	}
	return confidence
}

// analyzeFactors labels the qualitative drivers behind a statistical estimate.
func analyzeFactors(fv FeatureVector) map[string]string {
	factors := make(map[string]string, 3)

	switch cityKm := fv.Slot(FeatDistanceToCity); {
	case cityKm < 5:
		factors["location"] = "high_value_area"
	case cityKm < 15:
		factors["location"] = "moderate_area"
	default:
		factors["location"] = "peripheral_area"
	}

	if fv.Slot(FeatDistanceToMetro) < 2 {
		factors["metro_access"] = "excellent"
	}

	if fv.Slot(FeatElectricity) != 0 && fv.Slot(FeatWaterSupply) != 0 {
		factors["infrastructure"] = "well_developed"
	}

	return factors
}
