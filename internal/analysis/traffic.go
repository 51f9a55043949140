package analysis

import (
	"math"
	"time"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/model"
)

// Traffic model constants.
const (
	// TrafficFloor is the smallest traffic estimate ever reported.
	TrafficFloor int64 = 100
	// trafficCeiling keeps the estimate well inside int64.
	trafficCeiling = 1e15

	// backlinkExponent makes backlink value sub-linear.
	backlinkExponent = 0.6
	trafficNoise     = 0.1
)

// ctrByPosition is the click-through rate for positions 1 to 10.
var ctrByPosition = [...]float64{0.316, 0.158, 0.100, 0.072, 0.051, 0.044, 0.036, 0.030, 0.026, 0.024}

// CTR returns the click-through rate of a search position.
func CTR(position int) float64 {
	switch {
	case position >= 1 && position <= len(ctrByPosition):
		return ctrByPosition[position-1]
	case position <= 15 && position > 0:
		return 0.012
	case position <= 20 && position > 0:
		return 0.008
	default:
		return 0.001
	}
}

// TrafficEstimator converts backlinks and keyword rankings into a monthly
// visit estimate.
type TrafficEstimator struct {
	tables *config.Tables
}

// NewTrafficEstimator creates an estimator over the given tables.
func NewTrafficEstimator(tables *config.Tables) *TrafficEstimator {
	return &TrafficEstimator{tables: tables}
}

// Estimate returns (backlinks^0.6 × baseline multiplier + Σ volume × CTR)
// scaled by the industry traffic multiplier, the month's seasonality and a
// ±10% draw. The result is finite and never below TrafficFloor.
func (e *TrafficEstimator) Estimate(backlinks int64, rankings []model.KeywordRanking, industry model.Industry, month time.Month, r Rand) int64 {
	profile := e.tables.Profile(industry)

	baseline := math.Pow(float64(max(backlinks, 0)), backlinkExponent) * profile.BaselineMultiplier

	keywordTraffic := 0.0
	for _, kr := range rankings {
		keywordTraffic += float64(max(kr.SearchVolume, 0)) * CTR(kr.Position)
	}

	season := 1.0
	if month >= time.January && month <= time.December {
		season = profile.Seasonality[month-1]
	}

	total := (baseline + keywordTraffic) *
		profile.TrafficMultiplier *
		season *
		uniform(r, 1-trafficNoise, 1+trafficNoise)

	if math.IsNaN(total) || math.IsInf(total, 0) {
		return TrafficFloor
	}
	total = math.Min(total, trafficCeiling)
	return max(int64(math.Round(total)), TrafficFloor)
}
