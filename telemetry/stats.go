package telemetry

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a finished run's population series.
type Summary struct {
	RunID     string  `csv:"run_id"`
	Ticks     int     `csv:"ticks"`
	Reason    string  `csv:"reason"`
	PreyMean  float64 `csv:"prey_mean"`
	PreyStd   float64 `csv:"prey_std"`
	PredMean  float64 `csv:"pred_mean"`
	PredStd   float64 `csv:"pred_std"`
	PreyFinal int     `csv:"prey_final"`
	PredFinal int     `csv:"pred_final"`
	// Pearson correlation between the prey and predator series; NaN is
	// reported as 0 (constant series carry no signal either way).
	Correlation float64 `csv:"correlation"`
}

// Summarize computes population statistics over the recorded series.
func Summarize(series []TickRecord, runID, reason string) Summary {
	s := Summary{RunID: runID, Ticks: len(series), Reason: reason}
	if len(series) == 0 {
		return s
	}

	prey := make([]float64, len(series))
	pred := make([]float64, len(series))
	for i, r := range series {
		prey[i] = float64(r.Prey)
		pred[i] = float64(r.Predators)
	}

	s.PreyMean, s.PreyStd = stat.MeanStdDev(prey, nil)
	s.PredMean, s.PredStd = stat.MeanStdDev(pred, nil)
	s.PreyFinal = series[len(series)-1].Prey
	s.PredFinal = series[len(series)-1].Predators

	if corr := stat.Correlation(prey, pred, nil); !math.IsNaN(corr) {
		s.Correlation = corr
	}

	// Single-sample runs yield NaN standard deviations.
	if math.IsNaN(s.PreyStd) {
		s.PreyStd = 0
	}
	if math.IsNaN(s.PredStd) {
		s.PredStd = 0
	}
	return s
}
