package speech

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// PitchWindow is both the minimum number of voiced samples and the size of
	// the scanning window.
	PitchWindow        = 30
	monotonousStdHz    = 10.0
	insufficientStdDef = 0.0
)

type PitchStatus string

const (
	PitchInsufficient PitchStatus = "insufficient"
	PitchMonotonous   PitchStatus = "monotonous"
	PitchAdequate     PitchStatus = "adequate"
)

type PitchResult struct {
	Std     float64     `json:"pitch_std"`
	Status  PitchStatus `json:"status"`
	Samples int         `json:"samples"`
}

// PitchVariation measures how much the fundamental frequency moves. Unvoiced
// samples (NaN, zero or negative) are dropped first. The contour is scanned
// in consecutive, non-overlapping windows; the first window whose standard
// deviation falls under 10 Hz makes the answer monotonous. A trailing partial
// window is ignored, also for the reported std.
func PitchVariation(contour []float64) PitchResult {
	voiced := make([]float64, 0, len(contour))
	for _, f := range contour {
		if !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0 {
			voiced = append(voiced, f)
		}
	}
	if len(voiced) < PitchWindow {
		return PitchResult{Std: insufficientStdDef, Status: PitchInsufficient, Samples: len(voiced)}
	}

	scanned := len(voiced) / PitchWindow * PitchWindow
	for i := 0; i < scanned; i += PitchWindow {
		if sd := stddev(voiced[i : i+PitchWindow]); sd < monotonousStdHz {
			return PitchResult{Std: round2(sd), Status: PitchMonotonous, Samples: len(voiced)}
		}
	}
	// the std of whole windows is never below the smallest window std
	return PitchResult{Std: round2(stddev(voiced[:scanned])), Status: PitchAdequate, Samples: len(voiced)}
}

// stddev is the population standard deviation.
func stddev(xs []float64) float64 {
	_, variance := stat.PopMeanVariance(xs, nil)
	return math.Sqrt(variance)
}
