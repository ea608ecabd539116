package speech

import "math"

const (
	MaxSpeedScore  = 40
	MaxFillerScore = 40
	MaxPitchScore  = 20

	idealRateLow  = 280.0
	idealRateHigh = 400.0
	ratePenalty   = 0.5
)

// SpeedScore maps syllables per minute to 0..40. Rates inside [280, 400] get
// full marks; outside, half a point is lost per syllable of distance.
func SpeedScore(rate float64) float64 {
	switch {
	case rate < idealRateLow:
		return math.Max(0, MaxSpeedScore-(idealRateLow-rate)*ratePenalty)
	case rate > idealRateHigh:
		return math.Max(0, MaxSpeedScore-(rate-idealRateHigh)*ratePenalty)
	}
	return MaxSpeedScore
}

// FillerScore: 2 points per filler up to three, then 5 points each.
func FillerScore(count int) int {
	switch {
	case count <= 0:
		return MaxFillerScore
	case count <= 3:
		return MaxFillerScore - 2*count
	}
	s := 34 - 5*(count-3)
	if s < 0 {
		return 0
	}
	return s
}

// PitchScore maps the pitch standard deviation in Hz to 0..20. The zone edges
// are fixed scoring constants.
func PitchScore(std float64) float64 {
	switch {
	case std < 0 || math.IsNaN(std):
		return 0
	case std >= 10 && std <= 20:
		return MaxPitchScore
	case std < 3:
		return std / 3 * 5
	case std < 7:
		return 6 + (std-3)/4*6
	case std < 10:
		return 13 + (std-7)/3*4
	case std <= 23:
		return 17 - (std-20)/3*4
	case std <= 27:
		return 12 - (std-23)/4*6
	}
	return math.Max(0, 5-(std-27)/3*5)
}

// SpeedBand is the qualitative rate band. Score, label and feedback all come
// from the same band.
type SpeedBand int

const (
	SpeedUnmeasured SpeedBand = iota
	SpeedSlow
	SpeedAdequate
	SpeedFast
)

func SpeedBandOf(r SpeedResult) SpeedBand {
	switch {
	case !r.Usable:
		return SpeedUnmeasured
	case r.SyllablesPerMin < idealRateLow:
		return SpeedSlow
	case r.SyllablesPerMin > idealRateHigh:
		return SpeedFast
	}
	return SpeedAdequate
}

func (b SpeedBand) Label() string {
	switch b {
	case SpeedSlow:
		return "느림"
	case SpeedAdequate:
		return "적절"
	case SpeedFast:
		return "빠름"
	}
	return "측정불가"
}

func (b SpeedBand) String() string {
	switch b {
	case SpeedSlow:
		return "slow"
	case SpeedAdequate:
		return "adequate"
	case SpeedFast:
		return "fast"
	}
	return "unmeasured"
}

type FluencyBand int

const (
	FluencySmooth FluencyBand = iota
	FluencyFair
	FluencyHalting
)

func FluencyBandOf(count int) FluencyBand {
	switch {
	case count <= 0:
		return FluencySmooth
	case count <= 3:
		return FluencyFair
	}
	return FluencyHalting
}

func (b FluencyBand) Label() string {
	switch b {
	case FluencySmooth:
		return "매끄러움"
	case FluencyFair:
		return "무난"
	}
	return "버벅거림"
}

func (b FluencyBand) String() string {
	switch b {
	case FluencySmooth:
		return "smooth"
	case FluencyFair:
		return "fair"
	}
	return "halting"
}

type ToneBand int

const (
	ToneUnmeasured ToneBand = iota
	ToneMonotonous
	ToneBright
)

func ToneBandOf(std float64) ToneBand {
	if std < monotonousStdHz {
		return ToneMonotonous
	}
	return ToneBright
}

// ToneBandOfResult is ToneBandOf for a measured contour; an insufficient one
// is unmeasured.
func ToneBandOfResult(p PitchResult) ToneBand {
	if p.Status == PitchInsufficient {
		return ToneUnmeasured
	}
	return ToneBandOf(p.Std)
}

func (b ToneBand) Label() string {
	switch b {
	case ToneMonotonous:
		return "단조로움"
	case ToneBright:
		return "밝음"
	}
	return "측정불가"
}

func (b ToneBand) String() string {
	switch b {
	case ToneMonotonous:
		return "monotonous"
	case ToneBright:
		return "bright"
	}
	return "unmeasured"
}
