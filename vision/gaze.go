package vision

const (
	// CalibrationFrames is the number of valid eyelid samples collected before
	// the vertical gaze thresholds are derived.
	CalibrationFrames = 30

	DefaultBlinkThreshold = 0.015
	DefaultBlinkCooldown  = 5

	upperFactor        = 1.1
	lowerFactor        = 0.9
	irisRatioThreshold = 0.48
	irisEpsilon        = 1e-6
)

// Phase is the state of the vertical gaze state machine.
type Phase int

const (
	PhaseCalibrating Phase = iota
	PhaseTracking
	PhaseBlinkHold
)

func (p Phase) String() string {
	switch p {
	case PhaseCalibrating:
		return "calibrating"
	case PhaseTracking:
		return "tracking"
	case PhaseBlinkHold:
		return "blink_hold"
	}
	return "unknown"
}

// Calibration collects the first CalibrationFrames eyelid openings of a
// session. Thresholds are zero until the buffer is full and never change after.
type Calibration struct {
	samples [CalibrationFrames]float64
	n       int
	Upper   float64
	Lower   float64
}

func (c Calibration) Calibrated() bool { return c.n == CalibrationFrames }

func (c Calibration) Samples() int { return c.n }

func (c Calibration) add(opening float64) Calibration {
	if c.Calibrated() {
		return c
	}
	c.samples[c.n] = opening
	c.n++
	if c.n == CalibrationFrames {
		sum := 0.0
		for _, s := range c.samples {
			sum += s
		}
		mean := sum / CalibrationFrames
		c.Upper = mean * upperFactor
		c.Lower = mean * lowerFactor
	}
	return c
}

func (c Calibration) classify(opening float64) Vertical {
	switch {
	case opening > c.Upper:
		return VerticalUp
	case opening < c.Lower:
		return VerticalDown
	}
	return VerticalCenter
}

// BlinkParams configures blink suppression.
type BlinkParams struct {
	Threshold float64
	Cooldown  int
}

// VerticalState is the full state of the vertical gaze machine. It is a plain
// value so StepVertical can stay a pure function.
type VerticalState struct {
	Phase       Phase
	Calibration Calibration
	Cooldown    int
	Last        Vertical
}

func NewVerticalState() VerticalState {
	return VerticalState{Phase: PhaseCalibrating, Last: VerticalCenter}
}

func (s VerticalState) settledPhase() Phase {
	if s.Calibration.Calibrated() {
		return PhaseTracking
	}
	return PhaseCalibrating
}

// StepVertical advances the machine by one frame's eyelid opening and returns
// the next state with the vertical class reported for that frame.
func StepVertical(s VerticalState, opening float64, p BlinkParams) (VerticalState, Vertical) {
	switch {
	case opening < p.Threshold:
		s.Cooldown = p.Cooldown
		s.Phase = PhaseBlinkHold
		return s, s.Last
	case s.Cooldown > 0:
		s.Cooldown--
		if s.Cooldown == 0 {
			s.Phase = s.settledPhase()
		}
		return s, s.Last
	}

	if !s.Calibration.Calibrated() {
		s.Calibration = s.Calibration.add(opening)
		s.Phase = s.settledPhase()
		s.Last = VerticalCenter
		return s, VerticalCenter
	}

	v := s.Calibration.classify(opening)
	s.Phase = PhaseTracking
	s.Last = v
	return s, v
}

// HorizontalGaze classifies left/right gaze from the iris position relative to
// the outer eye corners. The left eye wins when both eyes point away.
func HorizontalGaze(f *Face, w, h float64) Horizontal {
	leftWidth := pixelDist(f.LeftIrisRight, f.LeftIrisLeft, w, h) + irisEpsilon
	leftRatio := pixelDist(f.LeftIrisLeft, f.LeftEyeOuter, w, h) / leftWidth

	rightWidth := pixelDist(f.RightIrisRight, f.RightIrisLeft, w, h) + irisEpsilon
	rightRatio := pixelDist(f.RightEyeOuter, f.RightIrisRight, w, h) / rightWidth

	switch {
	case leftRatio < irisRatioThreshold:
		return GazeLeft
	case rightRatio < irisRatioThreshold:
		return GazeRight
	}
	return GazeCenter
}
