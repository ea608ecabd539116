package vision

import (
	"math"
	"time"
)

// Params tunes the analyzer. The calibration window and gaze thresholds are
// fixed; only blink handling and the video blend are configurable.
type Params struct {
	BlinkThreshold float64
	BlinkCooldown  int
	// GazeWeight is the share of the video score taken from the gaze rate;
	// the remainder comes from the shoulder/hand score.
	GazeWeight float64
}

func DefaultParams() Params {
	return Params{
		BlinkThreshold: DefaultBlinkThreshold,
		BlinkCooldown:  DefaultBlinkCooldown,
		GazeWeight:     0.6,
	}
}

// Counters accumulate per-session warnings. Frames whose field is UNKNOWN are
// never counted as warnings.
type Counters struct {
	Frames           int `json:"frames"`
	FaceFrames       int `json:"face_frames"`
	PoseFrames       int `json:"pose_frames"`
	ShoulderWarnings int `json:"shoulder_warnings"`
	HandWarnings     int `json:"hand_warnings"`
	GazeWarnings     int `json:"gaze_warnings"`
	HeadWarnings     int `json:"head_warnings"`
	PitchWarnings    int `json:"pitch_warnings"`
}

// FinalScore is the session-level video result.
type FinalScore struct {
	GazeRateScore     int                  `json:"gaze_rate_score"`
	ShoulderWarnings  int                  `json:"shoulder_posture_warning_count"`
	HandWarnings      int                  `json:"hand_posture_warning_count"`
	ShoulderHandScore int                  `json:"shoulder_hand_score"`
	VideoScore        int                  `json:"video_score"`
	Counters          Counters             `json:"counters"`
	GazeDwellSeconds  map[Vertical]float64 `json:"gaze_dwell_sec"`
	Calibrated        bool                 `json:"calibrated"`
	Degraded          bool                 `json:"degraded"`
}

// Analyzer turns a session's frames into gaze and posture classifications.
// It is owned by one session and must be fed from a single goroutine.
type Analyzer struct {
	params   Params
	vertical VerticalState
	dwell    dwell
	counters Counters
}

func NewAnalyzer(p Params) *Analyzer {
	return &Analyzer{
		params:   p,
		vertical: NewVerticalState(),
		dwell:    newDwell(),
	}
}

// AnalyzeFrame classifies one frame and folds it into the session state.
func (a *Analyzer) AnalyzeFrame(f Frame) FrameResult {
	res := unknownResult()
	a.counters.Frames++
	w, h := f.dims()

	if f.Face != nil {
		a.counters.FaceFrames++
		res.Gaze.Horizontal = HorizontalGaze(f.Face, w, h)
		a.vertical, res.Gaze.Vertical = StepVertical(a.vertical, f.Face.EyeOpening(), BlinkParams{
			Threshold: a.params.BlinkThreshold,
			Cooldown:  a.params.BlinkCooldown,
		})
		a.dwell.observe(f.TimestampMS, res.Gaze)
		res.Pitch = ClassifyPitch(f.Face, w, h)
	} else {
		a.dwell.lose()
	}

	if f.Pose != nil {
		a.counters.PoseFrames++
		res.Shoulder = ShoulderTilt(f.Pose)
		res.Hand = HandAppearance(f.Pose)
		if f.Face != nil {
			res.Head = HeadTurn(f.Face, f.Pose)
		}
	}

	a.count(res)
	return res
}

func (a *Analyzer) count(res FrameResult) {
	if res.Gaze.Horizontal != GazeUnknown && !res.Gaze.Centered() {
		a.counters.GazeWarnings++
	}
	if res.Head == HeadLeftTurn || res.Head == HeadRightTurn {
		a.counters.HeadWarnings++
	}
	if res.Pitch == PitchUp || res.Pitch == PitchDown {
		a.counters.PitchWarnings++
	}
	if res.Shoulder == ShoulderLeftUp || res.Shoulder == ShoulderRightUp {
		a.counters.ShoulderWarnings++
	}
	if res.Hand == HandAppeared {
		a.counters.HandWarnings++
	}
}

// Phase exposes the vertical gaze machine state.
func (a *Analyzer) Phase() Phase { return a.vertical.Phase }

func (a *Analyzer) Calibration() Calibration { return a.vertical.Calibration }

func (a *Analyzer) Counters() Counters { return a.counters }

// FinalScore summarizes the session. It does not mutate the analyzer and is
// well defined for a session that saw no frames.
func (a *Analyzer) FinalScore() FinalScore {
	gaze := a.dwell.centeredRate()
	posture := shoulderHandScore(a.counters)
	video := a.videoScore(gaze, posture)

	dwellSec := make(map[Vertical]float64, 3)
	for v, d := range a.dwell.snapshot() {
		dwellSec[v] = d.Seconds()
	}

	return FinalScore{
		GazeRateScore:     clampScore(gaze),
		ShoulderWarnings:  a.counters.ShoulderWarnings,
		HandWarnings:      a.counters.HandWarnings,
		ShoulderHandScore: clampScore(posture),
		VideoScore:        clampScore(video),
		Counters:          a.counters,
		GazeDwellSeconds:  dwellSec,
		Calibrated:        a.vertical.Calibration.Calibrated(),
		Degraded:          a.counters.FaceFrames == 0 || a.counters.PoseFrames == 0,
	}
}

// videoScore blends gaze and posture over the parts that were observed. A
// component with no tracked frames drops out instead of scoring zero.
func (a *Analyzer) videoScore(gaze, posture float64) float64 {
	face, pose := a.counters.FaceFrames > 0, a.counters.PoseFrames > 0
	switch {
	case face && pose:
		return a.params.GazeWeight*gaze + (1-a.params.GazeWeight)*posture
	case face:
		return gaze
	case pose:
		return posture
	}
	return 0
}

func shoulderHandScore(c Counters) float64 {
	if c.PoseFrames == 0 {
		return 0
	}
	rate := float64(c.ShoulderWarnings+c.HandWarnings) / float64(2*c.PoseFrames)
	return 100 * (1 - rate)
}

func clampScore(v float64) int {
	return int(math.Max(0, math.Min(100, math.Round(v))))
}

// dwell tracks how long the vertical gaze stays in each class and how much of
// the tracked time had both gaze axes centered.
type dwell struct {
	current   Vertical
	since     int64
	open      bool
	durations map[Vertical]time.Duration

	last         int64
	lastCentered bool
	haveLast     bool

	tracked, centered             time.Duration
	trackedFrames, centeredFrames int
}

func newDwell() dwell {
	return dwell{durations: map[Vertical]time.Duration{
		VerticalUp:     0,
		VerticalDown:   0,
		VerticalCenter: 0,
	}}
}

func msDuration(ms int64) time.Duration { return time.Duration(ms) * time.Millisecond }

func (d *dwell) observe(ts int64, g Gaze) {
	switch {
	case !d.open:
		d.current, d.since, d.open = g.Vertical, ts, true
	case g.Vertical != d.current:
		d.durations[d.current] += msDuration(ts - d.since)
		d.current, d.since = g.Vertical, ts
	}

	if d.haveLast && ts > d.last {
		dt := msDuration(ts - d.last)
		d.tracked += dt
		if d.lastCentered {
			d.centered += dt
		}
	}
	d.last, d.lastCentered, d.haveLast = ts, g.Centered(), true

	d.trackedFrames++
	if g.Centered() {
		d.centeredFrames++
	}
}

// lose closes the open dwell interval at the last tracked frame so the gap
// is not attributed to any class.
func (d *dwell) lose() {
	if d.open {
		d.durations[d.current] += msDuration(d.last - d.since)
		d.open = false
	}
	d.haveLast = false
}

func (d *dwell) snapshot() map[Vertical]time.Duration {
	out := make(map[Vertical]time.Duration, len(d.durations))
	for k, v := range d.durations {
		out[k] = v
	}
	if d.open {
		out[d.current] += msDuration(d.last - d.since)
	}
	return out
}

// centeredRate is the centered share of tracked time in percent. Sessions
// without usable timestamps fall back to frame counts.
func (d *dwell) centeredRate() float64 {
	switch {
	case d.tracked > 0:
		return 100 * float64(d.centered) / float64(d.tracked)
	case d.trackedFrames > 0:
		return 100 * float64(d.centeredFrames) / float64(d.trackedFrames)
	}
	return 0
}
