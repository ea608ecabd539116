package vision

import "testing"

const testW, testH = 640.0, 480.0

func setPosePoints(f *Face, px [6][2]float64, w, h float64) {
	pts := []*Point{&f.NoseTip, &f.Chin, &f.LeftEyeOuter, &f.RightEyeOuter, &f.MouthLeft, &f.MouthRight}
	for i, p := range pts {
		p.X, p.Y = px[i][0]/w, px[i][1]/h
	}
}

// centeredFace is a frontal face looking straight at the camera with the
// given eyelid opening.
func centeredFace(opening float64) *Face {
	f := &Face{}
	setPosePoints(f, project(facingCamera(0), [3]float64{0, 0, 500}, testW, testH), testW, testH)
	lo, ro := f.LeftEyeOuter, f.RightEyeOuter
	f.LeftIrisLeft = Point{X: lo.X + 0.02, Y: lo.Y}
	f.LeftIrisRight = Point{X: lo.X + 0.04, Y: lo.Y}
	f.LeftEyeCenter = Point{X: lo.X + 0.03, Y: lo.Y}
	f.RightIrisRight = Point{X: ro.X - 0.02, Y: ro.Y}
	f.RightIrisLeft = Point{X: ro.X - 0.04, Y: ro.Y}
	f.RightEyeCenter = Point{X: ro.X - 0.03, Y: ro.Y}
	f.UpperLid = Point{X: lo.X + 0.03, Y: lo.Y - 0.01}
	f.LowerLid = Point{X: lo.X + 0.03, Y: lo.Y - 0.01 + opening}
	return f
}

func uprightPose() *Pose {
	return &Pose{
		LeftEar:       PosePoint{X: 0.25, Y: 0.40, Visibility: 0.9},
		RightEar:      PosePoint{X: 0.75, Y: 0.40, Visibility: 0.9},
		LeftShoulder:  PosePoint{X: 0.20, Y: 0.80, Visibility: 0.9},
		RightShoulder: PosePoint{X: 0.80, Y: 0.80, Visibility: 0.9},
		LeftIndex:     PosePoint{Visibility: 0.1},
		RightIndex:    PosePoint{Visibility: 0.1},
	}
}

func frameAt(ms int64, face *Face, pose *Pose) Frame {
	return Frame{TimestampMS: ms, Width: int(testW), Height: int(testH), Face: face, Pose: pose}
}

func TestFinalScoreWithoutFrames(t *testing.T) {
	a := NewAnalyzer(DefaultParams())
	got := a.FinalScore()
	if got.GazeRateScore != 0 || got.ShoulderHandScore != 0 || got.VideoScore != 0 {
		t.Errorf("expected zero scores, got %+v", got)
	}
	if !got.Degraded {
		t.Error("expected degraded result for empty session")
	}
	if got.Calibrated {
		t.Error("empty session cannot be calibrated")
	}
}

func TestTrackingLossDegradesToUnknown(t *testing.T) {
	a := NewAnalyzer(DefaultParams())
	res := a.AnalyzeFrame(frameAt(0, nil, nil))
	if res != unknownResult() {
		t.Errorf("expected all UNKNOWN, got %+v", res)
	}

	res = a.AnalyzeFrame(frameAt(33, nil, uprightPose()))
	if res.Shoulder != ShoulderStraight || res.Hand != HandNone {
		t.Errorf("pose fields should survive a missing face, got %+v", res)
	}
	if res.Head != HeadUnknown || res.Gaze.Vertical != VerticalUnknown {
		t.Errorf("face fields should be UNKNOWN, got %+v", res)
	}

	c := a.Counters()
	if c.GazeWarnings+c.HeadWarnings+c.PitchWarnings+c.ShoulderWarnings+c.HandWarnings != 0 {
		t.Errorf("UNKNOWN frames must not count as warnings: %+v", c)
	}
}

func TestAnalyzeFrontalSession(t *testing.T) {
	a := NewAnalyzer(DefaultParams())
	for i := 0; i < 60; i++ {
		res := a.AnalyzeFrame(frameAt(int64(i)*100, centeredFace(0.02), uprightPose()))
		if res.Gaze != (Gaze{Horizontal: GazeCenter, Vertical: VerticalCenter}) {
			t.Fatalf("frame %d: expected centered gaze, got %s", i, res.Gaze)
		}
		if res.Head != HeadCenter || res.Pitch != PitchCenter || res.Shoulder != ShoulderStraight {
			t.Fatalf("frame %d: unexpected result %+v", i, res)
		}
	}
	if a.Phase() != PhaseTracking {
		t.Errorf("expected tracking phase, got %s", a.Phase())
	}

	got := a.FinalScore()
	if got.GazeRateScore != 100 || got.ShoulderHandScore != 100 || got.VideoScore != 100 {
		t.Errorf("expected perfect scores, got %+v", got)
	}
	if got.Degraded {
		t.Error("complete session should not be degraded")
	}
	if sec := got.GazeDwellSeconds[VerticalCenter]; sec < 5.8 || sec > 6.0 {
		t.Errorf("expected ~5.9s of CENTER dwell, got %f", sec)
	}
}

func TestGazeRateUsesTrackedTime(t *testing.T) {
	a := NewAnalyzer(DefaultParams())
	ts := int64(0)
	for i := 0; i < 40; i++ {
		a.AnalyzeFrame(frameAt(ts, centeredFace(0.02), uprightPose()))
		ts += 100
	}
	// looking left for as long as the centered stretch lasted
	for i := 0; i < 41; i++ {
		f := centeredFace(0.02)
		f.LeftIrisLeft.X = f.LeftEyeOuter.X + 0.005
		a.AnalyzeFrame(frameAt(ts, f, uprightPose()))
		ts += 100
	}
	// a long tracking gap is excluded
	a.AnalyzeFrame(frameAt(ts, nil, uprightPose()))
	ts += 60_000
	a.AnalyzeFrame(frameAt(ts, centeredFace(0.02), uprightPose()))

	got := a.FinalScore()
	if got.GazeRateScore != 50 {
		t.Errorf("expected gaze rate 50, got %d", got.GazeRateScore)
	}
	if got.Counters.GazeWarnings != 41 {
		t.Errorf("expected 41 gaze warnings, got %d", got.Counters.GazeWarnings)
	}
}

func TestPostureScoreDecreasesWithWarnings(t *testing.T) {
	score := func(tilted int) int {
		a := NewAnalyzer(DefaultParams())
		for i := 0; i < 20; i++ {
			p := uprightPose()
			if i < tilted {
				p.LeftShoulder.Y = 0.75
				p.RightIndex.Visibility = 0.9
			}
			a.AnalyzeFrame(frameAt(int64(i)*100, centeredFace(0.02), p))
		}
		fs := a.FinalScore()
		if fs.ShoulderWarnings != tilted || fs.HandWarnings != tilted {
			t.Fatalf("expected %d shoulder and hand warnings, got %d/%d", tilted, fs.ShoulderWarnings, fs.HandWarnings)
		}
		return fs.ShoulderHandScore
	}

	prev := 101
	for _, n := range []int{0, 2, 5, 10, 20} {
		s := score(n)
		if s >= prev {
			t.Errorf("score with %d warnings (%d) should be below %d", n, s, prev)
		}
		if s < 0 || s > 100 {
			t.Errorf("score out of range: %d", s)
		}
		prev = s
	}
	if prev != 0 {
		t.Errorf("all frames in violation should score 0, got %d", prev)
	}
}

func TestHeadTurnAndShoulderTilt(t *testing.T) {
	f := centeredFace(0.02)
	p := uprightPose()
	p.LeftEar.X = 0.20
	if got := HeadTurn(f, p); got != HeadLeftTurn {
		t.Errorf("expected LEFT TURN, got %s", got)
	}
	p = uprightPose()
	p.RightEar.X = 0.80
	if got := HeadTurn(f, p); got != HeadRightTurn {
		t.Errorf("expected RIGHT TURN, got %s", got)
	}

	p = uprightPose()
	p.RightShoulder.Y = 0.78
	if got := ShoulderTilt(p); got != ShoulderRightUp {
		t.Errorf("expected RIGHT SHOULDER UP, got %s", got)
	}
	p.RightShoulder.Y = 0.795
	if got := ShoulderTilt(p); got != ShoulderStraight {
		t.Errorf("expected STRAIGHT, got %s", got)
	}
}

func TestVideoScoreUsesObservedParts(t *testing.T) {
	faceOnly := NewAnalyzer(DefaultParams())
	for i := 0; i < 60; i++ {
		faceOnly.AnalyzeFrame(frameAt(int64(i)*100, centeredFace(0.02), nil))
	}
	got := faceOnly.FinalScore()
	if got.GazeRateScore != 100 || got.ShoulderHandScore != 0 || got.VideoScore != 100 {
		t.Errorf("face-only session should score on gaze alone, got %+v", got)
	}
	if !got.Degraded {
		t.Error("face-only session should be degraded")
	}

	// a single clean pose frame must not move the score
	faceOnly.AnalyzeFrame(frameAt(6000, centeredFace(0.02), uprightPose()))
	if after := faceOnly.FinalScore(); after.VideoScore != got.VideoScore || after.Degraded {
		t.Errorf("expected video %d without degradation, got %+v", got.VideoScore, after)
	}

	poseOnly := NewAnalyzer(DefaultParams())
	for i := 0; i < 4; i++ {
		p := uprightPose()
		if i == 0 {
			p.LeftShoulder.Y = 0.75
		}
		poseOnly.AnalyzeFrame(frameAt(int64(i)*100, nil, p))
	}
	got = poseOnly.FinalScore()
	// one shoulder warning over 4 pose frames: 100 * (1 - 1/8)
	if got.GazeRateScore != 0 || got.ShoulderHandScore != 88 || got.VideoScore != 88 {
		t.Errorf("pose-only session should score on posture alone, got %+v", got)
	}
	if !got.Degraded {
		t.Error("pose-only session should be degraded")
	}
}
