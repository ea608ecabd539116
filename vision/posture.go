package vision

import "math"

const (
	headTurnMargin    = 0.03
	shoulderTiltLimit = 0.012
	handVisibility    = 0.5
)

// HeadTurn compares the eye-to-ear horizontal offsets of both sides.
func HeadTurn(f *Face, p *Pose) Head {
	left := math.Abs(f.LeftEyeCenter.X - p.LeftEar.X)
	right := math.Abs(f.RightEyeCenter.X - p.RightEar.X)
	switch {
	case left > right+headTurnMargin:
		return HeadLeftTurn
	case right > left+headTurnMargin:
		return HeadRightTurn
	}
	return HeadCenter
}

// ShoulderTilt labels the higher shoulder (smaller image y) when the vertical
// gap exceeds the tilt limit.
func ShoulderTilt(p *Pose) Shoulder {
	diff := p.LeftShoulder.Y - p.RightShoulder.Y
	switch {
	case diff < -shoulderTiltLimit:
		return ShoulderLeftUp
	case diff > shoulderTiltLimit:
		return ShoulderRightUp
	}
	return ShoulderStraight
}

func HandAppearance(p *Pose) Hand {
	if p.LeftIndex.Visibility > handVisibility || p.RightIndex.Visibility > handVisibility {
		return HandAppeared
	}
	return HandNone
}
