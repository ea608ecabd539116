package vision

import "fmt"

type Horizontal string

const (
	GazeLeft    Horizontal = "LEFT"
	GazeRight   Horizontal = "RIGHT"
	GazeCenter  Horizontal = "CENTER"
	GazeUnknown Horizontal = "UNKNOWN"
)

type Vertical string

const (
	VerticalUp      Vertical = "UP"
	VerticalDown    Vertical = "DOWN"
	VerticalCenter  Vertical = "CENTER"
	VerticalUnknown Vertical = "UNKNOWN"
)

type Head string

const (
	HeadLeftTurn  Head = "LEFT TURN"
	HeadRightTurn Head = "RIGHT TURN"
	HeadCenter    Head = "CENTER"
	HeadUnknown   Head = "UNKNOWN"
)

type Pitch string

const (
	PitchUp      Pitch = "UP"
	PitchDown    Pitch = "DOWN"
	PitchCenter  Pitch = "CENTER"
	PitchUnknown Pitch = "UNKNOWN"
)

type Shoulder string

const (
	ShoulderLeftUp   Shoulder = "LEFT SHOULDER UP"
	ShoulderRightUp  Shoulder = "RIGHT SHOULDER UP"
	ShoulderStraight Shoulder = "STRAIGHT"
	ShoulderUnknown  Shoulder = "UNKNOWN"
)

type Hand string

const (
	HandAppeared Hand = "Appearance"
	HandNone     Hand = "NONE"
	HandUnknown  Hand = "UNKNOWN"
)

// Gaze is the combined horizontal and vertical gaze class of one frame.
type Gaze struct {
	Horizontal Horizontal `json:"horizontal"`
	Vertical   Vertical   `json:"vertical"`
}

func (g Gaze) String() string {
	return fmt.Sprintf("Gaze: %s / %s", g.Horizontal, g.Vertical)
}

// Centered reports whether both axes are CENTER.
func (g Gaze) Centered() bool {
	return g.Horizontal == GazeCenter && g.Vertical == VerticalCenter
}

// FrameResult is the per-frame classification returned to the live client.
type FrameResult struct {
	Gaze     Gaze     `json:"gaze"`
	Head     Head     `json:"head"`
	Pitch    Pitch    `json:"pitch"`
	Shoulder Shoulder `json:"shoulder"`
	Hand     Hand     `json:"hand"`
}

func unknownResult() FrameResult {
	return FrameResult{
		Gaze:     Gaze{Horizontal: GazeUnknown, Vertical: VerticalUnknown},
		Head:     HeadUnknown,
		Pitch:    PitchUnknown,
		Shoulder: ShoulderUnknown,
		Hand:     HandUnknown,
	}
}
