package vision

import "math"

// Point is a face-mesh landmark in normalized image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PosePoint is a body-pose landmark with the model's visibility confidence.
type PosePoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Face holds the subset of face-mesh landmarks the analyzer reads.
type Face struct {
	LeftEyeOuter   Point `json:"left_eye_outer"`   // 33
	LeftEyeCenter  Point `json:"left_eye_center"`  // 468
	LeftIrisLeft   Point `json:"left_iris_left"`   // 471
	LeftIrisRight  Point `json:"left_iris_right"`  // 469
	RightEyeOuter  Point `json:"right_eye_outer"`  // 263
	RightEyeCenter Point `json:"right_eye_center"` // 473
	RightIrisLeft  Point `json:"right_iris_left"`  // 476
	RightIrisRight Point `json:"right_iris_right"` // 474
	UpperLid       Point `json:"upper_lid"`        // 159
	LowerLid       Point `json:"lower_lid"`        // 145
	NoseTip        Point `json:"nose_tip"`         // 1
	Chin           Point `json:"chin"`             // 152
	MouthLeft      Point `json:"mouth_left"`       // 78
	MouthRight     Point `json:"mouth_right"`      // 308
}

// EyeOpening is the vertical eyelid gap in normalized units.
func (f *Face) EyeOpening() float64 {
	return math.Abs(f.UpperLid.Y - f.LowerLid.Y)
}

// Pose holds the subset of body-pose landmarks the analyzer reads.
type Pose struct {
	LeftEar       PosePoint `json:"left_ear"`
	RightEar      PosePoint `json:"right_ear"`
	LeftShoulder  PosePoint `json:"left_shoulder"`
	RightShoulder PosePoint `json:"right_shoulder"`
	LeftIndex     PosePoint `json:"left_index"`
	RightIndex    PosePoint `json:"right_index"`
}

// Frame is one video frame's landmark observation. A nil Face or Pose means
// the landmark model found nothing for that part of the frame.
type Frame struct {
	TimestampMS int64 `json:"ts_ms"`
	Width       int   `json:"width"`
	Height      int   `json:"height"`
	Face        *Face `json:"face,omitempty"`
	Pose        *Pose `json:"pose,omitempty"`
}

func (f Frame) dims() (float64, float64) {
	w, h := float64(f.Width), float64(f.Height)
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}

func pixelDist(a, b Point, w, h float64) float64 {
	return math.Hypot((a.X-b.X)*w, (a.Y-b.Y)*h)
}
