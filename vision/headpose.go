package vision

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	pitchUpDegrees   = -11.0
	pitchDownDegrees = 5.0

	refineIterations = 20
	minDepth         = 1e-9
)

// ErrPoseFit is returned when the perspective fit has no usable solution.
var ErrPoseFit = errors.New("head pose fit failed")

// faceModel holds the canonical 3-D reference points in the order nose tip,
// chin, left eye corner, right eye corner, left mouth corner, right mouth corner.
var faceModel = [6][3]float64{
	{0.0, 0.0, 0.0},
	{0.0, -63.6, -12.5},
	{-43.3, 32.7, -26.0},
	{43.3, 32.7, -26.0},
	{-28.9, -28.9, -24.1},
	{28.9, -28.9, -24.1},
}

// HeadPose is the camera-from-model transform of a fitted face.
type HeadPose struct {
	R [3][3]float64
	T [3]float64
}

// PitchDegrees decomposes the rotation to a pitch angle.
func (p HeadPose) PitchDegrees() float64 {
	s := math.Max(-1, math.Min(1, -p.R[2][1]))
	return math.Asin(s) * 180 / math.Pi
}

func (p HeadPose) finite() bool {
	for i := 0; i < 3; i++ {
		if math.IsNaN(p.T[i]) || math.IsInf(p.T[i], 0) {
			return false
		}
		for j := 0; j < 3; j++ {
			if math.IsNaN(p.R[i][j]) || math.IsInf(p.R[i][j], 0) {
				return false
			}
		}
	}
	return true
}

func facePixels(f *Face, w, h float64) [6][2]float64 {
	pts := [6]Point{f.NoseTip, f.Chin, f.LeftEyeOuter, f.RightEyeOuter, f.MouthLeft, f.MouthRight}
	var out [6][2]float64
	for i, p := range pts {
		out[i] = [2]float64{p.X * w, p.Y * h}
	}
	return out
}

// ClassifyPitch fits the head pose and buckets its pitch. A failed fit yields
// PitchUnknown.
func ClassifyPitch(f *Face, w, h float64) Pitch {
	pose, err := SolveHeadPose(facePixels(f, w, h), w, h)
	if err != nil {
		return PitchUnknown
	}
	deg := pose.PitchDegrees()
	switch {
	case deg < pitchUpDegrees:
		return PitchUp
	case deg > pitchDownDegrees:
		return PitchDown
	}
	return PitchCenter
}

// SolveHeadPose fits the face model to six pixel positions using a pinhole
// camera with focal length w and the principal point at the image center.
// The linear DLT estimate is refined with Gauss-Newton on reprojection error.
func SolveHeadPose(pixels [6][2]float64, w, h float64) (HeadPose, error) {
	if w <= 0 || h <= 0 {
		return HeadPose{}, ErrPoseFit
	}
	cx, cy := w/2, h/2
	var norm [6][2]float64
	for i, p := range pixels {
		norm[i] = [2]float64{(p[0] - cx) / w, (p[1] - cy) / w}
	}

	pose, err := linearPose(norm)
	if err != nil {
		return HeadPose{}, err
	}
	pose = refinePose(pose, norm)
	if !pose.finite() || pose.T[2] <= 0 {
		return HeadPose{}, ErrPoseFit
	}
	return pose, nil
}

func linearPose(norm [6][2]float64) (HeadPose, error) {
	var c [3]float64
	for _, m := range faceModel {
		for k := 0; k < 3; k++ {
			c[k] += m[k] / float64(len(faceModel))
		}
	}
	scale := 0.0
	for _, m := range faceModel {
		scale += math.Sqrt((m[0]-c[0])*(m[0]-c[0])+(m[1]-c[1])*(m[1]-c[1])+(m[2]-c[2])*(m[2]-c[2])) / float64(len(faceModel))
	}

	a := mat.NewDense(12, 12, nil)
	for i, m := range faceModel {
		X := [4]float64{(m[0] - c[0]) / scale, (m[1] - c[1]) / scale, (m[2] - c[2]) / scale, 1}
		x, y := norm[i][0], norm[i][1]
		for j := 0; j < 4; j++ {
			a.Set(2*i, j, X[j])
			a.Set(2*i, 8+j, -x*X[j])
			a.Set(2*i+1, 4+j, X[j])
			a.Set(2*i+1, 8+j, -y*X[j])
		}
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFull) {
		return HeadPose{}, ErrPoseFit
	}
	var v mat.Dense
	svd.VTo(&v)
	p := mat.Col(nil, 11, &v)

	// Undo the model normalization: P = P' * [I/s, -c/s; 0, 1].
	m := mat.NewDense(3, 3, nil)
	var t [3]float64
	for r := 0; r < 3; r++ {
		t[r] = p[4*r+3]
		for k := 0; k < 3; k++ {
			m.Set(r, k, p[4*r+k]/scale)
			t[r] -= p[4*r+k] * c[k] / scale
		}
	}
	if mat.Det(m) < 0 {
		m.Scale(-1, m)
		for r := range t {
			t[r] = -t[r]
		}
	}

	var rs mat.SVD
	if !rs.Factorize(m, mat.SVDFull) {
		return HeadPose{}, ErrPoseFit
	}
	var u, vr mat.Dense
	rs.UTo(&u)
	rs.VTo(&vr)
	var rot mat.Dense
	rot.Mul(&u, vr.T())

	sv := rs.Values(nil)
	lambda := (sv[0] + sv[1] + sv[2]) / 3
	if lambda < minDepth || mat.Det(&rot) < 0 {
		return HeadPose{}, ErrPoseFit
	}

	var pose HeadPose
	for r := 0; r < 3; r++ {
		pose.T[r] = t[r] / lambda
		for k := 0; k < 3; k++ {
			pose.R[r][k] = rot.At(r, k)
		}
	}
	return pose, nil
}

func refinePose(pose HeadPose, norm [6][2]float64) HeadPose {
	params := toParams(pose)
	cost := sumSquares(residuals(params, norm))

	for it := 0; it < refineIterations; it++ {
		res := residuals(params, norm)
		jac := mat.NewDense(len(res), 6, nil)
		for j := 0; j < 6; j++ {
			step := 1e-6 * math.Max(1, math.Abs(params[j]))
			plus, minus := params, params
			plus[j] += step
			minus[j] -= step
			rp, rm := residuals(plus, norm), residuals(minus, norm)
			for i := range rp {
				jac.Set(i, j, (rp[i]-rm[i])/(2*step))
			}
		}

		var delta mat.VecDense
		if err := delta.SolveVec(jac, mat.NewVecDense(len(res), res)); err != nil {
			break
		}

		improved := false
		for shrink := 1.0; shrink > 1e-3; shrink /= 2 {
			next := params
			for j := range next {
				next[j] -= shrink * delta.AtVec(j)
			}
			if c := sumSquares(residuals(next, norm)); c < cost {
				params, cost, improved = next, c, true
				break
			}
		}
		if !improved || cost < 1e-20 {
			break
		}
	}
	return fromParams(params)
}

func residuals(params [6]float64, norm [6][2]float64) []float64 {
	r := rodrigues([3]float64{params[0], params[1], params[2]})
	out := make([]float64, 0, 2*len(faceModel))
	for i, m := range faceModel {
		var pc [3]float64
		for row := 0; row < 3; row++ {
			pc[row] = r[row][0]*m[0] + r[row][1]*m[1] + r[row][2]*m[2] + params[3+row]
		}
		if pc[2] < minDepth {
			out = append(out, math.Inf(1), math.Inf(1))
			continue
		}
		out = append(out, pc[0]/pc[2]-norm[i][0], pc[1]/pc[2]-norm[i][1])
	}
	return out
}

func sumSquares(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return s
}

func toParams(p HeadPose) [6]float64 {
	rv := rotationVector(p.R)
	return [6]float64{rv[0], rv[1], rv[2], p.T[0], p.T[1], p.T[2]}
}

func fromParams(params [6]float64) HeadPose {
	return HeadPose{
		R: rodrigues([3]float64{params[0], params[1], params[2]}),
		T: [3]float64{params[3], params[4], params[5]},
	}
}

// rodrigues converts an axis-angle vector to a rotation matrix.
func rodrigues(rv [3]float64) [3][3]float64 {
	theta := math.Sqrt(rv[0]*rv[0] + rv[1]*rv[1] + rv[2]*rv[2])
	if theta < 1e-12 {
		return [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	}
	kx, ky, kz := rv[0]/theta, rv[1]/theta, rv[2]/theta
	c, s := math.Cos(theta), math.Sin(theta)
	v := 1 - c
	return [3][3]float64{
		{c + kx*kx*v, kx*ky*v - kz*s, kx*kz*v + ky*s},
		{ky*kx*v + kz*s, c + ky*ky*v, ky*kz*v - kx*s},
		{kz*kx*v - ky*s, kz*ky*v + kx*s, c + kz*kz*v},
	}
}

// rotationVector is the inverse of rodrigues.
func rotationVector(r [3][3]float64) [3]float64 {
	cos := math.Max(-1, math.Min(1, (r[0][0]+r[1][1]+r[2][2]-1)/2))
	theta := math.Acos(cos)
	if theta < 1e-9 {
		return [3]float64{}
	}
	if math.Pi-theta < 1e-6 {
		// sin(theta) vanishes; read the axis off the diagonal of (R+I)/2.
		x := math.Sqrt(math.Max(0, (r[0][0]+1)/2))
		y := math.Sqrt(math.Max(0, (r[1][1]+1)/2))
		z := math.Sqrt(math.Max(0, (r[2][2]+1)/2))
		switch {
		case x >= y && x >= z:
			y = math.Copysign(y, r[0][1]+r[1][0])
			z = math.Copysign(z, r[0][2]+r[2][0])
		case y >= z:
			x = math.Copysign(x, r[0][1]+r[1][0])
			z = math.Copysign(z, r[1][2]+r[2][1])
		default:
			x = math.Copysign(x, r[0][2]+r[2][0])
			y = math.Copysign(y, r[1][2]+r[2][1])
		}
		return [3]float64{x * theta, y * theta, z * theta}
	}
	s := 2 * math.Sin(theta)
	return [3]float64{
		(r[2][1] - r[1][2]) / s * theta,
		(r[0][2] - r[2][0]) / s * theta,
		(r[1][0] - r[0][1]) / s * theta,
	}
}
