package emotion

import (
	"fmt"
	"math"
	"strings"
)

type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
	Tense    Label = "tense"
)

// Labels is the classifier's class order; class id i is Labels[i].
var Labels = [...]Label{Positive, Neutral, Negative, Tense}

var korean = map[Label]string{
	Positive: "긍정",
	Neutral:  "중립",
	Negative: "부정",
	Tense:    "긴장",
}

var weights = []struct {
	label Label
	w     float64
}{
	{Positive, 1.2},
	{Neutral, 0.8},
	{Tense, -0.5},
	{Negative, -1.0},
}

func (l Label) Korean() string { return korean[l] }

func (l Label) Valid() bool {
	_, ok := korean[l]
	return ok
}

// ParseLabel accepts English or Korean class names.
func ParseLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	l := Label(strings.ToLower(s))
	if l.Valid() {
		return l, nil
	}
	for k, v := range korean {
		if v == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown emotion label %q", s)
}

func LabelForClass(id int) (Label, error) {
	if id < 0 || id >= len(Labels) {
		return "", fmt.Errorf("emotion class id %d out of range", id)
	}
	return Labels[id], nil
}

// Score is the weighted sum of percentage shares, rounded half to even and
// clamped to [0,100].
func Score(dist map[Label]int) int {
	var raw float64
	for _, w := range weights {
		raw += float64(dist[w.label]) * w.w
	}
	return int(math.Max(0, math.Min(100, math.RoundToEven(raw))))
}
