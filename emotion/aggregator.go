package emotion

import "math"

const (
	// CurrentPending is reported by Current before any face was classified.
	CurrentPending = "분석중"
	// DominantNone is the dominant label of an empty summary.
	DominantNone Label = "none"
)

type Summary struct {
	Distribution map[Label]int `json:"distribution"`
	Dominant     Label         `json:"emotion_best"`
	Score        int           `json:"emotion_score"`
	Frames       int           `json:"frames"`
}

// Aggregator counts classified faces for one session. It is not safe for
// concurrent use.
type Aggregator struct {
	counts map[Label]int
	order  []Label
	total  int
}

func NewAggregator() *Aggregator {
	return &Aggregator{counts: make(map[Label]int, len(Labels))}
}

// Observe records one label per detected face. Invalid labels are ignored.
func (a *Aggregator) Observe(labels ...Label) {
	for _, l := range labels {
		if !l.Valid() {
			continue
		}
		if _, seen := a.counts[l]; !seen {
			a.order = append(a.order, l)
		}
		a.counts[l]++
		a.total++
	}
}

func (a *Aggregator) Total() int { return a.total }

// Current is the running top label in Korean, for live feedback.
func (a *Aggregator) Current() string {
	if a.total == 0 {
		return CurrentPending
	}
	return a.argmax(func(l Label) float64 { return float64(a.counts[l]) }).Korean()
}

// argmax walks labels in first-observed order so earlier labels win ties.
func (a *Aggregator) argmax(val func(Label) float64) Label {
	best := a.order[0]
	for _, l := range a.order[1:] {
		if val(l) > val(best) {
			best = l
		}
	}
	return best
}

// Summary converts counts into integer percentages that sum to exactly 100.
// Rounding drift goes to the label with the largest rounded share; the
// dominant label comes from raw counts.
func (a *Aggregator) Summary() Summary {
	dist := make(map[Label]int, len(Labels))
	for _, l := range Labels {
		dist[l] = 0
	}
	if a.total == 0 {
		return Summary{Distribution: dist, Dominant: DominantNone}
	}

	sum := 0
	for _, l := range a.order {
		p := int(math.RoundToEven(float64(a.counts[l]*100) / float64(a.total)))
		dist[l] = p
		sum += p
	}
	if diff := 100 - sum; diff != 0 {
		top := a.argmax(func(l Label) float64 { return float64(dist[l]) })
		dist[top] += diff
	}

	return Summary{
		Distribution: dist,
		Dominant:     a.argmax(func(l Label) float64 { return float64(a.counts[l]) }),
		Score:        Score(dist),
		Frames:       a.total,
	}
}
