package emotion

import (
	"math/rand"
	"testing"
)

func observeN(a *Aggregator, l Label, n int) {
	for i := 0; i < n; i++ {
		a.Observe(l)
	}
}

func TestEmptySummary(t *testing.T) {
	a := NewAggregator()
	got := a.Summary()
	if got.Dominant != DominantNone || got.Score != 0 || got.Frames != 0 {
		t.Errorf("unexpected empty summary %+v", got)
	}
	for _, l := range Labels {
		if got.Distribution[l] != 0 {
			t.Errorf("%s: expected 0%%, got %d", l, got.Distribution[l])
		}
	}
	if a.Current() != CurrentPending {
		t.Errorf("expected pending current emotion, got %q", a.Current())
	}
}

func TestSummaryResidualGoesToFirstObservedTop(t *testing.T) {
	a := NewAggregator()
	a.Observe(Neutral, Positive, Tense)
	got := a.Summary()
	want := map[Label]int{Neutral: 34, Positive: 33, Tense: 33, Negative: 0}
	for l, w := range want {
		if got.Distribution[l] != w {
			t.Errorf("%s: expected %d, got %d", l, w, got.Distribution[l])
		}
	}
	if got.Dominant != Neutral {
		t.Errorf("expected first observed label to win the tie, got %s", got.Dominant)
	}
}

func TestDominantUsesRawCounts(t *testing.T) {
	a := NewAggregator()
	observeN(a, Positive, 67)
	observeN(a, Neutral, 66)
	observeN(a, Tense, 67)

	got := a.Summary()
	// 33.5 rounds to 34 twice; the extra point comes off the first of them
	want := map[Label]int{Positive: 33, Neutral: 33, Tense: 34, Negative: 0}
	for l, w := range want {
		if got.Distribution[l] != w {
			t.Errorf("%s: expected %d, got %d", l, w, got.Distribution[l])
		}
	}
	if got.Dominant != Positive {
		t.Errorf("expected dominant positive, got %s", got.Dominant)
	}
	if got.Score != 49 {
		t.Errorf("expected score 49, got %d", got.Score)
	}
	if a.Current() != "긍정" {
		t.Errorf("expected current 긍정, got %q", a.Current())
	}
}

func TestDistributionSumsTo100(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 200; run++ {
		a := NewAggregator()
		n := 1 + rng.Intn(500)
		for i := 0; i < n; i++ {
			a.Observe(Labels[rng.Intn(len(Labels))])
		}
		sum := 0
		for _, p := range a.Summary().Distribution {
			sum += p
		}
		if sum != 100 {
			t.Fatalf("run %d with %d frames: distribution sums to %d", run, n, sum)
		}
	}
}

func TestScoreClamped(t *testing.T) {
	tests := []struct {
		dist map[Label]int
		want int
	}{
		{map[Label]int{Positive: 100}, 100},
		{map[Label]int{Negative: 100}, 0},
		{map[Label]int{Neutral: 100}, 80},
		{map[Label]int{Positive: 50, Tense: 50}, 35},
	}
	for _, tt := range tests {
		if got := Score(tt.dist); got != tt.want {
			t.Errorf("%v: expected %d, got %d", tt.dist, tt.want, got)
		}
	}
}

func TestObserveIgnoresInvalidLabels(t *testing.T) {
	a := NewAggregator()
	a.Observe("surprised", "", Positive)
	if a.Total() != 1 {
		t.Errorf("expected 1 counted frame, got %d", a.Total())
	}
}

func TestParseLabel(t *testing.T) {
	tests := map[string]Label{
		"positive": Positive,
		"Neutral":  Neutral,
		"부정":       Negative,
		" 긴장 ":     Tense,
	}
	for in, want := range tests {
		got, err := ParseLabel(in)
		if err != nil || got != want {
			t.Errorf("%q: expected %s, got %s (%v)", in, want, got, err)
		}
	}
	if _, err := ParseLabel("happy"); err == nil {
		t.Error("expected error for unknown label")
	}
	if l, err := LabelForClass(3); err != nil || l != Tense {
		t.Errorf("class 3: expected tense, got %s (%v)", l, err)
	}
	if _, err := LabelForClass(4); err == nil {
		t.Error("expected error for out of range class id")
	}
}
