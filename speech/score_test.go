package speech

import (
	"math"
	"testing"
)

func TestSpeedScore(t *testing.T) {
	tests := []struct {
		rate float64
		want float64
	}{
		{280, 40},
		{350, 40},
		{400, 40},
		{279, 39.5},
		{401, 39.5},
		{240, 20},
		{200, 0},
		{100, 0},
		{480, 0},
		{900, 0},
	}
	for _, tt := range tests {
		if got := SpeedScore(tt.rate); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("rate %.0f: expected %.2f, got %.2f", tt.rate, tt.want, got)
		}
	}
}

func TestSpeedScoreShape(t *testing.T) {
	prev := -1.0
	for r := 200.5; r < 280; r += 0.5 {
		s := SpeedScore(r)
		if s <= prev {
			t.Fatalf("rate %.1f: score %.2f not above %.2f", r, s, prev)
		}
		prev = s
	}
	prev = 41
	for r := 400.5; r < 480; r += 0.5 {
		s := SpeedScore(r)
		if s >= prev {
			t.Fatalf("rate %.1f: score %.2f not below %.2f", r, s, prev)
		}
		prev = s
	}
	for r := 0.0; r < 2000; r += 7 {
		if s := SpeedScore(r); s < 0 || s > 40 {
			t.Fatalf("rate %.0f: score %.2f out of range", r, s)
		}
	}
}

func TestFillerScore(t *testing.T) {
	want := map[int]int{0: 40, 1: 38, 2: 36, 3: 34, 4: 29, 5: 24, 9: 4, 10: 0, 30: 0}
	for c, w := range want {
		if got := FillerScore(c); got != w {
			t.Errorf("count %d: expected %d, got %d", c, w, got)
		}
	}
	prev := FillerScore(0)
	for c := 1; c < 50; c++ {
		s := FillerScore(c)
		if s > prev || s < 0 {
			t.Fatalf("count %d: score %d after %d", c, s, prev)
		}
		prev = s
	}
}

func TestPitchScoreBoundaries(t *testing.T) {
	tests := []struct {
		std  float64
		want float64
	}{
		{0, 0},
		{1.5, 2.5},
		{3, 6},
		{5, 9},
		{7, 13},
		{8.5, 15},
		{10, 20},
		{15, 20},
		{20, 20},
		{23, 13},
		{25, 9},
		{27, 6},
		{30, 0},
		{45, 0},
	}
	for _, tt := range tests {
		if got := PitchScore(tt.std); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("std %.1f: expected %.2f, got %.4f", tt.std, tt.want, got)
		}
	}
}

func TestPitchScoreMaximalOnlyInIdealBand(t *testing.T) {
	for std := 0.0; std <= 40; std += 0.25 {
		full := PitchScore(std) == MaxPitchScore
		ideal := std >= 10 && std <= 20
		if full != ideal {
			t.Fatalf("std %.2f: full marks=%v, ideal band=%v", std, full, ideal)
		}
	}
}

func TestBandsMatchScores(t *testing.T) {
	for r := 150.0; r <= 500; r += 2.5 {
		res := SpeedResult{SyllablesPerMin: r, Usable: true}
		full := SpeedScore(r) == MaxSpeedScore
		if full != (SpeedBandOf(res) == SpeedAdequate) {
			t.Fatalf("rate %.1f: band %s disagrees with score %.2f", r, SpeedBandOf(res), SpeedScore(r))
		}
	}
	if b := SpeedBandOf(SpeedResult{}); b != SpeedUnmeasured {
		t.Errorf("unusable speed should be unmeasured, got %s", b)
	}
	if FluencyBandOf(0) != FluencySmooth || FluencyBandOf(3) != FluencyFair || FluencyBandOf(4) != FluencyHalting {
		t.Error("fluency bands do not follow filler score bands")
	}
	if ToneBandOf(9.99) != ToneMonotonous || ToneBandOf(10) != ToneBright {
		t.Error("tone threshold should be 10 Hz")
	}
	if b := ToneBandOfResult(PitchResult{Status: PitchInsufficient}); b != ToneUnmeasured {
		t.Errorf("insufficient pitch should be unmeasured, got %s", b)
	}
}
