package playback

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTimerPauseConservesTime(t *testing.T) {
	tm := NewTimer(1, 1)
	for cycle := 0; cycle < 100; cycle++ {
		tm.Advance(0.003)
		tm.Stop()
		tm.Advance(5) // ignored while stopped
		tm.Stop()
		tm.Start()
	}
	if !approx(tm.Elapsed(), 0.3) {
		t.Errorf("expected elapsed 0.3, got %v", tm.Elapsed())
	}
	if !tm.Running() {
		t.Error("expected timer to be running after Start")
	}
}

func TestTimerRescaleKeepsProgress(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  float64
		speed    float64
		wantProg float64
	}{
		{"faster", 0.4, 2, 0.4},
		{"slower", 0.25, 0.5, 0.25},
		{"overshoot clamps", 1.5, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := NewTimer(1, 1)
			tm.Advance(tt.elapsed)
			tm.Rescale(tt.speed)

			if !approx(tm.Progress(), tt.wantProg) {
				t.Errorf("progress = %v, want %v", tm.Progress(), tt.wantProg)
			}
			if !approx(tm.Duration(), 1/tt.speed) {
				t.Errorf("duration = %v, want %v", tm.Duration(), 1/tt.speed)
			}
		})
	}
}

func TestTimerRescaleWhileStopped(t *testing.T) {
	tm := NewTimer(0.2, 1)
	tm.Advance(0.1)
	tm.Stop()
	tm.Rescale(2)
	tm.Advance(1)

	if !approx(tm.Progress(), 0.5) {
		t.Errorf("expected progress to hold at 0.5 while stopped, got %v", tm.Progress())
	}
	tm.Start()
	tm.Advance(0.05)
	if !tm.Done() {
		t.Errorf("expected timer done after resuming, elapsed %v of %v", tm.Elapsed(), tm.Duration())
	}
}

func TestTimerLapCarriesOvershoot(t *testing.T) {
	tm := NewTimer(0.02, 1)
	tm.Advance(0.05)

	laps := 0
	for tm.Done() {
		tm.Lap()
		laps++
	}
	if laps != 2 {
		t.Errorf("expected 2 laps, got %d", laps)
	}
	if !approx(tm.Elapsed(), 0.01) {
		t.Errorf("expected 0.01 carried over, got %v", tm.Elapsed())
	}
}

func TestTimerZeroDuration(t *testing.T) {
	tm := NewTimer(0, 1)
	if !tm.Done() || tm.Progress() != 1 {
		t.Errorf("zero-length timer should be done immediately")
	}
}

func TestEaseInOutCubic(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.0625},
		{0.5, 0.5},
		{0.75, 0.9375},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := EaseInOutCubic(tt.in); !approx(got, tt.want) {
			t.Errorf("EaseInOutCubic(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
