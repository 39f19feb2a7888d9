package step

import (
	"errors"
	"testing"
)

func TestStep_Validate(t *testing.T) {
	tests := []struct {
		name  string
		step  Step
		n     int
		valid bool
	}{
		{"compare in range", Compare(0, 4), 5, true},
		{"compare with sentinel", Compare(None, 2), 5, true},
		{"compare past end", Compare(1, 5), 5, false},
		{"negative index", Compare(-2, 1), 5, false},
		{"swap in range", Swap(3, 1), 5, true},
		{"swap with sentinel", Swap(None, 1), 5, false},
		{"overwrite in range", Overwrite(2, 99), 5, true},
		{"overwrite past end", Overwrite(5, 1), 5, false},
		{"highlight sentinel", Highlight(None), 5, false},
		{"highlight on empty array", Highlight(0), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate(tt.n)
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid && !errors.Is(err, ErrIndexOutOfBounds) {
				t.Errorf("Validate() = %v, want ErrIndexOutOfBounds", err)
			}
		})
	}
}

func TestStep_String(t *testing.T) {
	tests := []struct {
		step Step
		want string
	}{
		{Compare(3, 7), "compare(3,7)"},
		{Swap(0, 1), "swap(0,1)"},
		{Overwrite(2, 9), "overwrite(2,=9)"},
		{Highlight(4), "highlight(4)"},
	}

	for _, tt := range tests {
		if got := tt.step.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestLog_ClearKeepsCapacity(t *testing.T) {
	l := NewLog(4)
	for i := 0; i < 100; i++ {
		l.Append(Compare(0, 1))
	}
	capBefore := l.Cap()

	l.Clear()
	if l.Len() != 0 {
		t.Errorf("expected empty log after Clear, got %d steps", l.Len())
	}
	if l.Cap() != capBefore {
		t.Errorf("Clear released storage: cap %d, want %d", l.Cap(), capBefore)
	}

	l.Reset(10)
	if l.Size() != 10 {
		t.Errorf("Reset did not rebind size: got %d", l.Size())
	}
}

func TestReplay(t *testing.T) {
	initial := []int{3, 1, 2}
	l := NewLog(len(initial))
	l.Append(Compare(0, 1))
	l.Append(Swap(0, 1))
	l.Append(Highlight(0))
	l.Append(Overwrite(2, 3))
	l.Append(Overwrite(1, 2))

	got, err := Replay(initial, l)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Replay() = %v, want %v", got, want)
		}
	}
	if initial[0] != 3 {
		t.Error("Replay modified its input")
	}
}

func TestReplay_RejectsOutOfRange(t *testing.T) {
	l := NewLog(2)
	l.Append(Swap(0, 2))

	_, err := Replay([]int{1, 2}, l)
	if !errors.Is(err, ErrIndexOutOfBounds) {
		t.Errorf("expected ErrIndexOutOfBounds, got %v", err)
	}
}

func TestTally(t *testing.T) {
	l := NewLog(3)
	l.Append(Compare(0, 1))
	l.Append(Compare(1, 2))
	l.Append(Swap(1, 2))
	l.Append(Overwrite(0, 5))
	l.Append(Highlight(2))

	c := Tally(l)
	if c.Compares != 2 || c.Swaps != 1 || c.Overwrites != 1 || c.Highlights != 1 {
		t.Errorf("unexpected counts: %+v", c)
	}
	if c.Total() != l.Len() {
		t.Errorf("Total() = %d, want %d", c.Total(), l.Len())
	}
}
