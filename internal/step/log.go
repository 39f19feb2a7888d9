package step

import "fmt"

// Log is the append-only record of one sort run over an array of Size()
// elements.
type Log struct {
	steps []Step
	size  int
}

func NewLog(size int) *Log {
	return &Log{steps: make([]Step, 0, size*4), size: size}
}

func (l *Log) Append(s Step) { l.steps = append(l.steps, s) }

// Clear drops every step but keeps the backing storage for the next run.
func (l *Log) Clear() { l.steps = l.steps[:0] }

// Reset clears the log and rebinds it to an array of length n.
func (l *Log) Reset(n int) {
	l.Clear()
	l.size = n
}

func (l *Log) Len() int      { return len(l.steps) }
func (l *Log) Size() int     { return l.size }
func (l *Log) Cap() int      { return cap(l.steps) }
func (l *Log) At(i int) Step { return l.steps[i] }

// Steps exposes the recorded steps. Callers must not modify the slice.
func (l *Log) Steps() []Step { return l.steps }

// Validate checks every step against the recorded array length.
func (l *Log) Validate() error {
	for pos, s := range l.steps {
		if err := s.Validate(l.size); err != nil {
			return fmt.Errorf("step %d: %w", pos, err)
		}
	}
	return nil
}

type Counts struct {
	Compares   int `json:"compares"`
	Swaps      int `json:"swaps"`
	Overwrites int `json:"overwrites"`
	Highlights int `json:"highlights"`
}

func (c Counts) Total() int { return c.Compares + c.Swaps + c.Overwrites + c.Highlights }

func Tally(l *Log) Counts {
	var c Counts
	for _, s := range l.steps {
		switch s.Kind {
		case KindCompare:
			c.Compares++
		case KindSwap:
			c.Swaps++
		case KindOverwrite:
			c.Overwrites++
		case KindHighlight:
			c.Highlights++
		}
	}
	return c
}

// Replay applies the value-changing steps of l to a copy of initial.
// Compares and highlights are no-ops.
func Replay(initial []int, l *Log) ([]int, error) {
	out := make([]int, len(initial))
	copy(out, initial)
	for pos, s := range l.steps {
		if err := s.Validate(len(out)); err != nil {
			return out, fmt.Errorf("replay step %d: %w", pos, err)
		}
		switch s.Kind {
		case KindSwap:
			out[s.I], out[s.J] = out[s.J], out[s.I]
		case KindOverwrite:
			out[s.I] = s.Value
		}
	}
	return out, nil
}
