package step

import (
	"fmt"
)

// None marks an index field that does not apply to a step.
const None = -1

type Kind int

const (
	KindCompare Kind = iota
	KindSwap
	KindOverwrite
	KindHighlight
)

func (k Kind) String() string {
	switch k {
	case KindCompare:
		return "compare"
	case KindSwap:
		return "swap"
	case KindOverwrite:
		return "overwrite"
	case KindHighlight:
		return "highlight"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Step is one recorded algorithmic event. Value is only meaningful for
// overwrites.
type Step struct {
	Kind  Kind
	I, J  int
	Value int
}

func Compare(i, j int) Step       { return Step{Kind: KindCompare, I: i, J: j} }
func Swap(i, j int) Step          { return Step{Kind: KindSwap, I: i, J: j} }
func Overwrite(i, value int) Step { return Step{Kind: KindOverwrite, I: i, J: None, Value: value} }
func Highlight(i int) Step        { return Step{Kind: KindHighlight, I: i, J: None} }

// Validate checks every non-sentinel index against an array of length n.
func (s Step) Validate(n int) error {
	if !inRange(s.I, n) || !inRange(s.J, n) {
		return fmt.Errorf("%w: %s with n=%d", ErrIndexOutOfBounds, s, n)
	}
	switch s.Kind {
	case KindSwap:
		if s.I == None || s.J == None {
			return fmt.Errorf("%w: %s needs two indices", ErrIndexOutOfBounds, s)
		}
	case KindOverwrite, KindHighlight:
		if s.I == None {
			return fmt.Errorf("%w: %s needs an index", ErrIndexOutOfBounds, s)
		}
	}
	return nil
}

func (s Step) String() string {
	switch s.Kind {
	case KindOverwrite:
		return fmt.Sprintf("overwrite(%d,=%d)", s.I, s.Value)
	case KindHighlight:
		return fmt.Sprintf("highlight(%d)", s.I)
	}
	return fmt.Sprintf("%s(%d,%d)", s.Kind, s.I, s.J)
}

func inRange(idx, n int) bool {
	return idx == None || (idx >= 0 && idx < n)
}
