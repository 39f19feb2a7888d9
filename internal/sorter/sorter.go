package sorter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/sortviz/internal/step"
)

var ErrUnknownAlgorithm = errors.New("sorter: unknown algorithm")

// Sorter sorts values in place, recording every event into log. Sort always
// runs to completion before returning.
type Sorter interface {
	Name() string
	Sort(values []int, log *step.Log)
	// Instrumented reports whether Sort records steps at all.
	Instrumented() bool
}

type Algorithm int

const (
	Insertion Algorithm = iota
	Selection
	Quick
	Merge
	Heap
)

var algorithmNames = [...]string{
	Insertion: "insertion",
	Selection: "selection",
	Quick:     "quick",
	Merge:     "merge",
	Heap:      "heap",
}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// All returns the algorithms in menu order.
func All() []Algorithm {
	return []Algorithm{Insertion, Selection, Quick, Merge, Heap}
}

func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, "sort")
	name = strings.TrimRight(name, "_- ")
	for i, n := range algorithmNames {
		if n == name {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

type Options struct {
	// InstrumentHeap makes heap sort record steps like the other algorithms.
	InstrumentHeap bool
}

func New(alg Algorithm, opts Options) (Sorter, error) {
	switch alg {
	case Insertion:
		return NewInsertion(), nil
	case Selection:
		return NewSelection(), nil
	case Quick:
		return NewQuick(), nil
	case Merge:
		return NewMerge(), nil
	case Heap:
		return NewHeap(opts.InstrumentHeap), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, alg)
}
