package sorter

import (
	"math"

	"github.com/san-kum/sortviz/internal/step"
)

type SelectionSort struct{}

func NewSelection() *SelectionSort {
	return &SelectionSort{}
}

func (s *SelectionSort) Name() string       { return Selection.String() }
func (s *SelectionSort) Instrumented() bool { return true }

// Sort records Compare(posMin, i) for every candidate. posMin is step.None
// until the first candidate of a pass is taken, so each pass opens with a
// one-sided compare.
func (s *SelectionSort) Sort(values []int, log *step.Log) {
	n := len(values)
	for p := 0; p < n-1; p++ {
		minVal := math.MaxInt
		posMin := step.None
		for i := p; i < n; i++ {
			log.Append(step.Compare(posMin, i))
			if values[i] < minVal {
				minVal = values[i]
				posMin = i
			}
		}
		if posMin != step.None && posMin != p {
			values[p], values[posMin] = values[posMin], values[p]
			log.Append(step.Swap(p, posMin))
		}
		log.Append(step.Highlight(p))
	}
}
