package sorter

import "github.com/san-kum/sortviz/internal/step"

// QuickSort uses the Lomuto partition with the last element of each range
// as pivot. Elements equal to the pivot stay right of it.
type QuickSort struct{}

func NewQuick() *QuickSort {
	return &QuickSort{}
}

func (s *QuickSort) Name() string       { return Quick.String() }
func (s *QuickSort) Instrumented() bool { return true }

func (s *QuickSort) Sort(values []int, log *step.Log) {
	s.sortRange(values, 0, len(values)-1, log)
}

func (s *QuickSort) sortRange(values []int, lo, hi int, log *step.Log) {
	if lo > hi {
		return
	}
	if lo == hi {
		log.Append(step.Highlight(lo))
		return
	}
	p := s.partition(values, lo, hi, log)
	s.sortRange(values, lo, p-1, log)
	s.sortRange(values, p+1, hi, log)
}

func (s *QuickSort) partition(values []int, lo, hi int, log *step.Log) int {
	pivot := values[hi]
	i := lo - 1
	for j := lo; j < hi; j++ {
		log.Append(step.Compare(j, hi))
		if values[j] < pivot {
			i++
			if i != j {
				values[i], values[j] = values[j], values[i]
				log.Append(step.Swap(i, j))
			}
		}
	}
	p := i + 1
	values[p], values[hi] = values[hi], values[p]
	log.Append(step.Swap(p, hi))
	log.Append(step.Highlight(p))
	return p
}
