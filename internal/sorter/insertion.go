package sorter

import "github.com/san-kum/sortviz/internal/step"

type InsertionSort struct{}

func NewInsertion() *InsertionSort {
	return &InsertionSort{}
}

func (s *InsertionSort) Name() string       { return Insertion.String() }
func (s *InsertionSort) Instrumented() bool { return true }

func (s *InsertionSort) Sort(values []int, log *step.Log) {
	for i := 1; i < len(values); i++ {
		for j := i; j > 0; j-- {
			log.Append(step.Compare(j-1, j))
			if values[j-1] <= values[j] {
				break
			}
			values[j-1], values[j] = values[j], values[j-1]
			log.Append(step.Swap(j-1, j))
		}
		log.Append(step.Highlight(i))
	}
}
