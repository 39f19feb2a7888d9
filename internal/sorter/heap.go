package sorter

import "github.com/san-kum/sortviz/internal/step"

// HeapSort builds a max-heap and repeatedly moves the root behind the heap.
// Unless instrumented it records nothing, and a front-end has to present the
// run as instant.
type HeapSort struct {
	instrumented bool
}

func NewHeap(instrumented bool) *HeapSort {
	return &HeapSort{instrumented: instrumented}
}

func (s *HeapSort) Name() string       { return Heap.String() }
func (s *HeapSort) Instrumented() bool { return s.instrumented }

func (s *HeapSort) Sort(values []int, log *step.Log) {
	emit := func(step.Step) {}
	if s.instrumented {
		emit = log.Append
	}

	n := len(values)
	for i := n/2 - 1; i >= 0; i-- {
		heapify(values, n, i, emit)
	}
	for end := n - 1; end > 0; end-- {
		values[0], values[end] = values[end], values[0]
		emit(step.Swap(0, end))
		emit(step.Highlight(end))
		heapify(values, end, 0, emit)
	}
	if n > 0 {
		emit(step.Highlight(0))
	}
}

func heapify(values []int, n, i int, emit func(step.Step)) {
	largest := i
	left, right := 2*i+1, 2*i+2

	if left < n {
		emit(step.Compare(left, largest))
		if values[left] > values[largest] {
			largest = left
		}
	}
	if right < n {
		emit(step.Compare(right, largest))
		if values[right] > values[largest] {
			largest = right
		}
	}
	if largest != i {
		values[i], values[largest] = values[largest], values[i]
		emit(step.Swap(i, largest))
		heapify(values, n, largest, emit)
	}
}
