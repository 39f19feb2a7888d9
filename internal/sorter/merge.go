package sorter

import "github.com/san-kum/sortviz/internal/step"

// MergeSort is a top-down, stable merge sort. Merging goes through a scratch
// copy of the range, so writes are recorded as overwrites rather than swaps.
type MergeSort struct{}

func NewMerge() *MergeSort {
	return &MergeSort{}
}

func (s *MergeSort) Name() string       { return Merge.String() }
func (s *MergeSort) Instrumented() bool { return true }

func (s *MergeSort) Sort(values []int, log *step.Log) {
	mergeSortFunc(values, func(v int) int { return v }, log)
}

// mergeSortFunc sorts items by key. The log only ever sees keys, which lets
// tests carry extra identity through the sort.
func mergeSortFunc[T any](items []T, key func(T) int, log *step.Log) {
	mergeRange(items, 0, len(items), key, log)
}

func mergeRange[T any](items []T, start, end int, key func(T) int, log *step.Log) {
	n := end - start
	if n <= 1 {
		return
	}
	mid := start + n/2
	mergeRange(items, start, mid, key, log)
	mergeRange(items, mid, end, key, log)

	scratch := make([]T, n)
	copy(scratch, items[start:end])
	left, right := scratch[:mid-start], scratch[mid-start:]

	l, r, k := 0, 0, start
	write := func(v T) {
		items[k] = v
		log.Append(step.Overwrite(k, key(v)))
		k++
	}
	for l < len(left) && r < len(right) {
		log.Append(step.Compare(start+l, mid+r))
		if key(left[l]) <= key(right[r]) {
			write(left[l])
			l++
		} else {
			write(right[r])
			r++
		}
	}
	for ; l < len(left); l++ {
		write(left[l])
	}
	for ; r < len(right); r++ {
		write(right[r])
	}

	for i := start; i < end; i++ {
		log.Append(step.Highlight(i))
	}
}
