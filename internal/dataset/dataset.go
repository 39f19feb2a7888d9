package dataset

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

var ErrUnknownShape = errors.New("dataset: unknown shape")

type Shape string

const (
	Random       Shape = "random"
	Reversed     Shape = "reversed"
	Sorted       Shape = "sorted"
	NearlySorted Shape = "nearly_sorted"
	FewUnique    Shape = "few_unique"
)

var generators = map[Shape]func(n int, rng *rand.Rand) []int{
	Random:       random,
	Reversed:     reversed,
	Sorted:       ascending,
	NearlySorted: nearlySorted,
	FewUnique:    fewUnique,
}

func Shapes() []Shape {
	out := make([]Shape, 0, len(generators))
	for s := range generators {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func ParseShape(name string) (Shape, error) {
	s := Shape(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	if _, ok := generators[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownShape, name)
	}
	return s, nil
}

// Generate builds n values in [1, n] arranged by shape. The same seed always
// yields the same array.
func Generate(shape Shape, n int, seed int64) ([]int, error) {
	gen, ok := generators[shape]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
	}
	if n < 0 {
		return nil, fmt.Errorf("dataset: negative size %d", n)
	}
	return gen(n, rand.New(rand.NewSource(seed))), nil
}

// Demo is the ten-element array used throughout the docs and tests.
func Demo() []int {
	return []int{8, 7, 9, 2, 3, 1, 10, 5, 4, 6}
}

func ascending(n int, _ *rand.Rand) []int {
	values := make([]int, n)
	for i := range values {
		values[i] = i + 1
	}
	return values
}

func random(n int, rng *rand.Rand) []int {
	values := ascending(n, rng)
	rng.Shuffle(n, func(i, j int) { values[i], values[j] = values[j], values[i] })
	return values
}

func reversed(n int, _ *rand.Rand) []int {
	values := make([]int, n)
	for i := range values {
		values[i] = n - i
	}
	return values
}

// nearlySorted displaces roughly one element in ten by a short distance.
func nearlySorted(n int, rng *rand.Rand) []int {
	values := ascending(n, rng)
	swaps := n/10 + 1
	for k := 0; k < swaps && n > 1; k++ {
		i := rng.Intn(n)
		j := min(n-1, i+1+rng.Intn(3))
		values[i], values[j] = values[j], values[i]
	}
	return values
}

func fewUnique(n int, rng *rand.Rand) []int {
	levels := min(n, 4)
	values := make([]int, n)
	for i := range values {
		tier := rng.Intn(levels) + 1
		values[i] = max(1, tier*n/levels)
	}
	return values
}
