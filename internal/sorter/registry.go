package sorter

import (
	"fmt"
	"sort"
)

// Registry maps algorithm names to constructors. Front-ends list and resolve
// methods through it so that menu order and CLI names stay in one place.
type Registry struct {
	opts    Options
	sorters map[string]func(Options) Sorter
	order   []Algorithm
}

func NewRegistry(opts Options) *Registry {
	r := &Registry{
		opts:    opts,
		sorters: make(map[string]func(Options) Sorter),
	}

	r.register(Insertion, func(Options) Sorter { return NewInsertion() })
	r.register(Selection, func(Options) Sorter { return NewSelection() })
	r.register(Quick, func(Options) Sorter { return NewQuick() })
	r.register(Merge, func(Options) Sorter { return NewMerge() })
	r.register(Heap, func(o Options) Sorter { return NewHeap(o.InstrumentHeap) })

	return r
}

func (r *Registry) register(alg Algorithm, fn func(Options) Sorter) {
	r.sorters[alg.String()] = fn
	r.order = append(r.order, alg)
}

func (r *Registry) Get(name string) (Sorter, error) {
	alg, err := ParseAlgorithm(name)
	if err != nil {
		return nil, err
	}
	return r.ForAlgorithm(alg)
}

func (r *Registry) ForAlgorithm(alg Algorithm) (Sorter, error) {
	fn, ok := r.sorters[alg.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, alg)
	}
	return fn(r.opts), nil
}

// Algorithms returns the registered algorithms in menu order.
func (r *Registry) Algorithms() []Algorithm {
	out := make([]Algorithm, len(r.order))
	copy(out, r.order)
	return out
}

// Names returns the registered names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sorters))
	for name := range r.sorters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
