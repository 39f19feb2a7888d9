package playback

// HighlightCapacity bounds the number of concurrently decaying compare
// highlights. When full, the oldest entry is overwritten.
const HighlightCapacity = 8

type highlight struct {
	index  int
	timer  Timer
	active bool
}

type highlightRing struct {
	entries [HighlightCapacity]highlight
}

func (r *highlightRing) add(index int, base, speed float64, paused bool) {
	slot := -1
	for k := range r.entries {
		if r.entries[k].active && r.entries[k].index == index {
			slot = k
			break
		}
	}
	if slot < 0 {
		slot = r.free()
	}
	t := NewTimer(base, speed)
	if paused {
		t.Stop()
	}
	r.entries[slot] = highlight{index: index, timer: t, active: true}
}

// free returns an inactive entry, or the one furthest through its duration.
func (r *highlightRing) free() int {
	oldest, oldestProgress := 0, -1.0
	for k := range r.entries {
		if !r.entries[k].active {
			return k
		}
		if p := r.entries[k].timer.Progress(); p > oldestProgress {
			oldest, oldestProgress = k, p
		}
	}
	return oldest
}

// advance moves every active entry forward and reports expired indices.
func (r *highlightRing) advance(dt float64, expired func(index int)) {
	for k := range r.entries {
		h := &r.entries[k]
		if !h.active {
			continue
		}
		h.timer.Advance(dt)
		if h.timer.Done() {
			h.active = false
			expired(h.index)
		}
	}
}

// dropExcept deactivates every entry whose index is not in keep.
func (r *highlightRing) dropExcept(keep ...int) {
	for k := range r.entries {
		h := &r.entries[k]
		if !h.active {
			continue
		}
		retained := false
		for _, idx := range keep {
			if h.index == idx {
				retained = true
				break
			}
		}
		if !retained {
			h.active = false
		}
	}
}

// swap moves entries tracking i to j and vice versa, following the slot
// roles across a completed swap.
func (r *highlightRing) swap(i, j int) {
	for k := range r.entries {
		h := &r.entries[k]
		if !h.active {
			continue
		}
		switch h.index {
		case i:
			h.index = j
		case j:
			h.index = i
		}
	}
}

func (r *highlightRing) each(fn func(t *Timer)) {
	for k := range r.entries {
		if r.entries[k].active {
			fn(&r.entries[k].timer)
		}
	}
}

func (r *highlightRing) len() int {
	n := 0
	for k := range r.entries {
		if r.entries[k].active {
			n++
		}
	}
	return n
}

func (r *highlightRing) clear() {
	r.entries = [HighlightCapacity]highlight{}
}
