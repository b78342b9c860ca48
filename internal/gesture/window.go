package gesture

// Window is a fixed-capacity FIFO of recent labels.
// Pushing onto a full window evicts the oldest entry.
type Window struct {
	labels   []Label
	capacity int
}

// NewWindow creates an empty window. Capacities below 1 are raised to 1.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{
		labels:   make([]Label, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a label, dropping the oldest one if the window is full.
func (w *Window) Push(l Label) {
	if len(w.labels) >= w.capacity {
		copy(w.labels, w.labels[1:])
		w.labels = w.labels[:w.capacity-1]
	}
	w.labels = append(w.labels, l)
}

// Count returns how many entries equal l.
func (w *Window) Count(l Label) int {
	return w.CountRecent(l, len(w.labels))
}

// CountRecent returns how many of the newest n entries equal l.
func (w *Window) CountRecent(l Label, n int) int {
	if n > len(w.labels) {
		n = len(w.labels)
	}
	count := 0
	for _, got := range w.labels[len(w.labels)-n:] {
		if got == l {
			count++
		}
	}
	return count
}

// Clear empties the window.
func (w *Window) Clear() {
	w.labels = w.labels[:0]
}

// Len returns the number of labels held.
func (w *Window) Len() int { return len(w.labels) }

// Cap returns the window capacity.
func (w *Window) Cap() int { return w.capacity }

// Labels returns a copy of the window contents, oldest first.
func (w *Window) Labels() []Label {
	out := make([]Label, len(w.labels))
	copy(out, w.labels)
	return out
}
