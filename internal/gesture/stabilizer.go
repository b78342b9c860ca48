package gesture

import (
	"fmt"
	"sort"
)

// Stabilizer turns a per-frame label stream into rare Commands.
//
// It is owned by a single update loop and is not safe for concurrent use.
type Stabilizer struct {
	lanes   []laneState
	shared  *Window
	claimed [numLabels]bool // labels swallowed by exclusive lanes
}

type laneState struct {
	lane   Lane
	window *Window // nil for shared lanes
}

// NewStabilizer validates the lanes and builds their windows.
// Lanes are evaluated in a fixed order regardless of the order given.
func NewStabilizer(lanes []Lane) (*Stabilizer, error) {
	if len(lanes) == 0 {
		return nil, fmt.Errorf("%w: no lanes configured", ErrInvalidLane)
	}

	s := &Stabilizer{}
	seen := make(map[Label]bool, len(lanes))
	sharedCap := 0
	confirming := 0

	for _, l := range lanes {
		if err := l.Validate(); err != nil {
			return nil, err
		}
		if seen[l.Target] {
			return nil, fmt.Errorf("%w: duplicate lane for %s", ErrInvalidLane, l.Target)
		}
		seen[l.Target] = true
		if l.ConfirmsFloor {
			confirming++
		}

		ls := laneState{lane: l}
		if l.Policy == PolicyExclusive {
			ls.window = NewWindow(l.Threshold)
			s.claimed[l.Target] = true
		} else if l.Threshold > sharedCap {
			sharedCap = l.Threshold
		}
		s.lanes = append(s.lanes, ls)
	}

	// Without exactly one confirming lane a selection can never be committed.
	if confirming != 1 {
		return nil, fmt.Errorf("%w: need exactly one floor-confirming lane, got %d", ErrInvalidLane, confirming)
	}

	if sharedCap > 0 {
		s.shared = NewWindow(sharedCap)
	}

	sort.SliceStable(s.lanes, func(i, j int) bool {
		return evaluationRank[s.lanes[i].lane.Target] < evaluationRank[s.lanes[j].lane.Target]
	})

	return s, nil
}

// Update feeds one label and returns the Command it completes, if any.
// At most one Command is returned per call. The lane that fires has its
// window cleared; every other window is left as it was.
func (s *Stabilizer) Update(l Label) (Command, bool) {
	if !l.Valid() {
		l = Neutral
	}

	for _, ls := range s.lanes {
		if ls.window != nil && ls.lane.Target == l {
			ls.window.Push(l)
		}
	}
	if s.shared != nil && !s.claimed[l] {
		s.shared.Push(l)
	}

	for _, ls := range s.lanes {
		if s.count(ls) == ls.lane.Threshold {
			s.windowOf(ls).Clear()
			return Command{Lane: ls.lane}, true
		}
	}

	return Command{}, false
}

// Reset empties every window.
func (s *Stabilizer) Reset() {
	for _, ls := range s.lanes {
		if ls.window != nil {
			ls.window.Clear()
		}
	}
	if s.shared != nil {
		s.shared.Clear()
	}
}

// Progress returns how many qualifying frames the lane for target has seen
// and its threshold. ok is false when no lane targets the label.
func (s *Stabilizer) Progress(target Label) (count, threshold int, ok bool) {
	for _, ls := range s.lanes {
		if ls.lane.Target == target {
			return s.count(ls), ls.lane.Threshold, true
		}
	}
	return 0, 0, false
}

// Lanes returns the configured lanes in evaluation order.
func (s *Stabilizer) Lanes() []Lane {
	out := make([]Lane, len(s.lanes))
	for i, ls := range s.lanes {
		out[i] = ls.lane
	}
	return out
}

func (s *Stabilizer) windowOf(ls laneState) *Window {
	if ls.window != nil {
		return ls.window
	}
	return s.shared
}

// count is the number of hits a lane has toward its threshold. Shared lanes
// only look at the newest Threshold entries so a lane with a short threshold
// still needs an unbroken run.
func (s *Stabilizer) count(ls laneState) int {
	if ls.window != nil {
		return ls.window.Count(ls.lane.Target)
	}
	return s.shared.CountRecent(ls.lane.Target, ls.lane.Threshold)
}
