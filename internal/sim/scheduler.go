package sim

import "container/heap"

// Simulation implements container/heap.Interface directly over its own
// particle slice: `order` holds particle indices ordered by
// Particles[i].Next.Time, and each particle remembers its own slot
// (heapIndex) so Reinsert can Remove and re-Push it in O(log N) instead of
// searching a linear sorted list.

func (s *Simulation) Len() int { return len(s.order) }

func (s *Simulation) Less(i, j int) bool {
	pi, pj := s.order[i], s.order[j]
	ti, tj := s.Particles[pi].Next.Time, s.Particles[pj].Next.Time
	if ti != tj {
		return ti < tj
	}
	// Ties break on particle index for deterministic replay.
	return pi < pj
}

func (s *Simulation) Swap(i, j int) {
	s.order[i], s.order[j] = s.order[j], s.order[i]
	s.Particles[s.order[i]].heapIndex = i
	s.Particles[s.order[j]].heapIndex = j
}

func (s *Simulation) Push(x any) {
	idx := x.(int)
	s.Particles[idx].heapIndex = len(s.order)
	s.order = append(s.order, idx)
}

func (s *Simulation) Pop() any {
	old := s.order
	n := len(old)
	idx := old[n-1]
	s.order = old[:n-1]
	s.Particles[idx].heapIndex = -1
	return idx
}

// schedInit seeds the scheduler with every particle index, ordered by
// their already-computed Next.Time.
func (s *Simulation) schedInit() {
	s.order = make([]int, s.NumParticles)
	for i := range s.order {
		s.order[i] = i
		s.Particles[i].heapIndex = i
	}
	heap.Init(s)
}

// PeekMin returns the particle index with the smallest Next.Time without
// removing it from the schedule.
func (s *Simulation) PeekMin() int {
	return s.order[0]
}

// Reinsert re-homes particle i after its Next fields have been
// recomputed. wasMinimum must be true iff i is still sitting at the head
// of the schedule (the caller has not popped anything else in between).
func (s *Simulation) Reinsert(i int, wasMinimum bool) {
	if wasMinimum {
		heap.Pop(s)
	} else {
		idx := s.Particles[i].heapIndex
		if idx < 0 || idx >= len(s.order) || s.order[idx] != i {
			panic(&InvariantError{Msg: "particle lost from scheduler", Particle: i})
		}
		heap.Remove(s, idx)
	}
	heap.Push(s, i)
}
