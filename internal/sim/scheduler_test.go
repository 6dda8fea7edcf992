package sim

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSchedule(times []float64) *Simulation {
	s := &Simulation{NumParticles: len(times), Particles: make([]Particle, len(times))}
	for i, t := range times {
		s.Particles[i].Next.Time = t
	}
	s.schedInit()
	return s
}

func TestSchedulerPopsInTimeOrder(t *testing.T) {
	s := newTestSchedule([]float64{5, 1, 3, 2, 4})
	var order []float64
	for s.Len() > 0 {
		i := heap.Pop(s).(int)
		order = append(order, s.Particles[i].Next.Time)
	}
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, order)
}

func TestSchedulerBreaksTiesByIndex(t *testing.T) {
	s := newTestSchedule([]float64{1, 1, 1})
	var order []int
	for s.Len() > 0 {
		order = append(order, heap.Pop(s).(int))
	}
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestSchedulerReinsertNonMinimum(t *testing.T) {
	s := newTestSchedule([]float64{1, 2, 3})
	require.Equal(t, 0, s.PeekMin())

	// Particle 2 (currently last) gets an earlier time than particle 0 at
	// the head and must be moved to the front by a non-minimum reinsert.
	s.Particles[2].Next.Time = 0.5
	s.Reinsert(2, false)
	assert.Equal(t, 2, s.PeekMin())
}

func TestSchedulerReinsertMinimum(t *testing.T) {
	s := newTestSchedule([]float64{1, 2, 3})
	i := s.PeekMin()
	require.Equal(t, 0, i)

	s.Particles[i].Next.Time = 5
	s.Reinsert(i, true)
	assert.Equal(t, 1, s.PeekMin())
}
