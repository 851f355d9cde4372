package loop_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tomz197/invaders/internal/loop"
)

func TestSchedulerRunsDueTasksInOrder(t *testing.T) {
	var s loop.Scheduler
	var order []string

	s.After(0, 300*time.Millisecond, func() { order = append(order, "c") })
	s.After(0, 100*time.Millisecond, func() { order = append(order, "a") })
	s.After(0, 100*time.Millisecond, func() { order = append(order, "b") })
	s.After(0, time.Second, func() { order = append(order, "late") })

	assert.Zero(t, s.Run(50*time.Millisecond))
	assert.Empty(t, order)

	assert.Equal(t, 3, s.Run(500*time.Millisecond))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 1, s.Pending())
}

func TestSchedulerCancel(t *testing.T) {
	var s loop.Scheduler
	ran := false

	task := s.After(0, 10*time.Millisecond, func() { ran = true })
	task.Cancel()
	task.Cancel()

	assert.Zero(t, s.Run(time.Second))
	assert.False(t, ran)

	var nilTask *loop.Task
	assert.NotPanics(t, nilTask.Cancel)
}

func TestSchedulerResetDropsOlderGenerations(t *testing.T) {
	var s loop.Scheduler
	ran := 0

	s.After(0, 10*time.Millisecond, func() { ran++ })
	gen := s.Generation()
	s.Reset()

	assert.NotEqual(t, gen, s.Generation())
	assert.Zero(t, s.Pending())
	assert.Zero(t, s.Run(time.Second))
	assert.Zero(t, ran)

	s.After(time.Second, 10*time.Millisecond, func() { ran++ })
	assert.Equal(t, 1, s.Run(2*time.Second))
	assert.Equal(t, 1, ran)
}

func TestSchedulerResetInsideTask(t *testing.T) {
	var s loop.Scheduler
	second := false

	s.After(0, 10*time.Millisecond, func() { s.Reset() })
	s.After(0, 20*time.Millisecond, func() { second = true })

	assert.Equal(t, 1, s.Run(time.Second))
	assert.False(t, second, "tasks collected before the reset must not run")
}

func TestSchedulerTaskScheduledDuringRunWaits(t *testing.T) {
	var s loop.Scheduler
	nested := false

	s.After(0, 0, func() {
		s.After(0, 0, func() { nested = true })
	})

	assert.Equal(t, 1, s.Run(0))
	assert.False(t, nested)
	assert.Equal(t, 1, s.Run(0))
	assert.True(t, nested)
}

func TestSchedulerTaskRunsOnce(t *testing.T) {
	var s loop.Scheduler
	n := 0
	s.After(0, 0, func() { n++ })

	s.Run(time.Second)
	s.Run(2 * time.Second)
	assert.Equal(t, 1, n)
}
