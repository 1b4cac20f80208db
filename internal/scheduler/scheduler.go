// Package scheduler runs background jobs on a fixed cadence.
package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler manages periodic background jobs.
type Scheduler struct {
	scheduler *gocron.Scheduler
}

func NewScheduler() *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()
	return &Scheduler{scheduler: s}
}

// Start begins running scheduled jobs asynchronously.
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// ScheduleInterval runs job immediately and then at every interval.
// SingletonMode ensures a slow run delays rather than overlaps the
// next one.
func (s *Scheduler) ScheduleInterval(tag string, interval time.Duration, job func()) error {
	_, err := s.scheduler.Every(interval).
		Tag(tag).
		SingletonMode().
		StartImmediately().
		Do(job)
	return err
}
