package scheduler

import (
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler drives time-based triggers off a cron ticker
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates a scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("SCHEDULER: Cron scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("SCHEDULER: Cron scheduler stopped")
}

// AddJob adds a cron job and returns the entry ID
func (s *Scheduler) AddJob(spec string, fn func()) (cron.EntryID, error) {
	return s.cron.AddFunc(spec, fn)
}
