package firmware

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Scheduler runs the periodic tasks on their own goroutines.
//
// Jobs run in singleton mode: a firing that arrives while the previous one is
// still running is skipped rather than queued, so a task never overlaps itself.
type Scheduler struct {
	scheduler gocron.Scheduler
	log       *zap.SugaredLogger
}

// NewScheduler creates a scheduler timed by clk. A nil clk uses the real clock.
func NewScheduler(clk clockwork.Clock, log *zap.SugaredLogger) (*Scheduler, error) {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s, err := gocron.NewScheduler(gocron.WithClock(clk))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, log: log}, nil
}

// Every schedules task to run once per interval, first run one interval from
// start.
func (s *Scheduler) Every(name string, interval time.Duration, task func()) error {
	if interval <= 0 {
		return fmt.Errorf("schedule %s: interval must be positive, got %v", name, interval)
	}
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.log.Debugf("scheduled %s every %v", name, interval)
	return nil
}

// ScheduleTick schedules the core's tick task.
func (s *Scheduler) ScheduleTick(c *Core, interval time.Duration) error {
	return s.Every("tick", interval, c.Tick)
}

// Jobs returns the names of the scheduled jobs.
func (s *Scheduler) Jobs() []string {
	var names []string
	for _, j := range s.scheduler.Jobs() {
		names = append(names, j.Name())
	}
	return names
}

// Start begins running jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return nil
}
