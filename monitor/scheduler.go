package monitor

import (
	"context"
	"log"
	"sync"
	"time"
)

// Scheduler drives the monitor's two periodic activities: the check cycle at
// a fixed interval (first run immediate) and the report cycle at a
// configured wall-clock time of day.  The two loops run independently and
// may overlap with each other, but each loop runs its own cycles strictly
// one at a time; a cycle that outlasts its interval delays or skips the next
// firing rather than queueing a concurrent one.
type Scheduler struct {
	Monitor *Monitor

	CheckInterval time.Duration

	ReportHour     int
	ReportMinute   int
	ReportInterval time.Duration

	Logger *log.Logger
}

func (s *Scheduler) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

// Run starts both loops and blocks until ctx is cancelled and any running
// cycles have finished.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger().Printf("Monitoring started. Checking hosts every %v, reporting daily at %02d:%02d",
		s.CheckInterval, s.ReportHour, s.ReportMinute)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		s.runCheckLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		s.runReportLoop(ctx)
	}()

	wg.Wait()
}

func (s *Scheduler) runCheckLoop(ctx context.Context) {
	// first cycle fires immediately at startup
	s.Monitor.CheckCycle(ctx)

	ticker := time.NewTicker(s.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Monitor.CheckCycle(ctx)
		}
	}
}

func (s *Scheduler) runReportLoop(ctx context.Context) {
	delay := NextReportDelay(time.Now(), s.ReportHour, s.ReportMinute)
	s.logger().Printf("First report in %v", delay.Round(time.Second))

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	s.Monitor.ReportCycle(ctx)

	ticker := time.NewTicker(s.ReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Monitor.ReportCycle(ctx)
		}
	}
}

// NextReportDelay returns the time remaining from now until the next
// occurrence of the given wall-clock time: today if it has not yet passed
// (an exact-instant match fires now), otherwise tomorrow.
func NextReportDelay(now time.Time, hour, minute int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if next.Before(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
