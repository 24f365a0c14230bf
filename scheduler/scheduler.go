// Package scheduler runs the periodic upstream availability probe and a
// staleness watchdog for the molecule fetch service.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/LenkaChandini/PyBioMed/getmol/entities"
	"github.com/LenkaChandini/PyBioMed/interfaces"
	"github.com/LenkaChandini/PyBioMed/logging"
	"github.com/LenkaChandini/PyBioMed/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler probes each upstream database on an interval using dependency
// injection for the prober and the status store.
type Scheduler struct {
	store        interfaces.StatusStore
	prober       interfaces.Prober
	scheduler    *gocron.Scheduler
	interval     time.Duration
	probeTimeout time.Duration
	watchdogStop chan struct{}
}

// NewScheduler creates a scheduler with injected dependencies.
func NewScheduler(store interfaces.StatusStore, prober interfaces.Prober, interval time.Duration) *Scheduler {
	return &Scheduler{
		store:        store,
		prober:       prober,
		scheduler:    gocron.NewScheduler(time.Local),
		interval:     interval,
		probeTimeout: 30 * time.Second,
		watchdogStop: make(chan struct{}),
	}
}

// Start runs an initial probe cycle, schedules the recurring one and
// starts the staleness watchdog.
func (s *Scheduler) Start() error {
	// Initial probe so /sources is populated before the first tick
	s.probeAll()

	_, err := s.scheduler.Every(s.interval).Do(s.probeAll)
	if err != nil {
		logging.Error("Failed to schedule source probes", "error", err)
		return fmt.Errorf("failed to schedule source probes: %w", err)
	}

	s.scheduler.StartAsync()
	s.startWatchdog()

	return nil
}

// Stop stops the scheduler and the watchdog.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	close(s.watchdogStop)
}

// probeAll checks every source in turn and swaps the result map in one
// atomic update. Sources are probed sequentially on purpose: the probe is
// a courtesy call, not a load test.
func (s *Scheduler) probeAll() {
	if !s.store.BeginProbe() {
		logging.Info("Probe already in progress, skipping...")
		return
	}
	defer s.store.EndProbe()

	start := time.Now()
	statuses := make(map[entities.Source]entities.SourceStatus)

	for _, source := range entities.Sources() {
		ctx, cancel := context.WithTimeout(context.Background(), s.probeTimeout)
		status := s.prober.ProbeSource(ctx, source)
		cancel()

		statuses[source] = status

		gauge := 0.0
		if status.Reachable {
			gauge = 1.0
		}
		metrics.SourceReachable.WithLabelValues(string(source)).Set(gauge)

		if !status.Reachable {
			logging.Warn("Source unreachable", "source", source, "error", status.Error)
		}
	}

	s.store.UpdateStatuses(statuses)
	logging.Info("Source probe completed", "duration", time.Since(start).String(), "sources", len(statuses))
}

// startWatchdog warns when probes stop landing, which usually means the
// scheduler goroutine died with the job.
func (s *Scheduler) startWatchdog() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.watchdogStop:
				return
			case <-ticker.C:
				lastProbe := s.store.GetLastProbe()
				if time.Since(lastProbe) > 3*s.interval {
					logging.Warn("Sources haven't been probed recently",
						"last_probe", lastProbe.Format(time.RFC3339),
						"interval", s.interval.String())
				}
			}
		}
	}()
}
