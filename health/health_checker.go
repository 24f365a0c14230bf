// Package health reports service health from upstream probe data.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/LenkaChandini/PyBioMed/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store         interfaces.StatusStore
	probeInterval time.Duration
}

// NewHealthChecker creates a health checker over the status store.
func NewHealthChecker(store interfaces.StatusStore, probeInterval time.Duration) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		store:         store,
		probeInterval: probeInterval,
	}
}

// HealthCheck grades the service on probe freshness and upstream
// reachability. A stale probe means the scheduler is wedged; all sources
// down means fetches cannot succeed.
func (h *HealthCheckerImpl) HealthCheck() (string, map[string]any, int) {
	statuses := h.store.GetStatuses()
	lastProbe := h.store.GetLastProbe()
	probing := h.store.IsProbing()
	total, failed := h.store.FetchCounts()

	probeAge := time.Since(lastProbe)

	reachable := 0
	for _, s := range statuses {
		if s.Reachable {
			reachable++
		}
	}

	var status string
	var httpStatus int
	switch {
	case len(statuses) == 0:
		status = "starting"
		httpStatus = http.StatusServiceUnavailable

	case reachable == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case probeAge > 3*h.probeInterval:
		status = "degraded"
		httpStatus = http.StatusOK

	case reachable < len(statuses):
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data := map[string]any{
		"last_probe":        lastProbe.Format(time.RFC3339),
		"probe_age_minutes": math.Round(probeAge.Minutes()*10) / 10,
		"sources_total":     len(statuses),
		"sources_reachable": reachable,
		"is_probing":        probing,
		"fetches_total":     total,
		"fetches_failed":    failed,
		"next_probe":        h.NextProbe().Format(time.RFC3339),
	}

	return status, data, httpStatus
}

// NextProbe returns when the next availability probe is due.
func (h *HealthCheckerImpl) NextProbe() time.Time {
	lastProbe := h.store.GetLastProbe()
	if lastProbe.IsZero() {
		return time.Now()
	}
	return lastProbe.Add(h.probeInterval)
}
