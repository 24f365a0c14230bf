// Package data provides thread-safe storage for upstream availability
// status and fetch counters, with atomic swaps so readers never see a
// half-written probe cycle.
package data

import (
	"sync/atomic"
	"time"

	"github.com/LenkaChandini/PyBioMed/getmol/entities"
	"github.com/LenkaChandini/PyBioMed/interfaces"
	"github.com/LenkaChandini/PyBioMed/logging"
)

// Compile-time check to ensure StatusContainer implements StatusStore
var _ interfaces.StatusStore = (*StatusContainer)(nil)

// StatusContainer holds probe results and counters with atomic pointers.
type StatusContainer struct {
	statuses        atomic.Value // map[entities.Source]entities.SourceStatus
	lastProbe       atomic.Value // time.Time
	serverStartTime atomic.Value // time.Time
	probing         atomic.Bool
	fetchTotal      atomic.Int64
	fetchFailed     atomic.Int64
}

// NewStatusContainer creates a container with empty data and the server
// start time set to now.
func NewStatusContainer() *StatusContainer {
	sc := &StatusContainer{}
	sc.statuses.Store(make(map[entities.Source]entities.SourceStatus))
	sc.lastProbe.Store(time.Time{})
	sc.serverStartTime.Store(time.Now())
	return sc
}

// GetStatuses returns the latest probe result per source.
func (sc *StatusContainer) GetStatuses() map[entities.Source]entities.SourceStatus {
	if v := sc.statuses.Load(); v != nil {
		if statuses, ok := v.(map[entities.Source]entities.SourceStatus); ok {
			return statuses
		}
	}

	logging.Warn("Source status map is empty or invalid")
	return make(map[entities.Source]entities.SourceStatus)
}

// GetLastProbe returns when the last probe cycle finished.
func (sc *StatusContainer) GetLastProbe() time.Time {
	if v := sc.lastProbe.Load(); v != nil {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}

	logging.Warn("Could not get the last probe time")
	return time.Time{}
}

// GetServerStartTime returns when the service came up.
func (sc *StatusContainer) GetServerStartTime() time.Time {
	if v := sc.serverStartTime.Load(); v != nil {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}

// IsProbing reports whether a probe cycle is running.
func (sc *StatusContainer) IsProbing() bool {
	return sc.probing.Load()
}

// UpdateStatuses atomically replaces the status map and stamps the probe
// time.
func (sc *StatusContainer) UpdateStatuses(statuses map[entities.Source]entities.SourceStatus) {
	sc.statuses.Store(statuses)
	sc.lastProbe.Store(time.Now())
}

// BeginProbe marks a probe cycle as started. Returns false when one is
// already running.
func (sc *StatusContainer) BeginProbe() bool {
	return sc.probing.CompareAndSwap(false, true)
}

// EndProbe marks the probe cycle as finished.
func (sc *StatusContainer) EndProbe() {
	sc.probing.Store(false)
}

// RecordFetch counts one fetch attempt against a source.
func (sc *StatusContainer) RecordFetch(source entities.Source, ok bool) {
	sc.fetchTotal.Add(1)
	if !ok {
		sc.fetchFailed.Add(1)
	}
}

// FetchCounts returns the total and failed fetch counts since startup.
func (sc *StatusContainer) FetchCounts() (int64, int64) {
	return sc.fetchTotal.Load(), sc.fetchFailed.Load()
}
