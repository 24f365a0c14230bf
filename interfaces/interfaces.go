// Package interfaces defines the contracts between the molecule fetch
// service's packages, keeping the scheduler, health checks and storage
// testable in isolation.
package interfaces

import (
	"context"
	"time"

	"github.com/LenkaChandini/PyBioMed/getmol/entities"
)

// StatusStore is the thread-safe store for upstream availability data and
// fetch counters. Probe cycles are guarded by BeginProbe/EndProbe so only
// one runs at a time.
type StatusStore interface {
	GetStatuses() map[entities.Source]entities.SourceStatus
	GetLastProbe() time.Time
	IsProbing() bool
	GetServerStartTime() time.Time

	UpdateStatuses(statuses map[entities.Source]entities.SourceStatus)
	BeginProbe() bool
	EndProbe()

	RecordFetch(source entities.Source, ok bool)
	FetchCounts() (total int64, failed int64)
}

// Prober checks whether one upstream database is answering.
type Prober interface {
	ProbeSource(ctx context.Context, source entities.Source) entities.SourceStatus
}

// Scheduler manages the periodic availability probe.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker reports service health for the /health endpoint.
type HealthChecker interface {
	HealthCheck() (status string, data map[string]any, httpStatus int)
	NextProbe() time.Time
}

// AccessionValidator validates database identifiers before any network
// I/O happens on their behalf.
type AccessionValidator interface {
	ValidateCAS(input string) (string, error)
	ValidateCID(input string) (string, error)
	ValidateDrugBankID(input string) (string, error)
	ValidateKEGGID(input string) (string, error)
	ValidateInput(input string) error
}
