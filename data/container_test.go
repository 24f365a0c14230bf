package data

import (
	"sync"
	"testing"
	"time"

	"github.com/LenkaChandini/PyBioMed/getmol/entities"
)

func TestNewStatusContainerDefaults(t *testing.T) {
	sc := NewStatusContainer()

	if got := sc.GetStatuses(); len(got) != 0 {
		t.Errorf("new container should have no statuses, got %d", len(got))
	}
	if !sc.GetLastProbe().IsZero() {
		t.Error("new container should have a zero last probe time")
	}
	if sc.GetServerStartTime().IsZero() {
		t.Error("server start time should be set")
	}
	if sc.IsProbing() {
		t.Error("new container should not be probing")
	}

	total, failed := sc.FetchCounts()
	if total != 0 || failed != 0 {
		t.Errorf("new container fetch counts = %d/%d, want 0/0", total, failed)
	}
}

func TestUpdateStatuses(t *testing.T) {
	sc := NewStatusContainer()

	statuses := map[entities.Source]entities.SourceStatus{
		entities.SourcePubChem: {Source: entities.SourcePubChem, Reachable: true, StatusCode: 200},
		entities.SourceKEGG:    {Source: entities.SourceKEGG, Reachable: false, Error: "timeout"},
	}

	before := time.Now()
	sc.UpdateStatuses(statuses)

	got := sc.GetStatuses()
	if len(got) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(got))
	}
	if !got[entities.SourcePubChem].Reachable {
		t.Error("pubchem should be reachable")
	}
	if got[entities.SourceKEGG].Error != "timeout" {
		t.Errorf("kegg error = %q, want timeout", got[entities.SourceKEGG].Error)
	}
	if sc.GetLastProbe().Before(before) {
		t.Error("last probe should be stamped by UpdateStatuses")
	}
}

func TestBeginProbeGuard(t *testing.T) {
	sc := NewStatusContainer()

	if !sc.BeginProbe() {
		t.Fatal("first BeginProbe should succeed")
	}
	if sc.BeginProbe() {
		t.Error("second BeginProbe should fail while a cycle is running")
	}
	if !sc.IsProbing() {
		t.Error("IsProbing should report true")
	}

	sc.EndProbe()
	if sc.IsProbing() {
		t.Error("IsProbing should report false after EndProbe")
	}
	if !sc.BeginProbe() {
		t.Error("BeginProbe should succeed again after EndProbe")
	}
}

func TestRecordFetchCounts(t *testing.T) {
	sc := NewStatusContainer()

	sc.RecordFetch(entities.SourcePubChem, true)
	sc.RecordFetch(entities.SourcePubChem, false)
	sc.RecordFetch(entities.SourceKEGG, true)

	total, failed := sc.FetchCounts()
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
}

func TestConcurrentAccess(t *testing.T) {
	sc := NewStatusContainer()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sc.UpdateStatuses(map[entities.Source]entities.SourceStatus{
				entities.SourceCAS: {Source: entities.SourceCAS, Reachable: true},
			})
			sc.RecordFetch(entities.SourceCAS, true)
		}()
		go func() {
			defer wg.Done()
			_ = sc.GetStatuses()
			_, _ = sc.FetchCounts()
			_ = sc.GetLastProbe()
		}()
	}
	wg.Wait()

	total, _ := sc.FetchCounts()
	if total != 50 {
		t.Errorf("total = %d, want 50", total)
	}
}
