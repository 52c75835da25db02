package seed_test

import (
	"testing"
	"time"

	"assetline/internal/domain"
	"assetline/internal/seed"
)

func TestDefaultDataset(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s := seed.Default(now)
	if len(s.Assets) != 5 || len(s.People) != 4 || len(s.Locations) != 4 || len(s.Tasks) != 3 {
		t.Fatalf("collection sizes wrong: %d assets, %d people, %d locations, %d tasks",
			len(s.Assets), len(s.People), len(s.Locations), len(s.Tasks))
	}
	for _, a := range s.Assets {
		loc, ok := s.Location(a.LocationID)
		if !ok {
			t.Fatalf("asset %s references unknown location %s", a.ID, a.LocationID)
		}
		found := false
		for _, id := range loc.AssetIDs {
			if id == a.ID {
				found = true
			}
		}
		if !found {
			t.Fatalf("location %s missing back-reference to %s", loc.ID, a.ID)
		}
		for _, v := range a.Verifications {
			if v.AssetID != a.ID {
				t.Fatalf("record %s attached to wrong asset", v.ID)
			}
		}
	}
	// Tasks are stored newest first; the oldest task must be last.
	if s.Tasks[len(s.Tasks)-1].ID != "TASK-9001" {
		t.Fatalf("task order wrong: %+v", s.Tasks)
	}
}

func TestDefaultDatesAreRelative(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s := seed.Default(now)
	a, ok := s.Asset("AST-1002")
	if !ok {
		t.Fatalf("seed asset missing")
	}
	if a.LastVerified != "2024-05-18" {
		t.Fatalf("lastVerified %s, want 14 days back", a.LastVerified)
	}
	if a.Status != domain.AssetVerified {
		t.Fatalf("status %s", a.Status)
	}
}
