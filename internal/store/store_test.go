package store_test

import (
	"fmt"
	"reflect"
	"testing"

	"assetline/internal/domain"
	"assetline/internal/store"
)

func TestRegisterAssetPrependsAndLinksLocation(t *testing.T) {
	s := store.State{
		Assets: []domain.Asset{{ID: "AST-1"}},
		Locations: []domain.Location{
			{ID: "LOC-1", AssetIDs: []string{"AST-1"}},
			{ID: "LOC-2"},
		},
	}
	next := store.RegisterAsset(s, domain.Asset{ID: "AST-2", LocationID: "LOC-2"})
	if next.Assets[0].ID != "AST-2" {
		t.Fatalf("new asset should be first, got %s", next.Assets[0].ID)
	}
	loc, _ := next.Location("LOC-2")
	if !reflect.DeepEqual(loc.AssetIDs, []string{"AST-2"}) {
		t.Fatalf("location back-reference missing: %v", loc.AssetIDs)
	}

	// Registering the same id again must not duplicate the back-reference.
	again := store.RegisterAsset(next, domain.Asset{ID: "AST-2", LocationID: "LOC-2"})
	loc, _ = again.Location("LOC-2")
	if !reflect.DeepEqual(loc.AssetIDs, []string{"AST-2"}) {
		t.Fatalf("back-reference duplicated: %v", loc.AssetIDs)
	}
}

func TestRegisterAssetLeavesSnapshotUntouched(t *testing.T) {
	s := store.State{
		Locations: []domain.Location{{ID: "LOC-1", AssetIDs: []string{"AST-0"}}},
	}
	before, _ := s.Location("LOC-1")
	_ = store.RegisterAsset(s, domain.Asset{ID: "AST-1", LocationID: "LOC-1"})
	after, _ := s.Location("LOC-1")
	if !reflect.DeepEqual(before.AssetIDs, after.AssetIDs) {
		t.Fatalf("reducer mutated the input snapshot: %v", after.AssetIDs)
	}
}

func TestUpdateAssetUnknownIDIsNoOp(t *testing.T) {
	s := store.State{Assets: []domain.Asset{{ID: "AST-1", Name: "old"}}}
	next := store.UpdateAsset(s, domain.Asset{ID: "AST-9", Name: "ghost"})
	if !reflect.DeepEqual(next.Assets, s.Assets) {
		t.Fatalf("unknown id changed state: %+v", next.Assets)
	}
}

func TestRecordVerificationPrependsHistory(t *testing.T) {
	s := store.State{Assets: []domain.Asset{{
		ID:            "AST-1",
		Status:        domain.AssetPending,
		Verifications: []domain.VerificationRecord{{ID: "VER-1"}},
	}}}
	rec := domain.VerificationRecord{ID: "VER-2", Date: "2024-06-01", Outcome: domain.OutcomePassed}
	next := store.RecordVerification(s, "AST-1", rec, 180)
	a, _ := next.Asset("AST-1")
	if len(a.Verifications) != 2 || a.Verifications[0].ID != "VER-2" {
		t.Fatalf("history not prepended: %+v", a.Verifications)
	}
	if a.Status != domain.AssetVerified || a.LastVerified != "2024-06-01" || a.NextDue != "2024-11-28" {
		t.Fatalf("derivation not applied: %+v", a)
	}
}

func TestRecordVerificationUnknownAssetIsNoOp(t *testing.T) {
	s := store.State{Assets: []domain.Asset{{ID: "AST-1"}}}
	next := store.RecordVerification(s, "AST-9", domain.VerificationRecord{ID: "VER-1"}, 180)
	if !reflect.DeepEqual(next.Assets, s.Assets) {
		t.Fatalf("unknown asset changed state")
	}
}

func TestLogActivityCap(t *testing.T) {
	var s store.State
	for i := 0; i < store.ActivityCap+5; i++ {
		s = store.LogActivity(s, domain.ActivityEntry{ID: fmt.Sprintf("ACT-%d", i)})
	}
	if len(s.Activities) != store.ActivityCap {
		t.Fatalf("log length %d, want %d", len(s.Activities), store.ActivityCap)
	}
	if s.Activities[0].ID != fmt.Sprintf("ACT-%d", store.ActivityCap+4) {
		t.Fatalf("newest entry not first: %s", s.Activities[0].ID)
	}
	if s.Activities[len(s.Activities)-1].ID != "ACT-5" {
		t.Fatalf("oldest entries not evicted: %s", s.Activities[len(s.Activities)-1].ID)
	}
}

func TestSetTaskStatusUnknownIDIsNoOp(t *testing.T) {
	s := store.State{Tasks: []domain.VerificationTask{{ID: "TASK-1", Status: domain.TaskScheduled}}}
	next := store.SetTaskStatus(s, "TASK-9", domain.TaskCompleted)
	if !reflect.DeepEqual(next.Tasks, s.Tasks) {
		t.Fatalf("unknown id changed state")
	}
}

func TestTasksOldestFirst(t *testing.T) {
	s := store.State{Tasks: []domain.VerificationTask{{ID: "TASK-3"}, {ID: "TASK-2"}, {ID: "TASK-1"}}}
	ordered := s.TasksOldestFirst()
	if ordered[0].ID != "TASK-1" || ordered[2].ID != "TASK-3" {
		t.Fatalf("wrong order: %+v", ordered)
	}
}

func TestStoreCommitHook(t *testing.T) {
	st := store.New(store.State{})
	var events []string
	st.OnCommit(func(event string, snap store.State) {
		events = append(events, event)
	})
	st.RegisterAsset(domain.Asset{ID: "AST-1"})
	st.AddTask(domain.VerificationTask{ID: "TASK-1", AssetID: "AST-1"})
	st.SetTaskStatus("TASK-1", domain.TaskCompleted)
	want := []string{"asset.registered", "task.added", "task.status"}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events %v, want %v", events, want)
	}
	if len(st.Snapshot().Assets) != 1 {
		t.Fatalf("transition not committed")
	}
}

func TestSnapshotIsStable(t *testing.T) {
	st := store.New(store.State{Assets: []domain.Asset{{ID: "AST-1", Name: "first"}}})
	snap := st.Snapshot()
	st.UpdateAsset(domain.Asset{ID: "AST-1", Name: "renamed"})
	if snap.Assets[0].Name != "first" {
		t.Fatalf("held snapshot changed under a later transition")
	}
}
