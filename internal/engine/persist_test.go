package engine_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"assetline/internal/config"
	"assetline/internal/db"
	"assetline/internal/domain"
	"assetline/internal/engine"
	"assetline/internal/snapshot"
	"assetline/internal/store"
)

func newPersistentEngine(t *testing.T) (engine.Engine, *sql.DB) {
	t.Helper()
	conn, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := snapshot.EnsureSchema(context.Background(), conn); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return engine.New(store.New(store.State{}), conn, config.Default()), conn
}

func addTasks(e engine.Engine, n int) {
	for i := 0; i < n; i++ {
		e.AddTask(domain.VerificationTask{
			ID:      fmt.Sprintf("TASK-%02d", i),
			AssetID: "AST-1",
			DueDate: "2024-07-01",
		})
	}
}

// A rapid burst of transitions followed by a flush must leave the
// final state on disk; an earlier queued write must not overwrite it.
func TestFlushAfterBurstPersistsFinalState(t *testing.T) {
	e, conn := newPersistentEngine(t)
	ctx := context.Background()
	addTasks(e, 20)
	if err := e.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	loaded, err := snapshot.Load(ctx, conn, store.State{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Tasks) != 20 {
		t.Fatalf("persisted %d tasks, want 20", len(loaded.Tasks))
	}
	if loaded.Tasks[0].ID != "TASK-19" {
		t.Fatalf("newest persisted task %s, want TASK-19", loaded.Tasks[0].ID)
	}
}

func TestCommitsPersistWithoutExplicitFlush(t *testing.T) {
	e, conn := newPersistentEngine(t)
	ctx := context.Background()
	addTasks(e, 20)
	deadline := time.Now().Add(5 * time.Second)
	var loaded store.State
	for {
		var err error
		loaded, err = snapshot.Load(ctx, conn, store.State{})
		if err == nil && len(loaded.Tasks) == 20 {
			if loaded.Tasks[0].ID != "TASK-19" {
				t.Fatalf("newest persisted task %s, want TASK-19", loaded.Tasks[0].ID)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("persisted %d of 20 tasks before deadline", len(loaded.Tasks))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestFlushWithoutDatabaseIsNoOp(t *testing.T) {
	e := engine.New(store.New(store.State{}), nil, config.Default())
	if err := e.Flush(context.Background()); err != nil {
		t.Fatalf("flush without db: %v", err)
	}
}
