package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/edgard/catchupbot/internal/config"
	"github.com/edgard/catchupbot/internal/database"
)

type fakeStore struct {
	database.Store

	maintenanceErr error
	checkpointErr  error
	maintenance    int
	checkpoints    int
}

func (f *fakeStore) RunSQLMaintenance(context.Context) error {
	f.maintenance++
	return f.maintenanceErr
}

func (f *fakeStore) CheckpointWAL(context.Context) error {
	f.checkpoints++
	return f.checkpointErr
}

func newDeps(store *fakeStore) TaskDeps {
	return TaskDeps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:  store,
		Config: &config.Config{Database: config.DatabaseConfig{QueryTimeout: time.Second}},
	}
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	registered := RegisterAllTasks(newDeps(&fakeStore{}))
	for _, name := range []string{"sql_maintenance", "wal_checkpoint"} {
		if registered[name] == nil {
			t.Errorf("task %q not registered", name)
		}
	}
	for name := range config.DefaultTasks {
		if registered[name] == nil {
			t.Errorf("default task %q has no implementation", name)
		}
	}
}

func TestTasksCallStore(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	registered := RegisterAllTasks(newDeps(store))

	if err := registered["sql_maintenance"](context.Background()); err != nil {
		t.Fatalf("sql_maintenance error = %v", err)
	}
	if err := registered["wal_checkpoint"](context.Background()); err != nil {
		t.Fatalf("wal_checkpoint error = %v", err)
	}
	if store.maintenance != 1 || store.checkpoints != 1 {
		t.Errorf("maintenance = %d, checkpoints = %d, want 1 each", store.maintenance, store.checkpoints)
	}
}

func TestTasksWrapStoreErrors(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		maintenanceErr: database.ErrStoreUnavailable,
		checkpointErr:  database.ErrStoreUnavailable,
	}
	registered := RegisterAllTasks(newDeps(store))

	for name, task := range registered {
		if err := task(context.Background()); !errors.Is(err, database.ErrStoreUnavailable) {
			t.Errorf("%s error = %v, want ErrStoreUnavailable", name, err)
		}
	}
}

func TestSQLMaintenanceTask(t *testing.T) {
	t.Parallel()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name      string
		ctx       context.Context
		storeErr  error
		wantCalls int
		wantErr   error
		wantText  string
	}{
		{name: "success", ctx: context.Background(), wantCalls: 1},
		{
			name:      "store failure",
			ctx:       context.Background(),
			storeErr:  database.ErrStoreUnavailable,
			wantCalls: 1,
			wantErr:   database.ErrStoreUnavailable,
			wantText:  "optimize and vacuum: ",
		},
		{
			name:     "context already done",
			ctx:      cancelled,
			wantErr:  context.Canceled,
			wantText: "optimize and vacuum skipped",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := &fakeStore{maintenanceErr: tt.storeErr}
			err := newSQLMaintenanceTask(newDeps(store))(tt.ctx)

			if store.maintenance != tt.wantCalls {
				t.Errorf("store called %d times, want %d", store.maintenance, tt.wantCalls)
			}
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("task error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("task error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("task error = %q, want it to mention %q", err, tt.wantText)
			}
		})
	}
}
