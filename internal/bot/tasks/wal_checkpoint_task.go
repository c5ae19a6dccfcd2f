package tasks

import (
	"context"
	"fmt"
)

// newWALCheckpointTask keeps the write-ahead log from growing between
// maintenance runs.
func newWALCheckpointTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "wal_checkpoint")

	return func(ctx context.Context) error {
		timeout := deps.Config.Database.QueryTimeout
		if timeout <= 0 {
			timeout = defaultTaskTimeout
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := deps.Store.CheckpointWAL(ctx); err != nil {
			log.ErrorContext(ctx, "WAL checkpoint failed", "error", err)
			return fmt.Errorf("wal checkpoint failed: %w", err)
		}

		log.DebugContext(ctx, "WAL checkpoint completed")
		return nil
	}
}
