package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSQLMaintenanceTask refreshes planner statistics with PRAGMA optimize and
// then compacts the database file with VACUUM. A run whose context is already
// done never touches the store.
func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			log.WarnContext(ctx, "Skipping optimize and vacuum", "error", err)
			return fmt.Errorf("optimize and vacuum skipped: %w", err)
		}

		log.InfoContext(ctx, "Running PRAGMA optimize and VACUUM")
		start := time.Now()
		err := deps.Store.RunSQLMaintenance(ctx)
		elapsed := time.Since(start)
		if err != nil {
			log.ErrorContext(ctx, "Optimize and vacuum failed", "error", err, "duration", elapsed)
			return fmt.Errorf("optimize and vacuum: %w", err)
		}

		log.InfoContext(ctx, "Database optimized and vacuumed", "duration", elapsed)
		return nil
	}
}
