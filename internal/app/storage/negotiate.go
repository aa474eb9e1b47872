package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// requiredTables are the relations the relational backend must expose to be
// considered capable of serving catalog and enrollment data.
var requiredTables = []string{"courses", "lessons", "enrollments", "completed_lessons"}

// Negotiate probes the database once and decides which backend serves
// catalog and enrollment data for the lifetime of the process. A nil pool,
// a probe error, or missing tables all select the local fallback; there is
// no per-call re-detection afterwards.
//
// In the standard startup path migrations have already created every probed
// table, so auto negotiation degrades only when the probe itself fails
// (connection loss, permission errors). The missing-table branch matters for
// deployments pointed at a database the migrator does not manage, and for the
// explicit backend override which bypasses this probe entirely.
func Negotiate(ctx context.Context, pool *pgxpool.Pool, lgr zerolog.Logger) Backend {
	if pool == nil {
		lgr.Warn().Msg("No database pool available, activating local fallback storage")
		return BackendLocal
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, table := range requiredTables {
		var exists bool
		err := pool.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM information_schema.tables
				WHERE table_schema = 'public' AND table_name = $1
			)`, table).Scan(&exists)
		if err != nil {
			lgr.Warn().Err(err).Str("table", table).Msg("Storage capability probe failed, activating local fallback storage")
			return BackendLocal
		}
		if !exists {
			lgr.Warn().Str("table", table).Msg("Required table missing, activating local fallback storage")
			return BackendLocal
		}
	}

	lgr.Info().Msg("Relational storage backend selected")
	return BackendPostgres
}
