// Package database provides SQLite persistence for BenchFlow Core.
//
// It wraps database/sql with connection configuration appropriate for
// SQLite (WAL mode, busy timeout, single writer), embedded schema
// migrations, and health checks. Protocol definitions and their
// procedure records are stored here so compiled runs survive restarts.
//
// # Usage
//
//	db, err := database.Open(database.Config{
//	    Path:        cfg.Database.Path,
//	    WALMode:     cfg.Database.WALMode,
//	    BusyTimeout: cfg.Database.BusyTimeout,
//	})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migration files are embedded by the top-level migrations package;
// importing it for side effects registers them:
//
//	import _ "github.com/benchflow/benchflow-core/migrations"
package database
