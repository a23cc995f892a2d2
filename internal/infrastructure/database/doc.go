// Package database provides SQLite persistence for PlayTrack Core.
//
// It wraps database/sql with lifecycle management, health checks, and an
// embedded-migration runner. The session store is the only shared mutable
// resource in the system; SQLite is configured with a single writer
// connection and WAL mode so the reporting API can read concurrently.
//
// # Usage
//
//	db, err := database.Open(ctx, database.Config{
//	    Path:        cfg.Database.Path,
//	    WALMode:     true,
//	    BusyTimeout: 5,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files live in the top-level migrations package and are
// compiled into the binary via go:embed.
package database
