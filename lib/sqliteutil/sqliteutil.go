package sqliteutil

import (
	"database/sql"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

func isRemote(path string) bool {
	return strings.HasPrefix(path, "libsql://") ||
		strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "wss://")
}

// opens a sqlite database (or a remote libsql one when given a
// libsql:// url) and applies the given schema, which must be
// written so it is safe to run more than once.
func OpenDB(schema, path string) (*sql.DB, error) {
	driver := "sqlite"
	if isRemote(path) {
		driver = "libsql"
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		// see this stackoverflow post for information on why the following
		// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
		db.SetMaxOpenConns(1)
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
