package postgres

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// Open configures a pool without touching the network; connections are
// made on first use.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}
