// Package database persists scraped odds in a local SQLite file.
package database

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/Saggygee/ufc-data/models"
	_ "modernc.org/sqlite" // CGO-free SQLite
)

// Database wraps the SQLite handle used by the setup tool.
type Database struct {
	db *sql.DB
}

// Open opens or creates the odds database and ensures the schema exists.
func Open(databasePath string) (*Database, error) {
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", databasePath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Database{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS odds(
	  id            INTEGER PRIMARY KEY AUTOINCREMENT,
	  link          TEXT NOT NULL,
	  date          TEXT,
	  event         TEXT NOT NULL,
	  fighter1      TEXT NOT NULL,
	  fighter2      TEXT NOT NULL,
	  fighter1_odds REAL NOT NULL,
	  fighter2_odds REAL NOT NULL,
	  result        TEXT,
	  timestamp     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_odds_event     ON odds(event);
	CREATE INDEX IF NOT EXISTS idx_odds_timestamp ON odds(timestamp);
	`)
	if err != nil {
		return fmt.Errorf("create database tables: %w", err)
	}
	return nil
}

// Close releases the underlying handle.
func (d *Database) Close() error {
	return d.db.Close()
}

// Backup copies an existing database file aside before it is touched. It
// returns the backup path, or an empty string when there was nothing to
// back up.
func Backup(databasePath string) (string, error) {
	src, err := os.Open(databasePath)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open database for backup: %w", err)
	}
	defer src.Close()

	backupPath := fmt.Sprintf("%s.backup-%s", databasePath, time.Now().Format("20060102-150405"))
	dst, err := os.Create(backupPath)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy database: %w", err)
	}
	return backupPath, nil
}

// ImportCSV loads scraper output into the odds table. Rows that cannot be
// parsed are skipped and counted rather than aborting the import.
func (d *Database) ImportCSV(csvPath string) (imported, skipped int, err error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return 0, 0, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read csv header: %w", err)
	}
	if !slices.Equal(header, models.Columns()) {
		return 0, 0, fmt.Errorf("unexpected csv header: %v", header)
	}

	transaction, err := d.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("begin transaction: %w", err)
	}
	statement, err := transaction.Prepare(`INSERT INTO odds(link, date, event, fighter1, fighter2, fighter1_odds, fighter2_odds, result, timestamp) VALUES(?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		_ = transaction.Rollback()
		return 0, 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer statement.Close()

	for {
		row, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			var parseErr *csv.ParseError
			if errors.As(readErr, &parseErr) {
				skipped++
				continue
			}
			_ = transaction.Rollback()
			return 0, 0, fmt.Errorf("read csv row: %w", readErr)
		}

		odds1, err1 := strconv.ParseFloat(row[5], 64)
		odds2, err2 := strconv.ParseFloat(row[6], 64)
		if err1 != nil || err2 != nil {
			skipped++
			continue
		}
		if _, err := time.Parse(time.RFC3339, row[8]); err != nil {
			skipped++
			continue
		}

		if _, err := statement.Exec(row[0], row[1], row[2], row[3], row[4], odds1, odds2, row[7], row[8]); err != nil {
			_ = transaction.Rollback()
			return 0, 0, fmt.Errorf("insert row: %w", err)
		}
		imported++
	}

	if err := transaction.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit transaction: %w", err)
	}
	return imported, skipped, nil
}

// RowCount reports how many odds rows the database holds.
func (d *Database) RowCount() (int, error) {
	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM odds`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return count, nil
}
