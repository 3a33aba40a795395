package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCSV = `link,date,event,fighter1,fighter2,fighter1_odds,fighter2_odds,result,timestamp
https://odds.test/events/ufc-310,12/14/24,UFC 310: Pantoja vs Asakura,Alexandre Pantoja,Kai Asakura,1.57,2.45,,2025-07-19T13:09:13Z
https://odds.test/events/ufc-310,12/14/24,UFC 310: Pantoja vs Asakura,Shavkat Rakhmonov,Ian Machado Garry,1.36,3.20,,2025-07-19T13:09:13Z
`

func openTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "odds.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func writeTestCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "odds.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestOpenCreatesSchema(t *testing.T) {
	db := openTestDatabase(t)

	count, err := db.RowCount()
	if err != nil {
		t.Fatalf("row count: %v", err)
	}
	if count != 0 {
		t.Fatalf("count=%d, want 0", count)
	}
}

func TestOpenAppliesConnectionPragmas(t *testing.T) {
	db := openTestDatabase(t)

	var journalMode string
	if err := db.db.QueryRow(`PRAGMA journal_mode`).Scan(&journalMode); err != nil {
		t.Fatalf("journal mode: %v", err)
	}
	if journalMode != "wal" {
		t.Fatalf("journal_mode=%q, want wal", journalMode)
	}

	var busyTimeout int
	if err := db.db.QueryRow(`PRAGMA busy_timeout`).Scan(&busyTimeout); err != nil {
		t.Fatalf("busy timeout: %v", err)
	}
	if busyTimeout != 5000 {
		t.Fatalf("busy_timeout=%d, want 5000", busyTimeout)
	}
}

func TestImportCSV(t *testing.T) {
	db := openTestDatabase(t)
	path := writeTestCSV(t, testCSV)

	imported, skipped, err := db.ImportCSV(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != 2 || skipped != 0 {
		t.Fatalf("imported=%d skipped=%d, want 2/0", imported, skipped)
	}

	count, err := db.RowCount()
	if err != nil {
		t.Fatalf("row count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count=%d, want 2", count)
	}

	var fighter1 string
	var odds1 float64
	row := db.db.QueryRow(`SELECT fighter1, fighter1_odds FROM odds ORDER BY id LIMIT 1`)
	if err := row.Scan(&fighter1, &odds1); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if fighter1 != "Alexandre Pantoja" || odds1 != 1.57 {
		t.Fatalf("row = %q/%v", fighter1, odds1)
	}
}

func TestImportCSVSkipsMalformedRows(t *testing.T) {
	content := testCSV +
		"https://odds.test/events/ufc-311,1/18/25,UFC 311,Islam Makhachev,Arman Tsarukyan,not-a-number,1.80,,2025-07-19T13:09:13Z\n"
	db := openTestDatabase(t)
	path := writeTestCSV(t, content)

	imported, skipped, err := db.ImportCSV(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != 2 || skipped != 1 {
		t.Fatalf("imported=%d skipped=%d, want 2/1", imported, skipped)
	}
}

func TestImportCSVSkipsBadTimestampRows(t *testing.T) {
	content := testCSV +
		"https://odds.test/events/ufc-311,1/18/25,UFC 311,Islam Makhachev,Arman Tsarukyan,1.45,2.80,,yesterday\n"
	db := openTestDatabase(t)
	path := writeTestCSV(t, content)

	imported, skipped, err := db.ImportCSV(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != 2 || skipped != 1 {
		t.Fatalf("imported=%d skipped=%d, want 2/1", imported, skipped)
	}
}

func TestImportCSVSkipsShortRows(t *testing.T) {
	content := testCSV + "https://odds.test/events/ufc-311,only,three\n"
	db := openTestDatabase(t)
	path := writeTestCSV(t, content)

	imported, skipped, err := db.ImportCSV(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != 2 || skipped != 1 {
		t.Fatalf("imported=%d skipped=%d, want 2/1", imported, skipped)
	}
}

func TestImportCSVRejectsUnknownHeader(t *testing.T) {
	db := openTestDatabase(t)
	path := writeTestCSV(t, "a,b,c\n1,2,3\n")

	if _, _, err := db.ImportCSV(path); err == nil {
		t.Fatalf("expected header error")
	}
}

func TestImportCSVMissingFile(t *testing.T) {
	db := openTestDatabase(t)

	if _, _, err := db.ImportCSV(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatalf("expected error for missing data file")
	}
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "odds.db")
	if err := os.WriteFile(path, []byte("database bytes"), 0o644); err != nil {
		t.Fatalf("write db file: %v", err)
	}

	backupPath, err := Backup(path)
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if !strings.HasPrefix(backupPath, path+".backup-") {
		t.Fatalf("backup path = %q", backupPath)
	}
	data, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(data) != "database bytes" {
		t.Fatalf("backup content = %q", data)
	}
}

func TestBackupMissingDatabase(t *testing.T) {
	backupPath, err := Backup(filepath.Join(t.TempDir(), "absent.db"))
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if backupPath != "" {
		t.Fatalf("backup path = %q, want empty", backupPath)
	}
}
