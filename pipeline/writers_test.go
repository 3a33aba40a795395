package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/Saggygee/ufc-data/models"
)

func sampleRecord() models.OddsRecord {
	return models.OddsRecord{
		Link:         "https://www.bestfightodds.com/events/ufc-310-3341",
		Date:         "12/14/24",
		Event:        "UFC 310: Pantoja vs Asakura",
		Fighter1:     "Alexandre Pantoja",
		Fighter2:     "Kai Asakura",
		Fighter1Odds: 1.57,
		Fighter2Odds: 2.45,
		Result:       "",
		Timestamp:    time.Date(2025, 7, 19, 13, 9, 13, 0, time.UTC),
	}
}

func TestCSVWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "odds.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}

	if err := writer.Write([]models.OddsRecord{sampleRecord()}); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if got := writer.Count(); got != 1 {
		t.Fatalf("count=%d, want 1", got)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d, want 2", len(rows))
	}
	if !reflect.DeepEqual(rows[0], models.Columns()) {
		t.Fatalf("unexpected header: %v", rows[0])
	}

	want := []string{
		"https://www.bestfightodds.com/events/ufc-310-3341",
		"12/14/24",
		"UFC 310: Pantoja vs Asakura",
		"Alexandre Pantoja",
		"Kai Asakura",
		"1.57",
		"2.45",
		"",
		"2025-07-19T13:09:13Z",
	}
	if !reflect.DeepEqual(rows[1], want) {
		t.Fatalf("row = %v, want %v", rows[1], want)
	}
}

func TestCSVWriterEmptyRunKeepsHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "odds.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}
	if err := writer.Write(nil); err != nil {
		t.Fatalf("write empty: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate header-only file: %v", err)
	}
	if got := writer.Count(); got != 0 {
		t.Fatalf("count=%d, want 0", got)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows=%d, want header only", len(rows))
	}
	if !reflect.DeepEqual(rows[0], models.Columns()) {
		t.Fatalf("unexpected header: %v", rows[0])
	}
}

func TestCSVWriterCreatesOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "odds.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat output: %v", err)
	}
}

func TestJSONWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "odds.jsonl")

	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}

	if err := writer.Write([]models.OddsRecord{sampleRecord()}); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close json: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open json: %v", err)
	}
	defer f.Close()

	want := sampleRecord()
	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		var decoded models.OddsRecord
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid json line: %v", err)
		}
		if decoded.Event != want.Event || decoded.Fighter1 != want.Fighter1 || decoded.Fighter1Odds != want.Fighter1Odds {
			t.Fatalf("decoded = %+v, want %+v", decoded, want)
		}
		if !decoded.Timestamp.Equal(want.Timestamp) {
			t.Fatalf("timestamp = %v, want %v", decoded.Timestamp, want.Timestamp)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan json: %v", err)
	}
	if count != 1 {
		t.Fatalf("json lines=%d, want 1", count)
	}
}

func TestDualWriterWrite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "odds.csv")
	jsonPath := filepath.Join(dir, "odds.jsonl")

	writer, err := NewDualWriter(csvPath, jsonPath)
	if err != nil {
		t.Fatalf("create dual writer: %v", err)
	}

	if err := writer.Write([]models.OddsRecord{sampleRecord()}); err != nil {
		t.Fatalf("write dual: %v", err)
	}
	if got := writer.Count(); got != 1 {
		t.Fatalf("count=%d, want 1", got)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close dual: %v", err)
	}

	if info, err := os.Stat(csvPath); err != nil || info.Size() == 0 {
		t.Fatalf("csv file missing or empty")
	}
	if info, err := os.Stat(jsonPath); err != nil || info.Size() == 0 {
		t.Fatalf("json file missing or empty")
	}
}
