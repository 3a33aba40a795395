// Command dbsetup creates the odds database schema and imports scraper
// output into it.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Saggygee/ufc-data/config"
	"github.com/Saggygee/ufc-data/database"
	"github.com/joho/godotenv"
)

func main() {
	// A local .env can point SCRAPER_OUTPUT at the scraper's output; absence is fine.
	_ = godotenv.Load()

	defaults := config.DefaultConfig()
	dataDefault := defaults.OutputFile
	if fromEnv, ok := config.EnvString("SCRAPER_OUTPUT"); ok {
		dataDefault = fromEnv
	}

	dbPath := flag.String("db-path", defaults.DatabasePath, "Path to the SQLite database file")
	dataFile := flag.String("data-file", dataDefault, "CSV file to import")
	schemaOnly := flag.Bool("schema-only", false, "Only create the schema, skip the import")
	noBackup := flag.Bool("no-backup", false, "Do not back up an existing database")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	if !*noBackup {
		backupPath, err := database.Backup(*dbPath)
		if err != nil {
			slog.Error("backing up database", slog.Any("error", err))
			os.Exit(1)
		}
		if backupPath != "" {
			slog.Info("backed up existing database", slog.String("path", backupPath))
		}
	}

	slog.Info("creating database schema", slog.String("path", *dbPath))
	db, err := database.Open(*dbPath)
	if err != nil {
		slog.Error("opening database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	imported, skipped := 0, 0
	importedFrom := ""
	if !*schemaOnly {
		if _, err := os.Stat(*dataFile); err != nil {
			slog.Warn("data file not found, skipping import", slog.String("path", *dataFile))
		} else {
			imported, skipped, err = db.ImportCSV(*dataFile)
			if err != nil {
				slog.Error("importing data", slog.Any("error", err))
				os.Exit(1)
			}
			importedFrom = *dataFile
			if skipped > 0 {
				slog.Warn("skipped unparseable rows", slog.Int("rows", skipped))
			}
		}
	}

	total, err := db.RowCount()
	if err != nil {
		slog.Error("counting rows", slog.Any("error", err))
		os.Exit(1)
	}

	separator := strings.Repeat("=", 50)
	fmt.Println("\n" + separator)
	fmt.Println("DATABASE SETUP COMPLETE")
	fmt.Println(separator)
	fmt.Printf("Database:    %s\n", *dbPath)
	if importedFrom != "" {
		fmt.Printf("Data source: %s\n", importedFrom)
		fmt.Printf("Imported:    %d rows (%d skipped)\n", imported, skipped)
	}
	fmt.Printf("Total rows:  %d\n", total)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
