package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/dkarlsen/mailterm/internal/api"
	"github.com/dkarlsen/mailterm/internal/app"
	"github.com/dkarlsen/mailterm/internal/export"
	"github.com/dkarlsen/mailterm/internal/model"
	"github.com/dkarlsen/mailterm/internal/store"
)

func main() {
	// A local .env is optional; real config lives in the YAML file and
	// MAILTERM_* environment variables.
	_ = godotenv.Load()

	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot load configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal owns stdout, so logs go to a file.
	logPath := os.Getenv("MAILTERM_LOG_FILE")
	if logPath == "" {
		logPath = "mailterm.log"
	}
	logFile, err := tea.LogToFile(logPath, "mailterm")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	db, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open draft database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	exporter, err := export.NewWriter(cfg.Storage.ExportDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot prepare export directory: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.Server.BaseURL)
	rootModel := app.New(client, db, exporter, cfg)

	p := tea.NewProgram(rootModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
