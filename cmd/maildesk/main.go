package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/app"
	"github.com/nhle/maildesk/internal/config"
	"github.com/nhle/maildesk/internal/credential"
	"github.com/nhle/maildesk/internal/session"
	"github.com/nhle/maildesk/internal/store"
)

// cachedPagesKept is how long an unvisited cached page survives.
const cachedPagesKept = 30 * 24 * time.Hour

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "maildesk:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx := context.Background()

	if err := config.LoadEnvFiles(".env", filepath.Join(config.Dir(), ".env")); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(ctx); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.Log.File, "maildesk")
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logFile.Close()

	var creds *credential.Store
	if c, err := credential.Open(config.Dir()); err != nil {
		log.Printf("keyring unavailable, session will not persist: %v", err)
	} else {
		creds = c
	}

	sess := session.New(creds)
	if err := sess.Restore(); err != nil && !errors.Is(err, session.ErrNoSession) {
		log.Printf("restoring session: %v", err)
	}

	client := api.NewClient(cfg.API.BaseURL, sess, cfg.Timeout())

	// The cache is optional: without it the console only shows live data.
	var st store.Store
	if err := os.MkdirAll(filepath.Dir(cfg.Cache.Path), 0o755); err != nil {
		log.Printf("creating cache directory: %v", err)
	}
	if db, err := store.NewSQLiteStore(cfg.Cache.Path); err != nil {
		log.Printf("opening cache %s: %v", cfg.Cache.Path, err)
	} else {
		defer db.Close()
		if n, err := db.PrunePages(ctx, time.Now().Add(-cachedPagesKept)); err != nil {
			log.Printf("pruning cache: %v", err)
		} else if n > 0 {
			log.Printf("pruned %d cached page(s)", n)
		}
		st = db
	}

	units := app.NewUnits(client, sess, st, cfg)
	p := tea.NewProgram(app.New(app.Options{
		Config:     cfg,
		ConfigPath: configPath,
		Units:      units,
	}), tea.WithAltScreen())

	_, err = p.Run()
	return err
}
