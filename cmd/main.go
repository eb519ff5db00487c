package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/SoundCheckApp/soundcheck/internal/auth"
	"github.com/SoundCheckApp/soundcheck/internal/credentials"
	"github.com/SoundCheckApp/soundcheck/internal/provider"
	"github.com/SoundCheckApp/soundcheck/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	// Local storage is best effort: when the database cannot be opened the
	// credential store degrades to "nothing remembered" and the provider
	// session lives in memory only.
	var kv credentials.KeyValueStore = &credentials.NullStore{}
	var sessionStore provider.SessionStore = &provider.MemorySessionStore{}

	if db, err := openDatabase(config); err != nil {
		logger.Warn("local storage unavailable", "error", err)
	} else {
		defer db.Close()
		store := credentials.NewSQLiteStore(db)
		kv = store
		sessionStore = provider.NewKVSessionStore(store)
	}

	providerClient := provider.NewClient(config.Provider.URL, config.Provider.AnonKey, provider.Options{
		Store:  sessionStore,
		Logger: logger,
	})
	authClient := auth.NewClient(providerClient, config.Provider.ResetRedirect, logger)
	credStore := credentials.NewStore(kv, logger)

	runner := NewRunner(RunnerOpts{
		Config:      config,
		Auth:        authClient,
		Credentials: credStore,
		Logger:      logger,
	})

	app := &cli.Command{
		Name:     "soundcheck",
		Usage:    "SoundCheck account sign-in and management",
		Version:  "0.1.0",
		Commands: runner.register(),
		Action:   runner.TUI,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// openDatabase opens the configured sqlite database and applies migrations.
func openDatabase(config *shared.Config) (*sql.DB, error) {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
