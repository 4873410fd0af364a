package main

import (
	"fmt"
	"os"

	"scribe/config"
	"scribe/internal/cli"
	"scribe/internal/db"
	"scribe/internal/output"
)

func main() {
	if err := run(); err != nil {
		output.NewFormatter(os.Stderr).Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		return fmt.Errorf("preparing data dirs: %w", err)
	}

	store, err := db.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	deps := &cli.Dependencies{
		Store:  store,
		Config: cfg,
	}
	return cli.NewRootCmd(deps).Execute()
}
