// ABOUTME: Root Cobra command and global state
// ABOUTME: Loads config, sets up logging, and opens the configured storage backend

package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harper/trackedit/internal/config"
	"github.com/harper/trackedit/internal/edit"
	"github.com/harper/trackedit/internal/models"
	"github.com/harper/trackedit/internal/storage"
)

var (
	cfg    *config.Config
	repo   storage.Repository
	svc    *edit.Service
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "trackedit"})
)

var rootCmd = &cobra.Command{
	Use:   "trackedit",
	Short: "Edit GPS activities lap by lap",
	Long: `
████████╗██████╗  █████╗  ██████╗██╗  ██╗███████╗██████╗ ██╗████████╗
╚══██╔══╝██╔══██╗██╔══██╗██╔════╝██║ ██╔╝██╔════╝██╔══██╗██║╚══██╔══╝
   ██║   ██████╔╝███████║██║     █████╔╝ █████╗  ██║  ██║██║   ██║
   ██║   ██╔══██╗██╔══██║██║     ██╔═██╗ ██╔══╝  ██║  ██║██║   ██║
   ██║   ██║  ██║██║  ██║╚██████╗██║  ██╗███████╗██████╔╝██║   ██║
   ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝╚══════╝╚═════╝ ╚═╝   ╚═╝

      Import GPX and TCX activities, then trim, split, and join laps

Examples:
  trackedit import morning-run.gpx
  trackedit list
  trackedit show 3f2a --points
  trackedit split 3f2a --lat 43.36029 --lng -5.84476 --time 1714557600000
  trackedit export 3f2a --format geojson -o run.geojson`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level, err := cfg.GetLogLevel()
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		logger.SetLevel(level)

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		svc = edit.NewService(repo, cfg.ElevationLookup(logger), logger)
		logger.Debug("storage opened", "backend", cfg.GetBackend())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			return repo.Close()
		}
		return nil
	},
}

// resolveID turns a full ID or unique prefix into an activity ID.
func resolveID(ref string) (uuid.UUID, error) {
	id, err := svc.Resolve(ref)
	if err != nil {
		return uuid.Nil, fmt.Errorf("activity '%s': %w", ref, err)
	}
	return id, nil
}

func loadActivity(ref string) (*models.Activity, error) {
	id, err := resolveID(ref)
	if err != nil {
		return nil, err
	}
	return svc.Get(id)
}
