package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dukerupert/chorecal/internal/config"
	"github.com/dukerupert/chorecal/internal/database"
	"github.com/dukerupert/chorecal/internal/logging"
	"github.com/dukerupert/chorecal/internal/store"
)

// app is the state shared by all subcommands, resolved before each runs.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "chorecal",
		Short: "Shared chore calendar with recurring chores",
		Long: `chorecal tracks household or team chores on a monthly calendar.

Recurring chores are stored as templates and expanded into dated
occurrences up to a rolling horizon. Run "chorecal serve" for the
JSON API, or use the other commands to inspect data from a terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.Setup(cfg.LogLevel, cfg.LogColor)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "YAML config file")
	flags.String("storage", config.StorageSQLite, "storage backend: sqlite or file")
	flags.String("db-path", "chorecal.db", "SQLite database path")
	flags.String("data-file", "chorecal.json", "JSON data file path (file storage)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Bool("log-color", false, "colored log output")
	flags.Int("horizon-months", 3, "months ahead to expand open-ended recurring chores")
	for key, name := range map[string]string{
		"storage":        "storage",
		"db_path":        "db-path",
		"data_file":      "data-file",
		"log_level":      "log-level",
		"log_color":      "log-color",
		"horizon_months": "horizon-months",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(
		newServeCmd(a),
		newPreviewCmd(a),
		newMonthCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newBackupCmd(a),
	)
	return root
}

// openStore opens the configured backend. The returned func releases it.
func (a *app) openStore() (*store.Store, func(), error) {
	logger := a.logger.With("component", "store")

	switch a.cfg.Storage {
	case config.StorageFile:
		b, err := store.NewFileBackend(a.cfg.DataFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("using file storage", "path", a.cfg.DataFile)
		return store.New(b, logger), func() {}, nil

	default:
		db, err := database.Open(a.cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		logger.Debug("using sqlite storage", "path", a.cfg.DBPath)
		return store.New(store.NewSQLiteBackend(db), logger), closer(db, logger), nil
	}
}

func closer(db *sql.DB, logger *slog.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Error("close database", "error", err)
		}
	}
}
