// Package root contains the root command for the application.
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/JordanBelfort38/noabo-sub000/internal/config"
	"github.com/JordanBelfort38/noabo-sub000/internal/export"
	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
	"github.com/JordanBelfort38/noabo-sub000/internal/rules"
	"github.com/JordanBelfort38/noabo-sub000/internal/store"
)

// CommonFlags holds the flags shared by multiple commands.
type CommonFlags struct {
	UserID   string
	Database string
	Output   string
}

var (
	// Log is the shared logger instance for commands.
	Log = logrus.New()

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "noabo",
		Short: "Import bank statements and detect recurring subscriptions.",
		Long: `noabo ingests bank statement exports (CSV, OFX, QIF, PDF), normalizes
their transactions, and infers recurring subscriptions from the charge
history.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			cfg := config.GetGlobalConfig()
			Log = config.ConfigureLoggingFromConfig(cfg)
			logging.SetDefault(logging.NewLogrusAdapterFromLogger(Log))

			if cfg.Export.Delimiter != "" {
				export.SetDelimiter([]rune(cfg.Export.Delimiter)[0])
			}
		},
	}

	// SharedFlags are accessible to all commands.
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.UserID, "user", "u", "default", "User the transactions belong to")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Database, "db", "", "Database file (overrides configuration)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
}

// Logger returns the shared logger wrapped in the logging interface.
func Logger() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}

// OpenStore opens the configured database, honoring the --db override.
func OpenStore() *store.Store {
	path := SharedFlags.Database
	if path == "" {
		path = config.GetGlobalConfig().Database.File
	}
	st, err := store.Open(path, Logger())
	if err != nil {
		Log.Fatalf("Failed to open database: %v", err)
	}
	return st
}

// LoadRules loads the merchant and category rule table, falling back to the
// built-in defaults.
func LoadRules() rules.Table {
	table, err := rules.NewStore(config.GetGlobalConfig().Rules.File, Logger()).Load()
	if err != nil {
		Log.Warnf("Failed to load rules, using defaults: %v", err)
		return rules.DefaultTable()
	}
	return table
}
