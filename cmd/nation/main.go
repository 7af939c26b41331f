package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/nation-builder/internal/config"
	"github.com/napolitain/nation-builder/internal/game"
	"github.com/napolitain/nation-builder/internal/loader"
	"github.com/napolitain/nation-builder/internal/metrics"
	"github.com/napolitain/nation-builder/internal/persistence"
)

var (
	dataDir    string
	saveDriver string
	saveDir    string
	sqlitePath string
	quiet      bool

	settings config.Settings
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nation",
		Short: "Republic nation builder",
		Long: `An incremental nation builder: found institutions, adopt rights and pass laws
while democracy points, stability, reputation and influence accrue over time.

Settings come from NATION_* environment variables; flags override them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", "", "Path to data directory (default $NATION_DATA_DIR or data)")
	rootCmd.PersistentFlags().StringVar(&saveDriver, "save-driver", "", "Save backend: memory, fs, sqlite, postgres or s3")
	rootCmd.PersistentFlags().StringVar(&saveDir, "save-dir", "", "Directory for the fs save backend")
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite", "", "Database file for the sqlite save backend")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	rootCmd.AddCommand(
		newServeCmd(),
		newSimulateCmd(),
		newStatusCmd(),
		newCostsCmd(),
		newBuyCmd(),
		newElectCmd(),
		newTutorialCmd(),
		newEventsCmd(),
		newAchievementsCmd(),
		newResetCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup parses the environment, applies flag overrides and installs the logger
func setup(cmd *cobra.Command) error {
	var err error
	settings, err = config.Load()
	if err != nil {
		return err
	}

	if dataDir != "" {
		settings.DataDir = dataDir
	}
	if saveDriver != "" {
		settings.Storage.Driver = persistence.Driver(saveDriver)
	}
	if saveDir != "" {
		settings.Storage.Dir = saveDir
	}
	if sqlitePath != "" {
		settings.Storage.SQLitePath = sqlitePath
	}

	level := settings.Level()
	if quiet && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// session is a loaded game plus the resources that must be released with it
type session struct {
	game    *game.Game
	backend persistence.Backend
	metrics *metrics.Metrics
}

func (s *session) Close() {
	if err := s.backend.Close(); err != nil {
		slog.Warn("failed to close save backend", "error", err)
	}
}

// openSession loads the balance table, opens the save backend and restores the saved game.
// saveEvery < 0 disables autosave.
func openSession(ctx context.Context, withMetrics bool, saveEvery float64) (*session, error) {
	logger := slog.Default()
	balance := loader.LoadBalanceOrDefault(settings.DataDir, logger)

	backend, err := persistence.Open(ctx, settings.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open save backend: %w", err)
	}

	var m *metrics.Metrics
	if withMetrics {
		m = metrics.New()
	}

	g := game.New(game.Options{
		Balance:   balance,
		Saves:     persistence.NewSaves(backend, settings.Storage.Key, balance, logger),
		Metrics:   m,
		Logger:    logger,
		Quantum:   settings.Quantum(),
		SaveEvery: saveEvery,
	})
	if g.Load(ctx) {
		logger.Debug("save loaded", "driver", backend.Driver(), "key", settings.Storage.Key)
	} else {
		logger.Debug("starting a new game", "driver", backend.Driver())
	}

	return &session{game: g, backend: backend, metrics: m}, nil
}

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgYellow)
	warnColor    = color.New(color.FgRed)
)
