package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quizden/triviaroom-go/internal/factory"
	redisstorage "github.com/quizden/triviaroom-go/internal/storage/redis"
)

var (
	cfg *Config
	app *factory.App
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "trivia",
		Short: "Terminal client for real-time multiplayer trivia",
		Long: `trivia is a terminal client for a real-time multiplayer trivia game.

Host a room, share its code, and play timed multiple-choice rounds with
live scores and chat. Your session is persisted locally, so a restarted
client silently rejoins its room.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))

			fcfg := factory.Config{
				ServerURL:   cfg.ServerURL,
				Logger:      logger,
				StorageType: cfg.StorageType,
			}
			if cfg.StorageType == factory.StorageTypeRedis {
				redisCfg := redisstorage.DefaultConfig()
				redisCfg.URL = cfg.RedisURL
				fcfg.RedisConfig = &redisCfg
			}

			var err error
			app, err = factory.New(fcfg)
			return err
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Coordinator URL (env: TRIVIA_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.StorageType, "storage", cfg.StorageType, "Local storage backend: memory, redis (env: TRIVIA_STORAGE)")
	rootCmd.PersistentFlags().StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL for local storage (env: TRIVIA_REDIS_URL)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newHostCmd())
	rootCmd.AddCommand(newJoinCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newResultsCmd())
	rootCmd.AddCommand(newLeaveCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
