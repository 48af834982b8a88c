package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vocab-progress-backend/internal/bootstrap"
	"vocab-progress-backend/internal/common/config"
	"vocab-progress-backend/internal/common/logger"
	"vocab-progress-backend/internal/features/progress/models"
	"vocab-progress-backend/internal/features/progress/service"
)

// env is what every subcommand works against once the root command has run.
type env struct {
	storage *bootstrap.Storage
	opts    service.Options
}

var (
	debug   bool
	current *env
)

// offlineNote is appended to commands that write profiles. The service keeps
// open profiles in memory and would overwrite these writes with its own copy.
const offlineNote = `Run it while the HTTP service is stopped.`

var rootCmd = &cobra.Command{
	Use:           "progressctl",
	Short:         "Inspect, migrate and reset stored learner progress",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger.Init("progressctl", debug || cfg.Debug)

		storage, err := bootstrap.OpenStorage(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		current = &env{
			storage: storage,
			opts: service.Options{
				Policy:   service.NewRewardPolicy(cfg.Rewards),
				Catalog:  models.DefaultCatalog,
				Backends: storage.Backends(),
			},
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current != nil {
			return current.storage.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(showCmd, migrateCmd, resetCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
