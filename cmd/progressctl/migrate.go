package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"vocab-progress-backend/internal/common/logger"
	"vocab-progress-backend/internal/features/progress/repository"
	"vocab-progress-backend/internal/features/progress/service"
)

var (
	migrateWorkers int
	migrateForce   bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade every stored profile to the current schema",
	Long: `Opens every learner found in any backend. Opening a profile migrates old
documents and writes the result back to all backends. With --force every
profile is rewritten even when it is already current.

` + offlineNote,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context(), cmd.OutOrStdout(), current.opts, migrateWorkers, migrateForce)
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateWorkers, "workers", 8, "Profiles processed in parallel")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "Rewrite profiles that are already current")
}

func runMigrate(ctx context.Context, out io.Writer, opts service.Options, workers int, force bool) error {
	learners, err := listLearners(ctx, opts.Backends)
	if err != nil {
		return err
	}

	var done, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, id := range learners {
		id := id
		g.Go(func() error {
			if err := migrateOne(gctx, opts, id, force); err != nil {
				failed.Add(1)
				logger.Error().Err(err).Str("learner_id", id).Msg("Migration failed")
				return nil
			}
			done.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(out, "migrated %d of %d profiles, %d failed\n", done.Load(), len(learners), failed.Load())
	if failed.Load() > 0 {
		return fmt.Errorf("%d profiles failed to migrate", failed.Load())
	}
	return nil
}

func migrateOne(ctx context.Context, opts service.Options, learnerID string, force bool) error {
	store, err := service.Open(ctx, learnerID, opts)
	if err != nil {
		return err
	}
	if force {
		return store.Resave(ctx)
	}
	return nil
}

// listLearners merges the learner ids of every backend that can enumerate them.
func listLearners(ctx context.Context, backends []repository.Backend) ([]string, error) {
	seen := map[string]struct{}{}
	for _, b := range backends {
		lister, ok := b.(repository.Lister)
		if !ok {
			continue
		}
		ids, err := lister.ListLearners(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", b.Name(), err)
		}
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
