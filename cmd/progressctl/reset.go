package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"vocab-progress-backend/internal/features/progress/repository"
	"vocab-progress-backend/internal/features/progress/service"
)

var resetDelete bool

var resetCmd = &cobra.Command{
	Use:   "reset <learner-id>",
	Short: "Reset a learner to a fresh profile",
	Long: `Replaces the learner's stored profile with a fresh one, or removes the
stored documents with --delete.

` + offlineNote,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReset(cmd.Context(), cmd.OutOrStdout(), current.opts, args[0], resetDelete)
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetDelete, "delete", false, "Remove the stored documents instead of writing a fresh profile")
}

func runReset(ctx context.Context, out io.Writer, opts service.Options, learnerID string, remove bool) error {
	if remove {
		for _, b := range opts.Backends {
			d, ok := b.(repository.Deleter)
			if !ok {
				continue
			}
			if err := d.Delete(ctx, learnerID); err != nil {
				return fmt.Errorf("delete from %s: %w", b.Name(), err)
			}
		}
		fmt.Fprintf(out, "deleted %s\n", learnerID)
		return nil
	}

	store, err := service.Open(ctx, learnerID, opts)
	if err != nil {
		return err
	}
	if err := store.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "reset %s\n", learnerID)
	return nil
}
