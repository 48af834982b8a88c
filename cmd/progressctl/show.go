package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"vocab-progress-backend/internal/features/progress/repository"
	"vocab-progress-backend/internal/features/progress/service"
)

var errNoProfile = errors.New("no stored profile")

var showCmd = &cobra.Command{
	Use:   "show <learner-id>",
	Short: "Print a learner's profile as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(cmd.Context(), cmd.OutOrStdout(), current.opts, args[0])
	},
}

func runShow(ctx context.Context, out io.Writer, opts service.Options, learnerID string) error {
	if !stored(ctx, opts.Backends, learnerID) {
		return fmt.Errorf("%s: %w", learnerID, errNoProfile)
	}
	store, err := service.Open(ctx, learnerID, opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(store.Profile())
}

// stored reports whether any backend holds a document for the learner.
func stored(ctx context.Context, backends []repository.Backend, learnerID string) bool {
	for _, b := range backends {
		if _, err := b.Load(ctx, learnerID); err == nil {
			return true
		}
	}
	return false
}
