package main

import (
	"context"
	"encoding/json"
	"fmt"
	"guide-tracking-service/internal/adapters/repositories"
	"guide-tracking-service/internal/api/dto"
	"guide-tracking-service/internal/app"
	"guide-tracking-service/internal/config"
	"guide-tracking-service/internal/platform/obs"
	"guide-tracking-service/internal/services"
	"guide-tracking-service/internal/tui"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "guidectl",
		Short:        "Guide tracker tools",
		SilenceUsage: true,
	}

	root.AddCommand(newTUICmd(), newSeedsCmd())
	return root
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the tracker in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadDotEnv()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// The terminal owns stdout; only warnings go to stderr.
			logger, err := obs.NewLogger(cfg.Env, "warn")
			if err != nil {
				return err
			}
			defer logger.Sync()

			tracker, closeStore, err := app.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			return tui.Run(cmd.Context(), tracker, logger)
		},
	}
}

func newSeedsCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "seeds",
		Short: "Validate a seed file and print it as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadDotEnv()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.SeedPath
			}
			return printSeeds(cmd.Context(), cmd.OutOrStdout(), path, cfg)
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "seed file (.json, .yaml, .yml); empty uses the embedded guides")

	return cmd
}

func printSeeds(ctx context.Context, w io.Writer, path string, cfg config.Config) error {
	guides, err := repositories.LoadSeeds(path, cfg.Location)
	if err != nil {
		return err
	}

	// Loading them into a scratch store applies the same duplicate checks as startup.
	store := repositories.NewMemoryGuideStore(nil)
	if err := services.SeedStore(ctx, store, guides); err != nil {
		return err
	}

	res := make([]dto.GuideResponse, 0, len(guides))
	for _, g := range guides {
		res = append(res, dto.NewGuideResponse(g))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("print seeds: %w", err)
	}
	return nil
}
