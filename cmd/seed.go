package main

import (
	"context"
	"fmt"

	livestockRepo "github.com/chapavet/marketplace/repository/livestock"
	"github.com/chapavet/marketplace/utils/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the bundled sample catalog into the livestock table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "insert even when the table already has listings")
	return cmd
}

func runSeed(ctx context.Context, force bool) error {
	cfg, cleanup, err := bootstrap("seed")
	if err != nil {
		return err
	}
	defer cleanup()

	db, err := connectDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := livestockRepo.NewLivestockRepository(db)

	existing, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count listings: %w", err)
	}
	if existing > 0 && !force {
		logger.Info("Catalog already populated, skipping", zap.Int64("listings", existing))
		return nil
	}

	items, err := livestockRepo.SampleCatalog()
	if err != nil {
		return err
	}
	for i := range items {
		item := items[i]
		item.ID = 0
		if _, err := repo.Create(ctx, &item); err != nil {
			return fmt.Errorf("insert %q: %w", item.Name, err)
		}
	}

	logger.Info("Seeded sample catalog", zap.Int("listings", len(items)))
	return nil
}
