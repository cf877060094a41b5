package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sportsync/rosetta/internal/loader"
	"github.com/sportsync/rosetta/pkg/content"
	"github.com/sportsync/rosetta/pkg/logging"
	"github.com/sportsync/rosetta/pkg/sync"
)

var (
	syncManifest           string
	syncOutput             string
	syncCompetitionContext bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize provider datasets from a manifest",
	Long: `Sync loads the datasets named by a YAML manifest, reconciles them with
the engine for the manifest's entity type, and writes the resulting
cross-reference table as CSV.

The manifest names the entity type and an ordered list of provider CSV
files:

  entity_type: player
  datasets:
    - provider: statsbomb
      path: statsbomb_players.csv
    - provider: wyscout
      path: wyscout_players.csv

Dataset order matters: it is the pairwise matching order, and the first
provider's identifiers win deduplication ties.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVarP(&syncManifest, "manifest", "m", "", "manifest YAML file (required)")
	syncCmd.Flags().StringVarP(&syncOutput, "output", "o", "", "output CSV file (default stdout)")
	syncCmd.Flags().BoolVar(&syncCompetitionContext, "competition-context", false,
		"join match and team records within competition_id and season_id")
	_ = syncCmd.MarkFlagRequired("manifest")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	logger := *logging.Default()

	cs, entityType, err := loader.Load(syncManifest)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}
	logger.Info().
		Str("entity_type", entityType.String()).
		Int("datasets", len(cs)).
		Msg("Loaded provider datasets")

	opts := []sync.Option{
		sync.WithLogger(logger),
		sync.WithCompetitionContext(syncCompetitionContext),
	}

	var engine *sync.Engine
	switch entityType {
	case content.EntityTypeMatch:
		engine, err = sync.NewMatchEngine(cs, opts...)
	case content.EntityTypePlayer:
		engine, err = sync.NewPlayerEngine(cs, opts...)
	case content.EntityTypeTeam:
		engine, err = sync.NewTeamEngine(cs, opts...)
	default:
		return fmt.Errorf("unsupported entity type %q", entityType)
	}
	if err != nil {
		return fmt.Errorf("creating %s engine: %w", entityType, err)
	}

	synced, err := engine.Synchronize()
	if err != nil {
		return fmt.Errorf("synchronizing: %w", err)
	}
	logger.Info().Int("rows", synced.Data.Len()).Msg("Synchronization complete")

	if syncOutput == "" {
		return loader.WriteCSVTo(cmd.OutOrStdout(), synced.Data)
	}
	if err := loader.WriteCSV(syncOutput, synced.Data); err != nil {
		return err
	}
	logger.Info().Str("path", syncOutput).Msg("Wrote cross-reference table")
	return nil
}
