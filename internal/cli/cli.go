// Package cli provides the command-line interface for versetag.
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/versetag/internal/config"
	"github.com/asteroid-belt/versetag/internal/db"
	"github.com/asteroid-belt/versetag/internal/remote"
	"github.com/asteroid-belt/versetag/internal/sync"
	"github.com/asteroid-belt/versetag/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "versetag",
	Short: "Crowd-sourced Bible word-alignment client",
	Long: `versetag records word-alignment annotations ("tag sets") for Bible
verses, verifies them against the current wording of each verse, queues
submissions while offline, and replays them against the remote tag
authority without losing data.

Run 'versetag import' to load a translation's verse data, then
'versetag next' to find the next verse needing tags.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(pushHashesCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(versionsCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context) error {
	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.Commit),
	)
}

// openDatabase loads config and opens the local store. Callers own closing
// the returned database.
func openDatabase() (*config.Config, *db.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	paths := config.GetPaths(cfg)
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		return nil, nil, fmt.Errorf("initialize database: %w", err)
	}
	return cfg, database, nil
}

// newSyncer wires a Syncer against the configured authority endpoint.
func newSyncer(cfg *config.Config, database *db.DB, opts ...sync.Option) *sync.Syncer {
	client := remote.New(remote.Config{
		Endpoint:  cfg.Remote.Endpoint,
		Token:     cfg.Remote.Token,
		RateLimit: cfg.Remote.RateLimit,
	})
	opts = append([]sync.Option{sync.WithEmbeddingAppID(cfg.Remote.EmbeddingAppID)}, opts...)
	return sync.New(database, client, opts...)
}
