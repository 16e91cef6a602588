// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/recordkit/config"
	"github.com/cardinalhq/recordkit/internal/idgen"
	"github.com/cardinalhq/recordkit/internal/logctx"
)

var (
	appConfig   *config.Config
	closeLogger = func() error { return nil }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recordkit",
	Short: "Extract fixed-width records from documents, images and tables",
	Long: `Walk a set of locations (local files, s3://, gs:// or azblob:// objects),
decode each one and print the extracted records as JSON lines.`,
	SilenceUsage: true,
	PersistentPreRunE: func(c *cobra.Command, _ []string) error {
		configFile, err := c.Flags().GetString("config")
		if err != nil {
			return fmt.Errorf("failed to get config flag: %w", err)
		}
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if err := applyRootFlags(c, cfg); err != nil {
			return err
		}
		appConfig = cfg

		closer, err := setupLogging(cfg.Log, c.ErrOrStderr())
		if err != nil {
			return err
		}
		closeLogger = closer
		return nil
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return closeLogger()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default ./recordkit.yaml when present)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-file", "", "Also write JSON logs to this file")
	pf.Bool("shuffle", false, "Shuffle the traversal order")
	pf.Int64("seed", 0, "Shuffle seed")
	pf.String("seed-key", "", "Derive the shuffle seed from this string")
	pf.String("reshuffle", "", "What a reset does to a shuffled order: advance or replay")
}

// applyRootFlags lets explicitly set flags override the loaded config.
func applyRootFlags(c *cobra.Command, cfg *config.Config) error {
	f := c.Flags()
	var err error
	if f.Changed("log-level") {
		if cfg.Log.Level, err = f.GetString("log-level"); err != nil {
			return err
		}
	}
	if f.Changed("log-file") {
		if cfg.Log.File, err = f.GetString("log-file"); err != nil {
			return err
		}
	}
	if f.Changed("shuffle") {
		if cfg.Reader.Shuffle, err = f.GetBool("shuffle"); err != nil {
			return err
		}
	}
	if f.Changed("seed") {
		if cfg.Reader.Seed, err = f.GetInt64("seed"); err != nil {
			return err
		}
	}
	if f.Changed("seed-key") {
		if cfg.Reader.SeedKey, err = f.GetString("seed-key"); err != nil {
			return err
		}
	}
	if f.Changed("reshuffle") {
		if cfg.Reader.Reshuffle, err = f.GetString("reshuffle"); err != nil {
			return err
		}
	}
	return nil
}

// runContext returns the command context with a logger carrying a fresh
// run id.
func runContext(c *cobra.Command) (context.Context, string) {
	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runID := idgen.NewRunID()
	logger := slog.Default().With(slog.String("run_id", runID), slog.String("command", c.Name()))
	return logctx.WithLogger(ctx, logger), runID
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := handleSignals(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}
