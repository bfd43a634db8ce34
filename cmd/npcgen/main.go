// Package main provides npcgen, the command-line NPC stat block generator.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cory-johannsen/npcforge/internal/config"
	"github.com/cory-johannsen/npcforge/internal/observability"
)

func main() {
	root, a := newRootCmd(os.Stdout)
	if err := execute(root, a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// execute runs root and then releases a's stores and flushes its logger,
// whether or not the command failed.
func execute(root *cobra.Command, a *app) error {
	defer a.shutdown()
	return root.Execute()
}

// newRootCmd builds the command tree writing results to out.
func newRootCmd(out io.Writer) (*cobra.Command, *app) {
	a := &app{out: out}
	var (
		configPath string
		envFile    string
		seed       uint64
	)

	root := &cobra.Command{
		Use:           "npcgen",
		Short:         "Generate tabletop NPC stat blocks",
		Long:          `npcgen builds NPCs with tiered stat blocks from data tables and keeps a small library of saved NPCs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("loading %s: %w", envFile, err)
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Generator.Seed = seed
			}
			logger, err := observability.NewLogger(cfg.Logging)
			if err != nil {
				log.Printf("initializing logger: %v", err)
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to configuration file (defaults and NPCGEN_* environment when empty)")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.Uint64Var(&seed, "seed", 0, "seed for reproducible generation (0 = random)")
	pf.BoolVar(&a.asJSON, "json", false, "print results as JSON")

	root.AddCommand(
		newGenerateCmd(a),
		newRestatCmd(a),
		newRollCmd(a),
		newOptionsCmd(a),
		newSpellCmd(a),
		newLibraryCmd(a),
	)
	return root, a
}
