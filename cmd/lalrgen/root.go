package main

import (
	"fmt"
	"os"

	"github.com/orithia/lalrgen/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "lalrgen",
	Short: "Generate an LALR(1) parsing table from a grammar",
	Long: `lalrgen compiles a declarative grammar document into an LALR(1)
parsing table and a human- or machine-readable report describing every
state, transition, and conflict the table generator resolved.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgPath string
	cfg     *config.Config
	log     *zap.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a lalrgen.toml config file")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.LoadIfExists(cfgPath)
	if err != nil {
		return err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	if lvl, err := zap.ParseAtomicLevel(cfg.Log.Level); err == nil {
		zcfg.Level = lvl
	}
	log, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("cannot build logger: %w", err)
	}
	return nil
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
