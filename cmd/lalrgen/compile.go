package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/orithia/lalrgen/errs"
	"github.com/orithia/lalrgen/gramfile"
	"github.com/orithia/lalrgen/grammar"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	cmd := &cobra.Command{
		Use:     "compile [grammar.yaml]",
		Short:   "Compile a grammar document into a parsing table report",
		Example: `  lalrgen compile expr.gram.yaml -o expr-report.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	cmd.Flags().StringP("output", "o", "", "report output path (default: config value, or stdout)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	grmPath := cfg.Grammar.Path
	if len(args) > 0 {
		grmPath = args[0]
	}
	if grmPath == "" {
		return fmt.Errorf("no grammar file given; pass one as an argument or set grammar.path in the config")
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = cfg.Report.Path
	}

	log.Info("compiling grammar", zap.String("path", grmPath))

	f, err := os.Open(grmPath)
	if err != nil {
		return fmt.Errorf("cannot open grammar file %s: %w", grmPath, err)
	}
	defer f.Close()

	doc, err := gramfile.Load(f)
	if err != nil {
		return err
	}

	sink := errs.NewCollector()
	g, err := doc.Build(sink)
	if err != nil {
		return reportSinkErrors(grmPath, sink)
	}
	if cfg.Grammar.FailOnUnusedSymbol {
		for _, e := range sink.Errors() {
			if e.Code == errs.CodeUnusedSymbol {
				return reportSinkErrors(grmPath, sink)
			}
		}
	}

	tableSink := errs.NewCollector()
	cg, err := grammar.Compile(g, grammar.WithErrorSink(tableSink))
	if err != nil {
		return err
	}
	for _, e := range tableSink.Errors() {
		log.Warn("parse table conflict", zap.String("detail", e.Error()))
	}

	rep, err := cg.GenerateReport()
	if err != nil {
		return err
	}

	var w *os.File
	if output == "" {
		w = os.Stdout
	} else {
		w, err = os.Create(output)
		if err != nil {
			return fmt.Errorf("cannot create report file %s: %w", output, err)
		}
		defer w.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func reportSinkErrors(path string, sink *errs.Collector) error {
	for _, e := range sink.Errors() {
		fmt.Fprintln(os.Stderr, errs.SourceError(e, path))
	}
	return fmt.Errorf("%v: grammar build failed: %w", path, sink.Combined())
}
