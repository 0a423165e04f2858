package main

import (
	"fmt"
	"log/slog"
	"os"

	"yamdb/internal/fixtures"

	"github.com/spf13/cobra"
)

func newRootCmd(logger *slog.Logger) *cobra.Command {
	var csvPath, jsonPath string

	cmd := &cobra.Command{
		Use:   "csv2fixture",
		Short: "Convert CSV seed data into JSON fixtures",
		Long: `csv2fixture reads every CSV file in --csv-path and writes one JSON fixture per
known file into --json-path. Each row becomes {"model", "pk", "fields"} with pk
counting from 1. Files without a known model are skipped.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := fixtures.Convert(csvPath, jsonPath, logger)
			if err != nil {
				return err
			}
			for _, name := range report.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped %s: no model mapping\n", name)
			}
			for _, path := range report.Converted {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv-path", "static/data/", "directory holding the CSV files")
	cmd.Flags().StringVar(&jsonPath, "json-path", "static/fixtures/", "directory the fixtures are written to")
	return cmd
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := newRootCmd(logger).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
