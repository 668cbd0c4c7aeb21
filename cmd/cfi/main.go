// Package main provides the command line entry point for the CFI data
// update tool.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/cfi/internal/config"
	"github.com/MrJamesThe3rd/cfi/internal/encoding"
	"github.com/MrJamesThe3rd/cfi/internal/importer"
	"github.com/MrJamesThe3rd/cfi/internal/truth"
	truthStore "github.com/MrJamesThe3rd/cfi/internal/truth/store"
)

var errTableNotFound = errors.New("the credible fear table was not found in the report, nothing was merged")

var (
	reportKind string
	pretty     bool
	truthPath  string
	outputPath string
	format     string
	dryRun     bool
	verbose    bool
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "cfi",
		Short:         "Extract and merge Credible Fear report data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&reportKind, "report", string(importer.ReportCFI), "Report kind")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every pipeline stage")

	extractCmd := &cobra.Command{
		Use:   "extract [report]",
		Short: "Print the records extracted from a report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runExtract,
	}
	extractCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	mergeCmd := &cobra.Command{
		Use:   "merge [report]",
		Short: "Merge a report into the truth file",
		Long: `merge extracts the credible fear table from a report and merges it into
the truth file. Without --out the truth file is replaced after a backup of
the previous version is taken.`,
		Args: cobra.ExactArgs(1),
		RunE: runMerge,
	}
	mergeCmd.Flags().StringVar(&truthPath, "truth", "", "Truth file path (default: TRUTH_PATH)")
	mergeCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Write the merged table here instead of replacing the truth file")
	mergeCmd.Flags().StringVar(&format, "format", "csv", "Output format for --out: csv or xlsx")
	mergeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the merged table to stdout without saving")

	rootCmd.AddCommand(extractCmd, mergeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	extraction, err := extract(cfg, args[0])
	if err != nil {
		return err
	}

	sorted, err := truth.Merge(nil, extraction.Records)
	if err != nil {
		return err
	}

	out := make([]map[string]string, 0, sorted.Len())
	for _, key := range sorted.Keys() {
		rec, _ := sorted.Get(key)
		rec[sorted.KeyColumn()] = key
		out = append(out, rec)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if pretty {
		enc.SetIndent("", "  ")
	}

	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if !extraction.TableFound {
		return errTableNotFound
	}

	return nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if truthPath != "" {
		cfg.Truth.Path = truthPath
	}

	write, err := writerFor(format)
	if err != nil {
		return err
	}

	extraction, err := extract(cfg, args[0])
	if err != nil {
		return err
	}

	if !extraction.TableFound {
		return errTableNotFound
	}

	svc := truth.NewService(truthStore.New(cfg.Truth.Path, cfg.Truth.BackupDir, decoderFor(cfg)))
	ctx := context.Background()

	if dryRun || outputPath != "" {
		merged, err := svc.Preview(ctx, extraction.Records)
		if err != nil {
			return err
		}

		if dryRun {
			return write(merged, cmd.OutOrStdout())
		}

		return writeFile(outputPath, func(w io.Writer) error { return write(merged, w) })
	}

	merged, err := svc.Update(ctx, extraction.Records)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "merged %d date ranges into %s (%d rows)\n",
		len(extraction.Records), cfg.Truth.Path, merged.Len())

	return nil
}

func extract(cfg *config.Config, path string) (*truth.Extraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	extraction, err := importer.NewService(cfg).Import(importer.Report(reportKind), f)
	if err != nil {
		return nil, err
	}

	for _, s := range extraction.Skipped {
		fmt.Fprintln(os.Stderr, "warning:", s)
	}

	return extraction, nil
}

func decoderFor(cfg *config.Config) *encoding.Decoder {
	return encoding.NewDecoder(cfg.Report.PrimaryEncoding, cfg.Report.FallbackEncoding)
}

func writerFor(format string) (func(*truth.Store, io.Writer) error, error) {
	switch strings.ToLower(format) {
	case "csv":
		return (*truth.Store).WriteCSV, nil
	case "xlsx":
		return (*truth.Store).WriteXLSX, nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be csv or xlsx)", format)
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}

	return f.Close()
}
