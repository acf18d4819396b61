package commands

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/wincap-dev/wincap/internal/fec"
	"github.com/wincap-dev/wincap/internal/proclog"
)

func newParseCommand() *cobra.Command {
	var asJSON bool
	var logDir string

	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Parse FEC files and report validation results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, asJSON, logDir)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the parse results as JSON")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "engagement directory for the processing log (omit to skip logging)")

	return cmd
}

func runParse(cmd *cobra.Command, paths []string, asJSON bool, logDir string) error {
	var results []*fec.Result
	var logEntries []proclog.Entry
	for _, path := range paths {
		res, err := fec.ParseFile(path)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		results = append(results, res)
		logEntries = append(logEntries, proclog.Entry{
			Timestamp:  time.Now().UTC(),
			Filename:   filepath.Base(path),
			FiscalYear: res.File.FiscalYear,
			Entries:    res.File.EntryCount,
			Errors:     len(res.Errors),
			Warnings:   len(res.Warnings),
			Balanced:   res.File.IsBalanced,
		})
	}

	if logDir != "" {
		if err := proclog.Append(logDir, logEntries); err != nil {
			return fmt.Errorf("writing processing log: %w", err)
		}
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		f := res.File
		status := "balanced"
		if !f.IsBalanced {
			status = fmt.Sprintf("UNBALANCED by %s", f.Imbalance().StringFixed(2))
		}
		fmt.Fprintf(out, "%s: FY %s, %d entries, %s\n", f.Filename, f.FiscalYear, f.EntryCount, status)
		for _, e := range res.Errors {
			fmt.Fprintf(out, "  error: %s\n", e.Error())
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  warning: row %d: %s\n", w.Row, w.Message)
		}
	}
	return nil
}
