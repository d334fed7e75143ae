package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/tracker/internal/export"
	"github.com/gorewood/tracker/internal/output"
	"github.com/gorewood/tracker/internal/timelog"
)

// newExportCmd creates the export command.
func newExportCmd() *cobra.Command {
	var formatFlag string
	var outFlag string
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the journal as a report",
		Long: `Export the journal with computed durations and totals per task.

Examples:
  tracker export                         # Markdown report to stdout
  tracker export --json                  # JSON report to stdout
  tracker export -f work.json --out work.md
  tracker export --format json --out report.json --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, formatFlag, outFlag, forceFlag)
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "", "Output format: md or json (default: md, json with --json)")
	cmd.Flags().StringVar(&outFlag, "out", "", "Output file (if omitted, writes to stdout)")
	cmd.Flags().BoolVar(&forceFlag, "force", false, "Overwrite the output file")

	return cmd
}

// runExport executes the export command.
func runExport(cmd *cobra.Command, formatFlag, outFlag string, force bool) error {
	printer := newPrinter(cmd)

	format := determineFormat(printer, formatFlag)
	if err := validateFormat(printer, format); err != nil {
		return err
	}

	store := timelog.NewStore(logPath(cmd))
	log, err := store.Load()
	if err != nil {
		printer.Error(err)
		return err
	}
	report := export.Build(log, store.Path())

	if outFlag == "" {
		if format == "json" {
			return export.FormatJSON(printer, report)
		}
		printer.Print("%s", export.FormatMarkdown(report))
		return nil
	}

	content, err := renderExport(report, format)
	if err != nil {
		printer.Error(err)
		return err
	}
	if err := export.WriteFile(outFlag, content, force); err != nil {
		printer.Error(err)
		return err
	}
	if printer.IsJSON() {
		return printer.Success(map[string]any{"path": outFlag, "format": format, "entries": report.Entries})
	}
	printer.Notice("exportado para %s", outFlag)
	return nil
}

// determineFormat returns the format to use based on flags.
func determineFormat(printer *output.Printer, formatFlag string) string {
	if formatFlag != "" {
		return formatFlag
	}
	if printer.IsJSON() {
		return "json"
	}
	return "md"
}

// validateFormat checks that the format is valid.
func validateFormat(printer *output.Printer, format string) error {
	if format != "json" && format != "md" {
		err := output.NewUserError("--format must be 'json' or 'md'")
		printer.Error(err)
		return err
	}
	return nil
}

func renderExport(report export.Report, format string) ([]byte, error) {
	if format == "json" {
		return export.MarshalJSON(report)
	}
	return []byte(export.FormatMarkdown(report)), nil
}
