package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/onebreath/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Month    string
	As       string
	Out      string
	Language string
}

// ExportResult is the output of export.
type ExportResult struct {
	Month   string `json:"month"`
	Format  string `json:"format"`
	Path    string `json:"path"`
	Entries int    `json:"entries"`
	Bytes   int    `json:"bytes"`
}

func (r ExportResult) String() string {
	return fmt.Sprintf("Exported %d entries for %s to %s.", r.Entries, r.Month, r.Path)
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a month of entries",
		Long: `Export the active entries of one month as plain text or Markdown.

Without --month the newest month with entries is exported. The file is
written to --out, or to one-breath-YYYY-MM.{txt,md} in the current
directory. Use --out - to write to stdout.

Examples:
  onebreath export
  onebreath export --month 2024-03 --as md --out march.md`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Month, "month", "", "month to export (YYYY-MM, default newest)")
	cmd.Flags().StringVar(&opts.As, "as", "txt", "export format (txt|md)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file, - for stdout")
	cmd.Flags().StringVar(&opts.Language, "lang", "", "label language (en|ru, default from config)")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	format, err := export.ParseFormat(opts.As)
	if err != nil {
		return usageError(opts.RootOptions, cmd, "invalid --as", err)
	}

	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	langCode := opts.Language
	if langCode == "" {
		langCode = s.cfg.Export.Language
	}
	lang, err := export.ParseLanguage(langCode)
	if err != nil {
		s.report(ErrCodeUsage, fmt.Sprintf("invalid language: %v", err), nil)
		return WrapExitError(ExitCommandError, "invalid language", err)
	}

	all, err := s.engine.GetAllWithRetry(s.ctx)
	if err != nil {
		return s.fail("failed to read journal", err)
	}
	months := export.GroupByMonth(all)
	if len(months) == 0 {
		s.report(ErrCodeNotFound, "no months available", nil)
		return NewExitError(ExitFailure, "no entries to export")
	}

	month := months[0]
	if opts.Month != "" {
		var ok bool
		if month, ok = export.Find(months, opts.Month); !ok {
			s.report(ErrCodeNotFound, fmt.Sprintf("no entries for %s", opts.Month), nil)
			return NewExitError(ExitFailure, fmt.Sprintf("no entries for month %s", opts.Month))
		}
	}

	var buf bytes.Buffer
	if err := export.Render(&buf, month.Entries, format, export.Options{Language: lang, Location: s.loc}); err != nil {
		return WrapExitError(ExitCommandError, "failed to render export", err)
	}

	if opts.Out == "-" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	path := opts.Out
	if path == "" {
		path = export.Filename(month.Key, format)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return WrapExitError(ExitCommandError, "failed to create output directory", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write export", err)
	}

	s.out.VerboseLog("wrote %s (%s)", path, format.MIMEType())
	return s.out.Success(ExportResult{
		Month:   month.Key,
		Format:  string(format),
		Path:    path,
		Entries: len(month.Entries),
		Bytes:   buf.Len(),
	})
}
