package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/onebreath/internal/clock"
	"github.com/roach88/onebreath/internal/config"
	"github.com/roach88/onebreath/internal/entry"
	"github.com/roach88/onebreath/internal/export"
	"github.com/roach88/onebreath/internal/journal"
)

// NewTodayCommand creates the today command.
func NewTodayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's entry",
		Long: `Show the active entry for the current day.

The day is resolved in journal.timezone from the config file
(local time when unset).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ymd, err := s.today()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to resolve today", err)
			}
			e, err := s.engine.Get(s.ctx, ymd)
			if err != nil {
				return s.fail("failed to read journal", err)
			}

			result := DayResult{YMD: ymd}
			if e != nil {
				v := s.view(*e)
				result.Entry = &v
			}
			return s.out.Success(result)
		},
	}
}

// WriteOptions holds flags for the write command.
type WriteOptions struct {
	*RootOptions
	Replace bool
	Date    string
}

// NewWriteCommand creates the write command.
func NewWriteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "write [text...]",
		Short: "Write today's entry",
		Long: `Write the entry for today (or --date).

The text is taken from the arguments, or from stdin when none are given.
If the day already has an entry the command refuses unless --replace is
set; the previous entry is then kept as history.

Examples:
  onebreath write "Quiet morning, long walk."
  echo "Rain all day." | onebreath write --replace`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(opts, cmd, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "replace the day's existing entry")
	cmd.Flags().StringVar(&opts.Date, "date", "", "day to write (YYYY-MM-DD, default today)")

	return cmd
}

func runWrite(opts *WriteOptions, cmd *cobra.Command, args []string) error {
	content := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read stdin", err)
		}
		content = strings.TrimRight(string(data), "\r\n")
	}

	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ymd := opts.Date
	if ymd == "" {
		if ymd, err = s.today(); err != nil {
			return WrapExitError(ExitCommandError, "failed to resolve today", err)
		}
	}

	d := entry.Draft{
		YMD:       ymd,
		Content:   content,
		CreatedAt: clock.NowISO(s.clock),
	}
	saved, replaced, err := s.engine.Save(s.ctx, d, opts.Replace)
	var exists *journal.ExistsError
	if errors.As(err, &exists) && s.out.Format != "json" {
		fmt.Fprintf(cmd.OutOrStdout(), "An entry for %s already exists:\n  %s\nUse --replace to overwrite it.\n", ymd, exists.Existing.Content)
	}
	if err != nil {
		return s.fail("failed to save entry", err)
	}

	s.logger.Debug("entry saved", "ymd", saved.YMD, "id", saved.ID, "replaced", replaced)
	return s.out.Success(WriteResult{
		Entry:    s.view(saved),
		Replaced: replaced,
		Limit:    s.cfg.Journal.MaxContentLength,
	})
}

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	All bool
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past entries",
		Long: `List entries, newest day first.

Only active entries are shown unless --all is given, in which case
replaced entries are listed too.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			all, err := s.engine.GetAllWithRetry(s.ctx)
			if err != nil {
				return s.fail("failed to read journal", err)
			}

			views := make([]EntryView, 0, len(all))
			for _, e := range all {
				if opts.All || e.Active() {
					views = append(views, s.view(e))
				}
			}
			return s.out.Success(HistoryResult{Entries: views})
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "include replaced entries")

	return cmd
}

// NewMonthsCommand creates the months command.
func NewMonthsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "months",
		Short:         "List months available for export",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			all, err := s.engine.GetAllWithRetry(s.ctx)
			if err != nil {
				return s.fail("failed to read journal", err)
			}

			months := export.GroupByMonth(all)
			result := MonthsResult{Months: make([]MonthSummary, len(months))}
			for i, m := range months {
				result.Months[i] = MonthSummary{Month: m.Key, Entries: len(m.Entries)}
			}
			return s.out.Success(result)
		},
	}
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status",
		Short:         "Show storage status",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			all, err := s.engine.GetAllWithRetry(s.ctx)
			if err != nil {
				return s.fail("failed to read journal", err)
			}

			result := StatusResult{
				Backend: s.cfg.Storage.Backend,
				Key:     s.cfg.Storage.Key,
				Entries: len(all),
				Stats:   s.engine.Stats(),
			}
			if rootOpts.Store == nil && s.cfg.Storage.Backend != config.BackendMemory {
				result.Path, _ = s.cfg.StoragePath()
			}
			for _, e := range all {
				if e.Active() {
					result.Active++
				}
			}
			return s.out.Success(result)
		},
	}
}
