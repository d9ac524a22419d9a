package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/onebreath/internal/journal"
)

// NewAdminCommand creates the admin command group.
func NewAdminCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Whole-day maintenance operations",
		Long: `Read, overwrite or delete every record of a day, or clear the journal.

These commands bypass the one-entry-per-day rule and write exactly
what they are given.`,
	}

	cmd.AddCommand(newAdminReadCommand(rootOpts))
	cmd.AddCommand(newAdminWriteCommand(rootOpts))
	cmd.AddCommand(newAdminDeleteCommand(rootOpts))
	cmd.AddCommand(newAdminClearCommand(rootOpts))

	return cmd
}

// RecordResult is the output of admin read.
type RecordResult struct {
	YMD    string                `json:"ymd"`
	Record *journal.DailyEntries `json:"record"`
}

func (r RecordResult) String() string {
	if r.Record == nil {
		return fmt.Sprintf("No records for %s.", r.YMD)
	}
	data, err := json.MarshalIndent(r.Record, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

// AdminResult acknowledges a mutating admin command.
type AdminResult struct {
	Action  string `json:"action"`
	YMD     string `json:"ymd,omitempty"`
	Entries int    `json:"entries,omitempty"`
}

func (r AdminResult) String() string {
	switch r.Action {
	case "write":
		return fmt.Sprintf("Wrote %d records for %s.", r.Entries, r.YMD)
	case "delete":
		return fmt.Sprintf("Deleted records for %s.", r.YMD)
	default:
		return "Journal cleared."
	}
}

func newAdminReadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "read <ymd>",
		Short:         "Print every record of a day as JSON",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.engine.Admin().ReadRecord(s.ctx, args[0])
			if err != nil {
				return s.fail("failed to read record", err)
			}
			return s.out.Success(RecordResult{YMD: args[0], Record: rec})
		},
	}
}

func newAdminWriteCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Replace a day's records from JSON",
		Long: `Replace every record of a day with the records in a JSON document:

  {"ymd": "2024-03-01", "entries": [{"id": "...", "ymd": "2024-03-01", ...}]}

The document is read from --file, or from stdin. Every record must be
complete and belong to the day; otherwise nothing is written.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to open record file", err)
				}
				defer f.Close()
				r = f
			}

			var rec journal.DailyEntries
			dec := json.NewDecoder(r)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&rec); err != nil {
				return usageError(rootOpts, cmd, "invalid record JSON", err)
			}

			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.engine.Admin().WriteRecord(s.ctx, rec); err != nil {
				return s.fail("failed to write record", err)
			}
			return s.out.Success(AdminResult{Action: "write", YMD: rec.YMD, Entries: len(rec.Entries)})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON record file (default stdin)")

	return cmd
}

func newAdminDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <ymd>",
		Short:         "Delete every record of a day",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.engine.Admin().DeleteRecord(s.ctx, args[0]); err != nil {
				return s.fail("failed to delete record", err)
			}
			return s.out.Success(AdminResult{Action: "delete", YMD: args[0]})
		},
	}
}

func newAdminClearCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:           "clear",
		Short:         "Delete the whole journal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return usageError(rootOpts, cmd, "refusing to clear the journal without --yes", nil)
			}

			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.engine.Admin().Clear(s.ctx); err != nil {
				return s.fail("failed to clear journal", err)
			}
			return s.out.Success(AdminResult{Action: "clear"})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing every entry")

	return cmd
}
