package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/roach88/onebreath/internal/clock"
	"github.com/roach88/onebreath/internal/config"
	"github.com/roach88/onebreath/internal/entry"
	"github.com/roach88/onebreath/internal/journal"
	"github.com/roach88/onebreath/internal/kv"
	"github.com/roach88/onebreath/internal/kv/boltkv"
	"github.com/roach88/onebreath/internal/kv/filekv"
	"github.com/roach88/onebreath/internal/kv/sqlitekv"
	"github.com/roach88/onebreath/internal/validate"
)

// session is everything a command needs to talk to the journal.
type session struct {
	ctx    context.Context
	cfg    config.Config
	engine *journal.Engine
	clock  clock.Clock
	loc    *time.Location
	logger *slog.Logger
	out    *OutputFormatter
	close  func() error
}

// NewLogger returns a slog logger rendering through charmbracelet/log.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(level),
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "onebreath",
	})
	return slog.New(handler)
}

// OpenKV opens the backing store the config selects. The returned close
// function is never nil.
func OpenKV(cfg config.Config, logger *slog.Logger) (kv.Store, func() error, error) {
	noop := func() error { return nil }

	if cfg.Storage.Backend == config.BackendMemory {
		return kv.NewMemory(), noop, nil
	}

	path, err := cfg.StoragePath()
	if err != nil {
		return nil, noop, err
	}

	switch cfg.Storage.Backend {
	case config.BackendFile:
		s, err := filekv.New(path)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, noop, fmt.Errorf("create database directory: %w", err)
		}
		s, err := sqlitekv.Open(path)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case config.BackendBolt:
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, noop, fmt.Errorf("create database directory: %w", err)
		}
		s, err := boltkv.Open(path, boltkv.WithLogger(logger))
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := NewLogger(cmd.ErrOrStderr(), level)

	loc, err := cfg.Location()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid timezone", err)
	}

	store, closeStore := kv.Store(opts.Store), func() error { return nil }
	if store == nil {
		logger.Debug("opening storage", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)
		store, closeStore, err = OpenKV(cfg, logger)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open storage", err)
		}
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.System{}
	}

	engineOpts := []journal.Option{
		journal.WithKV(store),
		journal.WithClock(clk),
		journal.WithLogger(logger),
		journal.WithRules(cfg.Rules()),
		journal.WithKeys(cfg.Keys()),
		journal.WithRetryOptions(cfg.RetryOptions()),
	}
	if opts.IDs != nil {
		engineOpts = append(engineOpts, journal.WithIDGenerator(opts.IDs))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return &session{
		ctx:    ctx,
		cfg:    cfg,
		engine: journal.New(engineOpts...),
		clock:  clk,
		loc:    loc,
		logger: logger,
		out:    newOutputFormatter(opts, cmd),
		close: closeStore,
	}, nil
}

// Close releases the backing store.
func (s *session) Close() {
	if err := s.close(); err != nil {
		s.logger.Error("error closing storage", "error", err)
	}
}

// today returns the current day key in the configured timezone.
func (s *session) today() (string, error) {
	return clock.TodayKey(s.clock.Now(), s.cfg.Journal.Timezone)
}

// fail reports err through the formatter and returns the matching ExitError.
func (s *session) fail(message string, err error) error {
	code, exit := ErrCodeStorage, ExitCommandError
	var details any
	var exists *journal.ExistsError
	switch {
	case errors.As(err, &exists):
		code, exit = ErrCodeExists, ExitFailure
		details = exists.Existing
	case validate.IsValidationError(err):
		code, exit = ErrCodeValidation, ExitFailure
	}
	s.report(code, fmt.Sprintf("%s: %v", message, err), details)
	return WrapExitError(exit, message, err)
}

// report writes a JSON error response. Text mode leaves error printing to
// main.
func (s *session) report(code, message string, details any) {
	if s.out.Format == "json" {
		_ = s.out.Error(code, message, details)
	}
}

// newOutputFormatter binds the command's writers to the global output flags.
func newOutputFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// usageError reports a bad flag or input before any session exists and
// returns it as a command error.
func usageError(opts *RootOptions, cmd *cobra.Command, message string, err error) error {
	out := newOutputFormatter(opts, cmd)
	detail := message
	if err != nil {
		detail = fmt.Sprintf("%s: %v", message, err)
	}
	if out.Format == "json" {
		_ = out.Error(ErrCodeUsage, detail, nil)
	}
	if err == nil {
		return NewExitError(ExitCommandError, message)
	}
	return WrapExitError(ExitCommandError, message, err)
}

// localTime renders a canonical timestamp in the configured zone.
func (s *session) localTime(iso string) string {
	t, err := entry.ParseISO(iso)
	if err != nil {
		return iso
	}
	return t.In(s.loc).Format("2006-01-02 15:04")
}
