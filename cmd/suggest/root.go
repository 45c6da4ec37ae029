package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/treykane/cli-notes-suggest/internal/app"
	"github.com/treykane/cli-notes-suggest/internal/config"
	"github.com/treykane/cli-notes-suggest/internal/directory"
	"github.com/treykane/cli-notes-suggest/internal/logging"
	"github.com/treykane/cli-notes-suggest/internal/suggest"
)

var log = logging.New("cli")

// flags holds the raw command line values before they are merged into the
// loaded configuration.
type flags struct {
	config   string
	people   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "suggest [document]",
		Short: "Markdown editor with @mention and /command suggestions",
		Long: `suggest edits a Markdown document in the terminal.

Type @ to mention someone from the people file, or / to insert a block
(headings, lists, quotes, code fences) or preview the rendered document.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(f, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&f.config, "config", "c", "", "config file (default ~/.cli-notes-suggest/config.json)")
	cmd.Flags().StringVarP(&f.people, "people", "p", "", "JSON file with the people offered for @mentions")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	return cmd
}

// resolveConfig loads the config file and applies command line overrides.
func resolveConfig(f flags, args []string) (config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return config.Config{}, err
	}
	if f.people != "" {
		if cfg.PeopleFile, err = config.NormalizePath(f.people); err != nil {
			return config.Config{}, fmt.Errorf("invalid --people: %w", err)
		}
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if len(args) == 1 {
		if cfg.Document, err = config.NormalizePath(args[0]); err != nil {
			return config.Config{}, fmt.Errorf("invalid document path: %w", err)
		}
	}
	return cfg, nil
}

// setupLogging points the shared logger at the configured log file. Without
// one, records go to stderr.
func setupLogging(cfg config.Config) (io.Closer, error) {
	if cfg.LogFile == "" {
		logging.Configure(os.Stderr, cfg.LogLevel)
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), app.DirPermission); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, app.FilePermission)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logging.Configure(f, cfg.LogLevel)
	return f, nil
}

// programOptions runs the editor full screen. All pointer motion is reported,
// not only drags, so hovering a suggestion row highlights it.
func programOptions(ctx context.Context) []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	}
}

func run(ctx context.Context, cfg config.Config) error {
	closer, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	people := directory.New()
	if cfg.PeopleFile != "" {
		if err := people.Load(cfg.PeopleFile); err != nil {
			return err
		}
	}

	updates := make(chan tea.Msg, 1)
	pollPeople := false
	if cfg.PeopleFile != "" {
		err := people.Watch(ctx, cfg.PeopleFile, func(p []suggest.Mention) {
			select {
			case updates <- app.PeopleReloadedMsg{Count: len(p)}:
			default:
			}
		})
		if err != nil {
			log.Warn("file notifications unavailable, polling people file", "path", cfg.PeopleFile, "error", err)
			pollPeople = true
		}
	}

	m, err := app.New(app.Options{
		Config:     cfg,
		Document:   cfg.Document,
		People:     people,
		Zones:      zone.New(),
		PollPeople: pollPeople,
	})
	if err != nil {
		return err
	}

	program := tea.NewProgram(m, programOptions(ctx)...)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-updates:
				program.Send(msg)
			}
		}
	}()

	log.Info("starting editor", "document", cfg.Document, "people", people.Len())
	if _, err := program.Run(); err != nil {
		log.Error("TUI error", "error", err)
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}
