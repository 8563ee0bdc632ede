package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/naveenspark/reflex/internal/config"
	"github.com/naveenspark/reflex/internal/results"
	"github.com/naveenspark/reflex/internal/share"
	"github.com/naveenspark/reflex/internal/tui"
	"github.com/naveenspark/reflex/pkg/domain"
	"github.com/naveenspark/reflex/pkg/kv"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	c := &cli{isTTY: isTTY}
	if err := c.rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// isTTY returns true if stdout is connected to a terminal.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// cli holds the persistent flags shared by every command.
type cli struct {
	dir       string
	debug     bool
	ephemeral bool
	isTTY     func() bool
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reflex",
		Short:         "Reaction-speed mini-game for the terminal",
		Long:          "Catch the ball as it darts around the arena. Play solo or duel a friend on the same keyboard.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No TTY means no arena; greet and point at the plain commands.
			if !c.isTTY() {
				printGreeting(cmd.OutOrStdout())
				return nil
			}
			return c.play(domain.ModeUnset)
		},
	}
	root.PersistentFlags().StringVar(&c.dir, "dir", "", "Data directory (default ~/.reflex)")
	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "Write a debug log to <dir>/reflex.log")
	root.PersistentFlags().BoolVar(&c.ephemeral, "ephemeral", false, "Keep results in memory only; nothing is saved")

	root.AddCommand(c.playCmd(), c.statsCmd(), c.clearCmd(), c.configCmd(), c.versionCmd())
	return root
}

func (c *cli) playCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "play [solo|duo]",
		Short:     "Open the arena, optionally straight into a mode",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"solo", "duo"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := domain.ModeUnset
			if len(args) == 1 {
				m, err := parseModeArg(args[0])
				if err != nil {
					return err
				}
				mode = m
			}
			if !c.isTTY() {
				return fmt.Errorf("play needs an interactive terminal")
			}
			return c.play(mode)
		},
	}
}

func (c *cli) statsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:       "stats [solo|duo]",
		Short:     "Print averages and recent results",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"solo", "duo"},
		RunE: func(cmd *cobra.Command, args []string) error {
			modes := []domain.Mode{domain.ModeSolo, domain.ModeDuo}
			if len(args) == 1 {
				m, err := parseModeArg(args[0])
				if err != nil {
					return err
				}
				modes = []domain.Mode{m}
			}
			store, closeFn, err := c.openResults()
			if err != nil {
				return err
			}
			defer closeFn() //nolint:errcheck

			return printStats(cmd.OutOrStdout(), store, modes, limit, c.isTTY(), time.Now())
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "History rows to show per mode (0 = all)")
	return cmd
}

func (c *cli) clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:       "clear solo|duo",
		Short:     "Erase every stored result for one mode",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"solo", "duo"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseModeArg(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !yes {
				fmt.Fprintf(out, "Clear all %s results? [y/N] ", mode)
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if ans := strings.ToLower(strings.TrimSpace(line)); ans != "y" && ans != "yes" {
					fmt.Fprintln(out, "Nothing cleared.")
					return nil
				}
			}

			store, closeFn, err := c.openResults()
			if err != nil {
				return err
			}
			defer closeFn() //nolint:errcheck

			if err := store.Clear(context.Background(), mode); err != nil {
				return fmt.Errorf("clear %s: %w", mode, err)
			}
			fmt.Fprintf(out, "Cleared %s results.\n", mode)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func (c *cli) configCmd() *cobra.Command {
	var initFile bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.dataDir()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if initFile {
				path := filepath.Join(dir, "config.yaml")
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists", path)
				}
				if err := config.Write(dir, config.DefaultConfig(dir)); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %s\n", path)
				return nil
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshalling config: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&initFile, "init", false, "Write a default config.yaml to the data directory")
	return cmd
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "reflex "+version)
		},
	}
}

func parseModeArg(s string) (domain.Mode, error) {
	m, ok := domain.ParseMode(strings.ToLower(s))
	if !ok {
		return domain.ModeUnset, fmt.Errorf("unknown mode %q (want solo or duo)", s)
	}
	return m, nil
}

func (c *cli) dataDir() (string, error) {
	if c.dir != "" {
		return c.dir, nil
	}
	return config.DefaultDir()
}

func (c *cli) loadConfig() (*config.Config, error) {
	dir, err := c.dataDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if c.debug {
		cfg.Debug = true
	}
	if c.ephemeral {
		cfg.Storage.Backend = kv.BackendMemory
	}
	return cfg, nil
}

// openResults loads config and opens the configured result store. The
// returned func closes the underlying backend.
func (c *cli) openResults() (*results.Store, func() error, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return openStore(cfg)
}

func openStore(cfg *config.Config) (*results.Store, func() error, error) {
	if cfg.Storage.Backend != kv.BackendMemory {
		if err := os.MkdirAll(cfg.Storage.DataDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("creating data directory: %w", err)
		}
	}
	s, err := kv.Open(cfg.Storage.Backend, cfg.StoragePath())
	if err != nil {
		return nil, nil, err
	}
	return results.New(s, cfg.Keys), s.Close, nil
}

// setupLogging sends the standard logger to the debug log file, or drops it
// so nothing scribbles over the alt screen.
func setupLogging(cfg *config.Config) (func() error, error) {
	if !cfg.Debug {
		log.SetOutput(io.Discard)
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath()), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := tea.LogToFile(cfg.LogPath(), "reflex")
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	return f.Close, nil
}

func (c *cli) play(mode domain.Mode) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck

	log.Printf("reflex %s starting backend=%s", version, cfg.Storage.Backend)
	app := tui.NewApp(store, tui.Options{
		ArenaSize:  cfg.Arena.Size,
		TargetSize: cfg.Arena.TargetSize,
		StartMode:  mode,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// printStats writes the averages and newest-first history for each mode.
func printStats(w io.Writer, store *results.Store, modes []domain.Mode, limit int, color bool, now time.Time) error {
	ctx := context.Background()
	p := newPrinter(w, color)
	p.logo()

	for _, mode := range modes {
		times, err := store.Times(ctx, mode)
		if err != nil {
			return fmt.Errorf("load %s results: %w", mode, err)
		}
		p.heading(mode.String())
		if len(times) == 0 {
			p.dim("No results yet.")
			continue
		}
		best, err := store.Best(ctx, mode)
		if err != nil {
			return fmt.Errorf("load %s results: %w", mode, err)
		}
		p.line(share.Average(mode, results.Mean(times)))
		p.line(fmt.Sprintf("Best: %s sec.", share.Seconds(best)))

		history, err := store.History(ctx, mode)
		if err != nil {
			return fmt.Errorf("load %s results: %w", mode, err)
		}
		for i, h := range history {
			if limit > 0 && i >= limit {
				break
			}
			if mode == domain.ModeSolo {
				p.row(fmt.Sprintf("#%-4d", h.N), share.Seconds(h.Seconds)+" sec.", "")
				continue
			}
			d := h.Duo
			body := fmt.Sprintf("%s %s  %s %s",
				d.Player1Name, share.Seconds(d.ElapsedSeconds1),
				d.Player2Name, share.Seconds(d.ElapsedSeconds2))
			when := ""
			if ts := d.RecordedAt(); !ts.IsZero() {
				when = humanize.RelTime(ts, now, "ago", "from now")
			}
			p.row(fmt.Sprintf("#%-4d", h.N), body, when)
		}
	}
	p.end()
	return nil
}
