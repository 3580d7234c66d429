// cmd/toolbox/main.go
//
// This is the entry point for the toolbox dashboard.
//
// Flow:
// 1. Load config (TOOLBOX_CONFIG or the XDG location)
// 2. Scan the modules directory for descriptors
// 3. Build the catalog and launch the TUI

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/toolbox/internal/catalog"
	"github.com/kingrea/toolbox/internal/config"
	"github.com/kingrea/toolbox/internal/logbook"
	"github.com/kingrea/toolbox/internal/registry"
	"github.com/kingrea/toolbox/internal/tui"
)

func main() {
	os.Exit(run(os.Stderr))
}

// run owns every deferred cleanup and reports the process exit code.
func run(stderr io.Writer) int {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	// The TUI owns the terminal, so diagnostics go to a file.
	book, err := logbook.New(config.LogPath())
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v; continuing without a log file\n", err)
	}
	defer book.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := tea.NewProgram(
		newDashboard(ctx, cfg, book),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		book.Error("TUI · %v", err)
		fmt.Fprintf(stderr, "Error running TUI: %v\n", err)
		return 1
	}
	return 0
}

// newDashboard scans the modules root and builds the TUI model. A scan
// failure is logged and surfaced in the status line over the fallback
// catalog.
func newDashboard(ctx context.Context, cfg config.Config, book *logbook.Logbook) *tui.App {
	root := cfg.ResolveModulesDir("")
	book.Info("Startup · modules dir %s", root)
	if cfg.Path != "" {
		book.Info("Startup · config %s", cfg.Path)
	}

	var opts []tui.Option
	modules, err := registry.Scan(root)
	if err != nil {
		book.Error("Scan · %v", err)
		opts = append(opts, tui.WithStatus(fmt.Sprintf("Scan failed: %v", err)))
		modules = nil
	}
	book.Info("Scan · found %d module(s)", len(modules))

	opts = append(opts,
		tui.WithConfig(cfg),
		tui.WithLogbook(book),
		tui.WithContext(ctx),
	)
	return tui.New(catalog.Build(modules, root), opts...)
}
