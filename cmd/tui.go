package main

import (
	"context"
	"fmt"

	"github.com/SoundCheckApp/soundcheck/internal/shared"
	"github.com/SoundCheckApp/soundcheck/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive sign-in flow.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.auth == nil {
		return fmt.Errorf("%w: auth service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.Log.Path
	if logPath == "" {
		logPath = "./tmp/soundcheck-tui.log"
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	app := ui.NewApp(ctx, r.auth, r.credentials, fileLogger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
