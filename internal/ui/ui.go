package ui

import (
	"context"

	"github.com/SoundCheckApp/soundcheck/internal/auth"
	"github.com/SoundCheckApp/soundcheck/internal/credentials"
	"github.com/SoundCheckApp/soundcheck/internal/shared"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// Deps holds the collaborators shared by every screen.
type Deps struct {
	Ctx         context.Context
	Auth        auth.Service
	Credentials *credentials.Store
	Logger      *log.Logger
}

// screen is one view in the navigation stack.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
}

// Navigation messages. The stack operations mirror the mobile router:
// push adds a route, replace swaps the current one (so back-navigation
// skips it), back pops to the previous route.
type pushMsg struct{ s screen }
type replaceMsg struct{ s screen }
type backMsg struct{}

func push(s screen) tea.Cmd {
	return func() tea.Msg { return pushMsg{s: s} }
}

func replace(s screen) tea.Cmd {
	return func() tea.Msg { return replaceMsg{s: s} }
}

func back() tea.Cmd {
	return func() tea.Msg { return backMsg{} }
}

// App is the root bubbletea model: a navigation stack of screens starting at
// the launch splash.
type App struct {
	deps   *Deps
	stack  []screen
	width  int
	height int
}

// NewApp creates the application model with the provided dependencies.
func NewApp(ctx context.Context, svc auth.Service, creds *credentials.Store, logger *log.Logger) *App {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	deps := &Deps{Ctx: ctx, Auth: svc, Credentials: creds, Logger: logger}
	return &App{
		deps:  deps,
		stack: []screen{newLaunchScreen(deps)},
	}
}

func (a *App) Init() tea.Cmd {
	return a.top().Init()
}

// Update dispatches navigation messages itself and forwards everything else
// to the screen on top of the stack. Screens below the top never receive
// messages, which is what makes stale timer ticks harmless.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		for i, s := range a.stack {
			a.stack[i], _ = s.Update(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case pushMsg:
		a.stack = append(a.stack, msg.s)
		return a, msg.s.Init()

	case replaceMsg:
		a.stack[len(a.stack)-1] = msg.s
		return a, msg.s.Init()

	case backMsg:
		if len(a.stack) > 1 {
			a.stack = a.stack[:len(a.stack)-1]
		}
		return a, nil
	}

	top, cmd := a.top().Update(msg)
	a.stack[len(a.stack)-1] = top
	return a, cmd
}

func (a *App) View() string {
	return a.top().View()
}

func (a *App) top() screen {
	return a.stack[len(a.stack)-1]
}

// errMessage returns the provider's message when present, else the screen's
// generic fallback.
func errMessage(err *auth.Error, fallback string) string {
	if err != nil && err.Message != "" {
		return err.Message
	}
	return fallback
}
