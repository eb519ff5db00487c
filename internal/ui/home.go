package ui

import (
	"fmt"
	"strings"

	"github.com/SoundCheckApp/soundcheck/internal/auth"
	"github.com/SoundCheckApp/soundcheck/internal/provider"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// userLoadedMsg delivers the signed-in identity.
type userLoadedMsg struct{ user *provider.User }

// signOutDoneMsg delivers the outcome of the sign-out call.
type signOutDoneMsg struct{ err *auth.Error }

// homeScreen is the authenticated area root.
type homeScreen struct {
	deps       *Deps
	user       *provider.User
	signingOut bool
	keys       keyMap
	help       help.Model
	width      int
}

func newHomeScreen(deps *Deps) *homeScreen {
	return &homeScreen{deps: deps, keys: newKeyMap(), help: help.New()}
}

func (s *homeScreen) Init() tea.Cmd {
	return s.loadUser()
}

func (s *homeScreen) loadUser() tea.Cmd {
	ctx, svc := s.deps.Ctx, s.deps.Auth
	return func() tea.Msg {
		return userLoadedMsg{user: svc.CurrentUser(ctx)}
	}
}

func (s *homeScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width

	case userLoadedMsg:
		s.user = msg.user

	case signOutDoneMsg:
		if msg.err != nil {
			s.deps.Logger.Warn("sign out failed", "error", msg.err.Message)
		}
		return s, replace(newSignInScreen(s.deps))

	case tea.KeyMsg:
		if s.signingOut {
			return s, nil
		}
		if key.Matches(msg, s.keys.signOut) {
			s.signingOut = true
			// Explicit sign-out also forgets the remembered credentials.
			s.deps.Credentials.Clear()
			return s, s.signOut()
		}
	}
	return s, nil
}

func (s *homeScreen) signOut() tea.Cmd {
	ctx, svc := s.deps.Ctx, s.deps.Auth
	return func() tea.Msg {
		return signOutDoneMsg{err: svc.SignOut(ctx)}
	}
}

func (s *homeScreen) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("♪ SoundCheck"))
	b.WriteString("\n")

	switch {
	case s.signingOut:
		b.WriteString("Signing out...\n")
	case s.user != nil:
		name := s.user.FullName()
		if name == "" {
			name = s.user.Email
		}
		b.WriteString(fmt.Sprintf("Signed in as %s\n", styles.accent.Render(name)))
	default:
		b.WriteString(styles.subtitle.Render("Loading your account..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	helpKeys := []key.Binding{s.keys.signOut, s.keys.quit}
	b.WriteString(s.help.ShortHelpView(helpKeys))

	return b.String()
}
