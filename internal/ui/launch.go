package ui

import (
	"fmt"
	"time"

	"github.com/SoundCheckApp/soundcheck/internal/shared"
	tea "github.com/charmbracelet/bubbletea"
)

// splashDelay is how long the branding screen is shown before sign-in.
const splashDelay = 2500 * time.Millisecond

// launchDoneMsg carries the instance id of the splash that scheduled it, so a
// tick from a torn-down splash is ignored.
type launchDoneMsg struct{ id string }

// launchScreen shows branding, then unconditionally replaces itself with the
// sign-in screen.
type launchScreen struct {
	deps  *Deps
	id    string
	width int
}

func newLaunchScreen(deps *Deps) *launchScreen {
	return &launchScreen{deps: deps, id: shared.GenerateID()}
}

func (s *launchScreen) Init() tea.Cmd {
	id := s.id
	return tea.Tick(splashDelay, func(time.Time) tea.Msg {
		return launchDoneMsg{id: id}
	})
}

func (s *launchScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width

	case launchDoneMsg:
		if msg.id == s.id {
			return s, replace(newSignInScreen(s.deps))
		}
	}
	return s, nil
}

func (s *launchScreen) View() string {
	logo := styles.title.Render("♪ SoundCheck")
	tagline := styles.subtitle.Render("Music Anytime... Anywhere")
	return fmt.Sprintf("\n\n%s\n%s\n", logo, tagline)
}
