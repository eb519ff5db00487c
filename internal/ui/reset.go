package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/SoundCheckApp/soundcheck/internal/auth"
	"github.com/SoundCheckApp/soundcheck/internal/forms"
	"github.com/SoundCheckApp/soundcheck/internal/shared"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const resetFallback = "Failed to send reset email. Please try again."

// resetNavDelay is how long the confirmation is shown before returning to
// the previous screen.
const resetNavDelay = 2 * time.Second

// resetResultMsg delivers the outcome of the provider call.
type resetResultMsg struct{ err *auth.Error }

// resetNavBackMsg triggers the delayed back-navigation. It carries the
// scheduling screen's instance id so a tick from a dismissed screen is
// dropped.
type resetNavBackMsg struct{ id string }

type resetScreen struct {
	deps *Deps
	id   string
	form forms.ResetForm

	email textinput.Model
	spin  spinner.Model
	keys  keyMap
	help  help.Model
	width int
}

func newResetScreen(deps *Deps) *resetScreen {
	email := textinput.New()
	email.Placeholder = "your.email@example.com"
	email.Prompt = "> "
	email.Focus()

	return &resetScreen{
		deps:  deps,
		id:    shared.GenerateID(),
		email: email,
		spin:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		keys:  newKeyMap(),
		help:  help.New(),
	}
}

func (s *resetScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *resetScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		return s, nil

	case spinner.TickMsg:
		if !s.form.InFlight() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case resetResultMsg:
		if msg.err != nil {
			s.form.Fail(errMessage(msg.err, resetFallback))
			return s, nil
		}
		s.form.Succeed()
		return s, s.scheduleNavBack()

	case resetNavBackMsg:
		if msg.id == s.id {
			return s, back()
		}
		return s, nil

	case tea.KeyMsg:
		if s.form.InFlight() {
			return s, nil
		}
		// Success is terminal for this screen instance; only the delayed
		// navigation or an explicit back can leave it.
		if s.form.Status == forms.StatusSucceeded {
			if key.Matches(msg, s.keys.back) {
				return s, back()
			}
			return s, nil
		}

		switch {
		case key.Matches(msg, s.keys.submit):
			return s.submit()
		case key.Matches(msg, s.keys.back):
			return s, back()
		}
	}

	return s, s.updateInput(msg)
}

func (s *resetScreen) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.email, cmd = s.email.Update(msg)
	s.form.SetEmail(s.email.Value())
	return cmd
}

func (s *resetScreen) submit() (screen, tea.Cmd) {
	if !s.form.Submit() {
		return s, nil
	}
	return s, tea.Batch(s.spin.Tick, s.reset())
}

func (s *resetScreen) reset() tea.Cmd {
	ctx, svc := s.deps.Ctx, s.deps.Auth
	email := s.form.Email
	return func() tea.Msg {
		return resetResultMsg{err: svc.ResetPassword(ctx, email)}
	}
}

// scheduleNavBack arms the fixed-delay return to the previous screen.
func (s *resetScreen) scheduleNavBack() tea.Cmd {
	id := s.id
	return tea.Tick(resetNavDelay, func(time.Time) tea.Msg {
		return resetNavBackMsg{id: id}
	})
}

func (s *resetScreen) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Reset Password"))
	b.WriteString("\n")
	b.WriteString(styles.subtitle.Render("Enter your email address and we'll send you a link to reset your password"))
	b.WriteString("\n\n")

	b.WriteString(styles.label.Render("Email"))
	b.WriteString("\n")
	b.WriteString(s.email.View())
	b.WriteString("\n\n")

	switch {
	case s.form.InFlight():
		b.WriteString(fmt.Sprintf("%s Sending reset link...\n", s.spin.View()))
	case s.form.Status == forms.StatusSucceeded:
		b.WriteString(styles.ok.Render("✓ Password reset email sent. Check your inbox."))
		b.WriteString("\n")
		b.WriteString(styles.subtitle.Render("Returning to sign in..."))
		b.WriteString("\n")
	case s.form.Err != "":
		b.WriteString(styles.err.Render(s.form.Err))
		b.WriteString("\n")
	default:
		b.WriteString(styles.action.Render("SEND RESET LINK") + styles.help.Render("  (enter)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	helpKeys := []key.Binding{s.keys.back, s.keys.quit}
	b.WriteString(s.help.ShortHelpView(helpKeys))

	return b.String()
}
