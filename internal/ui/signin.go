package ui

import (
	"fmt"
	"strings"

	"github.com/SoundCheckApp/soundcheck/internal/auth"
	"github.com/SoundCheckApp/soundcheck/internal/credentials"
	"github.com/SoundCheckApp/soundcheck/internal/forms"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const signInFallback = "Sign in failed. Please try again."

// credentialsLoadedMsg delivers the remembered credentials on screen entry.
type credentialsLoadedMsg struct{ creds credentials.Credentials }

// signInResultMsg delivers the outcome of the provider call.
type signInResultMsg struct{ err *auth.Error }

type signInScreen struct {
	deps *Deps
	form forms.SignInForm

	email        textinput.Model
	password     textinput.Model
	focus        int
	showPassword bool

	spin  spinner.Model
	keys  keyMap
	help  help.Model
	width int
}

func newSignInScreen(deps *Deps) *signInScreen {
	email := textinput.New()
	email.Placeholder = "your.email@example.com"
	email.Prompt = "> "
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "> "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &signInScreen{
		deps:     deps,
		email:    email,
		password: password,
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		keys:     newKeyMap(),
		help:     help.New(),
	}
}

func (s *signInScreen) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, s.loadCredentials())
}

// loadCredentials reads the remembered pair off the update loop.
func (s *signInScreen) loadCredentials() tea.Cmd {
	store := s.deps.Credentials
	return func() tea.Msg {
		return credentialsLoadedMsg{creds: store.Load()}
	}
}

func (s *signInScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		return s, nil

	case credentialsLoadedMsg:
		if msg.creds.RememberMe {
			s.email.SetValue(msg.creds.Email)
			s.password.SetValue(msg.creds.Password)
			// Prefill bypasses the edit transitions; there is no stale
			// error to clear on a fresh screen.
			s.form.Email = msg.creds.Email
			s.form.Password = msg.creds.Password
			s.form.RememberMe = true
		}
		return s, nil

	case spinner.TickMsg:
		if !s.form.InFlight() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case signInResultMsg:
		if msg.err != nil {
			s.form.Fail(errMessage(msg.err, signInFallback))
			return s, nil
		}
		if s.form.RememberMe {
			s.deps.Credentials.Save(s.form.Email, s.form.Password)
		} else {
			s.deps.Credentials.Clear()
		}
		s.form.Succeed()
		return s, replace(newHomeScreen(s.deps))

	case tea.KeyMsg:
		if s.form.InFlight() {
			return s, nil
		}

		switch {
		case key.Matches(msg, s.keys.submit):
			return s.submit()
		case key.Matches(msg, s.keys.next):
			s.setFocus((s.focus + 1) % 2)
			return s, nil
		case key.Matches(msg, s.keys.prev):
			s.setFocus((s.focus + 1) % 2) // two fields, prev == next
			return s, nil
		case key.Matches(msg, s.keys.toggleRemember):
			s.form.RememberMe = !s.form.RememberMe
			if !s.form.RememberMe {
				// Opting out clears persisted credentials immediately,
				// not at the next sign-in.
				s.deps.Credentials.Clear()
			}
			return s, nil
		case key.Matches(msg, s.keys.togglePassword):
			s.showPassword = !s.showPassword
			if s.showPassword {
				s.password.EchoMode = textinput.EchoNormal
			} else {
				s.password.EchoMode = textinput.EchoPassword
			}
			return s, nil
		case key.Matches(msg, s.keys.signUp):
			return s, push(newSignUpScreen(s.deps))
		case key.Matches(msg, s.keys.forgot):
			return s, push(newResetScreen(s.deps))
		}
	}

	return s, s.updateInputs(msg)
}

// updateInputs forwards the message to the focused input and syncs the form,
// which clears a stale error on any edit.
func (s *signInScreen) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if s.focus == 0 {
		s.email, cmd = s.email.Update(msg)
	} else {
		s.password, cmd = s.password.Update(msg)
	}
	s.form.SetEmail(s.email.Value())
	s.form.SetPassword(s.password.Value())
	return cmd
}

func (s *signInScreen) setFocus(focus int) {
	s.focus = focus
	if focus == 0 {
		s.email.Focus()
		s.password.Blur()
	} else {
		s.email.Blur()
		s.password.Focus()
	}
}

func (s *signInScreen) submit() (screen, tea.Cmd) {
	if !s.form.Submit() {
		return s, nil
	}
	return s, tea.Batch(s.spin.Tick, s.signIn())
}

func (s *signInScreen) signIn() tea.Cmd {
	ctx, svc := s.deps.Ctx, s.deps.Auth
	email, password := s.form.Email, s.form.Password
	return func() tea.Msg {
		_, err := svc.SignIn(ctx, email, password)
		return signInResultMsg{err: err}
	}
}

func (s *signInScreen) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Welcome Back"))
	b.WriteString("\n")
	b.WriteString(styles.subtitle.Render("Sign in to your account"))
	b.WriteString("\n\n")

	b.WriteString(styles.label.Render("Email"))
	b.WriteString("\n")
	b.WriteString(s.email.View())
	b.WriteString("\n\n")
	b.WriteString(styles.label.Render("Password"))
	b.WriteString("\n")
	b.WriteString(s.password.View())
	b.WriteString("\n\n")

	check := "[ ]"
	if s.form.RememberMe {
		check = styles.accent.Render("[x]")
	}
	b.WriteString(fmt.Sprintf("%s Remember me\n\n", check))

	switch {
	case s.form.InFlight():
		b.WriteString(fmt.Sprintf("%s Signing in...\n", s.spin.View()))
	case s.form.Err != "":
		b.WriteString(styles.err.Render(s.form.Err))
		b.WriteString("\n")
	default:
		b.WriteString(styles.action.Render("SIGN IN") + styles.help.Render("  (enter)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	helpKeys := []key.Binding{s.keys.toggleRemember, s.keys.togglePassword, s.keys.signUp, s.keys.forgot, s.keys.quit}
	b.WriteString(s.help.ShortHelpView(helpKeys))

	return b.String()
}
