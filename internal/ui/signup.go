package ui

import (
	"fmt"
	"strings"

	"github.com/SoundCheckApp/soundcheck/internal/auth"
	"github.com/SoundCheckApp/soundcheck/internal/forms"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const signUpFallback = "Sign up failed. Please try again."

// Input order on the sign-up screen.
const (
	signUpFieldName = iota
	signUpFieldEmail
	signUpFieldPassword
	signUpFieldConfirm
	signUpFieldCount
)

// signUpResultMsg delivers the outcome of the provider call.
type signUpResultMsg struct{ err *auth.Error }

type signUpScreen struct {
	deps *Deps
	form forms.SignUpForm

	inputs      [signUpFieldCount]textinput.Model
	focus       int
	showPass    bool
	showConfirm bool

	spin  spinner.Model
	keys  keyMap
	help  help.Model
	width int
}

func newSignUpScreen(deps *Deps) *signUpScreen {
	s := &signUpScreen{
		deps: deps,
		spin: spinner.New(spinner.WithSpinner(spinner.Dot)),
		keys: newKeyMap(),
		help: help.New(),
	}

	placeholders := [signUpFieldCount]string{"John Doe", "your.email@example.com", "password", "confirm password"}
	for i := range s.inputs {
		input := textinput.New()
		input.Placeholder = placeholders[i]
		input.Prompt = "> "
		if i == signUpFieldPassword || i == signUpFieldConfirm {
			input.EchoMode = textinput.EchoPassword
			input.EchoCharacter = '•'
		}
		s.inputs[i] = input
	}
	s.inputs[signUpFieldName].Focus()

	return s
}

func (s *signUpScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *signUpScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
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

	case signUpResultMsg:
		if msg.err != nil {
			s.form.Fail(errMessage(msg.err, signUpFallback))
			return s, nil
		}
		// Registration does not establish a session; the user signs in
		// with the new account.
		s.form.Succeed()
		return s, replace(newSignInScreen(s.deps))

	case tea.KeyMsg:
		if s.form.InFlight() {
			return s, nil
		}

		switch {
		case key.Matches(msg, s.keys.submit):
			return s.submit()
		case key.Matches(msg, s.keys.next):
			s.setFocus((s.focus + 1) % signUpFieldCount)
			return s, nil
		case key.Matches(msg, s.keys.prev):
			s.setFocus((s.focus + signUpFieldCount - 1) % signUpFieldCount)
			return s, nil
		case key.Matches(msg, s.keys.togglePassword):
			s.toggleEcho()
			return s, nil
		case key.Matches(msg, s.keys.back):
			return s, back()
		}
	}

	return s, s.updateInputs(msg)
}

func (s *signUpScreen) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)

	s.form.SetFullName(s.inputs[signUpFieldName].Value())
	s.form.SetEmail(s.inputs[signUpFieldEmail].Value())
	s.form.SetPassword(s.inputs[signUpFieldPassword].Value())
	s.form.SetConfirm(s.inputs[signUpFieldConfirm].Value())
	return cmd
}

func (s *signUpScreen) setFocus(focus int) {
	s.inputs[s.focus].Blur()
	s.focus = focus
	s.inputs[s.focus].Focus()
}

// toggleEcho flips visibility for whichever password field is focused.
func (s *signUpScreen) toggleEcho() {
	switch s.focus {
	case signUpFieldPassword:
		s.showPass = !s.showPass
		s.setEcho(signUpFieldPassword, s.showPass)
	case signUpFieldConfirm:
		s.showConfirm = !s.showConfirm
		s.setEcho(signUpFieldConfirm, s.showConfirm)
	}
}

func (s *signUpScreen) setEcho(field int, show bool) {
	if show {
		s.inputs[field].EchoMode = textinput.EchoNormal
	} else {
		s.inputs[field].EchoMode = textinput.EchoPassword
	}
}

func (s *signUpScreen) submit() (screen, tea.Cmd) {
	if !s.form.Submit() {
		return s, nil
	}
	return s, tea.Batch(s.spin.Tick, s.signUp())
}

func (s *signUpScreen) signUp() tea.Cmd {
	ctx, svc := s.deps.Ctx, s.deps.Auth
	email, password, name := s.form.Email, s.form.Password, s.form.FullName
	return func() tea.Msg {
		_, err := svc.SignUp(ctx, email, password, name)
		return signUpResultMsg{err: err}
	}
}

func (s *signUpScreen) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Create Account"))
	b.WriteString("\n")
	b.WriteString(styles.subtitle.Render("Sign up to get started"))
	b.WriteString("\n\n")

	labels := [signUpFieldCount]string{"Full Name", "Email", "Password", "Confirm Password"}
	for i, input := range s.inputs {
		b.WriteString(styles.label.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	switch {
	case s.form.InFlight():
		b.WriteString(fmt.Sprintf("%s Creating account...\n", s.spin.View()))
	case s.form.Err != "":
		b.WriteString(styles.err.Render(s.form.Err))
		b.WriteString("\n")
	default:
		b.WriteString(styles.action.Render("SIGN UP") + styles.help.Render("  (enter)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	helpKeys := []key.Binding{s.keys.togglePassword, s.keys.back, s.keys.quit}
	b.WriteString(s.help.ShortHelpView(helpKeys))

	return b.String()
}
