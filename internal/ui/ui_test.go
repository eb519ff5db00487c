package ui

import (
	"context"
	"testing"

	"github.com/SoundCheckApp/soundcheck/internal/auth"
	"github.com/SoundCheckApp/soundcheck/internal/credentials"
	"github.com/SoundCheckApp/soundcheck/internal/forms"
	itesting "github.com/SoundCheckApp/soundcheck/internal/testing"
	tea "github.com/charmbracelet/bubbletea"
)

func newTestDeps(svc *itesting.MockAuthService, kv *itesting.MemKV) *Deps {
	return &Deps{
		Ctx:         context.Background(),
		Auth:        svc,
		Credentials: credentials.NewStore(kv, nil),
	}
}

// drain executes a command tree, flattening batches into the produced
// messages. Tick-based commands are not executed; they show up as nil-free
// entries only when their timer would have fired, which tests avoid by
// delivering the tick message directly.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, drain(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyEnter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func TestLaunchScreen(t *testing.T) {
	deps := newTestDeps(&itesting.MockAuthService{}, itesting.NewMemKV())

	t.Run("replaces itself with sign-in after the splash", func(t *testing.T) {
		s := newLaunchScreen(deps)

		_, cmd := s.Update(launchDoneMsg{id: s.id})
		msgs := drain(cmd)
		if len(msgs) != 1 {
			t.Fatalf("expected one navigation message, got %d", len(msgs))
		}
		rep, ok := msgs[0].(replaceMsg)
		if !ok {
			t.Fatalf("expected replaceMsg, got %T", msgs[0])
		}
		if _, ok := rep.s.(*signInScreen); !ok {
			t.Errorf("expected sign-in screen, got %T", rep.s)
		}
	})

	t.Run("ignores a tick from another instance", func(t *testing.T) {
		s := newLaunchScreen(deps)

		_, cmd := s.Update(launchDoneMsg{id: "someone-else"})
		if cmd != nil {
			t.Error("stale splash tick must not navigate")
		}
	})
}

func TestSignInScreen(t *testing.T) {
	t.Run("empty submit fails locally without a provider call", func(t *testing.T) {
		svc := &itesting.MockAuthService{}
		s := newSignInScreen(newTestDeps(svc, itesting.NewMemKV()))

		_, cmd := s.Update(keyEnter())
		if cmd != nil {
			t.Error("validation failure should not produce a command")
		}
		if s.form.Err != forms.MsgFillAllFields {
			t.Errorf("expected %q, got %q", forms.MsgFillAllFields, s.form.Err)
		}
		if svc.SignInCalls != 0 {
			t.Errorf("provider must not be called, got %d calls", svc.SignInCalls)
		}
	})

	t.Run("valid submit calls the provider exactly once", func(t *testing.T) {
		svc := &itesting.MockAuthService{}
		s := newSignInScreen(newTestDeps(svc, itesting.NewMemKV()))
		s.email.SetValue("sam@example.com")
		s.password.SetValue("hunter22")
		s.form.SetEmail("sam@example.com")
		s.form.SetPassword("hunter22")

		_, cmd := s.Update(keyEnter())
		if cmd == nil {
			t.Fatal("expected a sign-in command")
		}
		if !s.form.InFlight() {
			t.Error("form should be in flight after submit")
		}

		// A second enter while the call is pending must do nothing.
		_, cmd2 := s.Update(keyEnter())
		if cmd2 != nil {
			t.Error("submission while in flight should be ignored")
		}

		drain(cmd)
		if svc.SignInCalls != 1 {
			t.Errorf("expected exactly one provider call, got %d", svc.SignInCalls)
		}
	})

	t.Run("success replaces with home", func(t *testing.T) {
		svc := &itesting.MockAuthService{}
		s := newSignInScreen(newTestDeps(svc, itesting.NewMemKV()))
		s.form.SetEmail("sam@example.com")
		s.form.SetPassword("hunter22")
		s.form.Submit()

		_, cmd := s.Update(signInResultMsg{err: nil})
		msgs := drain(cmd)
		if len(msgs) != 1 {
			t.Fatalf("expected one navigation message, got %d", len(msgs))
		}
		rep, ok := msgs[0].(replaceMsg)
		if !ok {
			t.Fatalf("expected replaceMsg, got %T", msgs[0])
		}
		if _, ok := rep.s.(*homeScreen); !ok {
			t.Errorf("expected home screen, got %T", rep.s)
		}
	})

	t.Run("failure shows the provider message and editing clears it", func(t *testing.T) {
		svc := &itesting.MockAuthService{}
		s := newSignInScreen(newTestDeps(svc, itesting.NewMemKV()))
		s.email.SetValue("sam@example.com")
		s.password.SetValue("wrong")
		s.form.SetEmail("sam@example.com")
		s.form.SetPassword("wrong")
		s.form.Submit()

		s.Update(signInResultMsg{err: &auth.Error{Message: "Invalid login credentials"}})
		if s.form.Err != "Invalid login credentials" {
			t.Fatalf("expected provider message, got %q", s.form.Err)
		}

		// Typing into the focused email field clears the stale error.
		s.Update(keyRunes("x"))
		if s.form.Err != "" {
			t.Errorf("editing should clear the error, got %q", s.form.Err)
		}
	})

	t.Run("nil message falls back to generic error", func(t *testing.T) {
		s := newSignInScreen(newTestDeps(&itesting.MockAuthService{}, itesting.NewMemKV()))
		s.form.SetEmail("sam@example.com")
		s.form.SetPassword("wrong")
		s.form.Submit()

		s.Update(signInResultMsg{err: &auth.Error{}})
		if s.form.Err != signInFallback {
			t.Errorf("expected %q, got %q", signInFallback, s.form.Err)
		}
	})

	t.Run("remember me saves credentials on success", func(t *testing.T) {
		kv := itesting.NewMemKV()
		svc := &itesting.MockAuthService{}
		s := newSignInScreen(newTestDeps(svc, kv))
		s.form.SetEmail("sam@example.com")
		s.form.SetPassword("hunter22")

		s.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
		if !s.form.RememberMe {
			t.Fatal("ctrl+r should toggle remember me on")
		}

		s.form.Submit()
		s.Update(signInResultMsg{err: nil})

		if kv.Data["sc:remember_me"] != "true" {
			t.Error("expected remember-me flag to be persisted")
		}
		if kv.Data["sc:remembered_email"] != "sam@example.com" {
			t.Errorf("expected email to be persisted, got %q", kv.Data["sc:remembered_email"])
		}
	})

	t.Run("success without remember me clears stored credentials", func(t *testing.T) {
		kv := itesting.NewMemKV()
		kv.Data["sc:remembered_email"] = "old@example.com"
		kv.Data["sc:remembered_password"] = "old"
		kv.Data["sc:remember_me"] = "true"

		s := newSignInScreen(newTestDeps(&itesting.MockAuthService{}, kv))
		s.form.SetEmail("sam@example.com")
		s.form.SetPassword("hunter22")
		s.form.Submit()
		s.Update(signInResultMsg{err: nil})

		if len(kv.Data) != 0 {
			t.Errorf("expected stored credentials to be cleared, got %v", kv.Data)
		}
	})

	t.Run("toggling remember me off clears immediately", func(t *testing.T) {
		kv := itesting.NewMemKV()
		kv.Data["sc:remembered_email"] = "sam@example.com"
		kv.Data["sc:remembered_password"] = "hunter22"
		kv.Data["sc:remember_me"] = "true"

		s := newSignInScreen(newTestDeps(&itesting.MockAuthService{}, kv))
		s.Update(credentialsLoadedMsg{creds: credentials.Credentials{
			Email: "sam@example.com", Password: "hunter22", RememberMe: true,
		}})

		s.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
		if s.form.RememberMe {
			t.Fatal("ctrl+r should toggle remember me off")
		}
		if len(kv.Data) != 0 {
			t.Errorf("opting out should clear stored credentials, got %v", kv.Data)
		}
	})

	t.Run("prefills from remembered credentials", func(t *testing.T) {
		s := newSignInScreen(newTestDeps(&itesting.MockAuthService{}, itesting.NewMemKV()))

		s.Update(credentialsLoadedMsg{creds: credentials.Credentials{
			Email: "sam@example.com", Password: "hunter22", RememberMe: true,
		}})

		if s.email.Value() != "sam@example.com" {
			t.Errorf("expected prefilled email, got %q", s.email.Value())
		}
		if !s.form.RememberMe {
			t.Error("expected remember me checked after prefill")
		}
	})

	t.Run("navigates to sign-up and reset", func(t *testing.T) {
		s := newSignInScreen(newTestDeps(&itesting.MockAuthService{}, itesting.NewMemKV()))

		_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
		msgs := drain(cmd)
		if len(msgs) != 1 {
			t.Fatalf("expected one message, got %d", len(msgs))
		}
		p, ok := msgs[0].(pushMsg)
		if !ok {
			t.Fatalf("expected pushMsg, got %T", msgs[0])
		}
		if _, ok := p.s.(*signUpScreen); !ok {
			t.Errorf("expected sign-up screen, got %T", p.s)
		}

		_, cmd = s.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
		msgs = drain(cmd)
		p, ok = msgs[0].(pushMsg)
		if !ok {
			t.Fatalf("expected pushMsg, got %T", msgs[0])
		}
		if _, ok := p.s.(*resetScreen); !ok {
			t.Errorf("expected reset screen, got %T", p.s)
		}
	})
}

func TestSignUpScreen(t *testing.T) {
	fill := func(s *signUpScreen) {
		s.form.SetFullName("Sam Example")
		s.form.SetEmail("sam@example.com")
		s.form.SetPassword("hunter22")
		s.form.SetConfirm("hunter22")
	}

	t.Run("validation failures never reach the provider", func(t *testing.T) {
		svc := &itesting.MockAuthService{}
		s := newSignUpScreen(newTestDeps(svc, itesting.NewMemKV()))
		s.form.SetFullName("Sam Example")
		s.form.SetEmail("sam@example.com")
		s.form.SetPassword("abc")
		s.form.SetConfirm("xyz")

		_, cmd := s.Update(keyEnter())
		if cmd != nil {
			t.Error("validation failure should not produce a command")
		}
		if s.form.Err != forms.MsgPasswordMismatch {
			t.Errorf("expected %q, got %q", forms.MsgPasswordMismatch, s.form.Err)
		}
		if svc.SignUpCalls != 0 {
			t.Errorf("provider must not be called, got %d calls", svc.SignUpCalls)
		}
	})

	t.Run("success replaces with sign-in", func(t *testing.T) {
		svc := &itesting.MockAuthService{}
		s := newSignUpScreen(newTestDeps(svc, itesting.NewMemKV()))
		fill(s)

		_, cmd := s.Update(keyEnter())
		drain(cmd)
		if svc.SignUpCalls != 1 {
			t.Fatalf("expected one provider call, got %d", svc.SignUpCalls)
		}

		_, cmd = s.Update(signUpResultMsg{err: nil})
		msgs := drain(cmd)
		rep, ok := msgs[0].(replaceMsg)
		if !ok {
			t.Fatalf("expected replaceMsg, got %T", msgs[0])
		}
		if _, ok := rep.s.(*signInScreen); !ok {
			t.Errorf("registration should land on sign-in, got %T", rep.s)
		}
	})

	t.Run("failure keeps the screen with the message", func(t *testing.T) {
		s := newSignUpScreen(newTestDeps(&itesting.MockAuthService{}, itesting.NewMemKV()))
		fill(s)
		s.form.Submit()

		_, cmd := s.Update(signUpResultMsg{err: &auth.Error{Message: "User already registered"}})
		if cmd != nil {
			t.Error("failure should not navigate")
		}
		if s.form.Err != "User already registered" {
			t.Errorf("expected provider message, got %q", s.form.Err)
		}
	})

	t.Run("esc goes back", func(t *testing.T) {
		s := newSignUpScreen(newTestDeps(&itesting.MockAuthService{}, itesting.NewMemKV()))

		_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEsc})
		msgs := drain(cmd)
		if _, ok := msgs[0].(backMsg); !ok {
			t.Errorf("expected backMsg, got %T", msgs[0])
		}
	})
}

func TestResetScreen(t *testing.T) {
	t.Run("empty email fails locally", func(t *testing.T) {
		svc := &itesting.MockAuthService{}
		s := newResetScreen(newTestDeps(svc, itesting.NewMemKV()))

		_, cmd := s.Update(keyEnter())
		if cmd != nil {
			t.Error("validation failure should not produce a command")
		}
		if s.form.Err != forms.MsgEnterEmail {
			t.Errorf("expected %q, got %q", forms.MsgEnterEmail, s.form.Err)
		}
		if svc.ResetCalls != 0 {
			t.Errorf("provider must not be called, got %d calls", svc.ResetCalls)
		}
	})

	t.Run("success schedules the delayed return", func(t *testing.T) {
		svc := &itesting.MockAuthService{}
		s := newResetScreen(newTestDeps(svc, itesting.NewMemKV()))
		s.form.SetEmail("sam@example.com")

		_, cmd := s.Update(keyEnter())
		drain(cmd)
		if svc.ResetCalls != 1 {
			t.Fatalf("expected one provider call, got %d", svc.ResetCalls)
		}

		_, cmd = s.Update(resetResultMsg{err: nil})
		if cmd == nil {
			t.Fatal("success should arm the navigation timer")
		}
		if s.form.Status != forms.StatusSucceeded {
			t.Errorf("expected succeeded status, got %v", s.form.Status)
		}

		// The armed timer delivers the tagged message; a matching id
		// navigates back.
		_, cmd = s.Update(resetNavBackMsg{id: s.id})
		msgs := drain(cmd)
		if _, ok := msgs[0].(backMsg); !ok {
			t.Errorf("expected backMsg, got %T", msgs[0])
		}
	})

	t.Run("ignores a timer from a dismissed instance", func(t *testing.T) {
		s := newResetScreen(newTestDeps(&itesting.MockAuthService{}, itesting.NewMemKV()))

		_, cmd := s.Update(resetNavBackMsg{id: "someone-else"})
		if cmd != nil {
			t.Error("stale navigation tick must be dropped")
		}
	})

	t.Run("after success only back leaves the screen", func(t *testing.T) {
		svc := &itesting.MockAuthService{}
		s := newResetScreen(newTestDeps(svc, itesting.NewMemKV()))
		s.form.SetEmail("sam@example.com")
		s.form.Submit()
		s.Update(resetResultMsg{err: nil})

		// Typing no longer reaches the input or resubmits.
		_, cmd := s.Update(keyEnter())
		if cmd != nil {
			t.Error("enter after success should do nothing")
		}
		if svc.ResetCalls != 0 {
			t.Errorf("no further provider calls expected, got %d", svc.ResetCalls)
		}

		_, cmd = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
		msgs := drain(cmd)
		if _, ok := msgs[0].(backMsg); !ok {
			t.Errorf("expected backMsg, got %T", msgs[0])
		}
	})

	t.Run("failure shows message and allows retry", func(t *testing.T) {
		s := newResetScreen(newTestDeps(&itesting.MockAuthService{}, itesting.NewMemKV()))
		s.form.SetEmail("sam@example.com")
		s.form.Submit()

		s.Update(resetResultMsg{err: &auth.Error{}})
		if s.form.Err != resetFallback {
			t.Errorf("expected %q, got %q", resetFallback, s.form.Err)
		}
		if s.form.InFlight() {
			t.Error("form should be editable after failure")
		}
	})
}

func TestHomeScreen(t *testing.T) {
	t.Run("sign out clears credentials and returns to sign-in", func(t *testing.T) {
		kv := itesting.NewMemKV()
		kv.Data["sc:remembered_email"] = "sam@example.com"
		kv.Data["sc:remember_me"] = "true"

		svc := &itesting.MockAuthService{}
		s := newHomeScreen(newTestDeps(svc, kv))

		_, cmd := s.Update(keyRunes("s"))
		if cmd == nil {
			t.Fatal("expected a sign-out command")
		}
		if len(kv.Data) != 0 {
			t.Errorf("sign out should forget remembered credentials, got %v", kv.Data)
		}

		drain(cmd)
		if svc.SignOutCalls != 1 {
			t.Fatalf("expected one sign-out call, got %d", svc.SignOutCalls)
		}

		_, cmd = s.Update(signOutDoneMsg{err: nil})
		msgs := drain(cmd)
		rep, ok := msgs[0].(replaceMsg)
		if !ok {
			t.Fatalf("expected replaceMsg, got %T", msgs[0])
		}
		if _, ok := rep.s.(*signInScreen); !ok {
			t.Errorf("expected sign-in screen, got %T", rep.s)
		}
	})

	t.Run("keys are ignored while signing out", func(t *testing.T) {
		svc := &itesting.MockAuthService{}
		s := newHomeScreen(newTestDeps(svc, itesting.NewMemKV()))

		s.Update(keyRunes("s"))
		_, cmd := s.Update(keyRunes("s"))
		if cmd != nil {
			t.Error("second sign-out while pending should be ignored")
		}
	})
}

func TestApp(t *testing.T) {
	t.Run("starts on the launch screen", func(t *testing.T) {
		app := NewApp(context.Background(), &itesting.MockAuthService{}, credentials.NewStore(nil, nil), nil)
		if _, ok := app.top().(*launchScreen); !ok {
			t.Errorf("expected launch screen on top, got %T", app.top())
		}
	})

	t.Run("navigation stack push and back", func(t *testing.T) {
		app := NewApp(context.Background(), &itesting.MockAuthService{}, credentials.NewStore(nil, nil), nil)
		deps := app.deps

		app.Update(replaceMsg{s: newSignInScreen(deps)})
		app.Update(pushMsg{s: newResetScreen(deps)})
		if _, ok := app.top().(*resetScreen); !ok {
			t.Fatalf("expected reset screen on top, got %T", app.top())
		}

		app.Update(backMsg{})
		if _, ok := app.top().(*signInScreen); !ok {
			t.Errorf("expected sign-in screen after back, got %T", app.top())
		}
	})

	t.Run("back on the root is a no-op", func(t *testing.T) {
		app := NewApp(context.Background(), &itesting.MockAuthService{}, credentials.NewStore(nil, nil), nil)

		app.Update(backMsg{})
		if len(app.stack) != 1 {
			t.Errorf("expected stack depth 1, got %d", len(app.stack))
		}
	})

	t.Run("only the top screen receives messages", func(t *testing.T) {
		app := NewApp(context.Background(), &itesting.MockAuthService{}, credentials.NewStore(nil, nil), nil)
		deps := app.deps

		// A launch tick addressed to a screen buried under a push must
		// not navigate.
		launch := app.top().(*launchScreen)
		app.Update(pushMsg{s: newResetScreen(deps)})

		_, cmd := app.Update(launchDoneMsg{id: launch.id})
		for _, msg := range drain(cmd) {
			switch msg.(type) {
			case replaceMsg, pushMsg, backMsg:
				t.Errorf("messages must not reach screens below the top, got %T", msg)
			}
		}
		if _, ok := app.top().(*resetScreen); !ok {
			t.Errorf("expected reset screen still on top, got %T", app.top())
		}
	})

	t.Run("ctrl+c quits", func(t *testing.T) {
		app := NewApp(context.Background(), &itesting.MockAuthService{}, credentials.NewStore(nil, nil), nil)

		_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}
