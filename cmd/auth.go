package main

import (
	"context"
	"fmt"

	"github.com/SoundCheckApp/soundcheck/internal/forms"
	"github.com/SoundCheckApp/soundcheck/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthRegister creates a new account. Validation mirrors the sign-up screen,
// so the same messages appear in both surfaces.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	form := forms.SignUpForm{
		FullName: cmd.String("name"),
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
		Confirm:  cmd.String("confirm"),
	}
	if !cmd.IsSet("confirm") {
		form.Confirm = form.Password
	}

	if msg := form.Validate(); msg != "" {
		return fmt.Errorf("%w: %s", shared.ErrInvalidInput, msg)
	}

	user, authErr := r.auth.SignUp(ctx, form.Email, form.Password, form.FullName)
	if authErr != nil {
		return fmt.Errorf("%w: %s", shared.ErrSignUpFailed, authErr.Message)
	}

	r.logger.Info("account created", "email", user.Email)

	// Registration does not establish a session.
	return r.writePlain("✓ Account created for %s. You can now sign in.\n", user.Email)
}

// AuthLogin signs in with email and password. With --remember the
// credentials are persisted for the next sign-in; without it any previously
// remembered credentials are cleared.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	form := forms.SignInForm{
		Email:      cmd.String("email"),
		Password:   cmd.String("password"),
		RememberMe: cmd.Bool("remember"),
	}

	if msg := form.Validate(); msg != "" {
		return fmt.Errorf("%w: %s", shared.ErrInvalidInput, msg)
	}

	session, authErr := r.auth.SignIn(ctx, form.Email, form.Password)
	if authErr != nil {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, authErr.Message)
	}

	if form.RememberMe {
		r.credentials.Save(form.Email, form.Password)
	} else {
		r.credentials.Clear()
	}

	name := form.Email
	if session != nil && session.User != nil && session.User.FullName() != "" {
		name = session.User.FullName()
	}

	return r.writePlain("✓ Signed in as %s\n", name)
}

// AuthLogout signs out and forgets remembered credentials.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if authErr := r.auth.SignOut(ctx); authErr != nil {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, authErr.Message)
	}

	r.credentials.Clear()

	return r.writePlain("✓ Signed out\n")
}

// AuthReset asks the provider to send a password reset email.
func (r *Runner) AuthReset(ctx context.Context, cmd *cli.Command) error {
	form := forms.ResetForm{Email: cmd.String("email")}

	if msg := form.Validate(); msg != "" {
		return fmt.Errorf("%w: %s", shared.ErrInvalidInput, msg)
	}

	if authErr := r.auth.ResetPassword(ctx, form.Email); authErr != nil {
		return fmt.Errorf("%w: %s", shared.ErrResetFailed, authErr.Message)
	}

	return r.writePlain("✓ Password reset email sent to %s. Check your inbox.\n", form.Email)
}

type authStatus struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	Remembered    bool   `json:"remembered_credentials"`
}

// AuthStatus reports whether a session is active.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	status := authStatus{
		Remembered: r.credentials.Load().RememberMe,
	}

	if session := r.auth.CurrentSession(ctx); session != nil && session.Valid() {
		status.Authenticated = true
		if session.User != nil {
			status.Email = session.User.Email
		}
		if session.Token != nil && !session.Token.Expiry.IsZero() {
			status.ExpiresAt = session.Token.Expiry.UTC().Format("2006-01-02 15:04:05 MST")
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	if !status.Authenticated {
		return r.writePlain("Not signed in\n")
	}

	if err := r.writePlain("Signed in as %s\n", status.Email); err != nil {
		return err
	}
	if status.ExpiresAt != "" {
		return r.writePlain("Session expires at %s\n", status.ExpiresAt)
	}
	return nil
}

// AuthWhoami prints the signed-in user's identity.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	user := r.auth.CurrentUser(ctx)
	if user == nil {
		return fmt.Errorf("%w: sign in first", shared.ErrNotAuthenticated)
	}

	if name := user.FullName(); name != "" {
		return r.writePlain("%s <%s>\n", name, user.Email)
	}
	return r.writePlain("%s\n", user.Email)
}
