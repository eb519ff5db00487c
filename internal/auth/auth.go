// Package auth wraps the provider client behind the normalized result/error
// shape the screens consume: every operation returns either a value or an
// [*Error] carrying a human-readable message, never a raw transport fault.
package auth

import (
	"context"

	"github.com/SoundCheckApp/soundcheck/internal/provider"
	"github.com/SoundCheckApp/soundcheck/internal/shared"
	"github.com/charmbracelet/log"
)

// FallbackMessage is surfaced when the provider gives us nothing usable.
const FallbackMessage = "An unexpected error occurred. Please try again."

// Error is the normalized error shape for all auth operations.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// Service defines the authentication operations the screens and headless
// commands depend on.
type Service interface {
	// SignUp registers a new account with fullName attached as profile
	// metadata. Callers pre-validate fields; no validation happens here.
	SignUp(ctx context.Context, email, password, fullName string) (*provider.User, *Error)

	// SignIn authenticates and establishes a session.
	SignIn(ctx context.Context, email, password string) (*provider.Session, *Error)

	// SignOut invalidates the local session.
	SignOut(ctx context.Context) *Error

	// ResetPassword asks the provider to send a reset email with the
	// configured deep link.
	ResetPassword(ctx context.Context, email string) *Error

	// CurrentSession returns the current session or nil when unauthenticated.
	CurrentSession(ctx context.Context) *provider.Session

	// CurrentUser returns the current user or nil when unauthenticated.
	CurrentUser(ctx context.Context) *provider.User

	// OnAuthStateChange registers a subscriber for session transitions and
	// returns its unsubscribe function.
	OnAuthStateChange(fn provider.ListenerFunc) func()
}

// Client implements [Service] over a [provider.Client].
type Client struct {
	provider      *provider.Client
	resetRedirect string
	logger        *log.Logger
}

var _ Service = (*Client)(nil)

// NewClient creates an auth client. resetRedirect is the deep link embedded
// in password-reset emails.
func NewClient(p *provider.Client, resetRedirect string, logger *log.Logger) *Client {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Client{provider: p, resetRedirect: resetRedirect, logger: logger}
}

func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (user *provider.User, authErr *Error) {
	defer c.capture(&authErr)

	u, err := c.provider.SignUp(ctx, email, password, map[string]any{"full_name": fullName})
	if err != nil {
		return nil, c.normalize(err)
	}
	return u, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (session *provider.Session, authErr *Error) {
	defer c.capture(&authErr)

	s, err := c.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, c.normalize(err)
	}
	return s, nil
}

func (c *Client) SignOut(ctx context.Context) (authErr *Error) {
	defer c.capture(&authErr)

	if err := c.provider.SignOut(ctx); err != nil {
		return c.normalize(err)
	}
	return nil
}

func (c *Client) ResetPassword(ctx context.Context, email string) (authErr *Error) {
	defer c.capture(&authErr)

	if err := c.provider.Recover(ctx, email, c.resetRedirect); err != nil {
		return c.normalize(err)
	}
	return nil
}

/// CurrentSession swallows provider faults: an unreadable session is reported
// the same as no session.
func (c *Client) CurrentSession(ctx context.Context) *provider.Session {
	session, err := c.provider.Session(ctx)
	if err != nil {
		c.logger.Warn("failed to get session", "error", err)
		return nil
	}
	return session
}

// CurrentUser prefers a fresh fetch from the provider but falls back to the
// identity cached in the session token when the service is unreachable.
func (c *Client) CurrentUser(ctx context.Context) *provider.User {
	user, err := c.provider.User(ctx)
	if err == nil {
		return user
	}
	c.logger.Warn("failed to fetch user, using cached identity", "error", err)

	session, err := c.provider.Session(ctx)
	if err != nil || session == nil {
		return nil
	}
	if session.User != nil {
		return session.User
	}
	return session.ClaimsUser()
}

func (c *Client) OnAuthStateChange(fn provider.ListenerFunc) func() {
	return c.provider.OnAuthStateChange(fn)
}

// normalize converts any provider-layer error into the uniform [*Error]
// shape, preferring the provider's own message when present.
func (c *Client) normalize(err error) *Error {
	if apiErr, ok := err.(*provider.APIError); ok && apiErr.Message != "" {
		return &Error{Message: apiErr.Message}
	}
	c.logger.Warn("provider call failed", "error", err)
	return &Error{Message: FallbackMessage}
}

// capture converts a panic during a provider call into the generic error so
// a fault can never cross the screen boundary.
func (c *Client) capture(authErr **Error) {
	if r := recover(); r != nil {
		c.logger.Error("provider call panicked", "panic", r)
		*authErr = &Error{Message: FallbackMessage}
	}
}
