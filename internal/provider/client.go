package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/SoundCheckApp/soundcheck/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Client is the long-lived handle to the hosted authentication service.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *log.Logger

	// emailLimiter throttles the endpoints that cause the service to send
	// mail (sign-up, recover), matching its per-client rate limits.
	emailLimiter *rate.Limiter

	mu        sync.Mutex
	session   *Session
	store     SessionStore
	listeners map[string]ListenerFunc
}

// Options contains optional dependencies for [NewClient].
type Options struct {
	HTTPClient   *http.Client
	Store        SessionStore
	Logger       *log.Logger
	EmailLimiter *rate.Limiter
}

// NewClient creates a provider client for the service at baseURL, loading any
// previously persisted session from the store.
func NewClient(baseURL, anonKey string, opts Options) *Client {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:9999"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Store == nil {
		opts.Store = &MemorySessionStore{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.EmailLimiter == nil {
		opts.EmailLimiter = rate.NewLimiter(rate.Every(10*time.Second), 4)
	}

	c := &Client{
		baseURL:      baseURL,
		anonKey:      anonKey,
		httpClient:   opts.HTTPClient,
		logger:       opts.Logger,
		emailLimiter: opts.EmailLimiter,
		store:        opts.Store,
		listeners:    make(map[string]ListenerFunc),
	}

	if session, err := c.store.Load(); err != nil {
		c.logger.Warn("failed to load persisted session", "error", err)
	} else {
		c.session = session
	}

	return c
}

// SignUp registers a new account with the given metadata attached to the
// user profile. The created identity is returned; no session is established.
func (c *Client) SignUp(ctx context.Context, email, password string, data map[string]any) (*User, error) {
	if !c.emailLimiter.Allow() {
		return nil, &APIError{Status: http.StatusTooManyRequests, Message: "Too many requests. Please wait a moment and try again."}
	}

	body := map[string]any{"email": email, "password": password}
	if len(data) > 0 {
		body["data"] = data
	}

	// Depending on service configuration the response is either the bare
	// user object or a session envelope wrapping it.
	var resp struct {
		ID           string         `json:"id"`
		Email        string         `json:"email"`
		UserMetadata map[string]any `json:"user_metadata"`
		User         *User          `json:"user"`
	}
	if err := c.post(ctx, "/auth/v1/signup", "", body, &resp); err != nil {
		return nil, err
	}

	if resp.User != nil {
		return resp.User, nil
	}
	return &User{ID: resp.ID, Email: resp.Email, UserMetadata: resp.UserMetadata}, nil
}

// SignInWithPassword authenticates with an email/password pair. The returned
// session is persisted and [SignedIn] is emitted to subscribers.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var resp tokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/auth/v1/token?grant_type=password", "", body, &resp); err != nil {
		return nil, err
	}

	session := resp.session()
	c.setSession(session, SignedIn)
	return session, nil
}

// SignOut invalidates the local session and emits [SignedOut]. The server-side
// revocation is best effort: a failed revoke call is logged, not returned,
// because the local session is already gone.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	c.setSession(nil, SignedOut)

	if session == nil || session.Token == nil || session.Token.AccessToken == "" {
		return nil
	}
	if err := c.post(ctx, "/auth/v1/logout", session.Token.AccessToken, nil, nil); err != nil {
		c.logger.Warn("failed to revoke session on server", "error", err)
	}
	return nil
}

// Recover asks the service to send a password-reset email. The redirectTo deep
// link is embedded in the mail so the user can resume the flow in the app.
func (c *Client) Recover(ctx context.Context, email, redirectTo string) error {
	if !c.emailLimiter.Allow() {
		return &APIError{Status: http.StatusTooManyRequests, Message: "Too many requests. Please wait a moment and try again."}
	}

	path := "/auth/v1/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	return c.post(ctx, path, "", map[string]string{"email": email}, nil)
}

// Session returns the current session, refreshing it through the service when
// the access token has expired. Returns nil when unauthenticated.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return nil, nil
	}
	if session.Valid() {
		return session, nil
	}
	return c.refresh(ctx, session)
}

// User fetches the current user from the service, or nil when unauthenticated.
func (c *Client) User(ctx context.Context) (*User, error) {
	session, err := c.Session(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	var user User
	if err := c.get(ctx, "/auth/v1/user", session.Token.AccessToken, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// OnAuthStateChange registers a subscriber for session transitions and
// returns its unsubscribe function.
func (c *Client) OnAuthStateChange(fn ListenerFunc) func() {
	id := shared.GenerateID()
	c.mu.Lock()
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// refresh exchanges the refresh token for a new session. A 4xx from the
// service means the session was revoked server-side: the local session is
// cleared and nil is returned, same as being signed out.
func (c *Client) refresh(ctx context.Context, session *Session) (*Session, error) {
	if session.Token == nil || session.Token.RefreshToken == "" {
		c.setSession(nil, SignedOut)
		return nil, nil
	}

	var resp tokenResponse
	body := map[string]string{"refresh_token": session.Token.RefreshToken}
	if err := c.post(ctx, "/auth/v1/token?grant_type=refresh_token", "", body, &resp); err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.Status >= 400 && apiErr.Status < 500 {
			c.setSession(nil, SignedOut)
			return nil, nil
		}
		return nil, err
	}

	next := resp.session()
	if next.User == nil {
		next.User = session.User
	}
	c.setSession(next, TokenRefreshed)
	return next, nil
}

// setSession swaps the current session, persists the change, and notifies
// subscribers outside the lock.
func (c *Client) setSession(session *Session, event AuthChangeEvent) {
	c.mu.Lock()
	c.session = session

	var err error
	if session == nil {
		err = c.store.Clear()
	} else {
		err = c.store.Save(session)
	}

	listeners := make([]ListenerFunc, 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("failed to persist session", "error", err)
	}

	for _, fn := range listeners {
		fn(event, session)
	}
}

func (c *Client) post(ctx context.Context, path, bearer string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, bearer, body, result)
}

func (c *Client) get(ctx context.Context, path, bearer string, result any) error {
	return c.do(ctx, http.MethodGet, path, bearer, nil, result)
}

// do performs a JSON request against the service. Non-2xx responses are
// decoded into [APIError] values.
func (c *Client) do(ctx context.Context, method, path, bearer string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, raw)
	}

	if result != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// decodeError converts an error response body into an [APIError].
func decodeError(status int, body []byte) *APIError {
	var resp errorResponse
	msg := ""
	if err := json.Unmarshal(body, &resp); err == nil {
		msg = resp.message()
	}
	if msg == "" {
		msg = fmt.Sprintf("provider returned status %d", status)
	}
	return &APIError{Status: status, Message: msg}
}
