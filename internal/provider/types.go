package provider

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// AuthChangeEvent identifies a session transition reported to subscribers.
type AuthChangeEvent string

const (
	SignedIn       AuthChangeEvent = "SIGNED_IN"
	SignedOut      AuthChangeEvent = "SIGNED_OUT"
	TokenRefreshed AuthChangeEvent = "TOKEN_REFRESHED"
)

// ListenerFunc receives auth state change notifications.
// The session is nil for [SignedOut].
type ListenerFunc func(event AuthChangeEvent, session *Session)

// User represents an account identity held by the authentication service.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    string         `json:"created_at,omitempty"`
}

// FullName returns the full_name metadata attached at sign-up, or "".
func (u *User) FullName() string {
	if u == nil || u.UserMetadata == nil {
		return ""
	}
	if name, ok := u.UserMetadata["full_name"].(string); ok {
		return name
	}
	return ""
}

// Session represents "this device is authenticated as user U".
//
// The token is an [oauth2.Token] carrying the access/refresh pair and expiry
// issued by the service. Sessions are opaque to callers: they are persisted
// and refreshed by the [Client], never parsed outside this package.
type Session struct {
	Token *oauth2.Token `json:"token"`
	User  *User         `json:"user,omitempty"`
}

// Valid reports whether the session holds a usable access token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != nil && s.Token.Valid()
}

// ClaimsUser derives the user identity from the access token claims without a
// network call. Returns nil when the token is absent or unparseable.
//
// The token signature is NOT verified here; the claims are only used as a
// local cache of identity the service already attested.
func (s *Session) ClaimsUser() *User {
	if s == nil || s.Token == nil || s.Token.AccessToken == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token.AccessToken, claims); err != nil {
		return nil
	}

	user := &User{}
	if sub, ok := claims["sub"].(string); ok {
		user.ID = sub
	}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if md, ok := claims["user_metadata"].(map[string]any); ok {
		user.UserMetadata = md
	}

	if user.ID == "" && user.Email == "" {
		return nil
	}
	return user
}

// APIError represents an error response from the authentication service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider error (status %d): %s", e.Status, e.Message)
}

// tokenResponse mirrors the service's token grant payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// session converts a token grant into a [Session].
func (t *tokenResponse) session() *Session {
	token := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
	}
	if t.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return &Session{Token: token, User: t.User}
}

// errorResponse covers the message fields the service uses across endpoints.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e *errorResponse) message() string {
	for _, msg := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if msg != "" {
			return msg
		}
	}
	return ""
}
