// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"

	"github.com/SoundCheckApp/soundcheck/internal/auth"
	"github.com/SoundCheckApp/soundcheck/internal/provider"
)

// MockAuthService is a test double for [auth.Service] that records calls and
// returns scripted results.
type MockAuthService struct {
	SignUpUser    *provider.User
	SignUpErr     *auth.Error
	SignInSession *provider.Session
	SignInErr     *auth.Error
	SignOutErr    *auth.Error
	ResetErr      *auth.Error
	Session       *provider.Session
	User          *provider.User

	SignUpCalls  int
	SignInCalls  int
	SignOutCalls int
	ResetCalls   int
}

var _ auth.Service = (*MockAuthService)(nil)

func (m *MockAuthService) SignUp(ctx context.Context, email, password, fullName string) (*provider.User, *auth.Error) {
	m.SignUpCalls++
	return m.SignUpUser, m.SignUpErr
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*provider.Session, *auth.Error) {
	m.SignInCalls++
	return m.SignInSession, m.SignInErr
}

func (m *MockAuthService) SignOut(ctx context.Context) *auth.Error {
	m.SignOutCalls++
	return m.SignOutErr
}

func (m *MockAuthService) ResetPassword(ctx context.Context, email string) *auth.Error {
	m.ResetCalls++
	return m.ResetErr
}

func (m *MockAuthService) CurrentSession(ctx context.Context) *provider.Session {
	return m.Session
}

func (m *MockAuthService) CurrentUser(ctx context.Context) *provider.User {
	return m.User
}

func (m *MockAuthService) OnAuthStateChange(fn provider.ListenerFunc) func() {
	return func() {}
}

// MemKV is an in-memory key-value store for credential and session tests.
// Setting Err makes every operation fail with it; Unavailable simulates
// storage that could not be opened.
type MemKV struct {
	Data        map[string]string
	Unavailable bool
	Err         error
}

func NewMemKV() *MemKV {
	return &MemKV{Data: make(map[string]string)}
}

func (m *MemKV) Available() bool { return !m.Unavailable }

func (m *MemKV) Get(key string) (string, bool, error) {
	if m.Err != nil {
		return "", false, m.Err
	}
	value, ok := m.Data[key]
	return value, ok, nil
}

func (m *MemKV) Set(key, value string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Data[key] = value
	return nil
}

func (m *MemKV) SetMany(pairs map[string]string) error {
	if m.Err != nil {
		return m.Err
	}
	for key, value := range pairs {
		m.Data[key] = value
	}
	return nil
}

func (m *MemKV) Delete(keys ...string) error {
	if m.Err != nil {
		return m.Err
	}
	for _, key := range keys {
		delete(m.Data, key)
	}
	return nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}
