// Package credentials implements best-effort local persistence of the
// remember-me credential pair.
//
// Persistence is a convenience, never a requirement: when the underlying
// key-value store is unavailable every operation degrades to "nothing
// remembered" and the calling flow continues untouched.
package credentials

import (
	"github.com/SoundCheckApp/soundcheck/internal/shared"
	"github.com/charmbracelet/log"
)

// Storage keys. The flag value is compared against exactly "true".
const (
	keyRememberedEmail    = "sc:remembered_email"
	keyRememberedPassword = "sc:remembered_password"
	keyRememberMe         = "sc:remember_me"
)

// KeyValueStore is the durable string storage the credential store writes to.
type KeyValueStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	SetMany(pairs map[string]string) error
	Delete(keys ...string) error
	Available() bool
}

// Credentials is the remember-me record loaded back into the sign-in form.
type Credentials struct {
	Email      string
	Password   string
	RememberMe bool
}

// Store persists and retrieves the remember-me credential pair.
type Store struct {
	kv     KeyValueStore
	logger *log.Logger
}

// NewStore creates a credential store over the given key-value storage.
func NewStore(kv KeyValueStore, logger *log.Logger) *Store {
	if kv == nil {
		kv = &NullStore{}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{kv: kv, logger: logger}
}

// Save writes the email/password pair and sets the remember-me flag.
// Storage failures are logged, never returned: saving is best effort.
func (s *Store) Save(email, password string) {
	if !s.kv.Available() {
		s.logger.Warn("credential storage unavailable, not saving")
		return
	}

	err := s.kv.SetMany(map[string]string{
		keyRememberedEmail:    email,
		keyRememberedPassword: password,
		keyRememberMe:         "true",
	})
	if err != nil {
		s.logger.Warn("failed to save credentials", "error", err)
	}
}

// Load reads the remembered credentials. Any absent or unreadable entry
// yields the all-empty default with RememberMe false.
func (s *Store) Load() Credentials {
	if !s.kv.Available() {
		return Credentials{}
	}

	email, _, err := s.kv.Get(keyRememberedEmail)
	if err != nil {
		s.logger.Warn("failed to load credentials", "error", err)
		return Credentials{}
	}
	password, _, err := s.kv.Get(keyRememberedPassword)
	if err != nil {
		s.logger.Warn("failed to load credentials", "error", err)
		return Credentials{}
	}
	flag, _, err := s.kv.Get(keyRememberMe)
	if err != nil {
		s.logger.Warn("failed to load credentials", "error", err)
		return Credentials{}
	}

	if flag != "true" {
		return Credentials{}
	}
	return Credentials{Email: email, Password: password, RememberMe: true}
}

// Clear removes all three entries. Clearing credentials that were never
// stored is not an error.
func (s *Store) Clear() {
	if !s.kv.Available() {
		return
	}

	if err := s.kv.Delete(keyRememberedEmail, keyRememberedPassword, keyRememberMe); err != nil {
		s.logger.Warn("failed to clear credentials", "error", err)
	}
}

// NullStore is the fallback [KeyValueStore] used when no durable storage
// could be opened. Reads find nothing; writes succeed and store nothing.
type NullStore struct{}

func (n *NullStore) Get(string) (string, bool, error)  { return "", false, nil }
func (n *NullStore) Set(string, string) error          { return nil }
func (n *NullStore) SetMany(map[string]string) error   { return nil }
func (n *NullStore) Delete(...string) error            { return nil }
func (n *NullStore) Available() bool                   { return false }
