package provider

import (
	"encoding/json"
	"fmt"
	"sync"
)

// sessionKey is the entry the client uses in the shared key-value store.
const sessionKey = "sc:auth_session"

// KV is the slice of the local key-value store the client needs for its own
// session persistence. Implemented by the sqlite-backed store in
// internal/credentials.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(keys ...string) error
	Available() bool
}

// SessionStore persists the provider session between runs.
type SessionStore interface {
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}

// KVSessionStore stores the session as a JSON blob in the local key-value
// store. When the store is unavailable the session degrades to memory only.
type KVSessionStore struct {
	kv KV
}

// NewKVSessionStore creates a [KVSessionStore] backed by the given store.
func NewKVSessionStore(kv KV) *KVSessionStore {
	return &KVSessionStore{kv: kv}
}

func (s *KVSessionStore) Load() (*Session, error) {
	if !s.kv.Available() {
		return nil, nil
	}

	raw, ok, err := s.kv.Get(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("failed to decode stored session: %w", err)
	}
	return &session, nil
}

func (s *KVSessionStore) Save(session *Session) error {
	if !s.kv.Available() {
		return nil
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.kv.Set(sessionKey, string(data))
}

func (s *KVSessionStore) Clear() error {
	if !s.kv.Available() {
		return nil
	}
	return s.kv.Delete(sessionKey)
}

// MemorySessionStore keeps the session in memory only. Used as the fallback
// when no durable store is wired, and in tests.
type MemorySessionStore struct {
	mu      sync.Mutex
	session *Session
}

func (s *MemorySessionStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, nil
}

func (s *MemorySessionStore) Save(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	return nil
}

func (s *MemorySessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
