package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/eringen/pressroom/kv"
)

// SessionKey is the default backend key for KVSessions.
const SessionKey = "admin_session"

// KVSessions keeps a single Session as JSON in a kv.Backend.
type KVSessions struct {
	backend kv.Backend
	key     string
}

// NewKVSessions returns a SessionStore under key (SessionKey if empty).
func NewKVSessions(b kv.Backend, key string) *KVSessions {
	if key == "" {
		key = SessionKey
	}
	return &KVSessions{backend: b, key: key}
}

func (s *KVSessions) Load(ctx context.Context) (*Session, error) {
	raw, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *KVSessions) Save(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.backend.Put(ctx, s.key, raw)
}

func (s *KVSessions) Clear(ctx context.Context) error {
	return s.backend.Delete(ctx, s.key)
}
