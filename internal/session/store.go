package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"photoshoot-bot/internal/conversation"
	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/payload"
	"photoshoot-bot/pkg/redis"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Users persists the session fields of the user record.
type Users interface {
	UpdateSession(ctx context.Context, userID uuid.UUID, entry domain.EntryPoint, nodePayload json.RawMessage, history []domain.HistoryEntry) error
}

// Store keeps conversation sessions. The user record is the source of
// truth; Redis holds a copy so a step does not need a database read.
type Store struct {
	cache  Cache
	users  Users
	ttl    time.Duration
	logger *zap.Logger
}

func New(cache Cache, users Users, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{cache: cache, users: users, ttl: ttl, logger: logger}
}

// Record is a session in the form stored with the user.
type Record struct {
	Entry   domain.EntryPoint     `json:"entry"`
	Payload json.RawMessage       `json:"payload,omitempty"`
	History []domain.HistoryEntry `json:"history,omitempty"`
}

// Load returns the session of user. A session that cannot be decoded is
// logged and replaced by a fresh one, so a bad record never locks a user out.
func (s *Store) Load(ctx context.Context, user domain.User) conversation.Session {
	data, err := s.cache.Get(ctx, key(user.ID))
	switch {
	case err == nil:
		var rec Record
		if err := json.Unmarshal(data, &rec); err == nil {
			if sess, err := Decode(rec.Entry, rec.Payload, rec.History); err == nil {
				return sess
			}
		}
		s.logger.Warn("Dropping undecodable cached session",
			zap.String("user_id", user.ID.String()))
	case !errors.Is(err, redis.ErrMiss):
		s.logger.Warn("Failed to read cached session",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	if user.Entry == nil {
		return conversation.NewSession(false)
	}
	sess, err := Decode(*user.Entry, user.NodePayload, user.History)
	if err != nil {
		s.logger.Warn("Resetting undecodable session",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		return conversation.NewSession(false)
	}
	return sess
}

// Save writes sess to the user record and then refreshes the cache. A cache
// failure is logged; the next Load reads the user record instead.
func (s *Store) Save(ctx context.Context, userID uuid.UUID, sess conversation.Session) error {
	rec, err := Encode(sess)
	if err != nil {
		return err
	}
	if err := s.users.UpdateSession(ctx, userID, rec.Entry, rec.Payload, rec.History); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.cache.Set(ctx, key(userID), data, s.ttl); err != nil {
		s.logger.Warn("Failed to cache session",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		_ = s.cache.Del(ctx, key(userID))
	}
	return nil
}

// Encode converts a session to the form stored with the user.
func Encode(sess conversation.Session) (Record, error) {
	data, err := payload.Marshal(sess.Payload)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode payload: %w", err)
	}
	rec := Record{Entry: sess.Entry, Payload: data}
	for _, f := range sess.History {
		data, err := payload.Marshal(f.Payload)
		if err != nil {
			return Record{}, fmt.Errorf("failed to encode history payload: %w", err)
		}
		rec.History = append(rec.History, domain.HistoryEntry{Entry: f.Entry, Payload: data})
	}
	return rec, nil
}

// Decode is the inverse of Encode.
func Decode(entry domain.EntryPoint, nodePayload json.RawMessage, history []domain.HistoryEntry) (conversation.Session, error) {
	if !entry.Valid() {
		return conversation.Session{}, fmt.Errorf("unknown entry point %q", entry)
	}
	p, err := payload.Unmarshal(nodePayload)
	if err != nil {
		return conversation.Session{}, fmt.Errorf("failed to decode payload: %w", err)
	}
	sess := conversation.Session{Entry: entry, Payload: p}
	for _, h := range history {
		p, err := payload.Unmarshal(h.Payload)
		if err != nil {
			return conversation.Session{}, fmt.Errorf("failed to decode history payload: %w", err)
		}
		sess.History = append(sess.History, conversation.Frame{Entry: h.Entry, Payload: p})
	}
	return sess, nil
}

func key(userID uuid.UUID) string {
	return fmt.Sprintf("session:%s", userID)
}
