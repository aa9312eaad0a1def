package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"photoshoot-bot/internal/conversation"
	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/order"
	"photoshoot-bot/internal/payload"
	"photoshoot-bot/pkg/redis"
)

type fakeCache struct {
	data   map[string][]byte
	setErr error
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.data[key]
	if !ok {
		return nil, redis.ErrMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = data
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

type fakeUsers struct {
	users map[uuid.UUID]domain.User
	err   error
}

func (u *fakeUsers) UpdateSession(_ context.Context, userID uuid.UUID, entry domain.EntryPoint, p json.RawMessage, history []domain.HistoryEntry) error {
	if u.err != nil {
		return u.err
	}
	user := u.users[userID]
	user.ID = userID
	user.Entry = &entry
	user.NodePayload = p
	user.History = history
	u.users[userID] = user
	return nil
}

func newStore() (*Store, *fakeCache, *fakeUsers) {
	cache := &fakeCache{data: map[string][]byte{}}
	users := &fakeUsers{users: map[uuid.UUID]domain.User{}}
	return New(cache, users, time.Hour, zap.NewNop()), cache, users
}

func sampleSession() conversation.Session {
	typ := domain.OrderTypeFamily
	return conversation.Session{
		Entry:   domain.EntryOrderBuilderDate,
		Payload: payload.Calendar{Year: 2026, Month: 5, NeedsConfirm: false},
		History: []conversation.Frame{
			{Entry: domain.EntryWelcome},
			{Entry: domain.EntryOrderBuilder, Payload: payload.OrderBuilder{State: order.State{Type: &typ, HourPrice: 80}}},
		},
	}
}

func TestSaveThenLoadFromCache(t *testing.T) {
	store, cache, _ := newStore()
	userID := uuid.New()
	sess := sampleSession()

	require.NoError(t, store.Save(context.Background(), userID, sess))
	assert.Contains(t, cache.data, "session:"+userID.String())

	got := store.Load(context.Background(), domain.User{ID: userID})
	if diff := cmp.Diff(sess, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFallsBackToUserRecord(t *testing.T) {
	store, cache, users := newStore()
	userID := uuid.New()
	sess := sampleSession()
	require.NoError(t, store.Save(context.Background(), userID, sess))
	delete(cache.data, "session:"+userID.String())

	got := store.Load(context.Background(), users.users[userID])
	if diff := cmp.Diff(sess, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadNewUser(t *testing.T) {
	store, _, _ := newStore()
	got := store.Load(context.Background(), domain.User{ID: uuid.New()})
	assert.Equal(t, conversation.NewSession(false), got)
}

func TestLoadResetsCorruptRecord(t *testing.T) {
	store, cache, _ := newStore()
	entry := domain.EntryOrderBuilder
	user := domain.User{ID: uuid.New(), Entry: &entry, NodePayload: json.RawMessage(`{"bogus": true}`)}
	cache.data["session:"+user.ID.String()] = []byte("not json")

	got := store.Load(context.Background(), user)
	assert.Equal(t, conversation.NewSession(false), got)
}

func TestSaveIgnoresCacheFailure(t *testing.T) {
	store, cache, users := newStore()
	cache.setErr = errors.New("redis down")
	userID := uuid.New()

	require.NoError(t, store.Save(context.Background(), userID, sampleSession()))
	assert.Equal(t, domain.EntryOrderBuilderDate, *users.users[userID].Entry)
}

func TestSaveFailsWhenUserRecordFails(t *testing.T) {
	store, cache, users := newStore()
	users.err = errors.New("db down")

	err := store.Save(context.Background(), uuid.New(), sampleSession())
	assert.ErrorIs(t, err, users.err)
	assert.Empty(t, cache.data)
}

func TestDecodeLegacyHistory(t *testing.T) {
	history := []domain.HistoryEntry{
		{Entry: domain.EntryAbout, Payload: json.RawMessage(`{"editTextMessageId": 9}`)},
	}
	sess, err := Decode(domain.EntryPortfolio, json.RawMessage(`{"pageAt": 2}`), history)
	require.NoError(t, err)

	assert.Equal(t, payload.Page{At: 2}, sess.Payload)
	assert.Equal(t, payload.EditText{MessageID: 9}, sess.History[0].Payload)
}
