package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pairtalk/pairtalk/internal/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewSQLite(&config.DatabaseConfig{
		Type:   "sqlite",
		DBName: filepath.Join(t.TempDir(), "chat.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndGetMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	msgs := []*Message{
		{Room: "alice_bob", Sender: "alice", Content: "hi", Timestamp: base},
		{Room: "alice_bob", Sender: "bob", Content: "hey", Timestamp: base.Add(time.Second)},
		{Room: "bob_carol", Sender: "carol", Content: "other room", Timestamp: base},
	}
	for _, m := range msgs {
		require.NoError(t, store.AppendMessage(ctx, m))
	}

	got, err := store.GetMessages(ctx, "alice_bob")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Sender)
	assert.Equal(t, "hi", got[0].Content)
	assert.Equal(t, "bob", got[1].Sender)

	empty, err := store.GetMessages(ctx, "nobody_noone")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetMessagesWithPagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.AppendMessage(ctx, &Message{
			Room:      "alice_bob",
			Sender:    "alice",
			Content:   string(rune('a' + i)),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}

	page1, err := store.GetMessagesWithPagination(ctx, "alice_bob", 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "a", page1[0].Content)

	page3, err := store.GetMessagesWithPagination(ctx, "alice_bob", 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "e", page3[0].Content)
}

func TestNewStoreFactory(t *testing.T) {
	_, err := NewStore(&config.DatabaseConfig{Type: "cassandra"})
	assert.Error(t, err)

	store, err := NewStore(&config.DatabaseConfig{
		Type:   "sqlite",
		DBName: filepath.Join(t.TempDir(), "chat.db"),
	})
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}
