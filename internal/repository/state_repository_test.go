package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluentai-go/internal/model"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return v, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func TestMissingCollectionsDefault(t *testing.T) {
	repo := NewStateRepository(newMemStore())
	ctx := context.Background()

	words := repo.LoadVocabulary(ctx, "ghost")
	require.Len(t, words, 1, "词汇表默认是单个种子词")
	assert.Empty(t, repo.LoadSessions(ctx, "ghost"))
	assert.Empty(t, repo.LoadActivity(ctx, "ghost"))
	_, found := repo.LoadProfile(ctx, "ghost")
	assert.False(t, found)
}

func TestMalformedBlobTreatedAsAbsent(t *testing.T) {
	store := newMemStore()
	repo := NewStateRepository(store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, blobKey("alice", CollectionSessions), []byte("not-json{{")))
	require.NoError(t, store.Set(ctx, blobKey("alice", CollectionVocab), []byte(`{"wrong":"shape"}`)))

	assert.Empty(t, repo.LoadSessions(ctx, "alice"))
	words := repo.LoadVocabulary(ctx, "alice")
	require.Len(t, words, 1)
	assert.Equal(t, "Latte", words[0].Word)
}

func TestRoundTrip(t *testing.T) {
	repo := NewStateRepository(newMemStore())
	ctx := context.Background()

	sessions := []model.ConversationSession{{
		ID:       "1700000000000",
		Scenario: model.Scenario{ID: "coffee-shop", Title: "Ordering Coffee"},
		Mode:     model.ModeFree,
		Messages: []model.ChatMessage{{ID: "m1", Role: model.RoleAI, Text: "Hi"}},
	}}
	require.NoError(t, repo.SaveSessions(ctx, "alice", sessions))

	loaded := repo.LoadSessions(ctx, "alice")
	require.Len(t, loaded, 1)
	assert.Equal(t, sessions[0], loaded[0])
}

func TestCurrentUserPointer(t *testing.T) {
	repo := NewStateRepository(newMemStore())
	ctx := context.Background()

	assert.Empty(t, repo.CurrentUser(ctx))
	require.NoError(t, repo.SetCurrentUser(ctx, "alice"))
	assert.Equal(t, "alice", repo.CurrentUser(ctx))
	require.NoError(t, repo.ClearCurrentUser(ctx))
	assert.Empty(t, repo.CurrentUser(ctx))
}

func TestLockUserSerializesMutations(t *testing.T) {
	repo := NewStateRepository(newMemStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := repo.LockUser("alice")
			defer unlock()
			activity := repo.LoadActivity(ctx, "alice")
			activity["2026-03-10"] += 10
			_ = repo.SaveActivity(ctx, "alice", activity)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(200), repo.LoadActivity(ctx, "alice")["2026-03-10"])
}
