package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluentai-go/internal/model"
)

func TestDeriveUserID(t *testing.T) {
	assert.Equal(t, "alice", DeriveUserID("Alice"))
	assert.Equal(t, "mary-jane", DeriveUserID("  Mary   Jane "))
	assert.Equal(t, DeriveUserID("BOB"), DeriveUserID("bob"))
}

func TestLoginIsDeterministic(t *testing.T) {
	repo := newTestRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	id1, profile, err := svc.Login(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", id1.ID)
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, "Intermediate", profile.Level)

	// 同名（不同大小写）回到同一个账号，档案不重建
	require.NoError(t, svc.UpdateProfile(ctx, id1.ID, model.UserProfile{Name: "Alice", Level: "Advanced", Avatar: "🚀"}))
	id2, profile2, err := svc.Login(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, id1.ID, id2.ID)
	assert.Equal(t, "Advanced", profile2.Level)
}

func TestWorkingSetDefaults(t *testing.T) {
	svc := NewUserService(newTestRepo())
	ws := svc.WorkingSet(context.Background(), "newcomer")

	require.Len(t, ws.Vocabulary, 1)
	assert.Equal(t, "Latte", ws.Vocabulary[0].Word)
	assert.Empty(t, ws.Sessions)
	assert.Empty(t, ws.Activity)
}

func TestLoginRejectsEmptyName(t *testing.T) {
	svc := NewUserService(newTestRepo())
	_, _, err := svc.Login(context.Background(), "   ")
	assert.Error(t, err)
}

func TestLogoutKeepsUserData(t *testing.T) {
	repo := newTestRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	identity, _, err := svc.Login(ctx, "Alice")
	require.NoError(t, err)
	require.NoError(t, repo.SaveVocabulary(ctx, identity.ID, []model.VocabularyWord{{ID: "w1", Word: "keep"}}))

	require.NoError(t, svc.Logout(ctx))

	_, loggedIn := svc.Current(ctx)
	assert.False(t, loggedIn)
	words := repo.LoadVocabulary(ctx, identity.ID)
	require.Len(t, words, 1)
	assert.Equal(t, "keep", words[0].Word)
}

func TestPurgeResetsAllCollections(t *testing.T) {
	repo := newTestRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	identity, _, err := svc.Login(ctx, "Alice")
	require.NoError(t, err)
	require.NoError(t, repo.SaveVocabulary(ctx, identity.ID, []model.VocabularyWord{{ID: "w1", Word: "extra"}}))
	require.NoError(t, repo.SaveSessions(ctx, identity.ID, []model.ConversationSession{{ID: "s1"}}))
	require.NoError(t, repo.SaveActivity(ctx, identity.ID, model.DailyActivity{"2026-03-10": 300}))
	require.NoError(t, svc.UpdateProfile(ctx, identity.ID, model.UserProfile{Name: "Alice", Level: "Advanced", Avatar: "🚀"}))

	require.NoError(t, svc.Purge(ctx, identity.ID))

	words := repo.LoadVocabulary(ctx, identity.ID)
	require.Len(t, words, 1)
	assert.Equal(t, "Latte", words[0].Word, "词汇表回到种子状态")
	assert.Empty(t, repo.LoadSessions(ctx, identity.ID))
	assert.Empty(t, repo.LoadActivity(ctx, identity.ID))

	profile, found := repo.LoadProfile(ctx, identity.ID)
	require.True(t, found)
	assert.Equal(t, "Alice", profile.Name, "重置保留名字")
	assert.Equal(t, "Intermediate", profile.Level)

	_, loggedIn := svc.Current(ctx)
	assert.True(t, loggedIn, "重置后仍保持登录")
}
