package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluentai-go/internal/model"
)

func testScenario(id string) model.Scenario {
	return model.Scenario{ID: id, Title: "Test", InitialMessage: "Hello!"}
}

func TestStartOrResumeCreatesThenResumes(t *testing.T) {
	repo := newTestRepo()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)
	clock := base
	svc := &sessionService{repo: repo, now: func() time.Time { return clock }}
	ctx := context.Background()

	first, err := svc.StartOrResume(ctx, "alice", testScenario("coffee-shop"), model.ModeFree)
	require.NoError(t, err)
	assert.Empty(t, first.Messages)
	assert.Equal(t, base.UnixMilli(), first.StartTime)

	// 另一个 (场景, 模式) 组合产生独立会话
	clock = base.Add(time.Minute)
	_, err = svc.StartOrResume(ctx, "alice", testScenario("coffee-shop"), model.ModeGuided)
	require.NoError(t, err)
	assert.Len(t, svc.List(ctx, "alice"), 2)

	// 同组合再次打开是恢复而不是新建
	clock = base.Add(2 * time.Minute)
	resumed, err := svc.StartOrResume(ctx, "alice", testScenario("coffee-shop"), model.ModeFree)
	require.NoError(t, err)
	assert.Equal(t, first.ID, resumed.ID)
	assert.Greater(t, resumed.LastUpdated, first.LastUpdated)

	sessions := svc.List(ctx, "alice")
	require.Len(t, sessions, 2)
	assert.Equal(t, first.ID, sessions[0].ID, "恢复的会话应当移到头部")
}

func TestStartOrResumeKeepsMessages(t *testing.T) {
	repo := newTestRepo()
	svc := NewSessionService(repo)
	ctx := context.Background()

	created, err := svc.StartOrResume(ctx, "alice", testScenario("hotel"), model.ModeFree)
	require.NoError(t, err)

	msgs := []model.ChatMessage{
		{ID: "m1", Role: model.RoleAI, Text: "Hi"},
		{ID: "m2", Role: model.RoleUser, Text: "Hello"},
	}
	_, err = svc.ReplaceMessages(ctx, "alice", created.ID, msgs)
	require.NoError(t, err)

	resumed, err := svc.StartOrResume(ctx, "alice", testScenario("hotel"), model.ModeFree)
	require.NoError(t, err)
	assert.Len(t, resumed.Messages, 2)
}

func TestReplaceMessagesUnknownSession(t *testing.T) {
	svc := NewSessionService(newTestRepo())
	_, err := svc.ReplaceMessages(context.Background(), "alice", "missing", nil)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestGroupByDayLabels(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	svc := &sessionService{repo: repo, now: func() time.Time { return now }}
	ctx := context.Background()

	sessions := []model.ConversationSession{
		{ID: "s1", Scenario: testScenario("a"), Mode: model.ModeFree, LastUpdated: now.UnixMilli()},
		{ID: "s2", Scenario: testScenario("b"), Mode: model.ModeFree, LastUpdated: now.AddDate(0, 0, -1).UnixMilli()},
		{ID: "s3", Scenario: testScenario("c"), Mode: model.ModeFree, LastUpdated: now.AddDate(0, 0, -3).UnixMilli()},
	}
	require.NoError(t, repo.SaveSessions(ctx, "alice", sessions))

	groups := svc.GroupByDay(ctx, "alice")
	require.Len(t, groups, 3)
	assert.Equal(t, "Today", groups[0].Label)
	assert.Equal(t, "Yesterday", groups[1].Label)
	assert.Equal(t, "2026-03-07", groups[2].Label)
	assert.Equal(t, "s3", groups[2].Sessions[0].ID)
}
