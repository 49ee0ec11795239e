package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluentai-go/internal/model"
	"fluentai-go/pkg/llm"
)

func newDialogueForTest(llmFake *fakeLLM) (DialogueService, SessionService) {
	sessions := NewSessionService(newTestRepo())
	return NewDialogueService(sessions, llmFake, nil), sessions
}

func TestOpenFreeSeedsInitialMessage(t *testing.T) {
	svc, _ := newDialogueForTest(&fakeLLM{})
	ctx := context.Background()

	scenario := model.Scenario{ID: "coffee-shop", InitialMessage: "Hi! What can I get for you today?"}
	session, err := svc.Open(ctx, "alice", scenario, model.ModeFree)
	require.NoError(t, err)

	require.Len(t, session.Messages, 1)
	assert.Equal(t, model.RoleAI, session.Messages[0].Role)
	assert.Equal(t, scenario.InitialMessage, session.Messages[0].Text)
	assert.Empty(t, session.Messages[0].GuidedTask)
}

func TestOpenGuidedSeedsIntro(t *testing.T) {
	llmFake := &fakeLLM{intro: func(model.Scenario) (*llm.GuidedIntroResult, error) {
		return &llm.GuidedIntroResult{
			TurnBase:   llm.TurnBase{RoleplayResponse: "Welcome to the hotel.", Translation: "欢迎来到酒店。"},
			GuidedTask: "请说：我预订了一个房间",
		}, nil
	}}
	svc, _ := newDialogueForTest(llmFake)
	ctx := context.Background()

	session, err := svc.Open(ctx, "alice", model.Scenario{ID: "hotel", InitialMessage: "ignored"}, model.ModeGuided)
	require.NoError(t, err)

	require.Len(t, session.Messages, 1)
	assert.Equal(t, "Welcome to the hotel.", session.Messages[0].Text)
	assert.Equal(t, "请说：我预订了一个房间", session.Messages[0].GuidedTask)

	task, err := svc.CurrentTask(ctx, "alice", session.ID)
	require.NoError(t, err)
	assert.Equal(t, "请说：我预订了一个房间", task)
}

func TestOpenGuidedFailsWhenIntroFails(t *testing.T) {
	llmFake := &fakeLLM{intro: func(model.Scenario) (*llm.GuidedIntroResult, error) {
		return nil, errors.New("upstream unavailable")
	}}
	svc, sessions := newDialogueForTest(llmFake)
	ctx := context.Background()

	_, err := svc.Open(ctx, "alice", model.Scenario{ID: "hotel"}, model.ModeGuided)
	require.Error(t, err)

	// 会话虽已登记但仍为空，重开会重试开场白
	registered := sessions.List(ctx, "alice")
	require.Len(t, registered, 1)
	assert.Empty(t, registered[0].Messages)
}

func TestOpenExistingSessionDoesNotReseed(t *testing.T) {
	svc, _ := newDialogueForTest(&fakeLLM{})
	ctx := context.Background()
	scenario := model.Scenario{ID: "coffee-shop", InitialMessage: "Hi!"}

	first, err := svc.Open(ctx, "alice", scenario, model.ModeFree)
	require.NoError(t, err)
	again, err := svc.Open(ctx, "alice", scenario, model.ModeFree)
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, again.Messages, 1)
}

func TestSendTurnAppendsUserAndAIMessages(t *testing.T) {
	llmFake := &fakeLLM{turn: func(req llm.TurnRequest) (*llm.TurnResult, error) {
		return &llm.TurnResult{
			Mode: model.ModeFree,
			Free: &llm.FreeTurn{
				TurnBase:    llm.TurnBase{RoleplayResponse: "Sure, one latte coming up.", Translation: "好的，一杯拿铁马上来。"},
				Correction:  "I'd like a latte.",
				Explanation: "更自然的点单说法。",
			},
		}, nil
	}}
	svc, _ := newDialogueForTest(llmFake)
	ctx := context.Background()

	session, err := svc.Open(ctx, "alice", model.Scenario{ID: "coffee-shop", InitialMessage: "Hi!"}, model.ModeFree)
	require.NoError(t, err)

	updated, err := svc.SendTurn(ctx, "alice", session.ID, "I want latte")
	require.NoError(t, err)

	require.Len(t, updated.Messages, 3)
	userMsg := updated.Messages[1]
	aiMsg := updated.Messages[2]
	assert.Equal(t, model.RoleUser, userMsg.Role)
	assert.Equal(t, "I want latte", userMsg.Text)
	assert.Empty(t, userMsg.Correction, "批注字段只出现在 AI 消息上")
	assert.Equal(t, model.RoleAI, aiMsg.Role)
	assert.Equal(t, "好的，一杯拿铁马上来。", aiMsg.Translation)
	assert.Equal(t, "I'd like a latte.", aiMsg.Correction)
}

func TestSendTurnFallsBackOnFailure(t *testing.T) {
	llmFake := &fakeLLM{turn: func(llm.TurnRequest) (*llm.TurnResult, error) {
		return nil, errors.New("timeout")
	}}
	svc, _ := newDialogueForTest(llmFake)
	ctx := context.Background()

	session, err := svc.Open(ctx, "alice", model.Scenario{ID: "coffee-shop", InitialMessage: "Hi!"}, model.ModeFree)
	require.NoError(t, err)

	updated, err := svc.SendTurn(ctx, "alice", session.ID, "hello?")
	require.NoError(t, err, "辅导调用失败不应让整轮失败")

	require.Len(t, updated.Messages, 3)
	assert.Equal(t, "hello?", updated.Messages[1].Text, "用户消息已落盘")
	assert.Equal(t, FallbackAIText, updated.Messages[2].Text)
}

func TestSendTurnTrimsHistoryWindow(t *testing.T) {
	var gotHistory int
	llmFake := &fakeLLM{turn: func(req llm.TurnRequest) (*llm.TurnResult, error) {
		gotHistory = len(req.History)
		return &llm.TurnResult{Mode: model.ModeFree, Free: &llm.FreeTurn{TurnBase: llm.TurnBase{RoleplayResponse: "ok"}}}, nil
	}}
	svc, sessions := newDialogueForTest(llmFake)
	ctx := context.Background()

	session, err := svc.Open(ctx, "alice", model.Scenario{ID: "coffee-shop", InitialMessage: "Hi!"}, model.ModeFree)
	require.NoError(t, err)

	long := make([]model.ChatMessage, 10)
	for i := range long {
		long[i] = model.ChatMessage{ID: string(rune('a' + i)), Role: model.RoleUser, Text: "x"}
	}
	_, err = sessions.ReplaceMessages(ctx, "alice", session.ID, long)
	require.NoError(t, err)

	_, err = svc.SendTurn(ctx, "alice", session.ID, "next")
	require.NoError(t, err)
	assert.Equal(t, 6, gotHistory)
}

func TestCurrentTaskScansBackwards(t *testing.T) {
	svc, sessions := newDialogueForTest(&fakeLLM{})
	ctx := context.Background()

	session, err := sessions.StartOrResume(ctx, "alice", model.Scenario{ID: "hotel"}, model.ModeGuided)
	require.NoError(t, err)

	msgs := []model.ChatMessage{
		{ID: "m1", Role: model.RoleAI, Text: "Welcome", GuidedTask: "任务一"},
		{ID: "m2", Role: model.RoleUser, Text: "I booked a room"},
		{ID: "m3", Role: model.RoleAI, Text: "Great", GuidedTask: "任务二"},
		{ID: "m4", Role: model.RoleUser, Text: "Thanks"},
	}
	_, err = sessions.ReplaceMessages(ctx, "alice", session.ID, msgs)
	require.NoError(t, err)

	task, err := svc.CurrentTask(ctx, "alice", session.ID)
	require.NoError(t, err)
	assert.Equal(t, "任务二", task)
}
