package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"fluentai-go/internal/model"
	"fluentai-go/pkg/llm"
	"fluentai-go/pkg/log"
	"fluentai-go/pkg/speech"
)

// FallbackAIText 是辅导调用失败时回退消息的固定文案。
const FallbackAIText = "I'm having trouble connecting to the server. Please try again."

// historyWindow 是每轮辅导调用携带的历史消息条数上限。
const historyWindow = 6

// DialogueService 实现辅导对话协议：开场播种、逐轮辅导和任务投影。
type DialogueService interface {
	// Open 打开（或恢复）一个会话并保证开场消息就位。
	// free 模式用场景自带的开场白本地播种；guided 模式的开场白
	// 需要一次辅导调用，调用失败则整个打开动作失败。
	Open(ctx context.Context, userID string, scenario model.Scenario, mode model.ChatMode) (model.ConversationSession, error)
	// SendTurn 执行一轮对话：先落盘用户消息，再请求辅导回复。
	// 辅导调用失败不放弃本轮，追加固定的回退 AI 消息代替。
	SendTurn(ctx context.Context, userID, sessionID, userText string) (model.ConversationSession, error)
	// CurrentTask 返回 guided 会话的当前任务，由消息日志即时推导。
	CurrentTask(ctx context.Context, userID, sessionID string) (string, error)
}

type dialogueService struct {
	sessions  SessionService
	llmClient llm.Client
	speaker   speech.Client
}

// NewDialogueService 创建一个新的 DialogueService。
func NewDialogueService(sessions SessionService, llmClient llm.Client, speaker speech.Client) DialogueService {
	return &dialogueService{sessions: sessions, llmClient: llmClient, speaker: speaker}
}

func (s *dialogueService) Open(ctx context.Context, userID string, scenario model.Scenario, mode model.ChatMode) (model.ConversationSession, error) {
	session, err := s.sessions.StartOrResume(ctx, userID, scenario, mode)
	if err != nil {
		return model.ConversationSession{}, err
	}
	if len(session.Messages) > 0 {
		return session, nil
	}

	var opening model.ChatMessage
	switch mode {
	case model.ModeGuided:
		intro, err := s.llmClient.GuidedIntro(ctx, scenario)
		if err != nil {
			return model.ConversationSession{}, fmt.Errorf("failed to generate guided intro: %w", err)
		}
		opening = model.ChatMessage{
			ID:          uuid.NewString(),
			Role:        model.RoleAI,
			Text:        intro.RoleplayResponse,
			Translation: intro.Translation,
			GuidedTask:  intro.GuidedTask,
		}
	default:
		opening = model.ChatMessage{
			ID:   uuid.NewString(),
			Role: model.RoleAI,
			Text: session.Scenario.InitialMessage,
		}
	}
	s.attachAudio(ctx, &opening)

	return s.sessions.ReplaceMessages(ctx, userID, session.ID, []model.ChatMessage{opening})
}

func (s *dialogueService) SendTurn(ctx context.Context, userID, sessionID, userText string) (model.ConversationSession, error) {
	session, err := s.sessions.Get(ctx, userID, sessionID)
	if err != nil {
		return model.ConversationSession{}, err
	}

	history := session.Messages
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	// 用户消息先落盘，辅导调用失败也不会丢
	userMsg := model.ChatMessage{ID: uuid.NewString(), Role: model.RoleUser, Text: userText}
	session, err = s.sessions.ReplaceMessages(ctx, userID, sessionID, append(session.Messages, userMsg))
	if err != nil {
		return model.ConversationSession{}, err
	}

	aiMsg := s.tutorReply(ctx, llm.TurnRequest{
		History:  history,
		UserText: userText,
		Scenario: session.Scenario,
		Mode:     session.Mode,
	})
	s.attachAudio(ctx, &aiMsg)

	return s.sessions.ReplaceMessages(ctx, userID, sessionID, append(session.Messages, aiMsg))
}

// tutorReply 发起一次辅导调用并把结果装配为 AI 消息，失败时降级为回退消息。
func (s *dialogueService) tutorReply(ctx context.Context, req llm.TurnRequest) model.ChatMessage {
	result, err := s.llmClient.TutorTurn(ctx, req)
	if err != nil {
		log.Errorf("tutor turn failed for scenario %s: %v", req.Scenario.ID, err)
		return model.ChatMessage{ID: uuid.NewString(), Role: model.RoleAI, Text: FallbackAIText}
	}

	msg := model.ChatMessage{ID: uuid.NewString(), Role: model.RoleAI}
	switch result.Mode {
	case model.ModeGuided:
		g := result.Guided
		msg.Text = g.RoleplayResponse
		msg.Translation = g.Translation
		msg.Correction = g.Correction
		msg.Explanation = g.Explanation
		msg.SuggestedVocab = g.SuggestedVocab
		msg.ReferenceTranslation = g.ReferenceTranslation
		msg.GuidedTask = g.GuidedTask
	default:
		f := result.Free
		msg.Text = f.RoleplayResponse
		msg.Translation = f.Translation
		msg.Correction = f.Correction
		msg.Explanation = f.Explanation
		msg.SuggestedVocab = f.SuggestedVocab
	}
	return msg
}

// attachAudio 为 AI 消息合成语音，属于尽力而为的附加步骤，失败只记日志。
func (s *dialogueService) attachAudio(ctx context.Context, msg *model.ChatMessage) {
	if s.speaker == nil || !s.speaker.Enabled() || msg.Text == "" {
		return
	}
	audioURL, err := s.speaker.Speak(ctx, msg.Text)
	if err != nil {
		log.Warnf("speech synthesis failed: %v", err)
		return
	}
	msg.AudioURL = audioURL
}

func (s *dialogueService) CurrentTask(ctx context.Context, userID, sessionID string) (string, error) {
	session, err := s.sessions.Get(ctx, userID, sessionID)
	if err != nil {
		return "", err
	}
	return session.CurrentGuidedTask(), nil
}
