package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fluentai-go/internal/model"
	"fluentai-go/internal/repository"
)

// SessionGroup 是按日历日分组的会话清单。
type SessionGroup struct {
	Label    string                      `json:"label"`
	Sessions []model.ConversationSession `json:"sessions"`
}

// SessionService 定义了会话登记簿的业务接口。
type SessionService interface {
	List(ctx context.Context, userID string) []model.ConversationSession
	Get(ctx context.Context, userID, sessionID string) (model.ConversationSession, error)
	// StartOrResume 按 (scenario.id, mode) 匹配既有会话：命中则刷新
	// lastUpdated 并移到列表头部（恢复，消息保留）；否则新建空会话插入头部。
	// 首条消息的播种不在这里，由对话协议负责。
	StartOrResume(ctx context.Context, userID string, scenario model.Scenario, mode model.ChatMode) (model.ConversationSession, error)
	// ReplaceMessages 整体替换会话的消息序列并刷新 lastUpdated。
	// 追加逻辑归调用方所有，登记簿只保证存储副本与返回值一致。
	ReplaceMessages(ctx context.Context, userID, sessionID string, messages []model.ChatMessage) (model.ConversationSession, error)
	// GroupByDay 按 lastUpdated 的日历日分组，最近两天用 "Today"/"Yesterday"
	// 标签，更早的用原始日期串；组内保持相对新近度顺序。
	GroupByDay(ctx context.Context, userID string) []SessionGroup
}

type sessionService struct {
	repo repository.StateRepository
	now  func() time.Time
}

// NewSessionService 创建一个新的 SessionService。
func NewSessionService(repo repository.StateRepository) SessionService {
	return &sessionService{repo: repo, now: time.Now}
}

func (s *sessionService) List(ctx context.Context, userID string) []model.ConversationSession {
	return s.repo.LoadSessions(ctx, userID)
}

func (s *sessionService) Get(ctx context.Context, userID, sessionID string) (model.ConversationSession, error) {
	for _, sess := range s.repo.LoadSessions(ctx, userID) {
		if sess.ID == sessionID {
			return sess, nil
		}
	}
	return model.ConversationSession{}, model.ErrSessionNotFound
}

func (s *sessionService) StartOrResume(ctx context.Context, userID string, scenario model.Scenario, mode model.ChatMode) (model.ConversationSession, error) {
	unlock := s.repo.LockUser(userID)
	defer unlock()

	sessions := s.repo.LoadSessions(ctx, userID)
	now := s.now().UnixMilli()

	for i, sess := range sessions {
		if sess.Scenario.ID == scenario.ID && sess.Mode == mode {
			// 恢复：刷新时间戳并移到头部，消息历史原样保留
			sess.LastUpdated = now
			reordered := make([]model.ConversationSession, 0, len(sessions))
			reordered = append(reordered, sess)
			reordered = append(reordered, sessions[:i]...)
			reordered = append(reordered, sessions[i+1:]...)
			if err := s.repo.SaveSessions(ctx, userID, reordered); err != nil {
				return model.ConversationSession{}, fmt.Errorf("failed to persist sessions: %w", err)
			}
			return sess, nil
		}
	}

	newSession := model.ConversationSession{
		ID:          strconv.FormatInt(now, 10),
		Scenario:    scenario, // 会话持有场景的独立副本
		Mode:        mode,
		Messages:    []model.ChatMessage{},
		StartTime:   now,
		LastUpdated: now,
	}
	sessions = append([]model.ConversationSession{newSession}, sessions...)
	if err := s.repo.SaveSessions(ctx, userID, sessions); err != nil {
		return model.ConversationSession{}, fmt.Errorf("failed to persist sessions: %w", err)
	}
	return newSession, nil
}

func (s *sessionService) ReplaceMessages(ctx context.Context, userID, sessionID string, messages []model.ChatMessage) (model.ConversationSession, error) {
	unlock := s.repo.LockUser(userID)
	defer unlock()

	sessions := s.repo.LoadSessions(ctx, userID)
	for i := range sessions {
		if sessions[i].ID == sessionID {
			sessions[i].Messages = messages
			sessions[i].LastUpdated = s.now().UnixMilli()
			if err := s.repo.SaveSessions(ctx, userID, sessions); err != nil {
				return model.ConversationSession{}, fmt.Errorf("failed to persist sessions: %w", err)
			}
			return sessions[i], nil
		}
	}
	return model.ConversationSession{}, model.ErrSessionNotFound
}

func (s *sessionService) GroupByDay(ctx context.Context, userID string) []SessionGroup {
	sessions := s.repo.LoadSessions(ctx, userID)

	today := s.now().Format(dateLayout)
	yesterday := s.now().AddDate(0, 0, -1).Format(dateLayout)

	var groups []SessionGroup
	index := map[string]int{}
	for _, sess := range sessions {
		day := time.UnixMilli(sess.LastUpdated).Format(dateLayout)
		label := day
		switch day {
		case today:
			label = "Today"
		case yesterday:
			label = "Yesterday"
		}
		if i, ok := index[label]; ok {
			groups[i].Sessions = append(groups[i].Sessions, sess)
			continue
		}
		index[label] = len(groups)
		groups = append(groups, SessionGroup{Label: label, Sessions: []model.ConversationSession{sess}})
	}
	return groups
}
