package model

import "errors"

// ErrSessionNotFound 表示按 id 找不到目标会话。
var ErrSessionNotFound = errors.New("session not found")

// ConversationSession 代表一条连续的对话线程。
// 对同一用户，(scenario.id, mode) 组合在任意时刻至多存在一个会话：
// 重复开启同一组合会恢复既有会话而不是新建。
type ConversationSession struct {
	ID          string        `json:"id"` // 创建时刻的毫秒时间戳字符串
	Scenario    Scenario      `json:"scenario"`
	Mode        ChatMode      `json:"mode"`
	Messages    []ChatMessage `json:"messages"`
	StartTime   int64         `json:"startTime"`
	LastUpdated int64         `json:"lastUpdated"`
}

// CurrentGuidedTask 从消息序列尾部向前扫描，返回最后一条 AI 消息携带的任务。
// 任务永远是读取时的投影，不单独存储，避免与消息日志产生分歧。
func (s *ConversationSession) CurrentGuidedTask() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAI {
			return s.Messages[i].GuidedTask
		}
	}
	return ""
}
