package model

// 消息角色取值。
const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// VocabSuggestion 是 AI 回复中附带的词汇推荐。
type VocabSuggestion struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

// ChatMessage 代表会话中的一条消息。
// 批注字段（Correction 及其后的所有字段）只出现在 role=ai 的消息上；
// 第 N 条消息的 Correction 针对的是第 N-1 条用户消息。
// 消息一旦追加即不可变，纠错永远以新消息的形式出现。
type ChatMessage struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Text string `json:"text"`

	Correction           string            `json:"correction,omitempty"`
	Explanation          string            `json:"explanation,omitempty"`
	Translation          string            `json:"translation,omitempty"`
	ReferenceTranslation string            `json:"referenceTranslation,omitempty"`
	SuggestedVocab       []VocabSuggestion `json:"suggestedVocab,omitempty"`
	// GuidedTask 仅在 guided 模式出现：用学习者母语描述的下一句说话任务。
	GuidedTask string `json:"guidedTask,omitempty"`
	AudioURL   string `json:"audioUrl,omitempty"`
}
