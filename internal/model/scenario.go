// Package model 包含了应用的数据模型定义。
package model

// ChatMode 表示会话的练习模式。
type ChatMode string

const (
	// ModeFree 自由对话模式。
	ModeFree ChatMode = "free"
	// ModeGuided 翻译挑战模式，AI 每轮下发一个待完成的说话任务。
	ModeGuided ChatMode = "guided"
)

// Valid 判断模式取值是否合法。
func (m ChatMode) Valid() bool {
	return m == ModeFree || m == ModeGuided
}

// Difficulty 表示场景的难度等级。
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Scenario 代表一个角色扮演场景模板，创建后不再修改。
// 用户自建场景的 id 以 "custom-" 为前缀以标记来源。
type Scenario struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Emoji          string     `json:"emoji"`
	AIRole         string     `json:"aiRole"`
	UserRole       string     `json:"userRole"`
	Difficulty     Difficulty `json:"difficulty"`
	InitialMessage string     `json:"initialMessage"`
}
