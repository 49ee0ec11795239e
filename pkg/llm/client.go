// Package llm 提供了与大语言模型交互的客户端。
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fluentai-go/internal/config"
	"fluentai-go/internal/model"
	"fluentai-go/pkg/log"
)

// TurnRequest 携带一次辅导轮次所需的全部上下文。
// History 只应包含最近的若干轮（由调用方裁剪为最后 6 条）。
type TurnRequest struct {
	History  []model.ChatMessage
	UserText string
	Scenario model.Scenario
	Mode     model.ChatMode
}

// TurnBase 是两种模式共有的结果字段。
type TurnBase struct {
	RoleplayResponse string `json:"roleplayResponse"`
	Translation      string `json:"translation"`
}

// FreeTurn 是自由模式下的单轮结果。
type FreeTurn struct {
	TurnBase
	Correction     string                  `json:"correction,omitempty"`
	Explanation    string                  `json:"explanation,omitempty"`
	SuggestedVocab []model.VocabSuggestion `json:"suggestedVocab,omitempty"`
}

// GuidedTurn 是翻译挑战模式下的单轮结果，除自由模式字段外
// 还包含标准答案与下一轮任务。
type GuidedTurn struct {
	FreeTurn
	ReferenceTranslation string `json:"referenceTranslation,omitempty"`
	GuidedTask           string `json:"guidedTask"`
}

// TurnResult 是按模式区分的辅导结果变体，Free 与 Guided 恰有一个非空。
type TurnResult struct {
	Mode   model.ChatMode
	Free   *FreeTurn
	Guided *GuidedTurn
}

// GuidedIntroResult 是 guided 会话引导语：开场白、译文与第一个任务。
type GuidedIntroResult struct {
	TurnBase
	GuidedTask string `json:"guidedTask"`
}

// Client 是辅导语言模型的访问接口。
type Client interface {
	// TutorTurn 生成一轮带批注的辅导回复。传输或解析失败返回错误，
	// 由调用方决定回退策略。
	TutorTurn(ctx context.Context, req TurnRequest) (*TurnResult, error)
	// GuidedIntro 为新的 guided 会话生成动态开场白和第一个任务。
	GuidedIntro(ctx context.Context, scenario model.Scenario) (*GuidedIntroResult, error)
	// EnrichWord 查询词条的词典级详情。失败时返回空 bundle 而不是错误。
	EnrichWord(ctx context.Context, word, contextSentence string) model.WordEnrichment
	// ProposeScenario 根据主题生成一个新场景（id 由本地合成）。
	ProposeScenario(ctx context.Context, topic string) (*model.Scenario, error)
}

type openAICompatibleClient struct {
	cfg    config.LLMConfig
	client *http.Client
}

// NewClient 按配置创建一个兼容 OpenAI 接口的客户端。
func NewClient(cfg config.LLMConfig) Client {
	return &openAICompatibleClient{
		cfg:    cfg,
		client: &http.Client{},
	}
}

// Message 表示一条角色消息。
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	TopP           *float64        `json:"top_p,omitempty"`
	MaxTokens      *int            `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete 发起一次非流式补全请求，要求模型输出 JSON 对象，
// 并将其解析到 out 中。
func (c *openAICompatibleClient) complete(ctx context.Context, system, user string, out interface{}) error {
	messages := []Message{}
	if system != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	messages = append(messages, Message{Role: "user", Content: user})

	reqBody := chatRequest{
		Model:          c.cfg.Model,
		Messages:       messages,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	if c.cfg.Generation.Temperature != 0 {
		t := c.cfg.Generation.Temperature
		reqBody.Temperature = &t
	}
	if c.cfg.Generation.TopP != 0 {
		p := c.cfg.Generation.TopP
		reqBody.TopP = &p
	}
	if c.cfg.Generation.MaxTokens != 0 {
		m := c.cfg.Generation.MaxTokens
		reqBody.MaxTokens = &m
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBytes))
	if err != nil {
		return fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call chat api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chat api returned non-200 status: %s, body: %s", resp.Status, string(bodyBytes))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return fmt.Errorf("chat api returned no choices")
	}

	content := strings.TrimSpace(chat.Choices[0].Message.Content)
	// 兼容模型在 JSON 外包裹 markdown 代码块的情况
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), out); err != nil {
		return fmt.Errorf("failed to parse model output: %w", err)
	}
	return nil
}

// buildHistoryPrompt 将最近的对话历史拼接为提示词上下文。
func buildHistoryPrompt(history []model.ChatMessage, scenario model.Scenario, userText string) string {
	var b strings.Builder
	for _, msg := range history {
		speaker := "User"
		if msg.Role == model.RoleAI {
			speaker = fmt.Sprintf("AI (%s)", scenario.AIRole)
		}
		b.WriteString(fmt.Sprintf("%s: %s", speaker, msg.Text))
		if msg.GuidedTask != "" {
			b.WriteString(fmt.Sprintf(" [Task given: %s]", msg.GuidedTask))
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("User: %s\n\nRespond as AI (%s).", userText, scenario.AIRole))
	return b.String()
}

func freeSystemPrompt(s model.Scenario) string {
	return fmt.Sprintf(`You are an expert English tutor conducting a free-flow roleplay.
Scenario: %s (%s vs %s).

1. Analyze the user's grammar and naturalness. Correct if needed.
2. Respond naturally as %s.
3. Provide a Chinese translation of your response.
4. Suggest 1-2 useful vocabulary words from your response.

Return a JSON object with keys: roleplayResponse, translation, correction, explanation, suggestedVocab (array of {word, definition}). Leave correction empty if the input was perfect.`,
		s.Title, s.AIRole, s.UserRole, s.AIRole)
}

func guidedSystemPrompt(s model.Scenario) string {
	return fmt.Sprintf(`You are an English tutor conducting a "Translation Challenge".
Scenario: %s.

The user was given a specific task in Chinese to say in English (found in the last AI message's [Task given: ...]).

1. Check compliance: did the user's English match the meaning of the required Chinese task?
2. correction: corrected version of the user's sentence if there were errors; the ideal English translation of the task if off-topic; empty if perfect.
3. explanation: explain the mistake, or note that the task was not followed.
4. referenceTranslation: ALWAYS provide the ideal English translation of the task if the user made ANY mistake or was off-topic.
5. roleplayResponse: respond naturally as %s, keeping the conversation flowing.
6. translation: Chinese translation of roleplayResponse.
7. guidedTask: a NEW, different task in Chinese for the user's next turn, flowing logically from the conversation.

Return a JSON object with keys: roleplayResponse, translation, correction, explanation, referenceTranslation, guidedTask, suggestedVocab.`,
		s.Title, s.AIRole)
}

// TutorTurn 调用聊天接口生成一轮辅导结果，并按模式校验必填字段。
func (c *openAICompatibleClient) TutorTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	var system string
	if req.Mode == model.ModeGuided {
		system = guidedSystemPrompt(req.Scenario)
	} else {
		system = freeSystemPrompt(req.Scenario)
	}
	user := buildHistoryPrompt(req.History, req.Scenario, req.UserText)

	var raw GuidedTurn
	if err := c.complete(ctx, system, user, &raw); err != nil {
		return nil, err
	}
	return newTurnResult(req.Mode, raw)
}

// newTurnResult 在边界上按模式校验并裁剪原始负载：
// 两种模式都要求 roleplayResponse 与 translation，
// guided 额外要求 guidedTask；free 模式不携带 guided 专属字段。
func newTurnResult(mode model.ChatMode, raw GuidedTurn) (*TurnResult, error) {
	if raw.RoleplayResponse == "" || raw.Translation == "" {
		return nil, fmt.Errorf("model output missing required fields")
	}
	if mode == model.ModeGuided {
		if raw.GuidedTask == "" {
			return nil, fmt.Errorf("guided turn output missing guidedTask")
		}
		g := raw
		return &TurnResult{Mode: model.ModeGuided, Guided: &g}, nil
	}
	f := raw.FreeTurn
	return &TurnResult{Mode: model.ModeFree, Free: &f}, nil
}

// GuidedIntro 为 guided 会话生成开场白、译文与第一个任务。
func (c *openAICompatibleClient) GuidedIntro(ctx context.Context, scenario model.Scenario) (*GuidedIntroResult, error) {
	prompt := fmt.Sprintf(`You are an English tutor setting up a "Translation Challenge" roleplay.
Scenario: %s
Role: %s
User Role: %s

1. Introduce the scenario briefly in English.
2. Give the user their FIRST specific task in Chinese (what they should say in English).

Return a JSON object with keys:
- roleplayResponse: the introduction.
- translation: Chinese translation of the introduction.
- guidedTask: the first Chinese task (e.g. "请问候店员并询问是否有座").`,
		scenario.Title, scenario.AIRole, scenario.UserRole)

	var result GuidedIntroResult
	if err := c.complete(ctx, "", prompt, &result); err != nil {
		return nil, err
	}
	if result.RoleplayResponse == "" || result.GuidedTask == "" {
		return nil, fmt.Errorf("guided intro output missing required fields")
	}
	return &result, nil
}

// EnrichWord 查询词条详情。任何失败都只记录日志并返回空 bundle，
// 词条保存主流程永远不会因此受阻。
func (c *openAICompatibleClient) EnrichWord(ctx context.Context, word, contextSentence string) model.WordEnrichment {
	prompt := fmt.Sprintf(`Provide a detailed dictionary entry for the word: "%s".
Context where it appeared: "%s".

Return a JSON object with keys:
- phonetic: IPA pronunciation (e.g. /əˈplɔːz/)
- partOfSpeech: e.g. "n.", "v.", "adj."
- chineseDefinition: the Chinese meaning relevant to the context.
- exampleSentence: an English example sentence.
- exampleTranslation: Chinese translation of the example sentence.
- roots: brief etymology or memory aid.
- synonyms: array of 3-4 similar words.`, word, contextSentence)

	var enrichment model.WordEnrichment
	if err := c.complete(ctx, "", prompt, &enrichment); err != nil {
		log.Errorf("词条补全请求失败, word: %s, error: %v", word, err)
		return model.WordEnrichment{}
	}
	return enrichment
}

// ProposeScenario 根据主题生成新场景。失败作为硬错误返回给调用方。
func (c *openAICompatibleClient) ProposeScenario(ctx context.Context, topic string) (*model.Scenario, error) {
	prompt := fmt.Sprintf(`Create an English roleplay scenario for language practice based on this topic: "%s".

Return a JSON object with keys: title, description, emoji, aiRole, userRole, initialMessage, difficulty (one of "Beginner", "Intermediate", "Advanced").`, topic)

	var scenario model.Scenario
	if err := c.complete(ctx, "", prompt, &scenario); err != nil {
		return nil, err
	}
	if scenario.Title == "" || scenario.InitialMessage == "" {
		return nil, fmt.Errorf("scenario output missing required fields")
	}
	scenario.ID = fmt.Sprintf("custom-%d", time.Now().UnixMilli())
	return &scenario, nil
}
