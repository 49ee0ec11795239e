package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluentai-go/internal/config"
	"fluentai-go/internal/model"
)

// newTestClient 启动一个返回固定补全内容的假聊天接口。
func newTestClient(t *testing.T, content string, status int) (Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(config.LLMConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "test-model",
	})
	return client, srv
}

func TestTutorTurnFreeMode(t *testing.T) {
	content := `{"roleplayResponse":"Sure!","translation":"当然！","correction":"I'd like a coffee.","suggestedVocab":[{"word":"brew","definition":"冲泡"}]}`
	client, _ := newTestClient(t, content, http.StatusOK)

	result, err := client.TutorTurn(context.Background(), TurnRequest{
		UserText: "I want coffee",
		Scenario: model.Scenario{ID: "coffee-shop", AIRole: "Barista"},
		Mode:     model.ModeFree,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Free)
	assert.Nil(t, result.Guided)
	assert.Equal(t, "Sure!", result.Free.RoleplayResponse)
	assert.Equal(t, "I'd like a coffee.", result.Free.Correction)
	require.Len(t, result.Free.SuggestedVocab, 1)
}

func TestTutorTurnGuidedRequiresTask(t *testing.T) {
	content := `{"roleplayResponse":"Great!","translation":"很好！"}`
	client, _ := newTestClient(t, content, http.StatusOK)

	_, err := client.TutorTurn(context.Background(), TurnRequest{
		UserText: "I booked a room",
		Scenario: model.Scenario{ID: "hotel"},
		Mode:     model.ModeGuided,
	})
	assert.Error(t, err)
}

func TestCompleteStripsMarkdownFence(t *testing.T) {
	content := "```json\n{\"roleplayResponse\":\"Hi\",\"translation\":\"你好\",\"guidedTask\":\"打招呼\"}\n```"
	client, _ := newTestClient(t, content, http.StatusOK)

	result, err := client.GuidedIntro(context.Background(), model.Scenario{ID: "hotel", Title: "Hotel"})
	require.NoError(t, err)
	assert.Equal(t, "Hi", result.RoleplayResponse)
	assert.Equal(t, "打招呼", result.GuidedTask)
}

func TestEnrichWordSwallowsFailure(t *testing.T) {
	client, _ := newTestClient(t, "", http.StatusInternalServerError)

	enrichment := client.EnrichWord(context.Background(), "latte", "a cup of latte")
	assert.True(t, enrichment.Empty())
}

func TestProposeScenarioSynthesizesID(t *testing.T) {
	content := `{"title":"Salary Talk","description":"negotiate","emoji":"💼","aiRole":"Manager","userRole":"Employee","initialMessage":"Come in.","difficulty":"Advanced"}`
	client, _ := newTestClient(t, content, http.StatusOK)

	scenario, err := client.ProposeScenario(context.Background(), "salary negotiation")
	require.NoError(t, err)
	assert.Regexp(t, `^custom-\d+$`, scenario.ID)
	assert.Equal(t, "Salary Talk", scenario.Title)
	assert.Equal(t, model.DifficultyAdvanced, scenario.Difficulty)
}
