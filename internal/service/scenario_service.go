package service

import (
	"context"
	"fmt"

	"fluentai-go/internal/model"
	"fluentai-go/pkg/llm"
)

// ScenarioService 提供场景目录的读取和定制场景生成。
type ScenarioService interface {
	List(offset, limit int) []model.Scenario
	Find(id string) (model.Scenario, bool)
	// Propose 将用户的自由描述交给语言模型，生成一个完整的定制场景。
	Propose(ctx context.Context, description string) (model.Scenario, error)
}

type scenarioService struct {
	llmClient llm.Client
}

// NewScenarioService 创建一个新的 ScenarioService。
func NewScenarioService(llmClient llm.Client) ScenarioService {
	return &scenarioService{llmClient: llmClient}
}

func (s *scenarioService) List(offset, limit int) []model.Scenario {
	all := model.PredefinedScenarios
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []model.Scenario{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]model.Scenario, end-offset)
	copy(out, all[offset:end])
	return out
}

func (s *scenarioService) Find(id string) (model.Scenario, bool) {
	return model.FindPredefinedScenario(id)
}

func (s *scenarioService) Propose(ctx context.Context, description string) (model.Scenario, error) {
	scenario, err := s.llmClient.ProposeScenario(ctx, description)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("failed to propose scenario: %w", err)
	}
	return *scenario, nil
}
