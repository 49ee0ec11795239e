package service

import (
	"context"
	"errors"
	"sync"

	"fluentai-go/internal/model"
	"fluentai-go/internal/repository"
	"fluentai-go/pkg/llm"
	"fluentai-go/pkg/tasks"
)

// memBlobStore 是测试用的进程内 KV 存储。
type memBlobStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{data: map[string][]byte{}}
}

func (s *memBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, repository.ErrBlobNotFound
	}
	return v, nil
}

func (s *memBlobStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memBlobStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func newTestRepo() repository.StateRepository {
	return repository.NewStateRepository(newMemBlobStore())
}

// fakeLLM 允许逐个注入各操作的行为，未注入的操作返回可辨识的默认值。
type fakeLLM struct {
	turn    func(req llm.TurnRequest) (*llm.TurnResult, error)
	intro   func(scenario model.Scenario) (*llm.GuidedIntroResult, error)
	enrich  func(word, contextSentence string) model.WordEnrichment
	propose func(topic string) (*model.Scenario, error)
}

func (f *fakeLLM) TutorTurn(_ context.Context, req llm.TurnRequest) (*llm.TurnResult, error) {
	if f.turn != nil {
		return f.turn(req)
	}
	return &llm.TurnResult{
		Mode: req.Mode,
		Free: &llm.FreeTurn{TurnBase: llm.TurnBase{RoleplayResponse: "ok", Translation: "好的"}},
	}, nil
}

func (f *fakeLLM) GuidedIntro(_ context.Context, scenario model.Scenario) (*llm.GuidedIntroResult, error) {
	if f.intro != nil {
		return f.intro(scenario)
	}
	return &llm.GuidedIntroResult{
		TurnBase:   llm.TurnBase{RoleplayResponse: "welcome", Translation: "欢迎"},
		GuidedTask: "打个招呼",
	}, nil
}

func (f *fakeLLM) EnrichWord(_ context.Context, word, contextSentence string) model.WordEnrichment {
	if f.enrich != nil {
		return f.enrich(word, contextSentence)
	}
	return model.WordEnrichment{}
}

func (f *fakeLLM) ProposeScenario(_ context.Context, topic string) (*model.Scenario, error) {
	if f.propose != nil {
		return f.propose(topic)
	}
	return nil, errors.New("not configured")
}

// syncDispatcher 同步执行补全任务，让测试无需等待 goroutine。
type syncDispatcher struct {
	processor VocabularyService
	tasks     []string
}

func (d *syncDispatcher) Dispatch(task tasks.WordEnrichmentTask) {
	d.tasks = append(d.tasks, task.Word)
	_ = d.processor.Process(context.Background(), task)
}
