package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fluentai-go/internal/model"
	"fluentai-go/internal/repository"
	"fluentai-go/pkg/llm"
	"fluentai-go/pkg/log"
	"fluentai-go/pkg/tasks"

	"github.com/google/uuid"
)

// EnrichmentDispatcher 决定词条补全任务如何派发（进程内或消息队列）。
type EnrichmentDispatcher interface {
	Dispatch(task tasks.WordEnrichmentTask)
}

// VocabularyService 定义了词汇账本的业务接口。
type VocabularyService interface {
	List(ctx context.Context, userID string) []model.VocabularyWord
	// Save 按忽略大小写的词文本去重：已存在时返回既有条目和 model.ErrWordExists
	//（幂等空操作，不是失败）；否则乐观插入到列表头部并异步触发补全。
	Save(ctx context.Context, userID string, word model.VocabularyWord) (model.VocabularyWord, error)
	// CreateFromSynonym 从近义词创建新词条：已存在时直接返回既有条目，
	// 否则以占位释义走与 Save 相同的乐观插入路径。
	CreateFromSynonym(ctx context.Context, userID, sourceID, synonym string) (model.VocabularyWord, error)
	// Delete 删除词条。
	Delete(ctx context.Context, userID, wordID string) error
	// Process 执行一个补全任务：调用补全协作方并按 id 合并结果。
	// 目标词条已被删除时合并是静默空操作。实现 kafka.TaskProcessor。
	Process(ctx context.Context, task tasks.WordEnrichmentTask) error
}

type vocabularyService struct {
	repo       repository.StateRepository
	llmClient  llm.Client
	dispatcher EnrichmentDispatcher
}

// NewVocabularyService 创建一个新的 VocabularyService。
// dispatcher 为 nil 时补全任务在进程内异步执行。
func NewVocabularyService(repo repository.StateRepository, llmClient llm.Client, dispatcher EnrichmentDispatcher) VocabularyService {
	s := &vocabularyService{repo: repo, llmClient: llmClient}
	if dispatcher == nil {
		dispatcher = &inlineDispatcher{processor: s}
	}
	s.dispatcher = dispatcher
	return s
}

// inlineDispatcher 在独立 goroutine 中直接执行补全任务。
type inlineDispatcher struct {
	processor VocabularyService
}

func (d *inlineDispatcher) Dispatch(task tasks.WordEnrichmentTask) {
	go func() {
		if err := d.processor.Process(context.Background(), task); err != nil {
			log.Errorf("进程内词条补全失败: word=%s, error: %v", task.Word, err)
		}
	}()
}

func (s *vocabularyService) List(ctx context.Context, userID string) []model.VocabularyWord {
	return s.repo.LoadVocabulary(ctx, userID)
}

func findWordByText(words []model.VocabularyWord, text string) (model.VocabularyWord, bool) {
	for _, w := range words {
		if strings.EqualFold(w.Word, text) {
			return w, true
		}
	}
	return model.VocabularyWord{}, false
}

func (s *vocabularyService) Save(ctx context.Context, userID string, word model.VocabularyWord) (model.VocabularyWord, error) {
	unlock := s.repo.LockUser(userID)
	words := s.repo.LoadVocabulary(ctx, userID)

	if existing, ok := findWordByText(words, word.Word); ok {
		unlock()
		// 去重命中：不插入、不触发补全
		return existing, model.ErrWordExists
	}

	if word.ID == "" {
		word.ID = uuid.NewString()
	}
	if word.AddedAt == 0 {
		word.AddedAt = time.Now().UnixMilli()
	}

	// 第一阶段：先以精简形态同步插入到列表头部
	words = append([]model.VocabularyWord{word}, words...)
	if err := s.repo.SaveVocabulary(ctx, userID, words); err != nil {
		unlock()
		return model.VocabularyWord{}, fmt.Errorf("failed to persist vocabulary: %w", err)
	}
	unlock()

	// 第二阶段：异步补全，结果稍后按 id 合并
	s.dispatcher.Dispatch(tasks.WordEnrichmentTask{
		UserID:  userID,
		WordID:  word.ID,
		Word:    word.Word,
		Context: word.Context,
	})
	return word, nil
}

func (s *vocabularyService) CreateFromSynonym(ctx context.Context, userID, sourceID, synonym string) (model.VocabularyWord, error) {
	words := s.repo.LoadVocabulary(ctx, userID)

	if existing, ok := findWordByText(words, synonym); ok {
		return existing, nil
	}

	sourceWord := "unknown"
	for _, w := range words {
		if w.ID == sourceID {
			sourceWord = w.Word
			break
		}
	}

	word := model.VocabularyWord{
		ID:         uuid.NewString(),
		Word:       synonym,
		Definition: "Loading definition...",
		Context:    fmt.Sprintf("Synonym of %s", sourceWord),
		AddedAt:    time.Now().UnixMilli(),
	}
	saved, err := s.Save(ctx, userID, word)
	if err == model.ErrWordExists {
		return saved, nil
	}
	return saved, err
}

func (s *vocabularyService) Delete(ctx context.Context, userID, wordID string) error {
	unlock := s.repo.LockUser(userID)
	defer unlock()

	words := s.repo.LoadVocabulary(ctx, userID)
	kept := words[:0:0]
	found := false
	for _, w := range words {
		if w.ID == wordID {
			found = true
			continue
		}
		kept = append(kept, w)
	}
	if !found {
		return model.ErrWordNotFound
	}
	return s.repo.SaveVocabulary(ctx, userID, kept)
}

// Process 调用补全协作方并合并结果。合并以“id 仍然存在”为前提：
// 词条在补全完成前被删除时，迟到的结果被静默丢弃，绝不复活条目。
func (s *vocabularyService) Process(ctx context.Context, task tasks.WordEnrichmentTask) error {
	enrichment := s.llmClient.EnrichWord(ctx, task.Word, task.Context)
	if enrichment.Empty() {
		// 补全失败或无内容：条目保持未补全状态，不视为错误
		log.Warnf("词条补全结果为空, word: %s", task.Word)
		return nil
	}

	unlock := s.repo.LockUser(task.UserID)
	defer unlock()

	words := s.repo.LoadVocabulary(ctx, task.UserID)
	for i := range words {
		if words[i].ID == task.WordID {
			words[i].WordEnrichment = enrichment
			if words[i].Definition == "Loading definition..." && enrichment.ChineseDefinition != "" {
				words[i].Definition = enrichment.ChineseDefinition
			}
			return s.repo.SaveVocabulary(ctx, task.UserID, words)
		}
	}

	// 目标词条已不存在：静默丢弃
	log.Infof("词条补全结果到达时条目已删除, word: %s", task.Word)
	return nil
}
