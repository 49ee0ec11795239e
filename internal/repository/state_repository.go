package repository

import (
	"context"
	"encoding/json"
	"sync"

	"fluentai-go/internal/model"
	"fluentai-go/pkg/log"
)

// StateRepository 定义了按用户命名空间读写各集合快照的接口。
// 读取时，缺失或无法解析的 blob 一律按“集合不存在”处理并返回默认值，
// 不做任何形式的迁移猜测。
type StateRepository interface {
	LoadVocabulary(ctx context.Context, userID string) []model.VocabularyWord
	SaveVocabulary(ctx context.Context, userID string, words []model.VocabularyWord) error

	LoadSessions(ctx context.Context, userID string) []model.ConversationSession
	SaveSessions(ctx context.Context, userID string, sessions []model.ConversationSession) error

	LoadProfile(ctx context.Context, userID string) (model.UserProfile, bool)
	SaveProfile(ctx context.Context, userID string, profile model.UserProfile) error

	LoadActivity(ctx context.Context, userID string) model.DailyActivity
	SaveActivity(ctx context.Context, userID string, activity model.DailyActivity) error

	CurrentUser(ctx context.Context) string
	SetCurrentUser(ctx context.Context, userID string) error
	ClearCurrentUser(ctx context.Context) error

	// LockUser 串行化同一用户的“读取-修改-写回”序列，返回解锁函数。
	// 不同用户之间互不阻塞。
	LockUser(userID string) func()
}

type stateRepository struct {
	store BlobStore
	locks sync.Map // userID -> *sync.Mutex
}

// NewStateRepository 创建一个新的 StateRepository 实例。
func NewStateRepository(store BlobStore) StateRepository {
	return &stateRepository{store: store}
}

func (r *stateRepository) LockUser(userID string) func() {
	v, _ := r.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// load 读取并解析一个集合快照。返回 false 表示集合缺失或格式不符。
func (r *stateRepository) load(ctx context.Context, userID, collection string, out interface{}) bool {
	data, err := r.store.Get(ctx, blobKey(userID, collection))
	if err == ErrBlobNotFound {
		return false
	}
	if err != nil {
		log.Errorf("读取集合 %s/%s 失败: %v", userID, collection, err)
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		// 形状不符按集合缺失处理
		log.Warnf("集合 %s/%s 内容无法解析，按缺失处理: %v", userID, collection, err)
		return false
	}
	return true
}

// save 序列化并写回一个集合快照。每次内存变更后同步调用，
// 存储相对内存至多落后一次变更。
func (r *stateRepository) save(ctx context.Context, userID, collection string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, blobKey(userID, collection), data)
}

func (r *stateRepository) LoadVocabulary(ctx context.Context, userID string) []model.VocabularyWord {
	var words []model.VocabularyWord
	if !r.load(ctx, userID, CollectionVocab, &words) {
		return model.SeedVocabulary()
	}
	return words
}

func (r *stateRepository) SaveVocabulary(ctx context.Context, userID string, words []model.VocabularyWord) error {
	return r.save(ctx, userID, CollectionVocab, words)
}

func (r *stateRepository) LoadSessions(ctx context.Context, userID string) []model.ConversationSession {
	var sessions []model.ConversationSession
	if !r.load(ctx, userID, CollectionSessions, &sessions) {
		return []model.ConversationSession{}
	}
	return sessions
}

func (r *stateRepository) SaveSessions(ctx context.Context, userID string, sessions []model.ConversationSession) error {
	return r.save(ctx, userID, CollectionSessions, sessions)
}

func (r *stateRepository) LoadProfile(ctx context.Context, userID string) (model.UserProfile, bool) {
	var profile model.UserProfile
	if !r.load(ctx, userID, CollectionProfile, &profile) {
		return model.UserProfile{}, false
	}
	return profile, true
}

func (r *stateRepository) SaveProfile(ctx context.Context, userID string, profile model.UserProfile) error {
	return r.save(ctx, userID, CollectionProfile, profile)
}

func (r *stateRepository) LoadActivity(ctx context.Context, userID string) model.DailyActivity {
	var activity model.DailyActivity
	if !r.load(ctx, userID, CollectionActivity, &activity) || activity == nil {
		return model.DailyActivity{}
	}
	return activity
}

func (r *stateRepository) SaveActivity(ctx context.Context, userID string, activity model.DailyActivity) error {
	return r.save(ctx, userID, CollectionActivity, activity)
}

func (r *stateRepository) CurrentUser(ctx context.Context) string {
	data, err := r.store.Get(ctx, currentUserKey)
	if err != nil {
		return ""
	}
	return string(data)
}

func (r *stateRepository) SetCurrentUser(ctx context.Context, userID string) error {
	return r.store.Set(ctx, currentUserKey, []byte(userID))
}

func (r *stateRepository) ClearCurrentUser(ctx context.Context) error {
	return r.store.Del(ctx, currentUserKey)
}
