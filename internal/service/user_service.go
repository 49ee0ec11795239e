package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"fluentai-go/internal/model"
	"fluentai-go/internal/repository"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// UserService 管理用户身份、档案和账号生命周期。
type UserService interface {
	// Login 由展示名推导确定性的用户 ID，确保档案存在，
	// 并把全局当前用户指针指向该用户。
	Login(ctx context.Context, displayName string) (model.UserIdentity, model.UserProfile, error)
	// Logout 只清除当前用户指针，用户数据原样保留。
	Logout(ctx context.Context) error
	// Current 返回当前用户指针指向的身份，无人登录时 found 为 false。
	Current(ctx context.Context) (model.UserIdentity, bool)
	Profile(ctx context.Context, userID string) model.UserProfile
	UpdateProfile(ctx context.Context, userID string, profile model.UserProfile) error
	// WorkingSet 一次性装载用户的学习数据集合，缺失的集合取默认值。
	WorkingSet(ctx context.Context, userID string) WorkingSet
	// Purge 把用户的四个数据集合全部重置为初始状态：
	// 词汇表回到种子词、会话清空、活跃度清空、档案恢复默认值。
	// 身份本身保留，用户仍处于登录状态。
	Purge(ctx context.Context, userID string) error
}

// WorkingSet 是登录后一次性下发的学习数据快照。
type WorkingSet struct {
	Vocabulary []model.VocabularyWord      `json:"vocabulary"`
	Sessions   []model.ConversationSession `json:"sessions"`
	Activity   model.DailyActivity         `json:"activity"`
}

type userService struct {
	repo repository.StateRepository
}

// NewUserService 创建一个新的 UserService。
func NewUserService(repo repository.StateRepository) UserService {
	return &userService{repo: repo}
}

// DeriveUserID 由展示名推导用户 ID：去首尾空白、转小写、
// 连续空白折叠为单个连字符。同一个名字永远得到同一个 ID。
func DeriveUserID(displayName string) string {
	id := strings.TrimSpace(strings.ToLower(displayName))
	return whitespaceRe.ReplaceAllString(id, "-")
}

func (s *userService) Login(ctx context.Context, displayName string) (model.UserIdentity, model.UserProfile, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return model.UserIdentity{}, model.UserProfile{}, fmt.Errorf("display name is empty")
	}
	identity := model.UserIdentity{ID: DeriveUserID(displayName), DisplayName: displayName}

	unlock := s.repo.LockUser(identity.ID)
	defer unlock()

	profile, found := s.repo.LoadProfile(ctx, identity.ID)
	if !found {
		profile = model.DefaultProfile(displayName)
		if err := s.repo.SaveProfile(ctx, identity.ID, profile); err != nil {
			return model.UserIdentity{}, model.UserProfile{}, fmt.Errorf("failed to save profile: %w", err)
		}
	}
	if err := s.repo.SetCurrentUser(ctx, identity.ID); err != nil {
		return model.UserIdentity{}, model.UserProfile{}, fmt.Errorf("failed to set current user: %w", err)
	}
	return identity, profile, nil
}

func (s *userService) Logout(ctx context.Context) error {
	if err := s.repo.ClearCurrentUser(ctx); err != nil {
		return fmt.Errorf("failed to clear current user: %w", err)
	}
	return nil
}

func (s *userService) Current(ctx context.Context) (model.UserIdentity, bool) {
	userID := s.repo.CurrentUser(ctx)
	if userID == "" {
		return model.UserIdentity{}, false
	}
	identity := model.UserIdentity{ID: userID, DisplayName: userID}
	if profile, found := s.repo.LoadProfile(ctx, userID); found && profile.Name != "" {
		identity.DisplayName = profile.Name
	}
	return identity, true
}

func (s *userService) WorkingSet(ctx context.Context, userID string) WorkingSet {
	return WorkingSet{
		Vocabulary: s.repo.LoadVocabulary(ctx, userID),
		Sessions:   s.repo.LoadSessions(ctx, userID),
		Activity:   s.repo.LoadActivity(ctx, userID),
	}
}

func (s *userService) Profile(ctx context.Context, userID string) model.UserProfile {
	profile, found := s.repo.LoadProfile(ctx, userID)
	if !found {
		return model.DefaultProfile(userID)
	}
	return profile
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, profile model.UserProfile) error {
	unlock := s.repo.LockUser(userID)
	defer unlock()

	if err := s.repo.SaveProfile(ctx, userID, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (s *userService) Purge(ctx context.Context, userID string) error {
	unlock := s.repo.LockUser(userID)
	defer unlock()

	profile, found := s.repo.LoadProfile(ctx, userID)
	name := userID
	if found {
		name = profile.Name
	}
	if err := s.repo.SaveVocabulary(ctx, userID, model.SeedVocabulary()); err != nil {
		return fmt.Errorf("failed to reset vocabulary: %w", err)
	}
	if err := s.repo.SaveSessions(ctx, userID, []model.ConversationSession{}); err != nil {
		return fmt.Errorf("failed to reset sessions: %w", err)
	}
	if err := s.repo.SaveActivity(ctx, userID, model.DailyActivity{}); err != nil {
		return fmt.Errorf("failed to reset activity: %w", err)
	}
	if err := s.repo.SaveProfile(ctx, userID, model.DefaultProfile(name)); err != nil {
		return fmt.Errorf("failed to reset profile: %w", err)
	}
	return nil
}
