// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"math"
	"time"

	"fluentai-go/internal/model"
	"fluentai-go/internal/repository"
)

// ActivityService 定义了学习活跃度账本的业务接口。
type ActivityService interface {
	// Record 将 seconds 累加到今天（本地日历日）的活跃度桶中。
	Record(ctx context.Context, userID string, seconds int64) error
	// LastNDays 返回恰好 n 天的活跃度，按时间升序、以今天结尾，
	// 无记录的日期补零，分钟数为 round(seconds/60)。
	LastNDays(ctx context.Context, userID string, n int) []model.ActivityDay
}

type activityService struct {
	repo repository.StateRepository
	now  func() time.Time
}

// NewActivityService 创建一个新的 ActivityService。
func NewActivityService(repo repository.StateRepository) ActivityService {
	return &activityService{repo: repo, now: time.Now}
}

const dateLayout = "2006-01-02"

func (s *activityService) Record(ctx context.Context, userID string, seconds int64) error {
	if seconds <= 0 {
		return nil
	}
	unlock := s.repo.LockUser(userID)
	defer unlock()

	activity := s.repo.LoadActivity(ctx, userID)
	today := s.now().Format(dateLayout)
	activity[today] += seconds
	return s.repo.SaveActivity(ctx, userID, activity)
}

func (s *activityService) LastNDays(ctx context.Context, userID string, n int) []model.ActivityDay {
	activity := s.repo.LoadActivity(ctx, userID)

	days := make([]model.ActivityDay, 0, n)
	today := s.now()
	for i := n - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(dateLayout)
		seconds := activity[date]
		days = append(days, model.ActivityDay{
			Date:    date,
			Minutes: int(math.Round(float64(seconds) / 60.0)),
		})
	}
	return days
}
