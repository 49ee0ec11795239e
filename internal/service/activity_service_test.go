package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAccumulates(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	svc := &activityService{repo: repo, now: func() time.Time { return now }}
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "alice", 30))
	require.NoError(t, svc.Record(ctx, "alice", 95))

	days := svc.LastNDays(ctx, "alice", 1)
	require.Len(t, days, 1)
	assert.Equal(t, "2026-03-10", days[0].Date)
	// 125 秒四舍五入为 2 分钟
	assert.Equal(t, 2, days[0].Minutes)
}

func TestRecordIgnoresNonPositive(t *testing.T) {
	repo := newTestRepo()
	svc := NewActivityService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "alice", 0))
	require.NoError(t, svc.Record(ctx, "alice", -5))
	assert.Empty(t, repo.LoadActivity(ctx, "alice"))
}

func TestLastNDaysZeroFills(t *testing.T) {
	repo := newTestRepo()
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.Local)
	svc := &activityService{repo: repo, now: func() time.Time { return now }}
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "alice", 600))

	days := svc.LastNDays(ctx, "alice", 7)
	require.Len(t, days, 7)
	assert.Equal(t, "2026-03-04", days[0].Date)
	assert.Equal(t, "2026-03-10", days[6].Date)
	for _, d := range days[:6] {
		assert.Zero(t, d.Minutes, "无记录的日期应补零")
	}
	assert.Equal(t, 10, days[6].Minutes)
}
