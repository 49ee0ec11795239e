package repository

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type redisBlobStore struct {
	client *redis.Client
}

// NewRedisBlobStore 创建一个基于 Redis 的 BlobStore。
func NewRedisBlobStore(client *redis.Client) BlobStore {
	return &redisBlobStore{client: client}
}

func (s *redisBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", key, err)
	}
	return data, nil
}

func (s *redisBlobStore) Set(ctx context.Context, key string, value []byte) error {
	// 学习数据无过期时间，登出后仍保留在存储中
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set blob %s: %w", key, err)
	}
	return nil
}

func (s *redisBlobStore) Del(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}
