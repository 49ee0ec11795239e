// Package repository 提供了数据访问层的实现。
// 每个用户的每个集合作为一个完整的 JSON 快照（blob）持久化，
// 键为 fluentai:{userID}:{collection}。
package repository

import (
	"context"
	"errors"
	"fmt"
)

// ErrBlobNotFound 表示键不存在。读取方会将其视为“集合缺失”而非错误。
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore 定义了底层 KV 存储的最小接口。
// 具体后端由配置 storage.driver 决定（redis 或 mysql）。
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// 各集合的命名。
const (
	CollectionVocab    = "vocab"
	CollectionSessions = "sessions"
	CollectionProfile  = "profile"
	CollectionActivity = "activity"
)

// 进程级“当前用户”指针的键。
const currentUserKey = "fluentai:current-user"

// blobKey 组装 (用户, 集合) 对应的存储键。
func blobKey(userID, collection string) string {
	return fmt.Sprintf("fluentai:%s:%s", userID, collection)
}
