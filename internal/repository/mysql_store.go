package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateBlob 是 MySQL 后端中存放集合快照的 KV 表行。
type StateBlob struct {
	Key   string `gorm:"primaryKey;size:255;column:blob_key"`
	Value []byte `gorm:"type:mediumblob"`
}

func (StateBlob) TableName() string {
	return "state_blobs"
}

type gormBlobStore struct {
	db *gorm.DB
}

// NewGormBlobStore 创建一个基于 GORM 的 BlobStore，并确保表结构存在。
func NewGormBlobStore(db *gorm.DB) (BlobStore, error) {
	if err := db.AutoMigrate(&StateBlob{}); err != nil {
		return nil, fmt.Errorf("failed to migrate state_blobs: %w", err)
	}
	return &gormBlobStore{db: db}, nil
}

func (s *gormBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var row StateBlob
	err := s.db.WithContext(ctx).Where("blob_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", key, err)
	}
	return row.Value, nil
}

func (s *gormBlobStore) Set(ctx context.Context, key string, value []byte) error {
	row := StateBlob{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blob_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to set blob %s: %w", key, err)
	}
	return nil
}

func (s *gormBlobStore) Del(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("blob_key = ?", key).Delete(&StateBlob{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}
