// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fluentai-go/internal/config"
	"fluentai-go/pkg/database"
	"fluentai-go/pkg/log"
	"fluentai-go/pkg/tasks"

	"github.com/segmentio/kafka-go"
)

// TaskProcessor 是能执行词条补全任务的服务需要实现的接口。
type TaskProcessor interface {
	Process(ctx context.Context, task tasks.WordEnrichmentTask) error
}

var producer *kafka.Writer

// InitProducer 初始化 Kafka 生产者。
func InitProducer(cfg config.KafkaConfig) {
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
}

// ProduceEnrichmentTask 发送一个词条补全任务到 Kafka。
func ProduceEnrichmentTask(task tasks.WordEnrichmentTask) error {
	taskBytes, err := json.Marshal(task)
	if err != nil {
		return err
	}

	return producer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(task.UserID),
			Value: taskBytes,
		},
	)
}

// StartConsumer 启动一个 Kafka 消费者来处理词条补全任务。
func StartConsumer(cfg config.KafkaConfig, processor TaskProcessor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.Topic,
		GroupID:  "fluentai-enrichment-consumer",
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(context.Background())
		if err != nil {
			log.Error("从 Kafka 读取消息失败", err)
			break
		}

		var task tasks.WordEnrichmentTask
		if err := json.Unmarshal(m.Value, &task); err != nil {
			log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(m.Value))
			// 消息格式错误，直接提交，避免阻塞队列
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("提交错误消息失败: %v", err)
			}
			continue
		}

		log.Infof("开始处理词条补全任务: word=%s, user=%s", task.Word, task.UserID)
		if err := processor.Process(context.Background(), task); err != nil {
			log.Errorf("词条补全任务失败: word=%s, error: %v", task.Word, err)
			if shouldAbandon(task) {
				log.Errorf("词条补全多次失败(>=3)，提交 offset 终止重试: word=%s", task.Word)
				if err := r.CommitMessages(context.Background(), m); err != nil {
					log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
				}
			}
			// 未达到阈值时不提交 offset，让 Kafka 自动重试
		} else {
			clearAttempts(task)
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
			}
		}
	}

	if err := r.Close(); err != nil {
		log.Fatalf("关闭 Kafka 消费者失败: %v", err)
	}
}

// shouldAbandon 用 Redis 统计失败次数，达到阈值后放弃该任务。
// Redis 不可用时直接放弃，避免无界重试。
func shouldAbandon(task tasks.WordEnrichmentTask) bool {
	if database.RDB == nil {
		return true
	}
	attemptsKey := fmt.Sprintf("fluentai:enrich-attempts:%s:%s", task.UserID, task.WordID)
	attempts, err := database.RDB.Incr(context.Background(), attemptsKey).Result()
	if err != nil {
		return true
	}
	_ = database.RDB.Expire(context.Background(), attemptsKey, 24*time.Hour).Err()
	return attempts >= 3
}

func clearAttempts(task tasks.WordEnrichmentTask) {
	if database.RDB == nil {
		return
	}
	key := fmt.Sprintf("fluentai:enrich-attempts:%s:%s", task.UserID, task.WordID)
	_ = database.RDB.Del(context.Background(), key).Err()
}
