package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/paper_service/config"
	"github.com/Xushengqwer/paper_service/models/events"
)

// KafkaProducer Kafka 消息生产者
type KafkaProducer struct {
	writer *kafka.Writer
	logger *core.ZapLogger
	topics config.Topics
}

// NewKafkaProducer 创建一个新的 Kafka 生产者实例
func NewKafkaProducer(config config.KafkaConfig, logger *core.ZapLogger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(config.Brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{
		writer: writer,
		logger: logger,
		topics: config.Topics,
	}
}

// SendEvent 发送事件到指定 Kafka 主题
// - 生产者未初始化 (未配置 brokers) 时静默跳过，不阻断业务主流程
func (p *KafkaProducer) SendEvent(ctx context.Context, topic string, event interface{}) error {
	if p == nil {
		return nil
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.Error(err), zap.String("topic", topic))
		return err
	}

	p.logger.Debug("Sending Kafka message",
		zap.String("topic", topic),
		zap.ByteString("payload", eventBytes))

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: eventBytes,
	})

	if err != nil {
		p.logger.Error("Failed to write Kafka message", zap.Error(err), zap.String("topic", topic))
	} else {
		p.logger.Info("Successfully sent Kafka message", zap.String("topic", topic))
	}
	return err
}

// SendReviewRequestedEvent 发送论文送审事件到 Kafka
// - 意图: 将新生成版本的快照数据发送给评审引擎消费
// - 输入: ctx context.Context 上下文, reviewID 台账记录ID, paper 版本快照数据
// - 输出: error 错误信息
func (p *KafkaProducer) SendReviewRequestedEvent(ctx context.Context, reviewID uint64, paper events.PaperSnapshotData) error {
	if p == nil {
		return nil
	}
	event := events.ReviewRequestedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		ReviewID:  reviewID,
		Paper:     paper,
	}
	return p.SendEvent(ctx, p.topics.ReviewRequested, event)
}

// Close 关闭底层 writer，释放连接
func (p *KafkaProducer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
