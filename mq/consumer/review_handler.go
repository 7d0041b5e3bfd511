package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/paper_service/models/dto"
	"github.com/Xushengqwer/paper_service/models/enums"
	"github.com/Xushengqwer/paper_service/models/events"
	"github.com/Xushengqwer/paper_service/myErrors"
	"github.com/Xushengqwer/paper_service/service"
)

// todo  未配置死信队列

// MessageHandler 定义了处理 Kafka 消息的接口
type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

// --- ReviewCompletedHandler ---

// ReviewCompletedHandler 消费评审引擎的成功回调事件，将结果写入台账并推进论文状态。
type ReviewCompletedHandler struct {
	logger        *core.ZapLogger
	reviewService service.ReviewService
}

func NewReviewCompletedHandler(logger *core.ZapLogger, reviewService service.ReviewService) *ReviewCompletedHandler {
	return &ReviewCompletedHandler{
		logger:        logger,
		reviewService: reviewService,
	}
}

func (h *ReviewCompletedHandler) Handle(ctx context.Context, msg kafka.Message) error {
	h.logger.Debug("ReviewCompletedHandler: 开始处理 Kafka 消息", zap.String("topic", msg.Topic))

	var event events.ReviewCompletedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("ReviewCompletedHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}

	decision, ok := enums.ParseReviewDecision(event.Decision)
	if !ok {
		h.logger.Error("ReviewCompletedHandler: 未知的评审结论，消息丢弃",
			zap.String("event_id", event.EventID),
			zap.String("decision", event.Decision))
		return nil // 引擎契约外的结论重试也不会成功
	}

	h.logger.Info("ReviewCompletedHandler: 成功解析评审完成消息",
		zap.String("event_id", event.EventID),
		zap.Uint64("review_id", event.ReviewID),
		zap.String("decision", event.Decision))

	outcome := &dto.ReviewOutcome{
		Decision:         decision,
		ScoreOriginality: event.ScoreOriginality,
		ScoreMethodology: event.ScoreMethodology,
		ScoreClarity:     event.ScoreClarity,
		ScoreRelevance:   event.ScoreRelevance,
		ScoreOverall:     event.ScoreOverall,
		EditorialSummary: event.EditorialSummary,
		PeerSummary:      event.PeerSummary,
		Issues:           event.Issues,
		Strengths:        event.Strengths,
		RawPayload:       event.RawPayload,
	}

	updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.reviewService.CompleteReview(updateCtx, event.ReviewID, outcome)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			h.logger.Warn("ReviewCompletedHandler: 评审记录不存在，消息丢弃", zap.Uint64("review_id", event.ReviewID))
			return nil // 不再重试
		}
		if errors.Is(err, myErrors.ErrReviewAlreadyTerminal) {
			// 引擎重复投递或早先的重试已经落库
			h.logger.Warn("ReviewCompletedHandler: 评审已是终态，消息丢弃", zap.Uint64("review_id", event.ReviewID))
			return nil
		}
		if errors.Is(err, myErrors.ErrInvalidScore) || errors.Is(err, myErrors.ErrInvalidDecision) {
			h.logger.Error("ReviewCompletedHandler: 引擎返回非法评审结果，消息丢弃",
				zap.Uint64("review_id", event.ReviewID),
				zap.String("event_id", event.EventID))
			return nil // 数据本身非法，重试无意义
		}
		h.logger.Error("ReviewCompletedHandler: 写入评审结果失败", zap.Error(err), zap.Uint64("review_id", event.ReviewID))
		return fmt.Errorf("ReviewCompletedHandler: 调用 CompleteReview 失败: %w", err)
	}

	h.logger.Info("ReviewCompletedHandler: 评审结果已落库", zap.Uint64("review_id", event.ReviewID))
	return nil
}

// --- ReviewFailedHandler ---

// ReviewFailedHandler 消费评审引擎的失败回调事件，台账记录错误信息，论文状态不变。
type ReviewFailedHandler struct {
	logger        *core.ZapLogger
	reviewService service.ReviewService
}

func NewReviewFailedHandler(logger *core.ZapLogger, reviewService service.ReviewService) *ReviewFailedHandler {
	return &ReviewFailedHandler{
		logger:        logger,
		reviewService: reviewService,
	}
}

func (h *ReviewFailedHandler) Handle(ctx context.Context, msg kafka.Message) error {
	h.logger.Debug("ReviewFailedHandler: 开始处理 Kafka 消息", zap.String("topic", msg.Topic))

	var event events.ReviewFailedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("ReviewFailedHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}

	message := event.Message
	if message == "" {
		message = "评审引擎未提供失败原因"
	}

	h.logger.Info("ReviewFailedHandler: 成功解析评审失败消息",
		zap.String("event_id", event.EventID),
		zap.Uint64("review_id", event.ReviewID),
		zap.String("message", message))

	updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.reviewService.FailReview(updateCtx, event.ReviewID, message)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			h.logger.Warn("ReviewFailedHandler: 评审记录不存在，消息丢弃", zap.Uint64("review_id", event.ReviewID))
			return nil // 不再重试
		}
		if errors.Is(err, myErrors.ErrReviewAlreadyTerminal) {
			h.logger.Warn("ReviewFailedHandler: 评审已是终态，消息丢弃", zap.Uint64("review_id", event.ReviewID))
			return nil
		}
		h.logger.Error("ReviewFailedHandler: 标记评审失败出错", zap.Error(err), zap.Uint64("review_id", event.ReviewID))
		return fmt.Errorf("ReviewFailedHandler: 调用 FailReview 失败: %w", err)
	}

	h.logger.Info("ReviewFailedHandler: 评审已标记为失败", zap.Uint64("review_id", event.ReviewID))
	return nil
}
