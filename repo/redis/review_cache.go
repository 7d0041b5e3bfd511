package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/paper_service/constant"
	"github.com/Xushengqwer/paper_service/models/vo"
	"github.com/Xushengqwer/paper_service/myErrors"
)

// ReviewCacheRepository 定义了“帖子最新评审”在 Redis 中的缓存操作接口。
// - 使用场景: 客户端轮询评审进度时走缓存，降低 pending 期间的数据库压力
// - 失效策略: 短 TTL + 评审进入终态时主动删除
type ReviewCacheRepository interface {
	// GetLatestReview 读取缓存的最新评审 VO。
	// - 未命中时返回 myErrors.ErrCacheMiss。
	GetLatestReview(ctx context.Context, postID uint64) (*vo.AiReviewVO, error)

	// SetLatestReview 写入最新评审 VO，TTL 由 constant.LatestReviewCacheTTL 控制。
	SetLatestReview(ctx context.Context, postID uint64, review *vo.AiReviewVO) error

	// InvalidateLatestReview 删除缓存（评审状态发生变化时调用）。
	InvalidateLatestReview(ctx context.Context, postID uint64) error
}

// reviewCacheRepository 是 ReviewCacheRepository 的 go-redis 实现。
type reviewCacheRepository struct {
	client *redis.Client
	logger *core.ZapLogger
}

// NewReviewCacheRepository 是 reviewCacheRepository 的构造函数。
func NewReviewCacheRepository(client *redis.Client, logger *core.ZapLogger) ReviewCacheRepository {
	return &reviewCacheRepository{
		client: client,
		logger: logger,
	}
}

func latestReviewKey(postID uint64) string {
	return fmt.Sprintf("%s%d", constant.LatestReviewCacheKeyPrefix, postID)
}

// GetLatestReview 实现缓存读取。
func (r *reviewCacheRepository) GetLatestReview(ctx context.Context, postID uint64) (*vo.AiReviewVO, error) {
	raw, err := r.client.Get(ctx, latestReviewKey(postID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, myErrors.ErrCacheMiss
		}
		r.logger.Error("读取最新评审缓存失败", zap.Error(err), zap.Uint64("postID", postID))
		return nil, err
	}
	var review vo.AiReviewVO
	if err := json.Unmarshal(raw, &review); err != nil {
		// 损坏的缓存按未命中处理并顺手清掉
		r.logger.Warn("最新评审缓存内容损坏，已删除", zap.Error(err), zap.Uint64("postID", postID))
		_ = r.client.Del(ctx, latestReviewKey(postID)).Err()
		return nil, myErrors.ErrCacheMiss
	}
	return &review, nil
}

// SetLatestReview 实现缓存写入。
func (r *reviewCacheRepository) SetLatestReview(ctx context.Context, postID uint64, review *vo.AiReviewVO) error {
	raw, err := review.MarshalForCache()
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, latestReviewKey(postID), raw, constant.LatestReviewCacheTTL).Err(); err != nil {
		r.logger.Error("写入最新评审缓存失败", zap.Error(err), zap.Uint64("postID", postID))
		return err
	}
	return nil
}

// InvalidateLatestReview 实现缓存删除。
func (r *reviewCacheRepository) InvalidateLatestReview(ctx context.Context, postID uint64) error {
	if err := r.client.Del(ctx, latestReviewKey(postID)).Err(); err != nil {
		r.logger.Error("删除最新评审缓存失败", zap.Error(err), zap.Uint64("postID", postID))
		return err
	}
	return nil
}
