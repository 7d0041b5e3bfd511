package redis

import (
	"context"
	"strconv"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/paper_service/constant"
	"github.com/Xushengqwer/paper_service/models/vo"
	mysqlrepo "github.com/Xushengqwer/paper_service/repo/mysql"
)

// CitationRankRepository 定义了被引用次数排行榜在 Redis 中的缓存操作接口。
// - ZSet 成员为帖子ID，分数为被引用次数
// - 由定时任务从 MySQL 聚合后整体重建，读路径只查 Redis
type CitationRankRepository interface {
	// RebuildRank 用 MySQL 聚合结果整体重建排行榜 ZSet。
	RebuildRank(ctx context.Context, rows []mysqlrepo.CitedCount) error

	// GetTopCited 读取排行榜前 limit 条。
	GetTopCited(ctx context.Context, limit int) ([]*vo.CitationRankItemVO, error)
}

// citationRankRepository 是 CitationRankRepository 的 go-redis 实现。
type citationRankRepository struct {
	client *redis.Client
	logger *core.ZapLogger
}

// NewCitationRankRepository 是 citationRankRepository 的构造函数。
func NewCitationRankRepository(client *redis.Client, logger *core.ZapLogger) CitationRankRepository {
	return &citationRankRepository{
		client: client,
		logger: logger,
	}
}

// RebuildRank 实现排行榜整体重建。
// 先写入临时 Key 再 RENAME，避免读者观察到半空的榜单。
func (r *citationRankRepository) RebuildRank(ctx context.Context, rows []mysqlrepo.CitedCount) error {
	tmpKey := constant.CitationRankKey + ":rebuild"

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, tmpKey)
	if len(rows) > 0 {
		members := make([]redis.Z, 0, len(rows))
		for _, row := range rows {
			members = append(members, redis.Z{
				Score:  float64(row.Count),
				Member: strconv.FormatUint(row.CitedPostID, 10),
			})
		}
		pipe.ZAdd(ctx, tmpKey, members...)
	}
	pipe.Rename(ctx, tmpKey, constant.CitationRankKey)
	if _, err := pipe.Exec(ctx); err != nil {
		// 空榜单时 RENAME 会因 tmpKey 不存在而失败，此时直接清空正式 Key
		if len(rows) == 0 {
			if delErr := r.client.Del(ctx, constant.CitationRankKey).Err(); delErr != nil {
				r.logger.Error("清空引用排行榜失败", zap.Error(delErr))
				return delErr
			}
			return nil
		}
		r.logger.Error("重建引用排行榜失败", zap.Error(err))
		return err
	}
	r.logger.Info("引用排行榜已重建", zap.Int("entries", len(rows)))
	return nil
}

// GetTopCited 实现排行榜读取。
func (r *citationRankRepository) GetTopCited(ctx context.Context, limit int) ([]*vo.CitationRankItemVO, error) {
	if limit <= 0 {
		limit = constant.CitationRankSize
	}
	rows, err := r.client.ZRevRangeWithScores(ctx, constant.CitationRankKey, 0, int64(limit-1)).Result()
	if err != nil {
		r.logger.Error("读取引用排行榜失败", zap.Error(err))
		return nil, err
	}
	items := make([]*vo.CitationRankItemVO, 0, len(rows))
	for _, row := range rows {
		member, ok := row.Member.(string)
		if !ok {
			continue
		}
		postID, parseErr := strconv.ParseUint(member, 10, 64)
		if parseErr != nil {
			continue
		}
		items = append(items, &vo.CitationRankItemVO{
			PostID:        postID,
			CitationCount: int64(row.Score),
		})
	}
	return items, nil
}
