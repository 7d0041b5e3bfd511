package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/paper_service/constant"
	"github.com/Xushengqwer/paper_service/repo/mysql"
	"github.com/Xushengqwer/paper_service/repo/redis"
)

// CitationRankCacheTask 负责定时重建 Redis 中的被引用次数排行榜。
// 数据源是 MySQL 引用边表的聚合结果，整榜覆盖写入。
type CitationRankCacheTask struct {
	citationRepo mysql.CitationRepository
	rankRepo     redis.CitationRankRepository
	cron         *cron.Cron
	logger       *core.ZapLogger
}

// NewCitationRankCacheTask 初始化并启动排行榜刷新的定时任务。
func NewCitationRankCacheTask(
	citationRepo mysql.CitationRepository,
	rankRepo redis.CitationRankRepository,
	logger *core.ZapLogger,
) *CitationRankCacheTask {
	cronV3 := cron.New() // 默认分钟级精度
	task := &CitationRankCacheTask{
		citationRepo: citationRepo,
		rankRepo:     rankRepo,
		cron:         cronV3,
		logger:       logger,
	}
	task.startCronJob()
	return task
}

// startCronJob 配置并启动 cron 作业。
func (t *CitationRankCacheTask) startCronJob() {
	schedule := constant.CitationRankCronSpec
	t.logger.Info("准备启动引用排行榜刷新定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		t.logger.Info("引用排行榜刷新任务开始执行...")
		startTime := time.Now()
		// 单次执行设置超时，聚合查询 + 整榜重建在正常情况下远小于该值
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		t.rebuildRank(ctx)

		duration := time.Since(startTime)
		t.logger.Info("引用排行榜刷新任务执行完毕", zap.Duration("duration", duration))
	})

	if err != nil {
		t.logger.Fatal("添加引用排行榜刷新 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start()
	t.logger.Info("引用排行榜刷新定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// rebuildRank 是定时任务执行的实际刷新逻辑。
// 1. 从 MySQL 聚合各帖子的被引用次数（取前 N 名）。
// 2. 用聚合结果整体重建 Redis ZSet。
func (t *CitationRankCacheTask) rebuildRank(ctx context.Context) {
	rows, err := t.citationRepo.CountCitedAll(ctx, constant.CitationRankSize)
	if err != nil {
		t.logger.Error("聚合被引用次数失败，本次刷新中止", zap.Error(err))
		return
	}
	if err := t.rankRepo.RebuildRank(ctx, rows); err != nil {
		t.logger.Error("重建引用排行榜 ZSet 失败", zap.Error(err))
		return
	}
	t.logger.Info("引用排行榜已重建", zap.Int("entries", len(rows)))
}

// Stop 优雅地停止 cron 调度器。
func (t *CitationRankCacheTask) Stop() context.Context {
	t.logger.Info("正在停止引用排行榜刷新定时任务...")
	stopCtx := t.cron.Stop()
	t.logger.Info("引用排行榜刷新定时任务已停止调度。等待正在执行的任务完成...")
	return stopCtx
}
