package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/paper_service/config"
	"github.com/Xushengqwer/paper_service/constant"
	"github.com/Xushengqwer/paper_service/repo/mysql"
)

// ReviewWatchdogTask 负责定时巡检滞留在 pending 状态的评审。
// 只观测告警，不修改数据: 评审的终态只能由引擎回调写入，
// 巡检发现的滞留记录靠人工或手动重评处理。
type ReviewWatchdogTask struct {
	reviewRepo   mysql.AiReviewRepository
	stuckMinutes int
	cron         *cron.Cron
	logger       *core.ZapLogger
}

// NewReviewWatchdogTask 初始化并启动评审巡检的定时任务。
func NewReviewWatchdogTask(
	reviewRepo mysql.AiReviewRepository,
	cfg *config.ReviewConfig,
	logger *core.ZapLogger,
) *ReviewWatchdogTask {
	stuckMinutes := cfg.PendingStuckMinutes
	if stuckMinutes <= 0 {
		stuckMinutes = 30
	}

	cronV3 := cron.New()
	task := &ReviewWatchdogTask{
		reviewRepo:   reviewRepo,
		stuckMinutes: stuckMinutes,
		cron:         cronV3,
		logger:       logger,
	}
	task.startCronJob()
	return task
}

// startCronJob 配置并启动 cron 作业。
func (t *ReviewWatchdogTask) startCronJob() {
	schedule := constant.ReviewWatchdogCronSpec
	t.logger.Info("准备启动滞留评审巡检定时任务",
		zap.String("schedule", schedule),
		zap.Int("stuckMinutes", t.stuckMinutes))

	entryID, err := t.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		t.inspectStaleReviews(ctx)
	})

	if err != nil {
		t.logger.Fatal("添加滞留评审巡检 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start()
	t.logger.Info("滞留评审巡检定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// inspectStaleReviews 列出滞留超过阈值的 pending 评审并逐条告警。
func (t *ReviewWatchdogTask) inspectStaleReviews(ctx context.Context) {
	before := time.Now().Add(-time.Duration(t.stuckMinutes) * time.Minute)
	reviews, err := t.reviewRepo.ListStalePending(ctx, before)
	if err != nil {
		t.logger.Error("查询滞留 pending 评审失败，本次巡检中止", zap.Error(err))
		return
	}
	if len(reviews) == 0 {
		return
	}

	t.logger.Warn("检测到滞留的 pending 评审", zap.Int("count", len(reviews)))
	for _, review := range reviews {
		t.logger.Warn("评审长时间未收到引擎回调",
			zap.Uint64("reviewID", review.ID),
			zap.Uint64("postID", review.PostID),
			zap.String("trigger", review.Trigger.String()),
			zap.Time("createdAt", review.CreatedAt),
			zap.Duration("pendingFor", time.Since(review.CreatedAt)))
	}
}

// Stop 优雅地停止 cron 调度器。
func (t *ReviewWatchdogTask) Stop() context.Context {
	t.logger.Info("正在停止滞留评审巡检定时任务...")
	stopCtx := t.cron.Stop()
	t.logger.Info("滞留评审巡检定时任务已停止调度。等待正在执行的任务完成...")
	return stopCtx
}
