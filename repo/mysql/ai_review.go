package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/paper_service/models/entities"
	"github.com/Xushengqwer/paper_service/models/enums"
	"github.com/Xushengqwer/paper_service/myErrors"
)

// ReviewStatusCount 按状态聚合的评审数量
type ReviewStatusCount struct {
	Status enums.ReviewStatus
	Count  int64
}

// ReviewDecisionCount 按结论聚合的评审数量
type ReviewDecisionCount struct {
	Decision enums.ReviewDecision
	Count    int64
}

// AiReviewRepository 定义了评审台账在 MySQL 中的持久化操作接口。
// 台账的写路径只有两种: 创建 pending 行、一次性置为终态。
type AiReviewRepository interface {
	// CreatePending 原子地创建一条 pending 评审。
	// - 事务内先检查该帖子是否已有 pending 行，存在则返回 myErrors.ErrReviewAlreadyInProgress；
	//   检查与插入在同一事务中完成，保证“每帖至多一条 pending”的不变式。
	CreatePending(ctx context.Context, postID uint64, versionID uint64, trigger enums.ReviewTrigger, inputPayload string) (*entities.AiReview, error)

	// MarkCompleted 将 pending 评审一次性置为 completed 并写入结果。
	// - 守卫式更新: WHERE status = pending；已终态的行命中 0 行，
	//   返回 myErrors.ErrReviewAlreadyTerminal 而不是覆盖既有评分。
	MarkCompleted(ctx context.Context, reviewID uint64, decision enums.ReviewDecision, scores [5]*int, editorialSummary, peerSummary string, issues, strengths string, rawPayload string) error

	// MarkFailed 将 pending 评审一次性置为 failed 并记录错误信息。
	// - 守卫语义与 MarkCompleted 相同。
	MarkFailed(ctx context.Context, reviewID uint64, message string) error

	// GetReviewByID 根据评审ID检索记录。
	GetReviewByID(ctx context.Context, id uint64) (*entities.AiReview, error)

	// GetLatestByPostID 获取帖子最近一次评审（按 id 倒序，任意状态）。
	GetLatestByPostID(ctx context.Context, postID uint64) (*entities.AiReview, error)

	// GetLatestCompletedByPostID 获取帖子最近一次 completed 评审。
	GetLatestCompletedByPostID(ctx context.Context, postID uint64) (*entities.AiReview, error)

	// ListByPostID 分页查询帖子的评审历史，按时间倒序。
	ListByPostID(ctx context.Context, postID uint64, offset, limit int) ([]*entities.AiReview, int64, error)

	// ListByStatus 管理员跨帖子分页查询评审列表，可按状态筛选。
	ListByStatus(ctx context.Context, status *enums.ReviewStatus, offset, limit int) ([]*entities.AiReview, int64, error)

	// ListStalePending 列出创建时间早于 before 的 pending 评审，供巡检任务告警。
	ListStalePending(ctx context.Context, before time.Time) ([]*entities.AiReview, error)

	// CountByStatus 按状态聚合评审数量。
	CountByStatus(ctx context.Context) ([]ReviewStatusCount, error)

	// CountByDecision 按结论聚合 completed 评审数量。
	CountByDecision(ctx context.Context) ([]ReviewDecisionCount, error)

	// AvgOverallScore 计算 completed 评审的总体评分均值；无样本时返回 (nil, nil)。
	AvgOverallScore(ctx context.Context) (*float64, error)
}

// aiReviewRepository 是 AiReviewRepository 接口针对 MySQL 的具体实现。
type aiReviewRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewAiReviewRepository 是 aiReviewRepository 的构造函数。
func NewAiReviewRepository(db *gorm.DB, logger *core.ZapLogger) AiReviewRepository {
	return &aiReviewRepository{
		db:     db,
		logger: logger,
	}
}

// CreatePending 实现 pending 评审的原子检查并插入。
func (r *aiReviewRepository) CreatePending(ctx context.Context, postID uint64, versionID uint64, trigger enums.ReviewTrigger, inputPayload string) (*entities.AiReview, error) {
	review := &entities.AiReview{
		PostID:         postID,
		PaperVersionID: sql.NullInt64{Int64: int64(versionID), Valid: versionID != 0},
		Status:         enums.ReviewStatusPending,
		Trigger:        trigger,
		Issues:         "[]",
		Strengths:      "[]",
	}
	if inputPayload != "" {
		review.InputPayload = sql.NullString{String: inputPayload, Valid: true}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pendingCount int64
		if err := tx.Model(&entities.AiReview{}).
			Where("post_id = ? AND status = ?", postID, enums.ReviewStatusPending).
			Count(&pendingCount).Error; err != nil {
			return err
		}
		if pendingCount > 0 {
			return myErrors.ErrReviewAlreadyInProgress
		}
		return tx.Create(review).Error
	})
	if err != nil {
		if errors.Is(err, myErrors.ErrReviewAlreadyInProgress) {
			r.logger.Warn("帖子已存在 pending 评审，拒绝重复创建", zap.Uint64("postID", postID))
		} else {
			r.logger.Error("创建 pending 评审失败", zap.Error(err), zap.Uint64("postID", postID))
		}
		return nil, err
	}
	return review, nil
}

// MarkCompleted 实现评审结果的一次性写入。
// scores 的顺序固定为: originality, methodology, clarity, relevance, overall。
func (r *aiReviewRepository) MarkCompleted(ctx context.Context, reviewID uint64, decision enums.ReviewDecision, scores [5]*int, editorialSummary, peerSummary string, issues, strengths string, rawPayload string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":       enums.ReviewStatusCompleted,
		"decision":     int64(decision),
		"completed_at": sql.NullTime{Time: now, Valid: true},
		"updated_at":   now,
	}
	scoreColumns := [5]string{
		"score_originality", "score_methodology", "score_clarity", "score_relevance", "score_overall",
	}
	for i, col := range scoreColumns {
		if scores[i] != nil {
			updates[col] = *scores[i]
		}
	}
	if editorialSummary != "" {
		updates["editorial_summary"] = editorialSummary
	}
	if peerSummary != "" {
		updates["peer_summary"] = peerSummary
	}
	if issues != "" {
		updates["issues"] = issues
	}
	if strengths != "" {
		updates["strengths"] = strengths
	}
	if rawPayload != "" {
		updates["raw_payload"] = rawPayload
	}

	return r.markTerminal(ctx, reviewID, updates)
}

// MarkFailed 实现失败终态的一次性写入。
func (r *aiReviewRepository) MarkFailed(ctx context.Context, reviewID uint64, message string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":        enums.ReviewStatusFailed,
		"error_message": message,
		"completed_at":  sql.NullTime{Time: now, Valid: true},
		"updated_at":    now,
	}
	return r.markTerminal(ctx, reviewID, updates)
}

// markTerminal 以 WHERE status = pending 守卫执行终态更新。
func (r *aiReviewRepository) markTerminal(ctx context.Context, reviewID uint64, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&entities.AiReview{}).
		Where("id = ? AND status = ?", reviewID, enums.ReviewStatusPending).
		Updates(updates)
	if result.Error != nil {
		r.logger.Error("评审终态更新数据库操作失败", zap.Error(result.Error), zap.Uint64("reviewID", reviewID))
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 区分“记录不存在”和“已是终态”
		var count int64
		if err := r.db.WithContext(ctx).Model(&entities.AiReview{}).
			Where("id = ?", reviewID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return commonerrors.ErrRepoNotFound
		}
		r.logger.Warn("评审已处于终态，拒绝二次写入", zap.Uint64("reviewID", reviewID))
		return myErrors.ErrReviewAlreadyTerminal
	}
	return nil
}

// GetReviewByID 实现根据评审ID检索记录。
func (r *aiReviewRepository) GetReviewByID(ctx context.Context, id uint64) (*entities.AiReview, error) {
	var review entities.AiReview
	err := r.db.WithContext(ctx).First(&review, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取评审数据库查询失败", zap.Uint64("reviewID", id), zap.Error(err))
		return nil, err
	}
	return &review, nil
}

// GetLatestByPostID 实现最近评审查询（任意状态）。
func (r *aiReviewRepository) GetLatestByPostID(ctx context.Context, postID uint64) (*entities.AiReview, error) {
	var review entities.AiReview
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id DESC").
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("获取帖子最近评审数据库查询失败", zap.Uint64("postID", postID), zap.Error(err))
		return nil, err
	}
	return &review, nil
}

// GetLatestCompletedByPostID 实现最近 completed 评审查询。
func (r *aiReviewRepository) GetLatestCompletedByPostID(ctx context.Context, postID uint64) (*entities.AiReview, error) {
	var review entities.AiReview
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND status = ?", postID, enums.ReviewStatusCompleted).
		Order("id DESC").
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("获取帖子最近完成评审数据库查询失败", zap.Uint64("postID", postID), zap.Error(err))
		return nil, err
	}
	return &review, nil
}

// ListByPostID 实现评审历史的分页查询。
func (r *aiReviewRepository) ListByPostID(ctx context.Context, postID uint64, offset, limit int) ([]*entities.AiReview, int64, error) {
	var reviews []*entities.AiReview
	var totalCount int64

	if err := r.db.WithContext(ctx).Model(&entities.AiReview{}).
		Where("post_id = ?", postID).
		Count(&totalCount).Error; err != nil {
		r.logger.Error("评审历史计数查询失败", zap.Error(err), zap.Uint64("postID", postID))
		return nil, 0, fmt.Errorf("计数评审历史失败: %w", err)
	}
	if totalCount == 0 {
		return reviews, 0, nil
	}

	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&reviews).Error
	if err != nil {
		r.logger.Error("评审历史列表查询失败", zap.Error(err), zap.Uint64("postID", postID))
		return nil, 0, fmt.Errorf("查询评审历史失败: %w", err)
	}
	return reviews, totalCount, nil
}

// ListByStatus 实现管理员评审列表的分页查询。
func (r *aiReviewRepository) ListByStatus(ctx context.Context, status *enums.ReviewStatus, offset, limit int) ([]*entities.AiReview, int64, error) {
	var reviews []*entities.AiReview
	var totalCount int64

	query := r.db.WithContext(ctx).Model(&entities.AiReview{})
	countQuery := r.db.WithContext(ctx).Model(&entities.AiReview{})
	if status != nil {
		query = query.Where("status = ?", *status)
		countQuery = countQuery.Where("status = ?", *status)
	}

	if err := countQuery.Count(&totalCount).Error; err != nil {
		r.logger.Error("管理员评审列表计数查询失败", zap.Error(err))
		return nil, 0, fmt.Errorf("计数评审列表失败: %w", err)
	}
	if totalCount == 0 {
		return reviews, 0, nil
	}

	err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&reviews).Error
	if err != nil {
		r.logger.Error("管理员评审列表查询失败", zap.Error(err))
		return nil, 0, fmt.Errorf("查询评审列表失败: %w", err)
	}
	return reviews, totalCount, nil
}

// ListStalePending 实现滞留 pending 评审查询。
func (r *aiReviewRepository) ListStalePending(ctx context.Context, before time.Time) ([]*entities.AiReview, error) {
	var reviews []*entities.AiReview
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enums.ReviewStatusPending, before).
		Order("created_at ASC").
		Find(&reviews).Error
	if err != nil {
		r.logger.Error("查询滞留 pending 评审失败", zap.Error(err))
		return nil, err
	}
	return reviews, nil
}

// CountByStatus 实现按状态聚合。
func (r *aiReviewRepository) CountByStatus(ctx context.Context) ([]ReviewStatusCount, error) {
	var rows []ReviewStatusCount
	err := r.db.WithContext(ctx).
		Model(&entities.AiReview{}).
		Select("status AS status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		r.logger.Error("按状态聚合评审数量失败", zap.Error(err))
		return nil, err
	}
	return rows, nil
}

// CountByDecision 实现按结论聚合。
func (r *aiReviewRepository) CountByDecision(ctx context.Context) ([]ReviewDecisionCount, error) {
	var rows []ReviewDecisionCount
	err := r.db.WithContext(ctx).
		Model(&entities.AiReview{}).
		Select("decision AS decision, COUNT(*) AS count").
		Where("status = ? AND decision IS NOT NULL", enums.ReviewStatusCompleted).
		Group("decision").
		Scan(&rows).Error
	if err != nil {
		r.logger.Error("按结论聚合评审数量失败", zap.Error(err))
		return nil, err
	}
	return rows, nil
}

// AvgOverallScore 实现总体评分均值计算。
func (r *aiReviewRepository) AvgOverallScore(ctx context.Context) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).
		Model(&entities.AiReview{}).
		Select("AVG(score_overall)").
		Where("status = ? AND score_overall IS NOT NULL", enums.ReviewStatusCompleted).
		Scan(&avg).Error
	if err != nil {
		r.logger.Error("计算总体评分均值失败", zap.Error(err))
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
