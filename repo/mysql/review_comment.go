package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/paper_service/models/entities"
)

// ReviewCommentRepository 定义了评审讨论评论的持久化操作接口。
// 删除是软性的: 行保留以维持子树结构，内容在展示层以墓碑占位。
type ReviewCommentRepository interface {
	// CreateComment 插入一条评论。
	CreateComment(ctx context.Context, comment *entities.ReviewComment) error

	// GetCommentByID 根据评论ID检索记录。
	GetCommentByID(ctx context.Context, id uint64) (*entities.ReviewComment, error)

	// MarkDeleted 将评论置为墓碑状态。
	// - 幂等: 已是墓碑的评论再次删除直接成功。
	MarkDeleted(ctx context.Context, id uint64) error

	// ListByPost 列出帖子下的全部评论（含墓碑），按 id 升序。
	// - versionID 非空时只返回针对该版本的评论。
	// - 树的组装与展示排序由服务层完成。
	ListByPost(ctx context.Context, postID uint64, versionID *uint64) ([]*entities.ReviewComment, error)
}

// reviewCommentRepository 是 ReviewCommentRepository 接口针对 MySQL 的具体实现。
type reviewCommentRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewReviewCommentRepository 是 reviewCommentRepository 的构造函数。
func NewReviewCommentRepository(db *gorm.DB, logger *core.ZapLogger) ReviewCommentRepository {
	return &reviewCommentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateComment 实现评论插入。
func (r *reviewCommentRepository) CreateComment(ctx context.Context, comment *entities.ReviewComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.logger.Error("插入评审评论失败", zap.Error(err), zap.Uint64("postID", comment.PostID))
		return err
	}
	return nil
}

// GetCommentByID 实现评论检索。
func (r *reviewCommentRepository) GetCommentByID(ctx context.Context, id uint64) (*entities.ReviewComment, error) {
	var comment entities.ReviewComment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取评审评论失败", zap.Uint64("commentID", id), zap.Error(err))
		return nil, err
	}
	return &comment, nil
}

// MarkDeleted 实现墓碑标记。
func (r *reviewCommentRepository) MarkDeleted(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).
		Model(&entities.ReviewComment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		r.logger.Error("标记评审评论墓碑失败", zap.Error(result.Error), zap.Uint64("commentID", id))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// ListByPost 实现评论列表查询。
func (r *reviewCommentRepository) ListByPost(ctx context.Context, postID uint64, versionID *uint64) ([]*entities.ReviewComment, error) {
	var comments []*entities.ReviewComment
	query := r.db.WithContext(ctx).Where("post_id = ?", postID)
	if versionID != nil {
		query = query.Where("paper_version_id = ?", *versionID)
	}
	err := query.Order("id ASC").Find(&comments).Error
	if err != nil {
		r.logger.Error("查询评审评论列表失败", zap.Error(err), zap.Uint64("postID", postID))
		return nil, err
	}
	return comments, nil
}
