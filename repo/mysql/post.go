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

// PostRepository 定义了帖子数据在 MySQL 中的持久化操作接口。
// 接口的设计旨在将数据访问逻辑与业务逻辑（服务层）解耦。
type PostRepository interface {
	// CreatePost 持久化一个新的帖子记录。
	// - 这是论文生命周期的起点，对应作者首次提交的操作。
	CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error

	// GetPostByID 根据单个 ID 检索帖子信息。
	// - 如果未找到帖子，返回 commonerrors.ErrRepoNotFound 错误。
	GetPostByID(ctx context.Context, id uint64) (*entities.Post, error)

	// UpdateEditableFields 更新帖子的可编辑内容字段（实时行，编辑立即生效）。
	// - 不触碰 paper_status / is_published / current_revision，工作流字段走专用方法。
	UpdateEditableFields(ctx context.Context, db *gorm.DB, postID uint64, fields map[string]interface{}) error

	// AdvanceRevision 以 CAS 方式推进版本指针。
	// - 条件更新: current_revision 仍等于调用方读到的 observedRevision 时才生效，
	//   同时写入 current_revision+1 与新的 latest_version_id。
	// - 并发提交的败者命中 0 行，返回 myErrors.ErrVersionConflict，由调用方重读重试。
	AdvanceRevision(ctx context.Context, db *gorm.DB, postID uint64, observedRevision uint64, newVersionID uint64) error

	// UpdatePaperStatus 更新工作流状态。
	// - 仅改 paper_status；发布标记由 PublishPost 专门处理。
	UpdatePaperStatus(ctx context.Context, db *gorm.DB, postID uint64, status enums.PaperStatus) error

	// PublishPost 将 accepted 状态的论文置为 published。
	// - 守卫式更新: WHERE paper_status = accepted，命中 0 行时区分“帖子不存在”
	//   与“状态不满足”分别返回 ErrRepoNotFound / ErrNotAccepted。
	// - published_at 仅在首次发布时写入，重新发布后续版本不刷新该时间。
	PublishPost(ctx context.Context, postID uint64) (*entities.Post, error)

	// ListByAuthor 分页查询指定作者的帖子列表，可按工作流状态筛选。
	ListByAuthor(ctx context.Context, authorID string, status *enums.PaperStatus, offset, limit int) ([]*entities.Post, int64, error)

	// DeletePost 对指定帖子执行软删除。
	DeletePost(ctx context.Context, db *gorm.DB, id uint64) error
}

// postRepository 是 PostRepository 接口针对 MySQL 的具体实现。
type postRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPostRepository 是 postRepository 的构造函数。
func NewPostRepository(db *gorm.DB, logger *core.ZapLogger) PostRepository {
	return &postRepository{
		db:     db,
		logger: logger,
	}
}

// CreatePost 实现帖子的数据库插入操作。
func (r *postRepository) CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error {
	// 使用传入的 db 对象（在这里即为事务对象 tx）执行数据库操作。
	if err := db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	return nil
}

// GetPostByID 实现根据单个 ID 获取帖子。
func (r *postRepository) GetPostByID(ctx context.Context, id uint64) (*entities.Post, error) {
	var post entities.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 ID 获取帖子未找到", zap.Uint64("postID", id), zap.Error(err))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取帖子数据库查询失败", zap.Uint64("postID", id), zap.Error(err))
		return nil, err
	}
	return &post, nil
}

// UpdateEditableFields 实现帖子内容字段的更新。
func (r *postRepository) UpdateEditableFields(ctx context.Context, db *gorm.DB, postID uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		r.logger.Info("没有提供任何有效的字段来更新帖子",
			zap.Uint64("postID", postID),
		)
		return nil
	}
	fields["updated_at"] = time.Now()

	result := db.WithContext(ctx).
		Model(&entities.Post{}).
		Where("id = ? AND deleted_at IS NULL", postID).
		Updates(fields)

	if result.Error != nil {
		r.logger.Error("更新帖子内容字段数据库操作失败",
			zap.Error(result.Error),
			zap.Uint64("postID", postID),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("尝试更新帖子但未找到记录或记录已被删除", zap.Uint64("postID", postID))
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// AdvanceRevision 实现版本指针的乐观并发推进。
func (r *postRepository) AdvanceRevision(ctx context.Context, db *gorm.DB, postID uint64, observedRevision uint64, newVersionID uint64) error {
	result := db.WithContext(ctx).
		Model(&entities.Post{}).
		Where("id = ? AND current_revision = ? AND deleted_at IS NULL", postID, observedRevision).
		Updates(map[string]interface{}{
			"current_revision":  observedRevision + 1,
			"latest_version_id": newVersionID,
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("推进版本指针数据库操作失败",
			zap.Error(result.Error),
			zap.Uint64("postID", postID),
			zap.Uint64("observedRevision", observedRevision),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 0 行意味着并发提交者先行推进了计数（或帖子已不存在）。
		// 区分两种情况: 帖子存在则是版本冲突，交由调用方重试。
		var count int64
		if err := db.WithContext(ctx).Model(&entities.Post{}).
			Where("id = ? AND deleted_at IS NULL", postID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return commonerrors.ErrRepoNotFound
		}
		r.logger.Warn("版本指针推进失败，检测到并发冲突",
			zap.Uint64("postID", postID),
			zap.Uint64("observedRevision", observedRevision),
		)
		return myErrors.ErrVersionConflict
	}
	return nil
}

// UpdatePaperStatus 实现工作流状态更新。
func (r *postRepository) UpdatePaperStatus(ctx context.Context, db *gorm.DB, postID uint64, status enums.PaperStatus) error {
	result := db.WithContext(ctx).
		Model(&entities.Post{}).
		Where("id = ? AND deleted_at IS NULL", postID).
		Updates(map[string]interface{}{
			"paper_status": status,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		r.logger.Error("更新论文状态数据库操作失败",
			zap.Error(result.Error),
			zap.Uint64("postID", postID),
			zap.String("status", status.String()),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// PublishPost 实现发布操作的守卫式更新。
func (r *postRepository) PublishPost(ctx context.Context, postID uint64) (*entities.Post, error) {
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post entities.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return commonerrors.ErrRepoNotFound
			}
			return err
		}
		if post.PaperStatus != enums.PaperStatusAccepted {
			return myErrors.ErrNotAccepted
		}

		updates := map[string]interface{}{
			"paper_status": enums.PaperStatusPublished,
			"is_published": true,
			"updated_at":   now,
		}
		// published_at 只在首次发布时写入，之后保持不变
		if !post.PublishedAt.Valid {
			updates["published_at"] = sql.NullTime{Time: now, Valid: true}
		}

		result := tx.Model(&entities.Post{}).
			Where("id = ? AND paper_status = ? AND deleted_at IS NULL", postID, enums.PaperStatusAccepted).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// 读到的状态与更新之间被并发修改
			return myErrors.ErrNotAccepted
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) && !errors.Is(err, myErrors.ErrNotAccepted) {
			r.logger.Error("发布论文事务失败", zap.Error(err), zap.Uint64("postID", postID))
		}
		return nil, err
	}
	return r.GetPostByID(ctx, postID)
}

// ListByAuthor 分页查询指定作者的帖子列表。
func (r *postRepository) ListByAuthor(ctx context.Context, authorID string, status *enums.PaperStatus, offset, limit int) ([]*entities.Post, int64, error) {
	var posts []*entities.Post
	var totalCount int64

	query := r.db.WithContext(ctx).Model(&entities.Post{}).Where("author_id = ?", authorID)
	countQuery := r.db.WithContext(ctx).Model(&entities.Post{}).Where("author_id = ?", authorID)

	if status != nil {
		query = query.Where("paper_status = ?", *status)
		countQuery = countQuery.Where("paper_status = ?", *status)
	}

	if err := countQuery.Count(&totalCount).Error; err != nil {
		r.logger.Error("获取作者帖子列表：计数查询失败",
			zap.Error(err),
			zap.String("authorID", authorID),
		)
		return nil, 0, fmt.Errorf("计数作者帖子失败: %w", err)
	}
	if totalCount == 0 {
		return posts, 0, nil
	}

	query = query.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit)
	if err := query.Find(&posts).Error; err != nil {
		r.logger.Error("获取作者帖子列表：列表查询失败",
			zap.Error(err),
			zap.String("authorID", authorID),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, 0, fmt.Errorf("查询作者帖子列表失败: %w", err)
	}
	return posts, totalCount, nil
}

// DeletePost 实现帖子的软删除。
func (r *postRepository) DeletePost(ctx context.Context, db *gorm.DB, id uint64) error {
	result := db.WithContext(ctx).Delete(&entities.Post{}, id)
	if result.Error != nil {
		return result.Error
	}
	return nil
}
