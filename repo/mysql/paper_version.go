package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/paper_service/models/entities"
	"github.com/Xushengqwer/paper_service/myErrors"
)

// PaperVersionRepository 定义了论文版本快照的持久化操作接口。
// 版本行是不可变的: 只有插入和查询，没有更新。
type PaperVersionRepository interface {
	// CreateVersion 插入一条版本快照。
	// - 版本号由调用方（状态机事务内）分配；(post_id, version_number) 唯一索引兜底去重。
	CreateVersion(ctx context.Context, db *gorm.DB, version *entities.PaperVersion) error

	// GetVersionByID 根据版本ID检索快照。
	// - 未找到时返回 commonerrors.ErrRepoNotFound。
	GetVersionByID(ctx context.Context, id uint64) (*entities.PaperVersion, error)

	// GetLatestByPostID 获取指定帖子的最新版本（version_number 最大）。
	GetLatestByPostID(ctx context.Context, postID uint64) (*entities.PaperVersion, error)

	// ListByPostID 列出指定帖子的全部版本，新版本在前。
	ListByPostID(ctx context.Context, postID uint64) ([]*entities.PaperVersion, error)

	// CountByPostID 统计指定帖子的版本数。
	// - 正常情况下等于 posts.current_revision，用于一致性校验与测试断言。
	CountByPostID(ctx context.Context, postID uint64) (int64, error)
}

// paperVersionRepository 是 PaperVersionRepository 接口针对 MySQL 的具体实现。
type paperVersionRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPaperVersionRepository 是 paperVersionRepository 的构造函数。
func NewPaperVersionRepository(db *gorm.DB, logger *core.ZapLogger) PaperVersionRepository {
	return &paperVersionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateVersion 实现版本快照插入。
func (r *paperVersionRepository) CreateVersion(ctx context.Context, db *gorm.DB, version *entities.PaperVersion) error {
	if err := db.WithContext(ctx).Create(version).Error; err != nil {
		// 并发提交时败者会先在唯一索引 (post_id, version_number) 上撞车，
		// 统一转成版本冲突交由调用方重试（需要开启 TranslateError）
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.logger.Warn("版本快照插入命中唯一索引，判定为并发冲突",
				zap.Uint64("postID", version.PostID),
				zap.Uint64("versionNumber", version.VersionNumber),
			)
			return myErrors.ErrVersionConflict
		}
		r.logger.Error("插入论文版本快照失败",
			zap.Error(err),
			zap.Uint64("postID", version.PostID),
			zap.Uint64("versionNumber", version.VersionNumber),
		)
		return err
	}
	return nil
}

// GetVersionByID 实现根据版本ID检索快照。
func (r *paperVersionRepository) GetVersionByID(ctx context.Context, id uint64) (*entities.PaperVersion, error) {
	var version entities.PaperVersion
	err := r.db.WithContext(ctx).First(&version, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 ID 获取版本快照未找到", zap.Uint64("versionID", id))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取版本快照数据库查询失败", zap.Uint64("versionID", id), zap.Error(err))
		return nil, err
	}
	return &version, nil
}

// GetLatestByPostID 实现最新版本检索。
func (r *paperVersionRepository) GetLatestByPostID(ctx context.Context, postID uint64) (*entities.PaperVersion, error) {
	var version entities.PaperVersion
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("version_number DESC").Order("id DESC").
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("获取帖子最新版本数据库查询失败", zap.Uint64("postID", postID), zap.Error(err))
		return nil, err
	}
	return &version, nil
}

// ListByPostID 实现版本列表查询，新版本在前。
func (r *paperVersionRepository) ListByPostID(ctx context.Context, postID uint64) ([]*entities.PaperVersion, error) {
	var versions []*entities.PaperVersion
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("version_number DESC").Order("id DESC").
		Find(&versions).Error
	if err != nil {
		r.logger.Error("获取帖子版本列表数据库查询失败", zap.Uint64("postID", postID), zap.Error(err))
		return nil, err
	}
	return versions, nil
}

// CountByPostID 实现版本计数。
func (r *paperVersionRepository) CountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.PaperVersion{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		r.logger.Error("统计帖子版本数失败", zap.Uint64("postID", postID), zap.Error(err))
		return 0, err
	}
	return count, nil
}
