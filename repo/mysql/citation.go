package mysql

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/paper_service/models/entities"
	"github.com/Xushengqwer/paper_service/models/enums"
)

// CitedCount 被引用次数聚合行
type CitedCount struct {
	CitedPostID uint64
	Count       int64
}

// CitationRepository 定义了引用边的持久化操作接口。
// 边没有独立生命周期: 每次内容更新时按来源整体替换（先删后插，同一事务内），
// 读者不会观察到某个来源半删半插的中间状态。
type CitationRepository interface {
	// ReplaceBySource 整体替换指定帖子在指定来源下的引用边集（先删后插）。
	// - 调用方必须传入事务对象 tx，保证删与插对读者原子可见。
	// - citedIDs 中的自引用与不存在的论文目标由本方法过滤后再落库；
	//   同一来源内的重复ID只保留一条。
	// - 重复调用同一输入是幂等的。
	ReplaceBySource(ctx context.Context, db *gorm.DB, citingPostID uint64, source enums.CitationSource, citedIDs []uint64) error

	// ListByCitingPost 列出指定帖子发出的全部引用边（两种来源）。
	ListByCitingPost(ctx context.Context, citingPostID uint64) ([]*entities.Citation, error)

	// ListCitedIDs 返回指定帖子引用的目标ID去重并集（manual ∪ auto），升序。
	// - 版本快照的 citation_targets 字段使用该结果。
	ListCitedIDs(ctx context.Context, citingPostID uint64) ([]uint64, error)

	// FilterPaperIDs 过滤出传入ID中真实存在且类别为论文的帖子ID。
	FilterPaperIDs(ctx context.Context, ids []uint64) ([]uint64, error)

	// CountCitedAll 统计所有帖子的被引用次数（跨来源去重计对数），按次数倒序，
	// 供排行榜缓存任务使用。
	CountCitedAll(ctx context.Context, limit int) ([]CitedCount, error)
}

// citationRepository 是 CitationRepository 接口针对 MySQL 的具体实现。
type citationRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewCitationRepository 是 citationRepository 的构造函数。
func NewCitationRepository(db *gorm.DB, logger *core.ZapLogger) CitationRepository {
	return &citationRepository{
		db:     db,
		logger: logger,
	}
}

// ReplaceBySource 实现按来源的整体替换。
func (r *citationRepository) ReplaceBySource(ctx context.Context, db *gorm.DB, citingPostID uint64, source enums.CitationSource, citedIDs []uint64) error {
	// 落库前过滤: 去重、去自引、只保留真实存在的论文目标
	validTargets, err := r.FilterPaperIDs(ctx, citedIDs)
	if err != nil {
		return err
	}
	edges := make([]*entities.Citation, 0, len(validTargets))
	for _, cited := range validTargets {
		if cited == citingPostID {
			continue
		}
		edges = append(edges, &entities.Citation{
			CitingPostID: citingPostID,
			CitedPostID:  cited,
			Source:       source,
		})
	}

	if err := db.WithContext(ctx).
		Where("citing_post_id = ? AND source = ?", citingPostID, source).
		Delete(&entities.Citation{}).Error; err != nil {
		r.logger.Error("删除旧引用边失败",
			zap.Error(err),
			zap.Uint64("citingPostID", citingPostID),
			zap.String("source", source.String()),
		)
		return err
	}
	if len(edges) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Create(edges).Error; err != nil {
		r.logger.Error("插入新引用边失败",
			zap.Error(err),
			zap.Uint64("citingPostID", citingPostID),
			zap.String("source", source.String()),
		)
		return err
	}
	return nil
}

// ListByCitingPost 实现引用边列表查询。
func (r *citationRepository) ListByCitingPost(ctx context.Context, citingPostID uint64) ([]*entities.Citation, error) {
	var edges []*entities.Citation
	err := r.db.WithContext(ctx).
		Where("citing_post_id = ?", citingPostID).
		Order("cited_post_id ASC").Order("source ASC").
		Find(&edges).Error
	if err != nil {
		r.logger.Error("查询引用边失败", zap.Error(err), zap.Uint64("citingPostID", citingPostID))
		return nil, err
	}
	return edges, nil
}

// ListCitedIDs 实现引用目标的去重并集查询。
func (r *citationRepository) ListCitedIDs(ctx context.Context, citingPostID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&entities.Citation{}).
		Where("citing_post_id = ?", citingPostID).
		Distinct("cited_post_id").
		Order("cited_post_id ASC").
		Pluck("cited_post_id", &ids).Error
	if err != nil {
		r.logger.Error("查询引用目标并集失败", zap.Error(err), zap.Uint64("citingPostID", citingPostID))
		return nil, err
	}
	return ids, nil
}

// FilterPaperIDs 实现论文目标ID过滤。
func (r *citationRepository) FilterPaperIDs(ctx context.Context, ids []uint64) ([]uint64, error) {
	if len(ids) == 0 {
		return []uint64{}, nil
	}
	var valid []uint64
	err := r.db.WithContext(ctx).
		Model(&entities.Post{}).
		Where("id IN ? AND category = ? AND deleted_at IS NULL", ids, enums.CategoryPaper).
		Order("id ASC").
		Pluck("id", &valid).Error
	if err != nil {
		r.logger.Error("过滤论文目标ID失败", zap.Error(err))
		return nil, err
	}
	return valid, nil
}

// CountCitedAll 实现被引用次数聚合。
// 同一对 (citing, cited) 的 manual 与 auto 两条边只计一次。
func (r *citationRepository) CountCitedAll(ctx context.Context, limit int) ([]CitedCount, error) {
	var rows []CitedCount
	err := r.db.WithContext(ctx).
		Model(&entities.Citation{}).
		Select("cited_post_id AS cited_post_id, COUNT(DISTINCT citing_post_id) AS count").
		Group("cited_post_id").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		r.logger.Error("统计被引用次数失败", zap.Error(err))
		return nil, err
	}
	return rows, nil
}
