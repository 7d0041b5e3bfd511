package entities

import (
	"database/sql"

	"github.com/Xushengqwer/go-common/models/entities"
)

// ReviewComment 评审讨论评论实体
// - 使用场景: 围绕论文（可选地针对某个具体版本）的树状讨论
// - 表名: review_comments
// - 树结构: ParentID 自引用，页面展示时按 (顶层最新在前, 回复按时间正序) 重建树
// - 删除策略: 软删除——IsDeleted 置位、内容以墓碑占位，保留行以维持子树完整
type ReviewComment struct {
	entities.BaseModel

	// 帖子ID，外键，关联 Post 表
	PostID uint64 `gorm:"type:bigint;not null;index;constraint:OnDelete:CASCADE"`

	// 评论针对的版本ID，可空；为空表示针对帖子整体
	PaperVersionID sql.NullInt64 `gorm:"type:bigint;index"`

	// 父评论ID，可空；为空表示顶层评论
	ParentID sql.NullInt64 `gorm:"type:bigint;index"`

	// 评论作者ID
	AuthorID string `gorm:"type:char(36);not null"`

	// 评论内容
	Content string `gorm:"type:text;not null"`

	// 墓碑标记；置位后内容对外展示为占位文本
	IsDeleted bool `gorm:"not null;default:false"`
}
