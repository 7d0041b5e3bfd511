package entities

import (
	"database/sql"
	"time"

	"github.com/Xushengqwer/go-common/models/entities"
)

// PaperVersion 论文版本快照实体
// - 使用场景: 每次有效提交（非草稿保存）时对帖子可编辑字段做一次不可变拷贝
// - 表名: paper_versions
// - 关系: 与 Post 多对一，通过 PostID 外键关联，删除 Post 时级联删除
// - 不可变: 行创建后不再更新；version_number 从 1 开始、连续递增、同帖唯一
type PaperVersion struct {
	entities.BaseModel

	// 帖子ID，外键，关联 Post 表
	// - GORM 标签: uniqueIndex 复合唯一索引保证 (post_id, version_number) 不重复
	PostID uint64 `gorm:"type:bigint;not null;index;uniqueIndex:uk_post_version,priority:1;constraint:OnDelete:CASCADE"`

	// 版本号，1 起始，同一帖子内严格递增且无空洞
	VersionNumber uint64 `gorm:"type:bigint;not null;uniqueIndex:uk_post_version,priority:2"`

	// 以下为提交时刻帖子可编辑字段的逐字拷贝
	Title        string         `gorm:"type:varchar(255);not null"`
	Body         string         `gorm:"type:text;not null"`
	Summary      sql.NullString `gorm:"type:text"`
	ExternalLink sql.NullString `gorm:"type:varchar(512)"`

	// 附件对象键与文件名快照
	AttachmentPath sql.NullString `gorm:"type:varchar(512)"`
	AttachmentName sql.NullString `gorm:"type:varchar(255)"`

	// 标签列表快照，JSON 数组字符串
	Tags string `gorm:"type:text"`

	// 引用目标列表快照，JSON 数组字符串（提交时刻的被引用帖子ID集合）
	CitationTargets string `gorm:"type:text"`

	// 提交者ID
	SubmitterID string `gorm:"type:char(36);not null"`

	// 提交时间
	SubmittedAt time.Time `gorm:"not null"`
}
