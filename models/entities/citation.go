package entities

import (
	"time"

	"github.com/Xushengqwer/paper_service/models/enums"
)

// Citation 引用边实体
// - 使用场景: 记录论文之间的有向引用关系 (citing -> cited)
// - 表名: citations
// - 复合主键: (citing_post_id, cited_post_id, source)，同一对帖子在同一来源下不重复，
//   但 manual 与 auto 两条同向边可以共存
// - 约束: 不允许自引用（citing_post_id != cited_post_id，由仓库层过滤，CHECK 兜底）
// - 无 BaseModel: 边没有独立生命周期，随来源整体替换，不需要软删除
type Citation struct {
	// 引用方帖子ID
	CitingPostID uint64 `gorm:"type:bigint;primaryKey;autoIncrement:false;constraint:OnDelete:CASCADE"`

	// 被引用帖子ID
	CitedPostID uint64 `gorm:"type:bigint;primaryKey;autoIncrement:false;index;check:chk_no_self_citation,citing_post_id <> cited_post_id"`

	// 来源，枚举: 0=manual, 1=auto
	Source enums.CitationSource `gorm:"type:int;primaryKey;autoIncrement:false"`

	// 创建时间
	CreatedAt time.Time
}
