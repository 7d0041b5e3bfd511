package entities

import (
	"database/sql"

	"github.com/Xushengqwer/go-common/models/entities"

	"github.com/Xushengqwer/paper_service/models/enums"
)

// Post 帖子聚合根实体
// - 使用场景: 论文工作流的根对象；paper 类别的帖子附带版本、评审、引用子数据
// - 表名: posts (GORM 默认使用结构体名复数形式)
// - 说明: 帖子行本身即公开展示的“实时内容”，编辑立即生效；
//   已发布标记一旦置位不再清除，评审周期通过 paper_status 独立推进
type Post struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 标题，必填，最大长度255个字符
	Title string `gorm:"type:varchar(255);not null"`

	// 正文，支持长文本；引用提取器会扫描该字段中的站内链接与 cite 标记
	Body string `gorm:"type:text;not null"`

	// 摘要，可选
	Summary sql.NullString `gorm:"type:text"`

	// 外部链接（例如论文原文地址），可选
	ExternalLink sql.NullString `gorm:"type:varchar(512)"`

	// 类别，枚举类型：0=普通帖子, 1=论文, 2=讨论
	// - 只有论文类别参与版本/评审流程，其余类别创建即发布
	Category enums.Category `gorm:"type:int;not null;default:0"`

	// 作者ID，关联用户表，外键
	// - 类型: char(36)，用户ID为UUID格式（36个字符）
	AuthorID string `gorm:"type:char(36);not null;index"`

	// 标签列表，序列化为 JSON 存储（例如 ["nlp","graph"]）
	Tags string `gorm:"type:text"`

	// 附件对象键，指向 COS 中的附件（如 PDF），可选
	AttachmentPath sql.NullString `gorm:"type:varchar(512)"`

	// 附件原始文件名，可选
	AttachmentName sql.NullString `gorm:"type:varchar(255)"`

	// 是否已发布
	// - 一旦发布，后续编辑/重评不会清除该标记；paper_status 独立推进
	IsPublished bool `gorm:"not null;default:false"`

	// 发布时间，首次发布时写入，之后不再清空
	PublishedAt sql.NullTime

	// 论文工作流状态，枚举: 0=draft, 1=submitted, 2=revision, 3=accepted, 4=published, 5=rejected
	PaperStatus enums.PaperStatus `gorm:"type:int;not null;default:0"`

	// 当前版本计数，等于该帖子 PaperVersion 行数；0 表示尚未生成版本
	// - 并发提交的乐观锁字段: 版本创建时按读到的旧值做条件更新（CAS）
	CurrentRevision uint64 `gorm:"type:bigint;not null;default:0"`

	// 最新版本ID，指向 version_number 最大的 PaperVersion 行
	// - 当且仅当 current_revision = 0 时为 NULL
	LatestVersionID sql.NullInt64 `gorm:"type:bigint"`
}
