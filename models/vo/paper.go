package vo

import (
	"encoding/json"
	"time"

	"github.com/Xushengqwer/paper_service/models/entities"
	"github.com/Xushengqwer/paper_service/models/enums"
)

// PaperVO 定义了论文帖子的响应数据结构
type PaperVO struct {
	ID              uint64            `json:"id"`                         // 帖子ID
	Title           string            `json:"title"`                      // 标题
	Body            string            `json:"body"`                       // 正文
	Summary         *string           `json:"summary"`                    // 摘要
	ExternalLink    *string           `json:"external_link"`              // 外部链接
	Category        enums.Category    `json:"category"`                   // 类别
	AuthorID        string            `json:"author_id"`                  // 作者ID
	Tags            []string          `json:"tags"`                       // 标签列表
	AttachmentURL   *string           `json:"attachment_url"`             // 附件访问地址
	AttachmentName  *string           `json:"attachment_name"`            // 附件文件名
	IsPublished     bool              `json:"is_published"`               // 是否已发布
	PublishedAt     *time.Time        `json:"published_at"`               // 发布时间
	PaperStatus     enums.PaperStatus `json:"paper_status"`               // 工作流状态
	CurrentRevision uint64            `json:"current_revision"`           // 当前版本计数
	LatestVersionID *uint64           `json:"latest_version_id"`          // 最新版本ID
	CreatedAt       time.Time         `json:"created_at"`                 // 创建时间
	UpdatedAt       time.Time         `json:"updated_at"`                 // 更新时间
}

// SubmitPaperResultVO 提交/编辑论文后的精简响应
type SubmitPaperResultVO struct {
	PostID          uint64            `json:"post_id"`          // 帖子ID
	PaperStatus     enums.PaperStatus `json:"paper_status"`     // 提交后的工作流状态
	CurrentRevision uint64            `json:"current_revision"` // 提交后的版本计数
	ReviewID        *uint64           `json:"review_id"`        // 本次触发的评审ID（草稿保存时为空）
}

// PublishPaperResultVO 发布操作的响应
type PublishPaperResultVO struct {
	PostID      uint64     `json:"post_id"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at"`
}

// PaperVersionVO 定义了论文版本快照的响应数据结构
type PaperVersionVO struct {
	ID              uint64    `json:"id"`               // 版本ID
	PostID          uint64    `json:"post_id"`          // 帖子ID
	VersionNumber   uint64    `json:"version_number"`   // 版本号，1 起始
	Title           string    `json:"title"`            // 标题快照
	Body            string    `json:"body"`             // 正文快照
	Summary         *string   `json:"summary"`          // 摘要快照
	ExternalLink    *string   `json:"external_link"`    // 外部链接快照
	AttachmentName  *string   `json:"attachment_name"`  // 附件文件名快照
	Tags            []string  `json:"tags"`             // 标签快照
	CitationTargets []uint64  `json:"citation_targets"` // 引用目标快照
	SubmitterID     string    `json:"submitter_id"`     // 提交者ID
	SubmittedAt     time.Time `json:"submitted_at"`     // 提交时间
}

// ListMyPapersVO 我的论文列表（分页）
type ListMyPapersVO struct {
	Papers []*PaperVO `json:"papers"` // 当前页的论文列表
	Total  int64      `json:"total"`  // 符合条件的总记录数
}

// CitationRankItemVO 引用排行榜条目
type CitationRankItemVO struct {
	PostID        uint64 `json:"post_id"`        // 帖子ID
	CitationCount int64  `json:"citation_count"` // 被引用次数
}

// NewPaperVOFromEntity 将帖子实体转换为响应 VO。
// attachmentURL 由服务层根据对象键拼接（可为空字符串表示无附件）。
func NewPaperVOFromEntity(post *entities.Post, attachmentURL string) *PaperVO {
	v := &PaperVO{
		ID:              post.ID,
		Title:           post.Title,
		Body:            post.Body,
		Category:        post.Category,
		AuthorID:        post.AuthorID,
		Tags:            decodeStringList(post.Tags),
		IsPublished:     post.IsPublished,
		PaperStatus:     post.PaperStatus,
		CurrentRevision: post.CurrentRevision,
		CreatedAt:       post.CreatedAt,
		UpdatedAt:       post.UpdatedAt,
	}
	if post.Summary.Valid {
		v.Summary = &post.Summary.String
	}
	if post.ExternalLink.Valid {
		v.ExternalLink = &post.ExternalLink.String
	}
	if post.AttachmentName.Valid {
		v.AttachmentName = &post.AttachmentName.String
	}
	if attachmentURL != "" {
		v.AttachmentURL = &attachmentURL
	}
	if post.PublishedAt.Valid {
		t := post.PublishedAt.Time
		v.PublishedAt = &t
	}
	if post.LatestVersionID.Valid {
		id := uint64(post.LatestVersionID.Int64)
		v.LatestVersionID = &id
	}
	return v
}

// NewPaperVersionVOFromEntity 将版本快照实体转换为响应 VO
func NewPaperVersionVOFromEntity(version *entities.PaperVersion) *PaperVersionVO {
	v := &PaperVersionVO{
		ID:              version.ID,
		PostID:          version.PostID,
		VersionNumber:   version.VersionNumber,
		Title:           version.Title,
		Body:            version.Body,
		Tags:            decodeStringList(version.Tags),
		CitationTargets: decodeIDList(version.CitationTargets),
		SubmitterID:     version.SubmitterID,
		SubmittedAt:     version.SubmittedAt,
	}
	if version.Summary.Valid {
		v.Summary = &version.Summary.String
	}
	if version.ExternalLink.Valid {
		v.ExternalLink = &version.ExternalLink.String
	}
	if version.AttachmentName.Valid {
		v.AttachmentName = &version.AttachmentName.String
	}
	return v
}

// decodeStringList 解析 JSON 数组字符串；空串或解析失败时返回空切片，便于前端处理
func decodeStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	return out
}

// decodeIDList 解析 JSON 数组字符串为ID列表
func decodeIDList(raw string) []uint64 {
	if raw == "" {
		return []uint64{}
	}
	var out []uint64
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []uint64{}
	}
	return out
}
