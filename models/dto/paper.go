package dto

import "github.com/Xushengqwer/paper_service/models/enums"

// CreatePaperRequest 定义了创建帖子的请求数据结构
// - multipart/form-data 提交；附件文件作为独立的 file 字段上传，不在 DTO 中
// - IsDraft 为 true 且类别为 paper 时仅保存草稿，不生成版本、不触发评审
type CreatePaperRequest struct {
	Title        string         `json:"title" form:"title" binding:"required,max=255"`            // 标题，必填
	Body         string         `json:"body" form:"body" binding:"required"`                      // 正文，必填
	Summary      string         `json:"summary" form:"summary" binding:"omitempty"`               // 摘要，可选
	ExternalLink string         `json:"external_link" form:"external_link" binding:"omitempty"`   // 外部链接，可选
	Category     enums.Category `json:"category" form:"category" binding:"omitempty,min=0,max=2"` // 类别，0=post, 1=paper, 2=discussion
	Tags         []string       `json:"tags" form:"tags" binding:"omitempty,max=20"`              // 标签列表，可选
	Citations    string         `json:"citations" form:"citations" binding:"omitempty"`           // 显式引用的帖子ID列表，逗号分隔（例如 "12,34,56"）
	IsDraft      bool           `json:"is_draft" form:"is_draft"`                                 // 是否保存为草稿
}

// UpdatePaperRequest 定义了编辑帖子的请求数据结构
// - 字段语义与创建一致；paper 类别的非草稿提交会生成新版本并触发评审
type UpdatePaperRequest struct {
	Title        string   `json:"title" form:"title" binding:"required,max=255"`
	Body         string   `json:"body" form:"body" binding:"required"`
	Summary      string   `json:"summary" form:"summary" binding:"omitempty"`
	ExternalLink string   `json:"external_link" form:"external_link" binding:"omitempty"`
	Tags         []string `json:"tags" form:"tags" binding:"omitempty,max=20"`
	Citations    string   `json:"citations" form:"citations" binding:"omitempty"`
	IsDraft      bool     `json:"is_draft" form:"is_draft"`
	// RemoveAttachment 为 true 时删除现有附件（且本次未上传新附件）
	RemoveAttachment bool `json:"remove_attachment" form:"remove_attachment"`
}

// ListMyPapersRequest 查询当前用户论文列表（分页）
type ListMyPapersRequest struct {
	Page        int                `json:"page" form:"page" binding:"required,min=1"`                   // 页码，从1开始
	PageSize    int                `json:"pageSize" form:"pageSize" binding:"required,min=1,max=100"`   // 每页数量
	PaperStatus *enums.PaperStatus `json:"paperStatus" form:"paperStatus" binding:"omitempty,min=0,max=5"` // 可选，按工作流状态筛选
}
