package dto

// CreateReviewCommentRequest 创建评审讨论评论
type CreateReviewCommentRequest struct {
	Content string `json:"content" form:"content" binding:"required,max=5000"` // 评论内容，必填
	// PaperVersionID 可选，指定评论针对的版本；为空表示针对帖子整体
	PaperVersionID *uint64 `json:"paper_version_id" form:"paper_version_id" binding:"omitempty,min=1"`
	// ParentID 可选，回复的父评论ID；为空表示顶层评论
	ParentID *uint64 `json:"parent_id" form:"parent_id" binding:"omitempty,min=1"`
}

// ListReviewCommentsRequest 查询评论树
type ListReviewCommentsRequest struct {
	// PaperVersionID 可选，只看某个版本下的评论；为空返回全部
	PaperVersionID *uint64 `json:"paper_version_id" form:"paper_version_id" binding:"omitempty,min=1"`
}
