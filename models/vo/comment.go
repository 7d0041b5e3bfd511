package vo

import (
	"time"

	"github.com/Xushengqwer/paper_service/models/entities"
)

// DeletedCommentPlaceholder 墓碑评论对外展示的占位文本
const DeletedCommentPlaceholder = "[该评论已删除]"

// ReviewCommentVO 定义了评审讨论评论的响应数据结构
// - Replies 为按时间正序排列的子评论；顶层列表按最新在前排列
type ReviewCommentVO struct {
	ID             uint64             `json:"id"`               // 评论ID
	PostID         uint64             `json:"post_id"`          // 帖子ID
	PaperVersionID *uint64            `json:"paper_version_id"` // 针对的版本ID，可空
	ParentID       *uint64            `json:"parent_id"`        // 父评论ID，可空
	AuthorID       string             `json:"author_id"`        // 作者ID
	Content        string             `json:"content"`          // 内容（墓碑评论为占位文本）
	IsDeleted      bool               `json:"is_deleted"`       // 墓碑标记
	CreatedAt      time.Time          `json:"created_at"`       // 创建时间
	Replies        []*ReviewCommentVO `json:"replies"`          // 子评论，时间正序
}

// ListReviewCommentsVO 评论树响应
type ListReviewCommentsVO struct {
	Comments []*ReviewCommentVO `json:"comments"` // 顶层评论，最新在前
	Total    int64              `json:"total"`    // 评论总数（含墓碑）
}

// NewReviewCommentVOFromEntity 将评论实体转换为 VO（不含子评论，树由服务层组装）
func NewReviewCommentVOFromEntity(comment *entities.ReviewComment) *ReviewCommentVO {
	v := &ReviewCommentVO{
		ID:        comment.ID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		IsDeleted: comment.IsDeleted,
		CreatedAt: comment.CreatedAt,
		Replies:   []*ReviewCommentVO{},
	}
	if comment.IsDeleted {
		v.Content = DeletedCommentPlaceholder
	}
	if comment.PaperVersionID.Valid {
		id := uint64(comment.PaperVersionID.Int64)
		v.PaperVersionID = &id
	}
	if comment.ParentID.Valid {
		id := uint64(comment.ParentID.Int64)
		v.ParentID = &id
	}
	return v
}
