package dto

import "github.com/Xushengqwer/paper_service/models/enums"

// ListReviewHistoryRequest 查询指定帖子的评审历史（分页，按时间倒序）
type ListReviewHistoryRequest struct {
	Page     int `json:"page" form:"page" binding:"required,min=1"`
	PageSize int `json:"pageSize" form:"pageSize" binding:"required,min=1,max=100"`
}

// ListAdminReviewsRequest 管理员跨帖子查询评审列表
type ListAdminReviewsRequest struct {
	Page     int                `json:"page" form:"page" binding:"required,min=1"`
	PageSize int                `json:"pageSize" form:"pageSize" binding:"required,min=1,max=100"`
	Status   *enums.ReviewStatus `json:"status" form:"status" binding:"omitempty,min=0,max=2"` // 可选，按评审状态筛选
}

// ReviewOutcome 评审引擎回调携带的成功结果
// - 五个评分各自可空；有值时必须落在 [1,5]，越界由台账层拒绝而不是截断
// - RawPayload 为引擎原始输出，台账原样存档不做解释
type ReviewOutcome struct {
	Decision         enums.ReviewDecision `json:"decision"`
	ScoreOriginality *int                 `json:"score_originality"`
	ScoreMethodology *int                 `json:"score_methodology"`
	ScoreClarity     *int                 `json:"score_clarity"`
	ScoreRelevance   *int                 `json:"score_relevance"`
	ScoreOverall     *int                 `json:"score_overall"`
	EditorialSummary string               `json:"editorial_summary"`
	PeerSummary      string               `json:"peer_summary"`
	Issues           []string             `json:"issues"`
	Strengths        []string             `json:"strengths"`
	RawPayload       string               `json:"raw_payload"`
}

// Scores 以固定顺序返回五个评分指针，便于台账层统一校验
func (o *ReviewOutcome) Scores() []*int {
	return []*int{
		o.ScoreOriginality,
		o.ScoreMethodology,
		o.ScoreClarity,
		o.ScoreRelevance,
		o.ScoreOverall,
	}
}
