package vo

import (
	"encoding/json"
	"time"

	"github.com/Xushengqwer/paper_service/models/entities"
	"github.com/Xushengqwer/paper_service/models/enums"
)

// AiReviewVO 定义了评审记录的响应数据结构
type AiReviewVO struct {
	ID               uint64               `json:"id"`                // 评审ID
	PostID           uint64               `json:"post_id"`           // 帖子ID
	PaperVersionID   *uint64              `json:"paper_version_id"`  // 评审针对的版本ID
	Status           enums.ReviewStatus   `json:"status"`            // 状态
	Trigger          enums.ReviewTrigger  `json:"trigger"`           // 触发方式
	Decision         *enums.ReviewDecision `json:"decision"`         // 结论，completed 时有值
	ScoreOriginality *int64               `json:"score_originality"` // 原创性评分
	ScoreMethodology *int64               `json:"score_methodology"` // 方法论评分
	ScoreClarity     *int64               `json:"score_clarity"`     // 清晰度评分
	ScoreRelevance   *int64               `json:"score_relevance"`   // 相关性评分
	ScoreOverall     *int64               `json:"score_overall"`     // 总体评分
	EditorialSummary *string              `json:"editorial_summary"` // 编辑视角综述
	PeerSummary      *string              `json:"peer_summary"`      // 同行评审视角综述
	Issues           []string             `json:"issues"`            // 问题清单
	Strengths        []string             `json:"strengths"`         // 亮点清单
	ErrorMessage     *string              `json:"error_message"`     // 失败原因
	CreatedAt        time.Time            `json:"created_at"`        // 送审时间
	CompletedAt      *time.Time           `json:"completed_at"`      // 终态时间
}

// ListReviewHistoryVO 评审历史（分页）
type ListReviewHistoryVO struct {
	Reviews []*AiReviewVO `json:"reviews"`
	Total   int64         `json:"total"`
}

// ListAdminReviewsVO 管理员评审列表（分页）
type ListAdminReviewsVO struct {
	Reviews []*AiReviewVO `json:"reviews"`
	Total   int64         `json:"total"`
}

// RerunReviewResultVO 手动重评的响应
type RerunReviewResultVO struct {
	ReviewID       uint64 `json:"review_id"`        // 新建的 pending 评审ID
	PaperVersionID uint64 `json:"paper_version_id"` // 评审针对的版本ID
}

// ReviewMetricsVO 管理员视角的评审汇总指标
type ReviewMetricsVO struct {
	TotalReviews    int64            `json:"total_reviews"`     // 评审总数
	CountByStatus   map[string]int64 `json:"count_by_status"`   // 各状态数量，key 为状态名
	CountByDecision map[string]int64 `json:"count_by_decision"` // 各结论数量，key 为结论名
	AvgScoreOverall *float64         `json:"avg_score_overall"` // completed 评审的总体评分均值
}

// NewAiReviewVOFromEntity 将评审实体转换为响应 VO
func NewAiReviewVOFromEntity(review *entities.AiReview) *AiReviewVO {
	v := &AiReviewVO{
		ID:        review.ID,
		PostID:    review.PostID,
		Status:    review.Status,
		Trigger:   review.Trigger,
		Issues:    decodeStringList(review.Issues),
		Strengths: decodeStringList(review.Strengths),
		CreatedAt: review.CreatedAt,
	}
	if review.PaperVersionID.Valid {
		id := uint64(review.PaperVersionID.Int64)
		v.PaperVersionID = &id
	}
	if decision, ok := review.DecisionEnum(); ok {
		v.Decision = &decision
	}
	v.ScoreOriginality = nullIntPtr(review.ScoreOriginality.Valid, review.ScoreOriginality.Int64)
	v.ScoreMethodology = nullIntPtr(review.ScoreMethodology.Valid, review.ScoreMethodology.Int64)
	v.ScoreClarity = nullIntPtr(review.ScoreClarity.Valid, review.ScoreClarity.Int64)
	v.ScoreRelevance = nullIntPtr(review.ScoreRelevance.Valid, review.ScoreRelevance.Int64)
	v.ScoreOverall = nullIntPtr(review.ScoreOverall.Valid, review.ScoreOverall.Int64)
	if review.EditorialSummary.Valid {
		v.EditorialSummary = &review.EditorialSummary.String
	}
	if review.PeerSummary.Valid {
		v.PeerSummary = &review.PeerSummary.String
	}
	if review.ErrorMessage.Valid {
		v.ErrorMessage = &review.ErrorMessage.String
	}
	if review.CompletedAt.Valid {
		t := review.CompletedAt.Time
		v.CompletedAt = &t
	}
	return v
}

// MapReviewsToVOs 批量转换评审实体列表
func MapReviewsToVOs(reviews []*entities.AiReview) []*AiReviewVO {
	out := make([]*AiReviewVO, 0, len(reviews))
	for _, r := range reviews {
		if r == nil {
			continue
		}
		out = append(out, NewAiReviewVOFromEntity(r))
	}
	return out
}

// MarshalForCache 序列化评审 VO 用于 Redis 缓存
func (v *AiReviewVO) MarshalForCache() ([]byte, error) {
	return json.Marshal(v)
}

func nullIntPtr(valid bool, value int64) *int64 {
	if !valid {
		return nil
	}
	return &value
}
