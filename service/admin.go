package service

import (
	"context"

	"github.com/Xushengqwer/go-common/core"

	"github.com/Xushengqwer/paper_service/models/dto"
	"github.com/Xushengqwer/paper_service/models/vo"
	"github.com/Xushengqwer/paper_service/repo/mysql"
)

// AdminReviewService 定义了管理员视角的评审查询接口。
type AdminReviewService interface {
	// ListReviews 跨帖子分页查询评审列表，可按状态筛选。
	ListReviews(ctx context.Context, req *dto.ListAdminReviewsRequest) (*vo.ListAdminReviewsVO, error)

	// GetMetrics 汇总评审指标: 各状态/结论数量与总体评分均值。
	GetMetrics(ctx context.Context) (*vo.ReviewMetricsVO, error)
}

// adminReviewService 是 AdminReviewService 接口的具体实现。
type adminReviewService struct {
	reviewRepo mysql.AiReviewRepository
	logger     *core.ZapLogger
}

// NewAdminReviewService 是 adminReviewService 的构造函数。
func NewAdminReviewService(reviewRepo mysql.AiReviewRepository, logger *core.ZapLogger) AdminReviewService {
	return &adminReviewService{
		reviewRepo: reviewRepo,
		logger:     logger,
	}
}

// ListReviews 实现管理员评审列表查询。
func (s *adminReviewService) ListReviews(ctx context.Context, req *dto.ListAdminReviewsRequest) (*vo.ListAdminReviewsVO, error) {
	offset := (req.Page - 1) * req.PageSize
	reviews, total, err := s.reviewRepo.ListByStatus(ctx, req.Status, offset, req.PageSize)
	if err != nil {
		return nil, err
	}
	return &vo.ListAdminReviewsVO{
		Reviews: vo.MapReviewsToVOs(reviews),
		Total:   total,
	}, nil
}

// GetMetrics 实现评审指标汇总。
func (s *adminReviewService) GetMetrics(ctx context.Context) (*vo.ReviewMetricsVO, error) {
	statusCounts, err := s.reviewRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	decisionCounts, err := s.reviewRepo.CountByDecision(ctx)
	if err != nil {
		return nil, err
	}
	avgOverall, err := s.reviewRepo.AvgOverallScore(ctx)
	if err != nil {
		return nil, err
	}

	metrics := &vo.ReviewMetricsVO{
		CountByStatus:   make(map[string]int64, len(statusCounts)),
		CountByDecision: make(map[string]int64, len(decisionCounts)),
		AvgScoreOverall: avgOverall,
	}
	for _, row := range statusCounts {
		metrics.CountByStatus[row.Status.String()] = row.Count
		metrics.TotalReviews += row.Count
	}
	for _, row := range decisionCounts {
		metrics.CountByDecision[row.Decision.String()] = row.Count
	}
	return metrics, nil
}
