package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/paper_service/models/dto"
	"github.com/Xushengqwer/paper_service/service"
)

// ReviewController 定义 AI 评审控制器的结构体
type ReviewController struct {
	reviewService service.ReviewService
}

// NewReviewController 构造函数，用于创建 ReviewController 实例
func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

// StartManualRerun 处理手动重跑评审的 HTTP 请求。
// @Summary      手动重跑 AI 评审
// @Description  针对论文的最新版本发起一次新的评审，不生成新版本，不改变工作流状态。已有进行中的评审时返回 409。
// @Tags         reviews (AI评审)
// @Accept       json
// @Produce      json
// @Param        id path uint64 true "帖子 ID" Format(uint64)
// @Success      200 {object} vo.RerunReviewResultResponseWrapper "评审已发起"
// @Failure      400 {object} vo.BaseResponseWrapper "帖子不是论文或没有可评审的版本"
// @Failure      403 {object} vo.BaseResponseWrapper "没有操作权限"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子未找到"
// @Failure      409 {object} vo.BaseResponseWrapper "已有进行中的评审"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/papers/{id}/reviews/rerun [post]
func (ctrl *ReviewController) StartManualRerun(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := ctrl.reviewService.StartManualRerun(c.Request.Context(), postID, userID, isAdminRequest(c))
	if err != nil {
		respondServiceError(c, err, "发起评审失败")
		return
	}
	response.RespondSuccess(c, result, "评审已发起")
}

// GetLatestReview 获取论文的最新一条评审记录。
// @Summary      获取最新评审
// @Description  返回论文最近一次评审的状态、结论与评分。可见性与帖子一致。
// @Tags         reviews (AI评审)
// @Accept       json
// @Produce      json
// @Param        id path uint64 true "帖子 ID" Format(uint64)
// @Success      200 {object} vo.AiReviewResponseWrapper "获取成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID 格式"
// @Failure      403 {object} vo.BaseResponseWrapper "没有查看权限"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子或评审未找到"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/papers/{id}/reviews/latest [get]
func (ctrl *ReviewController) GetLatestReview(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.reviewService.GetLatestReview(c.Request.Context(), postID, optionalUserID(c), isAdminRequest(c))
	if err != nil {
		respondServiceError(c, err, "获取最新评审失败")
		return
	}
	response.RespondSuccess(c, result, "最新评审获取成功")
}

// ListHistory 获取论文的评审历史 (分页)。
// @Summary      获取评审历史
// @Description  按发起时间倒序返回论文的全部评审记录。可见性与帖子一致。
// @Tags         reviews (AI评审)
// @Accept       json
// @Produce      json
// @Param        id path uint64 true "帖子 ID" Format(uint64)
// @Param        page query int true "页码 (从1开始)" format(int32) minimum(1) default(1)
// @Param        pageSize query int true "每页数量" format(int32) minimum(1) maximum(100) default(10)
// @Success      200 {object} vo.ListReviewHistoryResponseWrapper "获取成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      403 {object} vo.BaseResponseWrapper "没有查看权限"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子未找到"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/papers/{id}/reviews [get]
func (ctrl *ReviewController) ListHistory(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ListReviewHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	result, err := ctrl.reviewService.ListHistory(c.Request.Context(), postID, optionalUserID(c), isAdminRequest(c), &req)
	if err != nil {
		respondServiceError(c, err, "获取评审历史失败")
		return
	}
	response.RespondSuccess(c, result, "评审历史获取成功")
}

// RegisterRoutes 注册 ReviewController 的路由
func (ctrl *ReviewController) RegisterRoutes(group *gin.RouterGroup) {
	reviews := group.Group("/papers/:id/reviews")
	{
		reviews.POST("/rerun", ctrl.StartManualRerun) // POST /api/v1/paper/papers/:id/reviews/rerun
		reviews.GET("/latest", ctrl.GetLatestReview)  // GET  /api/v1/paper/papers/:id/reviews/latest
		reviews.GET("", ctrl.ListHistory)             // GET  /api/v1/paper/papers/:id/reviews
	}
}
