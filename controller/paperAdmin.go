package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/paper_service/models/dto"
	"github.com/Xushengqwer/paper_service/service"
)

// AdminReviewController 定义管理员评审管理控制器的结构体
type AdminReviewController struct {
	adminService service.AdminReviewService
}

// NewAdminReviewController 构造函数，用于创建 AdminReviewController 实例
func NewAdminReviewController(adminService service.AdminReviewService) *AdminReviewController {
	return &AdminReviewController{
		adminService: adminService,
	}
}

// requireAdmin 校验请求是否来自管理员，不是则直接写 403。
func requireAdmin(c *gin.Context) bool {
	if !isAdminRequest(c) {
		response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "需要管理员权限")
		return false
	}
	return true
}

// ListReviews 按状态分页列出全站评审记录。
// @Summary      管理员查询评审列表
// @Description  按评审状态 (pending/completed/failed) 分页查询全站评审记录，用于运维排查。
// @Tags         admin (管理员)
// @Accept       json
// @Produce      json
// @Param        status query int true "评审状态 (0:pending, 1:completed, 2:failed)" Enums(0,1,2)
// @Param        page query int true "页码 (从1开始)" format(int32) minimum(1) default(1)
// @Param        pageSize query int true "每页数量" format(int32) minimum(1) maximum(100) default(10)
// @Success      200 {object} vo.ListAdminReviewsResponseWrapper "获取成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      403 {object} vo.BaseResponseWrapper "需要管理员权限"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/admin/reviews [get]
func (ctrl *AdminReviewController) ListReviews(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	var req dto.ListAdminReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	result, err := ctrl.adminService.ListReviews(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "查询评审列表失败")
		return
	}
	response.RespondSuccess(c, result, "评审列表获取成功")
}

// GetMetrics 获取全站评审统计指标。
// @Summary      管理员查询评审统计
// @Description  返回各状态评审数量、各结论数量与平均总评分。
// @Tags         admin (管理员)
// @Accept       json
// @Produce      json
// @Success      200 {object} vo.ReviewMetricsResponseWrapper "获取成功"
// @Failure      403 {object} vo.BaseResponseWrapper "需要管理员权限"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/admin/reviews/metrics [get]
func (ctrl *AdminReviewController) GetMetrics(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	result, err := ctrl.adminService.GetMetrics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "查询评审统计失败")
		return
	}
	response.RespondSuccess(c, result, "评审统计获取成功")
}

// RegisterRoutes 注册 AdminReviewController 的路由
func (ctrl *AdminReviewController) RegisterRoutes(group *gin.RouterGroup) {
	admin := group.Group("/admin")
	{
		admin.GET("/reviews", ctrl.ListReviews)           // GET /api/v1/paper/admin/reviews
		admin.GET("/reviews/metrics", ctrl.GetMetrics)    // GET /api/v1/paper/admin/reviews/metrics
	}
}
