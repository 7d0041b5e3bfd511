package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/paper_service/models/dto"
	"github.com/Xushengqwer/paper_service/service"
)

// CommentController 定义评审评论控制器的结构体
type CommentController struct {
	commentService service.CommentService
}

// NewCommentController 构造函数，用于创建 CommentController 实例
func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

// CreateComment 处理创建评审评论的 HTTP 请求。
// @Summary      创建评审评论
// @Description  在帖子下创建一条评论，可挂到指定版本并回复父评论。未发布的论文仅作者与管理员可评论。
// @Tags         comments (评审评论)
// @Accept       json
// @Produce      json
// @Param        id path uint64 true "帖子 ID" Format(uint64)
// @Param        request body dto.CreateReviewCommentRequest true "评论内容"
// @Success      200 {object} vo.ReviewCommentResponseWrapper "创建成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      403 {object} vo.BaseResponseWrapper "没有评论权限"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子、版本或父评论未找到"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/papers/{id}/comments [post]
func (ctrl *CommentController) CreateComment(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateReviewCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := ctrl.commentService.CreateComment(c.Request.Context(), postID, userID, isAdminRequest(c), &req)
	if err != nil {
		respondServiceError(c, err, "创建评论失败")
		return
	}
	response.RespondSuccess(c, result, "评论创建成功")
}

// DeleteComment 处理删除 (墓碑化) 评论的 HTTP 请求。
// @Summary      删除评审评论
// @Description  将评论软删除为墓碑，子回复保持可见。评论作者、管理员以及未发布论文的作者可操作。
// @Tags         comments (评审评论)
// @Accept       json
// @Produce      json
// @Param        commentID path uint64 true "评论 ID" Format(uint64)
// @Success      200 {object} vo.BaseResponseWrapper "删除成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的评论 ID 格式"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      403 {object} vo.BaseResponseWrapper "没有删除权限"
// @Failure      404 {object} vo.BaseResponseWrapper "评论未找到"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/comments/{commentID} [delete]
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "commentID")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := ctrl.commentService.DeleteComment(c.Request.Context(), commentID, userID, isAdminRequest(c)); err != nil {
		respondServiceError(c, err, "删除评论失败")
		return
	}
	response.RespondSuccess[any](c, nil, "评论删除成功")
}

// ListComments 获取帖子的评论树。
// @Summary      获取评审评论列表
// @Description  返回帖子的评论树，顶层评论按创建先后倒序，回复按创建先后升序。可按版本筛选。
// @Tags         comments (评审评论)
// @Accept       json
// @Produce      json
// @Param        id path uint64 true "帖子 ID" Format(uint64)
// @Param        paperVersionID query uint64 false "按版本筛选 (可选)"
// @Success      200 {object} vo.ListReviewCommentsResponseWrapper "获取成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      403 {object} vo.BaseResponseWrapper "没有查看权限"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子未找到"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/papers/{id}/comments [get]
func (ctrl *CommentController) ListComments(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ListReviewCommentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	result, err := ctrl.commentService.ListComments(c.Request.Context(), postID, optionalUserID(c), isAdminRequest(c), &req)
	if err != nil {
		respondServiceError(c, err, "获取评论列表失败")
		return
	}
	response.RespondSuccess(c, result, "评论列表获取成功")
}

// RegisterRoutes 注册 CommentController 的路由
func (ctrl *CommentController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/papers/:id/comments", ctrl.CreateComment)  // POST   /api/v1/paper/papers/:id/comments
	group.GET("/papers/:id/comments", ctrl.ListComments)    // GET    /api/v1/paper/papers/:id/comments
	group.DELETE("/comments/:commentID", ctrl.DeleteComment) // DELETE /api/v1/paper/comments/:commentID
}
