package controller

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/paper_service/models/dto"
	"github.com/Xushengqwer/paper_service/service"
)

// PaperController 定义论文帖子控制器的结构体
type PaperController struct {
	paperService service.PaperService // 服务层接口，通过依赖注入传入
}

// NewPaperController 构造函数，用于创建 PaperController 实例
func NewPaperController(paperService service.PaperService) *PaperController {
	return &PaperController{
		paperService: paperService,
	}
}

// attachmentFromForm 取出表单中的可选附件文件；未上传时返回 nil。
func attachmentFromForm(c *gin.Context) *multipart.FileHeader {
	form := c.Request.MultipartForm
	if form == nil {
		return nil
	}
	files := form.File["attachment"]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// CreatePaper 处理创建帖子的 HTTP 请求，包含可选的附件上传。
// @Summary      创建新帖子 (含论文提交)
// @Description  创建一个新帖子。category=1 (论文) 时：is_draft=true 仅保存草稿；否则生成 1 号版本并自动发起 AI 评审。其余类别创建即发布。请求体应为 multipart/form-data。
// @Tags         papers (论文)
// @Accept       multipart/form-data
// @Produce      json
// @Param        title formData string true "标题" maxLength(255)
// @Param        body formData string true "正文"
// @Param        summary formData string false "摘要 (可选)"
// @Param        external_link formData string false "外部链接 (可选)"
// @Param        category formData int false "类别 (0:帖子, 1:论文, 2:讨论)" Enums(0,1,2)
// @Param        tags formData []string false "标签列表 (可选)"
// @Param        citations formData string false "显式引用的帖子ID列表，逗号分隔 (例如 12,34)"
// @Param        is_draft formData bool false "是否保存为草稿 (仅论文类别有意义)"
// @Param        attachment formData file false "附件文件 (可选, 如 PDF)"
// @Success      200 {object} vo.SubmitPaperResultResponseWrapper "创建成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/papers [post]
func (ctrl *PaperController) CreatePaper(c *gin.Context) {
	// 1. 解析 Multipart Form (确保在访问表单数据或文件之前调用)
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "解析表单数据失败: "+err.Error())
		return
	}

	// 2. 绑定 DTO 数据 (来自独立的表单字段)
	var req dto.CreatePaperRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	// 3. 从网关透传的上下文中取出作者ID
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	// 4. 调用服务层处理
	result, serviceErr := ctrl.paperService.CreatePaper(c.Request.Context(), &req, userID, attachmentFromForm(c))
	if serviceErr != nil {
		respondServiceError(c, serviceErr, "创建帖子失败")
		return
	}

	response.RespondSuccess(c, result, "帖子创建成功")
}

// UpdatePaper 处理编辑帖子的 HTTP 请求。
// @Summary      编辑帖子 (论文再提交)
// @Description  更新帖子内容，实时行立即生效。论文类别的非草稿提交会生成新版本并触发评审；并发提交冲突返回 409。
// @Tags         papers (论文)
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path uint64 true "帖子 ID" Format(uint64)
// @Param        title formData string true "标题" maxLength(255)
// @Param        body formData string true "正文"
// @Param        summary formData string false "摘要 (可选)"
// @Param        external_link formData string false "外部链接 (可选)"
// @Param        tags formData []string false "标签列表 (可选)"
// @Param        citations formData string false "显式引用的帖子ID列表，逗号分隔"
// @Param        is_draft formData bool false "是否仅保存草稿 (不生成版本)"
// @Param        remove_attachment formData bool false "是否删除现有附件"
// @Param        attachment formData file false "新附件文件 (可选)"
// @Success      200 {object} vo.SubmitPaperResultResponseWrapper "更新成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载"
// @Failure      403 {object} vo.BaseResponseWrapper "没有编辑权限"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子未找到"
// @Failure      409 {object} vo.BaseResponseWrapper "并发提交冲突"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/papers/{id} [put]
func (ctrl *PaperController) UpdatePaper(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "解析表单数据失败: "+err.Error())
		return
	}

	var req dto.UpdatePaperRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, serviceErr := ctrl.paperService.UpdatePaper(c.Request.Context(), postID, &req, userID, isAdminRequest(c), attachmentFromForm(c))
	if serviceErr != nil {
		respondServiceError(c, serviceErr, "编辑帖子失败")
		return
	}

	response.RespondSuccess(c, result, "帖子更新成功")
}

// PublishPaper 处理作者显式发布论文的 HTTP 请求。
// @Summary      发布论文
// @Description  将评审通过 (accepted) 的论文置为已发布。首次发布写入发布时间，重新发布不刷新。
// @Tags         papers (论文)
// @Accept       json
// @Produce      json
// @Param        id path uint64 true "帖子 ID" Format(uint64)
// @Success      200 {object} vo.PublishPaperResultResponseWrapper "发布成功"
// @Failure      400 {object} vo.BaseResponseWrapper "论文不在可发布状态"
// @Failure      403 {object} vo.BaseResponseWrapper "没有发布权限"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子未找到"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/papers/{id}/publish [post]
func (ctrl *PaperController) PublishPaper(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := ctrl.paperService.PublishPaper(c.Request.Context(), postID, userID, isAdminRequest(c))
	if err != nil {
		respondServiceError(c, err, "发布论文失败")
		return
	}
	response.RespondSuccess(c, result, "论文发布成功")
}

// GetPaper 处理获取单个帖子的 HTTP 请求。
// @Summary      获取帖子详情
// @Description  返回帖子的实时内容。未发布的论文仅作者与管理员可见。
// @Tags         papers (论文)
// @Accept       json
// @Produce      json
// @Param        id path uint64 true "帖子 ID" Format(uint64)
// @Success      200 {object} vo.PaperResponseWrapper "获取成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID 格式"
// @Failure      403 {object} vo.BaseResponseWrapper "没有查看权限"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子未找到"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/papers/{id} [get]
func (ctrl *PaperController) GetPaper(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.paperService.GetPaper(c.Request.Context(), postID, optionalUserID(c), isAdminRequest(c))
	if err != nil {
		respondServiceError(c, err, "获取帖子失败")
		return
	}
	response.RespondSuccess(c, result, "帖子获取成功")
}

// ListMyPapers 获取当前用户自己的帖子列表 (分页)。
// @Summary      获取我的帖子列表
// @Description  获取当前登录用户的帖子列表，可按论文工作流状态筛选。UserID 从请求上下文中获取。
// @Tags         papers (论文)
// @Accept       json
// @Produce      json
// @Param        page query int true "页码 (从1开始)" format(int32) minimum(1) default(1)
// @Param        pageSize query int true "每页数量" format(int32) minimum(1) maximum(100) default(10)
// @Param        paperStatus query int false "工作流状态 (0:draft, 1:submitted, 2:revision, 3:accepted, 4:published, 5:rejected)" Enums(0,1,2,3,4,5)
// @Success      200 {object} vo.ListMyPapersResponseWrapper "获取成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/papers/mine [get]
func (ctrl *PaperController) ListMyPapers(c *gin.Context) {
	var req dto.ListMyPapersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := ctrl.paperService.ListMyPapers(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err, "获取帖子列表失败")
		return
	}
	response.RespondSuccess(c, result, "帖子列表获取成功")
}

// ListVersions 获取论文的版本历史。
// @Summary      获取版本历史
// @Description  列出论文的全部不可变版本快照，新版本在前。可见性与帖子一致。
// @Tags         papers (论文)
// @Accept       json
// @Produce      json
// @Param        id path uint64 true "帖子 ID" Format(uint64)
// @Success      200 {object} vo.PaperVersionListResponseWrapper "获取成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID 格式"
// @Failure      403 {object} vo.BaseResponseWrapper "没有查看权限"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子未找到"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/papers/{id}/versions [get]
func (ctrl *PaperController) ListVersions(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.paperService.ListVersions(c.Request.Context(), postID, optionalUserID(c), isAdminRequest(c))
	if err != nil {
		respondServiceError(c, err, "获取版本历史失败")
		return
	}
	response.RespondSuccess(c, result, "版本历史获取成功")
}

// GetCitationRank 获取被引用次数排行榜。
// @Summary      获取引用排行榜 (公开)
// @Description  从缓存读取被引用次数最多的帖子排行。
// @Tags         papers (论文)
// @Accept       json
// @Produce      json
// @Param        limit query int false "返回条目数 (默认100)" minimum(1) maximum(100)
// @Success      200 {object} vo.CitationRankResponseWrapper "获取成功"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/papers/citation-rank [get]
func (ctrl *PaperController) GetCitationRank(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的 limit 参数")
			return
		}
		limit = parsed
	}

	result, err := ctrl.paperService.GetCitationRank(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err, "获取引用排行榜失败")
		return
	}
	response.RespondSuccess(c, result, "引用排行榜获取成功")
}

// ListCitations 获取帖子引用的目标帖子列表。
// @Summary      获取帖子的引用目标
// @Description  返回帖子引用的目标帖子ID并集 (手工 + 自动识别)，升序排列。
// @Tags         papers (论文)
// @Accept       json
// @Produce      json
// @Param        id path uint64 true "帖子 ID" Format(uint64)
// @Success      200 {object} vo.BaseResponseWrapper "获取成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子未找到"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/papers/{id}/citations [get]
func (ctrl *PaperController) ListCitations(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.paperService.ListCitations(c.Request.Context(), postID)
	if err != nil {
		respondServiceError(c, err, "获取引用目标失败")
		return
	}
	response.RespondSuccess(c, result, "引用目标获取成功")
}

// DeletePaper 处理删除帖子的 HTTP 请求。
// @Summary      删除指定ID的帖子
// @Description  通过帖子的 ID 软删除一个帖子，仅作者与管理员可操作。
// @Tags         papers (论文)
// @Accept       json
// @Produce      json
// @Param        id path uint64 true "帖子 ID" Format(uint64)
// @Success      200 {object} vo.BaseResponseWrapper "帖子删除成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID 格式"
// @Failure      403 {object} vo.BaseResponseWrapper "没有删除权限"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子未找到"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/paper/papers/{id} [delete]
func (ctrl *PaperController) DeletePaper(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := ctrl.paperService.DeletePaper(c.Request.Context(), postID, userID, isAdminRequest(c)); err != nil {
		respondServiceError(c, err, "删除帖子失败")
		return
	}
	response.RespondSuccess[any](c, nil, "帖子删除成功")
}

// RegisterRoutes 注册 PaperController 的路由
func (ctrl *PaperController) RegisterRoutes(group *gin.RouterGroup) {
	papers := group.Group("/papers")
	{
		papers.POST("", ctrl.CreatePaper)                       // POST   /api/v1/paper/papers
		papers.GET("/mine", ctrl.ListMyPapers)                  // GET    /api/v1/paper/papers/mine
		papers.GET("/citation-rank", ctrl.GetCitationRank)      // GET    /api/v1/paper/papers/citation-rank
		papers.GET("/:id", ctrl.GetPaper)                       // GET    /api/v1/paper/papers/:id
		papers.PUT("/:id", ctrl.UpdatePaper)                    // PUT    /api/v1/paper/papers/:id
		papers.DELETE("/:id", ctrl.DeletePaper)                 // DELETE /api/v1/paper/papers/:id
		papers.POST("/:id/publish", ctrl.PublishPaper)          // POST   /api/v1/paper/papers/:id/publish
		papers.GET("/:id/versions", ctrl.ListVersions)          // GET    /api/v1/paper/papers/:id/versions
		papers.GET("/:id/citations", ctrl.ListCitations)        // GET    /api/v1/paper/papers/:id/citations
	}
}
