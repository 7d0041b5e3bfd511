package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/constants"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/paper_service/constant"
	"github.com/Xushengqwer/paper_service/myErrors"
)

// requireUserID 从 gin.Context 中取出网关透传的 userID。
// 取不到时直接写 401 响应并返回 false，调用方应立即 return。
func requireUserID(c *gin.Context) (string, bool) {
	userIDValue, exists := c.Get(string(constants.UserIDKey))
	if !exists {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息 (Context Key Not Found)")
		return "", false
	}
	userID, ok := userIDValue.(string)
	if !ok || userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取有效的用户 ID (Invalid UserID in Context)")
		return "", false
	}
	return userID, true
}

// optionalUserID 取出网关透传的 userID，未登录时返回空串。
func optionalUserID(c *gin.Context) string {
	return c.GetString(string(constants.UserIDKey))
}

// isAdminRequest 判断请求是否来自管理员（网关注入的角色头）。
func isAdminRequest(c *gin.Context) bool {
	return c.GetHeader(constant.HeaderUserRole) == constant.RoleAdmin
}

// respondServiceError 将服务层的业务错误映射为 HTTP 响应。
// fallbackMsg 用于未识别错误的 500 响应前缀。
func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, commonerrors.ErrRepoNotFound):
		response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "资源未找到")
	case errors.Is(err, myErrors.ErrNotAuthorized):
		response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "没有执行该操作的权限")
	case errors.Is(err, myErrors.ErrVersionConflict):
		response.RespondError(c, http.StatusConflict, response.ErrCodeClientInvalidInput, "版本已被并发提交更新，请刷新后重试")
	case errors.Is(err, myErrors.ErrReviewAlreadyInProgress):
		response.RespondError(c, http.StatusConflict, response.ErrCodeClientInvalidInput, "该帖子已有进行中的评审")
	case errors.Is(err, myErrors.ErrReviewAlreadyTerminal):
		response.RespondError(c, http.StatusConflict, response.ErrCodeClientInvalidInput, "评审已是终态，不能重复写入")
	case errors.Is(err, myErrors.ErrInvalidScore):
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "评分超出允许范围 [1,5]")
	case errors.Is(err, myErrors.ErrInvalidDecision):
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "评审结论不在已知枚举内")
	case errors.Is(err, myErrors.ErrNotPaperCategory):
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "该操作仅对论文类别的帖子有效")
	case errors.Is(err, myErrors.ErrNoVersion):
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "该论文尚未生成任何版本")
	case errors.Is(err, myErrors.ErrNotAccepted):
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "论文不在可发布状态 (需评审通过)")
	default:
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, fallbackMsg+": "+err.Error())
	}
}

// parseIDParam 解析路径中的数字 ID 参数。
// 解析失败时写 400 响应并返回 false，调用方应立即 return。
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的 "+name+" 格式")
		return 0, false
	}
	return id, true
}
