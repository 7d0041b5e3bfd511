package vo

// --- 用于成功响应且包含具体 Data 的包装器 ---

// PaperResponseWrapper 对应 response.APIResponse[vo.PaperVO]
type PaperResponseWrapper struct {
	Code    int     `json:"code" example:"0"`
	Message string  `json:"message,omitempty" example:"success"`
	Data    PaperVO `json:"data"`
}

// SubmitPaperResultResponseWrapper 对应 response.APIResponse[vo.SubmitPaperResultVO]
type SubmitPaperResultResponseWrapper struct {
	Code    int                 `json:"code" example:"0"`
	Message string              `json:"message,omitempty" example:"success"`
	Data    SubmitPaperResultVO `json:"data"`
}

// PublishPaperResultResponseWrapper 对应 response.APIResponse[vo.PublishPaperResultVO]
type PublishPaperResultResponseWrapper struct {
	Code    int                  `json:"code" example:"0"`
	Message string               `json:"message,omitempty" example:"success"`
	Data    PublishPaperResultVO `json:"data"`
}

// ListMyPapersResponseWrapper 对应 response.APIResponse[vo.ListMyPapersVO]
type ListMyPapersResponseWrapper struct {
	Code    int            `json:"code" example:"0"`
	Message string         `json:"message,omitempty" example:"success"`
	Data    ListMyPapersVO `json:"data"`
}

// PaperVersionResponseWrapper 对应 response.APIResponse[vo.PaperVersionVO]
type PaperVersionResponseWrapper struct {
	Code    int            `json:"code" example:"0"`
	Message string         `json:"message,omitempty" example:"success"`
	Data    PaperVersionVO `json:"data"`
}

// PaperVersionListResponseWrapper 对应 response.APIResponse[[]vo.PaperVersionVO]
type PaperVersionListResponseWrapper struct {
	Code    int               `json:"code" example:"0"`
	Message string            `json:"message,omitempty" example:"success"`
	Data    []*PaperVersionVO `json:"data"`
}

// AiReviewResponseWrapper 对应 response.APIResponse[vo.AiReviewVO]
type AiReviewResponseWrapper struct {
	Code    int        `json:"code" example:"0"`
	Message string     `json:"message,omitempty" example:"success"`
	Data    AiReviewVO `json:"data"`
}

// RerunReviewResultResponseWrapper 对应 response.APIResponse[vo.RerunReviewResultVO]
type RerunReviewResultResponseWrapper struct {
	Code    int                 `json:"code" example:"0"`
	Message string              `json:"message,omitempty" example:"success"`
	Data    RerunReviewResultVO `json:"data"`
}

// ListReviewHistoryResponseWrapper 对应 response.APIResponse[vo.ListReviewHistoryVO]
type ListReviewHistoryResponseWrapper struct {
	Code    int                 `json:"code" example:"0"`
	Message string              `json:"message,omitempty" example:"success"`
	Data    ListReviewHistoryVO `json:"data"`
}

// ListAdminReviewsResponseWrapper 对应 response.APIResponse[vo.ListAdminReviewsVO]
type ListAdminReviewsResponseWrapper struct {
	Code    int                `json:"code" example:"0"`
	Message string             `json:"message,omitempty" example:"success"`
	Data    ListAdminReviewsVO `json:"data"`
}

// ReviewMetricsResponseWrapper 对应 response.APIResponse[vo.ReviewMetricsVO]
type ReviewMetricsResponseWrapper struct {
	Code    int             `json:"code" example:"0"`
	Message string          `json:"message,omitempty" example:"success"`
	Data    ReviewMetricsVO `json:"data"`
}

// ReviewCommentResponseWrapper 对应 response.APIResponse[vo.ReviewCommentVO]
type ReviewCommentResponseWrapper struct {
	Code    int             `json:"code" example:"0"`
	Message string          `json:"message,omitempty" example:"success"`
	Data    ReviewCommentVO `json:"data"`
}

// ListReviewCommentsResponseWrapper 对应 response.APIResponse[vo.ListReviewCommentsVO]
type ListReviewCommentsResponseWrapper struct {
	Code    int                  `json:"code" example:"0"`
	Message string               `json:"message,omitempty" example:"success"`
	Data    ListReviewCommentsVO `json:"data"`
}

// CitationRankResponseWrapper 对应 response.APIResponse[[]vo.CitationRankItemVO]
type CitationRankResponseWrapper struct {
	Code    int                   `json:"code" example:"0"`
	Message string                `json:"message,omitempty" example:"success"`
	Data    []*CitationRankItemVO `json:"data"`
}

// --- 用于错误响应 或 简单成功响应（只有 Code 和 Message） ---

// BaseResponseWrapper 代表一个只包含 Code 和 Message 的响应。
// 适用于错误情况（RespondError 返回时 Data 为 nil 且 omitempty）
// 或某些成功操作（如 DELETE）可能也只返回 Code 和 Message。
type BaseResponseWrapper struct {
	Code    int    `json:"code" example:"0"`          // 成功时为 0, 错误时为具体错误码
	Message string `json:"message" example:"success"` // 成功或错误消息
}
