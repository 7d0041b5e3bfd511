package constant

// 服务元信息常量
const (
	// ServiceName 注册到追踪系统与日志中的服务名
	ServiceName = "paper_service"

	// ServiceVersion 服务版本号
	ServiceVersion = "1.0.0"
)

// COS 对象键前缀
const (
	// COSObjectKeyPrefixPaperAttachments 论文附件在 COS 中的对象键前缀。
	// 最终对象键形如: papers/attachments/20250830/<userID>_<uuid>.pdf
	COSObjectKeyPrefixPaperAttachments = "papers/attachments/"
)

// 定时任务调度表达式 (robfig/cron 标准 5 字段格式)
const (
	// CitationRankCronSpec 引用排行榜缓存刷新周期
	CitationRankCronSpec = "*/10 * * * *"

	// ReviewWatchdogCronSpec 滞留 pending 评审巡检周期
	ReviewWatchdogCronSpec = "*/5 * * * *"
)

// CitationRankSize 引用排行榜缓存的条目数上限
const CitationRankSize = 100

// 网关透传的请求头
const (
	// HeaderUserRole 网关注入的用户角色头
	HeaderUserRole = "X-User-Role"

	// RoleAdmin 管理员角色值
	RoleAdmin = "admin"
)
