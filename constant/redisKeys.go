package constant

import "time"

// Redis Key 相关常量 (导出)
const (
	// --- Key 前缀 (用于动态生成 Key) ---

	// LatestReviewCacheKeyPrefix 是“帖子最新评审”缓存的 Key 前缀。
	// 客户端轮询评审进度时优先读取该缓存，评审进入终态时失效重建。
	// 示例 Key: "paper_latest_review:123" (其中 123 是 postID)
	// Redis 类型: String (存储 JSON 序列化后的 AiReviewVO)
	LatestReviewCacheKeyPrefix = "paper_latest_review:"

	// --- 固定 Key 名称 (全局使用的 Key) ---

	// CitationRankKey 是被引用次数排行榜的 Key 名称。
	// 这是一个 Sorted Set (ZSet)，成员是帖子 ID (postID)，分数是被引用次数。
	// 由定时任务从 MySQL 聚合后整体重建。
	// Redis 类型: Sorted Set
	// 示例成员与分数: Member="123", Score=17; Member="456", Score=9
	CitationRankKey = "paper_citation_rank"
)

// LatestReviewCacheTTL 最新评审缓存的过期时间。
// pending 状态下轮询频繁，缓存短 TTL 即可显著降低数据库压力。
const LatestReviewCacheTTL = 30 * time.Second
