package events

import "time"

// 评审引擎的 Kafka 事件契约。
// 本服务发送 ReviewRequestedEvent，引擎在 reviewCompleted / reviewFailed
// 主题上回调对应事件；EventID 用于幂等去重，ReviewID 关联台账记录。

// PaperSnapshotData 送审时携带的版本快照数据
type PaperSnapshotData struct {
	PostID          uint64   `json:"post_id"`
	PaperVersionID  uint64   `json:"paper_version_id"`
	VersionNumber   uint64   `json:"version_number"`
	Title           string   `json:"title"`
	Body            string   `json:"body"`
	Summary         string   `json:"summary"`
	ExternalLink    string   `json:"external_link"`
	AttachmentURL   string   `json:"attachment_url"`
	Tags            []string `json:"tags"`
	CitationTargets []uint64 `json:"citation_targets"`
	SubmitterID     string   `json:"submitter_id"`
}

// ReviewRequestedEvent 送审事件，评审引擎消费
type ReviewRequestedEvent struct {
	EventID   string            `json:"event_id"`
	Timestamp time.Time         `json:"timestamp"`
	ReviewID  uint64            `json:"review_id"`
	Paper     PaperSnapshotData `json:"paper"`
}

// ReviewCompletedEvent 评审成功回调事件
type ReviewCompletedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	ReviewID  uint64    `json:"review_id"`
	PostID    uint64    `json:"post_id"`

	// Decision 结论名: accept / minor_revision / major_revision / reject
	Decision string `json:"decision"`

	// 五个维度评分，引擎可能缺省部分维度
	ScoreOriginality *int `json:"score_originality"`
	ScoreMethodology *int `json:"score_methodology"`
	ScoreClarity     *int `json:"score_clarity"`
	ScoreRelevance   *int `json:"score_relevance"`
	ScoreOverall     *int `json:"score_overall"`

	EditorialSummary string   `json:"editorial_summary"`
	PeerSummary      string   `json:"peer_summary"`
	Issues           []string `json:"issues"`
	Strengths        []string `json:"strengths"`

	// RawPayload 引擎原始输出，台账原样存档
	RawPayload string `json:"raw_payload"`
}

// ReviewFailedEvent 评审失败回调事件
type ReviewFailedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	ReviewID  uint64    `json:"review_id"`
	PostID    uint64    `json:"post_id"`
	Message   string    `json:"message"`
}
