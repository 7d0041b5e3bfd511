package entities

import (
	"database/sql"

	"github.com/Xushengqwer/go-common/models/entities"

	"github.com/Xushengqwer/paper_service/models/enums"
)

// AiReview AI 评审台账实体
// - 使用场景: 记录每一次评审尝试；创建时为 pending，由评审引擎回调一次性置为终态
// - 表名: ai_reviews
// - 关系: 与 Post 多对一（级联删除）；可选关联一条 PaperVersion（历史数据可能为 NULL）
// - 约束: 五个评分各自可空，取值范围 1..5 由 CHECK 约束兜底
type AiReview struct {
	entities.BaseModel

	// 帖子ID，外键，关联 Post 表
	PostID uint64 `gorm:"type:bigint;not null;index;constraint:OnDelete:CASCADE"`

	// 评审针对的版本ID，可空（历史遗留行可能没有版本指向）
	PaperVersionID sql.NullInt64 `gorm:"type:bigint;index"`

	// 状态，枚举: 0=pending, 1=completed, 2=failed
	Status enums.ReviewStatus `gorm:"type:int;not null;default:0;index"`

	// 触发方式，枚举: 0=auto_create, 1=auto_update, 2=manual
	Trigger enums.ReviewTrigger `gorm:"column:trigger_type;type:int;not null;default:0"`

	// 评审结论，仅 completed 状态有值，枚举: 0=accept, 1=minor_revision, 2=major_revision, 3=reject
	Decision sql.NullInt64 `gorm:"type:int"`

	// 五个维度评分，1..5，各自可空
	ScoreOriginality sql.NullInt64 `gorm:"type:int;check:score_originality IS NULL OR (score_originality BETWEEN 1 AND 5)"`
	ScoreMethodology sql.NullInt64 `gorm:"type:int;check:score_methodology IS NULL OR (score_methodology BETWEEN 1 AND 5)"`
	ScoreClarity     sql.NullInt64 `gorm:"type:int;check:score_clarity IS NULL OR (score_clarity BETWEEN 1 AND 5)"`
	ScoreRelevance   sql.NullInt64 `gorm:"type:int;check:score_relevance IS NULL OR (score_relevance BETWEEN 1 AND 5)"`
	ScoreOverall     sql.NullInt64 `gorm:"type:int;check:score_overall IS NULL OR (score_overall BETWEEN 1 AND 5)"`

	// 编辑视角综述
	EditorialSummary sql.NullString `gorm:"type:text"`

	// 同行评审视角综述
	PeerSummary sql.NullString `gorm:"type:text"`

	// 结构化问题清单，JSON 数组字符串
	Issues string `gorm:"type:text"`

	// 结构化亮点清单，JSON 数组字符串
	Strengths string `gorm:"type:text"`

	// 失败原因，仅 failed 状态有值
	ErrorMessage sql.NullString `gorm:"type:text"`

	// 送审时引擎接收的输入快照（JSON，原样存档）
	InputPayload sql.NullString `gorm:"type:text"`

	// 引擎返回的原始载荷（JSON，原样存档，不做解释）
	RawPayload sql.NullString `gorm:"type:text"`

	// 进入终态的时间
	CompletedAt sql.NullTime
}

// DecisionEnum 将可空的结论列转换为枚举；无值时 ok 为 false
func (r *AiReview) DecisionEnum() (enums.ReviewDecision, bool) {
	if !r.Decision.Valid {
		return 0, false
	}
	return enums.ReviewDecision(r.Decision.Int64), true
}

// TargetsVersion 判断该评审是否针对给定版本
func (r *AiReview) TargetsVersion(versionID uint64) bool {
	return r.PaperVersionID.Valid && uint64(r.PaperVersionID.Int64) == versionID
}

// Terminal 判断是否已处于终态
func (r *AiReview) Terminal() bool {
	return r.Status.IsTerminal()
}
