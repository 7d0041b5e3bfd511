package enums

// ReviewStatus AI 评审记录状态
// - pending 为唯一的非终态；每个帖子同一时刻最多存在一条 pending 记录
// - 一旦进入 completed / failed 终态，记录不再被修改
type ReviewStatus int

const (
	// ReviewStatusPending 评审已创建，等待评审引擎回调
	ReviewStatusPending ReviewStatus = 0
	// ReviewStatusCompleted 评审引擎成功返回结果
	ReviewStatusCompleted ReviewStatus = 1
	// ReviewStatusFailed 评审引擎执行失败
	ReviewStatusFailed ReviewStatus = 2
)

func (s ReviewStatus) String() string {
	switch s {
	case ReviewStatusPending:
		return "pending"
	case ReviewStatusCompleted:
		return "completed"
	case ReviewStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal 判断评审是否已进入终态
func (s ReviewStatus) IsTerminal() bool {
	return s == ReviewStatusCompleted || s == ReviewStatusFailed
}

// ReviewTrigger 评审触发方式
type ReviewTrigger int

const (
	// TriggerAutoCreate 首次提交自动触发
	TriggerAutoCreate ReviewTrigger = 0
	// TriggerAutoUpdate 再次提交（产生新版本）自动触发
	TriggerAutoUpdate ReviewTrigger = 1
	// TriggerManual 作者或管理员手动触发重评
	TriggerManual ReviewTrigger = 2
)

func (t ReviewTrigger) String() string {
	switch t {
	case TriggerAutoCreate:
		return "auto_create"
	case TriggerAutoUpdate:
		return "auto_update"
	case TriggerManual:
		return "manual"
	default:
		return "unknown"
	}
}

// ReviewDecision 评审结论，仅在 completed 状态下有值
type ReviewDecision int

const (
	// DecisionAccept 接受，论文进入 accepted 状态
	DecisionAccept ReviewDecision = 0
	// DecisionMinorRevision 小修
	DecisionMinorRevision ReviewDecision = 1
	// DecisionMajorRevision 大修
	DecisionMajorRevision ReviewDecision = 2
	// DecisionReject 拒绝
	DecisionReject ReviewDecision = 3
)

func (d ReviewDecision) String() string {
	switch d {
	case DecisionAccept:
		return "accept"
	case DecisionMinorRevision:
		return "minor_revision"
	case DecisionMajorRevision:
		return "major_revision"
	case DecisionReject:
		return "reject"
	default:
		return "unknown"
	}
}

// IsValid 校验结论取值是否在枚举范围内
func (d ReviewDecision) IsValid() bool {
	return d >= DecisionAccept && d <= DecisionReject
}

// ParseReviewDecision 将结论名解析为枚举，评审引擎回调事件中使用结论名传递
func ParseReviewDecision(name string) (ReviewDecision, bool) {
	switch name {
	case "accept":
		return DecisionAccept, true
	case "minor_revision":
		return DecisionMinorRevision, true
	case "major_revision":
		return DecisionMajorRevision, true
	case "reject":
		return DecisionReject, true
	default:
		return 0, false
	}
}
