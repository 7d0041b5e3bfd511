package enums

// PaperStatus 论文工作流状态
// - 状态机: draft -> submitted -> (accepted | revision | rejected) -> published
// - revision / rejected 状态下作者重新提交会回到 submitted
type PaperStatus int

const (
	// PaperStatusDraft 草稿，未生成版本，未触发评审
	PaperStatusDraft PaperStatus = 0
	// PaperStatusSubmitted 已提交，等待评审结果
	PaperStatusSubmitted PaperStatus = 1
	// PaperStatusRevision 评审要求修改（minor/major revision）
	PaperStatusRevision PaperStatus = 2
	// PaperStatusAccepted 评审通过，作者可执行发布
	PaperStatusAccepted PaperStatus = 3
	// PaperStatusPublished 已发布，公开可见
	PaperStatusPublished PaperStatus = 4
	// PaperStatusRejected 评审拒绝，作者可修改后重新提交
	PaperStatusRejected PaperStatus = 5
)

func (s PaperStatus) String() string {
	switch s {
	case PaperStatusDraft:
		return "draft"
	case PaperStatusSubmitted:
		return "submitted"
	case PaperStatusRevision:
		return "revision"
	case PaperStatusAccepted:
		return "accepted"
	case PaperStatusPublished:
		return "published"
	case PaperStatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
