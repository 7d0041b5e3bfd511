package enums

// Category 帖子类别
// - 只有 paper（论文）类别参与版本快照与 AI 评审流程
// - 其余类别的帖子创建后即视为已发布
type Category int

const (
	// CategoryPost 普通帖子
	CategoryPost Category = 0
	// CategoryPaper 论文帖子，进入评审工作流
	CategoryPaper Category = 1
	// CategoryDiscussion 讨论帖
	CategoryDiscussion Category = 2
)

func (c Category) String() string {
	switch c {
	case CategoryPost:
		return "post"
	case CategoryPaper:
		return "paper"
	case CategoryDiscussion:
		return "discussion"
	default:
		return "unknown"
	}
}

// IsValid 校验类别取值是否在枚举范围内
func (c Category) IsValid() bool {
	return c >= CategoryPost && c <= CategoryDiscussion
}
