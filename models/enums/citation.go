package enums

// CitationSource 引用边来源
// - 同一对 (citing, cited) 可以同时存在 manual 和 auto 两条边
// - 每次更新时两类来源的边集各自整体替换，互不影响
type CitationSource int

const (
	// CitationSourceManual 作者在提交表单中显式填写的引用
	CitationSourceManual CitationSource = 0
	// CitationSourceAuto 从正文文本中自动扫描识别的引用
	CitationSourceAuto CitationSource = 1
)

func (s CitationSource) String() string {
	switch s {
	case CitationSourceManual:
		return "manual"
	case CitationSourceAuto:
		return "auto"
	default:
		return "unknown"
	}
}
