package service

import (
	"sort"
	"strconv"
	"strings"
)

// CitationExtractor 负责从论文的输入中解析引用目标。
// - 解析是纯计算逻辑，不依赖数据库：非法 ID、自引、指向非论文的 ID
//   等过滤由持久化层（CitationRepository.ReplaceBySource）负责兜底。
type CitationExtractor struct{}

// NewCitationExtractor 构造引用解析器。
func NewCitationExtractor() *CitationExtractor {
	return &CitationExtractor{}
}

// citationMarkers 是正文中显式引用标记的前缀集合。
// - 标记后紧跟十进制帖子 ID，例如 "cite:42"、"post:17"、"citation:8"。
var citationMarkers = []string{
	"cite:",
	"citation:",
	"post:",
}

// postPathMarker 是站内链接形式的引用，例如 "/posts/42" 或 "/posts/42#section"。
const postPathMarker = "/posts/"

// ParseExplicitList 解析作者手工填写的逗号分隔引用列表。
// - 空串、空白项直接跳过；无法解析为正整数的项静默丢弃（尽力而为，不报错）。
// - 自引（等于 selfID 的项）被剔除。
// - 返回去重且升序排列的 ID 列表，输入为空时返回空切片而非 nil。
func (e *CitationExtractor) ParseExplicitList(raw string, selfID uint64) []uint64 {
	seen := make(map[uint64]struct{})
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := strconv.ParseUint(token, 10, 64)
		if err != nil || id == 0 || id == selfID {
			continue
		}
		seen[id] = struct{}{}
	}
	return sortedIDs(seen)
}

// ExtractFromBody 扫描正文，收集两类引用：
//  1. 站内链接 "/posts/<id>"；
//  2. 显式标记 "cite:<id>"、"citation:<id>"、"post:<id>"。
//
// 标记匹配不区分大小写，ID 之后允许任意非数字字符（标点、锚点等）。
// 自引被剔除，结果去重并升序排列。
func (e *CitationExtractor) ExtractFromBody(body string, selfID uint64) []uint64 {
	seen := make(map[uint64]struct{})
	lower := strings.ToLower(body)

	collectAfter(lower, postPathMarker, selfID, seen)
	for _, marker := range citationMarkers {
		collectAfter(lower, marker, selfID, seen)
	}
	return sortedIDs(seen)
}

// Union 合并手工列表与正文扫描的结果，去重后升序返回。
func (e *CitationExtractor) Union(manual, auto []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(manual)+len(auto))
	for _, id := range manual {
		seen[id] = struct{}{}
	}
	for _, id := range auto {
		seen[id] = struct{}{}
	}
	return sortedIDs(seen)
}

// collectAfter 在 text 中查找 marker 的每次出现，读取其后紧邻的十进制数字串。
// - 标记后没有数字（例如 "/posts/abc"）时跳过该处，继续向后扫描。
func collectAfter(text, marker string, selfID uint64, seen map[uint64]struct{}) {
	offset := 0
	for {
		idx := strings.Index(text[offset:], marker)
		if idx < 0 {
			return
		}
		pos := offset + idx + len(marker)
		end := pos
		for end < len(text) && text[end] >= '0' && text[end] <= '9' {
			end++
		}
		if end > pos {
			if id, err := strconv.ParseUint(text[pos:end], 10, 64); err == nil && id != 0 && id != selfID {
				seen[id] = struct{}{}
			}
		}
		offset = pos
	}
}

func sortedIDs(seen map[uint64]struct{}) []uint64 {
	ids := make([]uint64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
