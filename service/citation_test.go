package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseExplicitList 覆盖手工引用列表的解析规则:
// 非法项静默丢弃、自引剔除、结果去重升序。
func TestParseExplicitList(t *testing.T) {
	extractor := NewCitationExtractor()

	tests := []struct {
		name   string
		raw    string
		selfID uint64
		want   []uint64
	}{
		{
			name: "空输入返回空切片",
			raw:  "",
			want: []uint64{},
		},
		{
			name: "常规逗号列表",
			raw:  "12,34,56",
			want: []uint64{12, 34, 56},
		},
		{
			name: "容忍空白与空项",
			raw:  " 12 , ,34,  ",
			want: []uint64{12, 34},
		},
		{
			name: "非法项静默丢弃",
			raw:  "12,abc,34.5,-7,34",
			want: []uint64{12, 34},
		},
		{
			name:   "剔除自引",
			raw:    "12,99,34",
			selfID: 99,
			want:   []uint64{12, 34},
		},
		{
			name: "零不是合法ID",
			raw:  "0,12",
			want: []uint64{12},
		},
		{
			name: "去重且升序",
			raw:  "56,12,56,34,12",
			want: []uint64{12, 34, 56},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.ParseExplicitList(tt.raw, tt.selfID)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestExtractFromBody 覆盖正文扫描: 站内链接与显式标记两类来源。
func TestExtractFromBody(t *testing.T) {
	extractor := NewCitationExtractor()

	tests := []struct {
		name   string
		body   string
		selfID uint64
		want   []uint64
	}{
		{
			name: "站内链接",
			body: "相关工作见 /posts/42 与 /posts/17。",
			want: []uint64{17, 42},
		},
		{
			name: "链接后跟锚点",
			body: "详见 /posts/42#methodology 一节",
			want: []uint64{42},
		},
		{
			name: "cite 标记",
			body: "该方法最早见于 cite:7，后续 citation:8 有改进。",
			want: []uint64{7, 8},
		},
		{
			name: "post 标记大小写不敏感",
			body: "参考 Post:15 与 CITE:16",
			want: []uint64{15, 16},
		},
		{
			name: "标记后无数字时跳过",
			body: "引用格式说明: cite:<id> 或 /posts/abc",
			want: []uint64{},
		},
		{
			name:   "剔除自引",
			body:   "见 /posts/99 与 /posts/42",
			selfID: 99,
			want:   []uint64{42},
		},
		{
			name: "链接与标记去重合并",
			body: "见 /posts/42，也即 cite:42 与 post:42",
			want: []uint64{42},
		},
		{
			name: "正文无引用",
			body: "这是一段没有任何引用的正文。",
			want: []uint64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.ExtractFromBody(tt.body, tt.selfID)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestUnion 验证两路结果的合并语义。
func TestUnion(t *testing.T) {
	extractor := NewCitationExtractor()

	assert.Equal(t, []uint64{1, 2, 3}, extractor.Union([]uint64{3, 1}, []uint64{2, 3}))
	assert.Equal(t, []uint64{5}, extractor.Union(nil, []uint64{5}))
	assert.Equal(t, []uint64{}, extractor.Union(nil, nil))
}

// TestExtractFromBodyIdempotent 同一输入多次解析结果一致。
func TestExtractFromBodyIdempotent(t *testing.T) {
	extractor := NewCitationExtractor()
	body := "见 /posts/42 与 cite:7，另有 /posts/42 重复出现"

	first := extractor.ExtractFromBody(body, 0)
	second := extractor.ExtractFromBody(body, 0)
	assert.Equal(t, first, second)
	assert.Equal(t, []uint64{7, 42}, first)
}
