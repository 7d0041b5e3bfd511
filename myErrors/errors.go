package myErrors

import "errors"

// ErrCacheMiss 表示在缓存层未找到对应的键值
var ErrCacheMiss = errors.New("cache: key not found (miss)")

// ErrVersionConflict 版本创建时的乐观并发冲突：
// 另一个提交请求已经推进了 current_revision，当前调用方需要用新状态重试
var ErrVersionConflict = errors.New("paper: version conflict, revision advanced by concurrent writer")

// ErrReviewAlreadyInProgress 该帖子已存在 pending 状态的评审，拒绝重复发起
var ErrReviewAlreadyInProgress = errors.New("review: a pending review already exists for this post")

// ErrReviewAlreadyTerminal 评审已处于终态（completed/failed），拒绝再次写入结果
var ErrReviewAlreadyTerminal = errors.New("review: review already reached a terminal status")

// ErrInvalidScore 评分超出 [1,5] 范围
var ErrInvalidScore = errors.New("review: score out of range [1,5]")

// ErrInvalidDecision 评审结论不在已知枚举内
var ErrInvalidDecision = errors.New("review: unknown review decision")

// ErrNotPaperCategory 操作仅对 paper 类别的帖子有效
var ErrNotPaperCategory = errors.New("paper: post is not in the paper category")

// ErrNoVersion 帖子尚无任何版本，无法执行需要最新版本的操作（如手动重评）
var ErrNoVersion = errors.New("paper: post has no paper version yet")

// ErrNotAccepted 发布操作要求论文处于 accepted 状态
var ErrNotAccepted = errors.New("paper: post is not in accepted status")

// ErrNotAuthorized 调用者没有执行该操作的权限
var ErrNotAuthorized = errors.New("permission denied")
