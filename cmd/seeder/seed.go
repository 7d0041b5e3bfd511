package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Xushengqwer/go-common/core"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid" // 用于生成 AuthorID
	"go.uber.org/zap"

	"github.com/Xushengqwer/paper_service/models/dto"
	"github.com/Xushengqwer/paper_service/models/enums"
	"github.com/Xushengqwer/paper_service/service"
)

// Seed 通过服务层填充测试数据：约三分之一普通帖子、三分之一讨论、三分之一论文投稿。
// 论文投稿会生成 1 号版本并发出评审请求事件（若 Kafka 可用）。
func Seed(ctx context.Context, paperSvc service.PaperService, logger *core.ZapLogger, numPapers int) {
	logger.Info("开始填充测试数据 (通过服务层)...", zap.Int("数量", numPapers))

	var wg sync.WaitGroup
	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for i := 0; i < numPapers; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(itemIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			authorID := uuid.New().String()
			category := enums.Category(itemIndex % 3)

			createReq := &dto.CreatePaperRequest{
				Title:    gofakeit.Sentence(gofakeit.Number(5, 15)),
				Body:     gofakeit.Paragraph(3, 5, 20, "\n\n"),
				Summary:  gofakeit.Sentence(gofakeit.Number(10, 25)),
				Category: category,
				Tags:     fakeTags(),
			}
			if category == enums.CategoryPaper {
				// 部分论文仅保存草稿，其余直接投稿触发评审
				createReq.IsDraft = itemIndex%2 == 0
			}

			resp, err := paperSvc.CreatePaper(ctx, createReq, authorID, nil)
			if err != nil {
				logger.Error(fmt.Sprintf("创建帖子 %d/%d 失败", itemIndex+1, numPapers),
					zap.Error(err),
					zap.String("title", createReq.Title),
					zap.String("author_id", authorID))
			} else {
				logger.Info(fmt.Sprintf("成功创建帖子 %d/%d", itemIndex+1, numPapers),
					zap.Uint64("post_id", resp.PostID),
					zap.String("category", category.String()))
			}
		}(i)
	}

	wg.Wait()
	logger.Info("测试数据填充完毕 (通过服务层)。")
}

// fakeTags 生成 1~4 个小写单词标签。
func fakeTags() []string {
	n := gofakeit.Number(1, 4)
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tags = append(tags, strings.ToLower(gofakeit.Word()))
	}
	return tags
}
