package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/stretchr/testify/require"
	cos "github.com/tencentyun/cos-go-sdk-v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Xushengqwer/paper_service/models/dto"
	"github.com/Xushengqwer/paper_service/models/entities"
	"github.com/Xushengqwer/paper_service/models/enums"
	"github.com/Xushengqwer/paper_service/models/vo"
	"github.com/Xushengqwer/paper_service/myErrors"
	"github.com/Xushengqwer/paper_service/repo/mysql"
)

// fakeCOSClient 是 COSClientInterface 的内存实现，上传与删除都是空操作。
type fakeCOSClient struct{}

func (f *fakeCOSClient) GetClient() *cos.Client { return nil }

func (f *fakeCOSClient) UploadFile(_ context.Context, objectKey string, _ io.Reader, _ int64, _ string) (string, error) {
	return "https://cos.example.com/" + objectKey, nil
}

func (f *fakeCOSClient) DeleteObject(_ context.Context, _ string) error { return nil }

func (f *fakeCOSClient) GetObjectURL(objectKey string) string {
	return "https://cos.example.com/" + objectKey
}

// fakeReviewCache 是 ReviewCacheRepository 的内存实现。
type fakeReviewCache struct {
	mu      sync.Mutex
	entries map[uint64]*vo.AiReviewVO
}

func newFakeReviewCache() *fakeReviewCache {
	return &fakeReviewCache{entries: make(map[uint64]*vo.AiReviewVO)}
}

func (f *fakeReviewCache) GetLatestReview(_ context.Context, postID uint64) (*vo.AiReviewVO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cached, ok := f.entries[postID]
	if !ok {
		return nil, myErrors.ErrCacheMiss
	}
	return cached, nil
}

func (f *fakeReviewCache) SetLatestReview(_ context.Context, postID uint64, review *vo.AiReviewVO) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[postID] = review
	return nil
}

func (f *fakeReviewCache) InvalidateLatestReview(_ context.Context, postID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, postID)
	return nil
}

func (f *fakeReviewCache) has(postID uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[postID]
	return ok
}

// fakeCitationRank 是 CitationRankRepository 的内存实现。
type fakeCitationRank struct {
	mu   sync.Mutex
	rows []mysql.CitedCount
}

func (f *fakeCitationRank) RebuildRank(_ context.Context, rows []mysql.CitedCount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = rows
	return nil
}

func (f *fakeCitationRank) GetTopCited(_ context.Context, limit int) ([]*vo.CitationRankItemVO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sorted := make([]mysql.CitedCount, len(f.rows))
	copy(sorted, f.rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	items := make([]*vo.CitationRankItemVO, 0, len(sorted))
	for _, row := range sorted {
		items = append(items, &vo.CitationRankItemVO{
			PostID:        row.CitedPostID,
			CitationCount: row.Count,
		})
	}
	return items, nil
}

// testEnv 把服务层测试需要的全套依赖装配在真实 SQLite 之上。
// Kafka 生产者传 nil，发送路径静默跳过。
type testEnv struct {
	db          *gorm.DB
	postRepo    mysql.PostRepository
	versionRepo mysql.PaperVersionRepository
	reviewRepo  mysql.AiReviewRepository
	cache       *fakeReviewCache
	paperSvc    PaperService
	reviewSvc   ReviewService
	commentSvc  CommentService
	adminSvc    AdminReviewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger, err := core.NewZapLogger(commonConfig.ZapConfig{})
	require.NoError(t, err)

	dsn := filepath.Join(t.TempDir(), "paper_test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.Post{},
		&entities.PaperVersion{},
		&entities.AiReview{},
		&entities.Citation{},
		&entities.ReviewComment{},
	))

	postRepo := mysql.NewPostRepository(db, logger)
	versionRepo := mysql.NewPaperVersionRepository(db, logger)
	reviewRepo := mysql.NewAiReviewRepository(db, logger)
	citationRepo := mysql.NewCitationRepository(db, logger)
	commentRepo := mysql.NewReviewCommentRepository(db, logger)

	cache := newFakeReviewCache()
	rankRepo := &fakeCitationRank{}
	cosClient := &fakeCOSClient{}
	extractor := NewCitationExtractor()

	return &testEnv{
		db:          db,
		postRepo:    postRepo,
		versionRepo: versionRepo,
		reviewRepo:  reviewRepo,
		cache:       cache,
		paperSvc: NewPaperService(db, postRepo, versionRepo, reviewRepo, citationRepo,
			rankRepo, extractor, cosClient, nil, logger),
		reviewSvc:  NewReviewService(db, postRepo, versionRepo, reviewRepo, cache, cosClient, nil, logger),
		commentSvc: NewCommentService(postRepo, versionRepo, commentRepo, logger),
		adminSvc:   NewAdminReviewService(reviewRepo, logger),
	}
}

// submitPaper 以非草稿方式创建一篇论文，返回提交结果。
func (env *testEnv) submitPaper(t *testing.T, authorID string, citations string) *vo.SubmitPaperResultVO {
	t.Helper()
	resp, err := env.paperSvc.CreatePaper(context.Background(), &dto.CreatePaperRequest{
		Title:     "图神经网络的鲁棒性分析",
		Body:      "正文内容",
		Category:  enums.CategoryPaper,
		Citations: citations,
	}, authorID, nil)
	require.NoError(t, err)
	return resp
}

// resubmitPaper 以非草稿方式编辑论文，生成新版本。
func (env *testEnv) resubmitPaper(t *testing.T, postID uint64, authorID string) *vo.SubmitPaperResultVO {
	t.Helper()
	resp, err := env.paperSvc.UpdatePaper(context.Background(), postID, &dto.UpdatePaperRequest{
		Title: "图神经网络的鲁棒性分析（修订版）",
		Body:  fmt.Sprintf("修订后的正文 post=%d", postID),
	}, authorID, false, nil)
	require.NoError(t, err)
	return resp
}

// completeReview 用给定结论完成评审。
func (env *testEnv) completeReview(t *testing.T, reviewID uint64, decision enums.ReviewDecision) {
	t.Helper()
	err := env.reviewSvc.CompleteReview(context.Background(), reviewID, &dto.ReviewOutcome{
		Decision: decision,
	})
	require.NoError(t, err)
}

// paperStatus 读取帖子当前的工作流状态。
func (env *testEnv) paperStatus(t *testing.T, postID uint64) enums.PaperStatus {
	t.Helper()
	post, err := env.postRepo.GetPostByID(context.Background(), postID)
	require.NoError(t, err)
	return post.PaperStatus
}
