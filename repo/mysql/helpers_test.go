package mysql

import (
	"path/filepath"
	"testing"
	"time"

	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Xushengqwer/paper_service/models/entities"
	"github.com/Xushengqwer/paper_service/models/enums"
)

// newTestLogger 构造测试用的 ZapLogger，使用零值配置（开发编码、输出到标准输出）。
func newTestLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{})
	require.NoError(t, err)
	return logger
}

// newTestDB 在临时目录中创建基于文件的 SQLite 库并完成建表。
// - TranslateError 与生产配置保持一致，使唯一键冲突统一翻译为 gorm.ErrDuplicatedKey。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

// seedPost 直接落库一条帖子记录，返回带主键的实体。
func seedPost(t *testing.T, db *gorm.DB, category enums.Category, authorID string) *entities.Post {
	t.Helper()
	post := &entities.Post{
		Title:    "分布式共识算法综述",
		Body:     "正文内容",
		Category: category,
		AuthorID: authorID,
		Tags:     "[]",
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

// seedVersion 直接落库一条版本快照，返回带主键的实体。
func seedVersion(t *testing.T, db *gorm.DB, postID, versionNumber uint64) *entities.PaperVersion {
	t.Helper()
	version := &entities.PaperVersion{
		PostID:          postID,
		VersionNumber:   versionNumber,
		Title:           "分布式共识算法综述",
		Body:            "正文内容",
		Tags:            "[]",
		CitationTargets: "[]",
		SubmitterID:     "author-1",
		SubmittedAt:     time.Now(),
	}
	require.NoError(t, db.Create(version).Error)
	return version
}
