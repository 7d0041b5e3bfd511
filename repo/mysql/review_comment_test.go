package mysql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/paper_service/models/entities"
	"github.com/Xushengqwer/paper_service/models/enums"
)

// TestMarkDeleted 墓碑标记保留行本身，重复标记在仓库层允许（幂等由服务层把关）。
func TestMarkDeleted(t *testing.T) {
	db := newTestDB(t)
	repo := NewReviewCommentRepository(db, newTestLogger(t))
	ctx := context.Background()

	post := seedPost(t, db, enums.CategoryPaper, "author-1")
	comment := &entities.ReviewComment{
		PostID:   post.ID,
		AuthorID: "reader-1",
		Content:  "实验部分的对照组选取依据是什么？",
	}
	require.NoError(t, repo.CreateComment(ctx, comment))

	require.NoError(t, repo.MarkDeleted(ctx, comment.ID))

	stored, err := repo.GetCommentByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	// 行内容保留，占位替换发生在展示层
	assert.Equal(t, "实验部分的对照组选取依据是什么？", stored.Content)

	err = repo.MarkDeleted(ctx, 99999)
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}

// TestListByPost 验证列表顺序与版本过滤。
func TestListByPostComments(t *testing.T) {
	db := newTestDB(t)
	repo := NewReviewCommentRepository(db, newTestLogger(t))
	ctx := context.Background()

	post := seedPost(t, db, enums.CategoryPaper, "author-1")
	v1 := seedVersion(t, db, post.ID, 1)

	general := &entities.ReviewComment{
		PostID:   post.ID,
		AuthorID: "reader-1",
		Content:  "整体评论",
	}
	require.NoError(t, repo.CreateComment(ctx, general))

	versioned := &entities.ReviewComment{
		PostID:         post.ID,
		PaperVersionID: sql.NullInt64{Int64: int64(v1.ID), Valid: true},
		AuthorID:       "reader-2",
		Content:        "针对 v1 的评论",
	}
	require.NoError(t, repo.CreateComment(ctx, versioned))

	reply := &entities.ReviewComment{
		PostID:   post.ID,
		ParentID: sql.NullInt64{Int64: int64(general.ID), Valid: true},
		AuthorID: "author-1",
		Content:  "回复整体评论",
	}
	require.NoError(t, repo.CreateComment(ctx, reply))

	all, err := repo.ListByPost(ctx, post.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, general.ID, all[0].ID)
	assert.Equal(t, versioned.ID, all[1].ID)
	assert.Equal(t, reply.ID, all[2].ID)

	versionID := v1.ID
	filtered, err := repo.ListByPost(ctx, post.ID, &versionID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, versioned.ID, filtered[0].ID)
}
