package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/paper_service/models/enums"
)

// TestReplaceBySource 验证按来源整体替换:
// 非论文目标、不存在的目标与自引在落库前被过滤，manual 与 auto 两套边互不影响。
func TestReplaceBySource(t *testing.T) {
	db := newTestDB(t)
	repo := NewCitationRepository(db, newTestLogger(t))
	ctx := context.Background()

	citing := seedPost(t, db, enums.CategoryPaper, "author-1")
	paperA := seedPost(t, db, enums.CategoryPaper, "author-2")
	paperB := seedPost(t, db, enums.CategoryPaper, "author-3")
	discussion := seedPost(t, db, enums.CategoryDiscussion, "author-4")

	err := repo.ReplaceBySource(ctx, db, citing.ID, enums.CitationSourceManual,
		[]uint64{paperA.ID, discussion.ID, 99999, citing.ID, paperA.ID})
	require.NoError(t, err)

	ids, err := repo.ListCitedIDs(ctx, citing.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{paperA.ID}, ids)

	// auto 来源独立写入
	err = repo.ReplaceBySource(ctx, db, citing.ID, enums.CitationSourceAuto,
		[]uint64{paperA.ID, paperB.ID})
	require.NoError(t, err)

	ids, err = repo.ListCitedIDs(ctx, citing.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{paperA.ID, paperB.ID}, ids)

	edges, err := repo.ListByCitingPost(ctx, citing.ID)
	require.NoError(t, err)
	assert.Len(t, edges, 3)

	// 替换 manual 不触碰 auto 的边
	err = repo.ReplaceBySource(ctx, db, citing.ID, enums.CitationSourceManual,
		[]uint64{paperB.ID})
	require.NoError(t, err)

	edges, err = repo.ListByCitingPost(ctx, citing.ID)
	require.NoError(t, err)
	require.Len(t, edges, 3)
	for _, edge := range edges {
		if edge.Source == enums.CitationSourceManual {
			assert.Equal(t, paperB.ID, edge.CitedPostID)
		}
	}

	// 空列表清空该来源的全部边
	err = repo.ReplaceBySource(ctx, db, citing.ID, enums.CitationSourceAuto, nil)
	require.NoError(t, err)

	ids, err = repo.ListCitedIDs(ctx, citing.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{paperB.ID}, ids)
}

// TestReplaceBySourceIdempotent 相同输入重复替换结果不变。
func TestReplaceBySourceIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewCitationRepository(db, newTestLogger(t))
	ctx := context.Background()

	citing := seedPost(t, db, enums.CategoryPaper, "author-1")
	cited := seedPost(t, db, enums.CategoryPaper, "author-2")

	for i := 0; i < 2; i++ {
		err := repo.ReplaceBySource(ctx, db, citing.ID, enums.CitationSourceManual, []uint64{cited.ID})
		require.NoError(t, err)
	}

	edges, err := repo.ListByCitingPost(ctx, citing.ID)
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}

// TestFilterPaperIDs 只保留真实存在的论文类别帖子。
func TestFilterPaperIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewCitationRepository(db, newTestLogger(t))
	ctx := context.Background()

	paper := seedPost(t, db, enums.CategoryPaper, "author-1")
	plain := seedPost(t, db, enums.CategoryPost, "author-2")
	deleted := seedPost(t, db, enums.CategoryPaper, "author-3")
	require.NoError(t, db.Delete(deleted).Error)

	valid, err := repo.FilterPaperIDs(ctx, []uint64{paper.ID, plain.ID, deleted.ID, 99999})
	require.NoError(t, err)
	assert.Equal(t, []uint64{paper.ID}, valid)

	valid, err = repo.FilterPaperIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, valid)
}

// TestCountCitedAll 被引次数按引用方去重: 同一引用方的 manual 与 auto 边只计一次。
func TestCountCitedAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewCitationRepository(db, newTestLogger(t))
	ctx := context.Background()

	target := seedPost(t, db, enums.CategoryPaper, "author-0")
	citingA := seedPost(t, db, enums.CategoryPaper, "author-1")
	citingB := seedPost(t, db, enums.CategoryPaper, "author-2")

	require.NoError(t, repo.ReplaceBySource(ctx, db, citingA.ID, enums.CitationSourceManual, []uint64{target.ID}))
	require.NoError(t, repo.ReplaceBySource(ctx, db, citingA.ID, enums.CitationSourceAuto, []uint64{target.ID}))
	require.NoError(t, repo.ReplaceBySource(ctx, db, citingB.ID, enums.CitationSourceAuto, []uint64{target.ID, citingA.ID}))

	rows, err := repo.CountCitedAll(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, target.ID, rows[0].CitedPostID)
	assert.Equal(t, int64(2), rows[0].Count)
	assert.Equal(t, citingA.ID, rows[1].CitedPostID)
	assert.Equal(t, int64(1), rows[1].Count)

	// limit 截断排行
	rows, err = repo.CountCitedAll(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, target.ID, rows[0].CitedPostID)
}
