package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/paper_service/models/entities"
	"github.com/Xushengqwer/paper_service/models/enums"
	"github.com/Xushengqwer/paper_service/myErrors"
)

func intPtr(v int) *int { return &v }

// TestCreatePendingSingleFlight 同一帖子同一时刻至多一条 pending 评审；
// 前一条进入终态后允许再次创建。
func TestCreatePendingSingleFlight(t *testing.T) {
	db := newTestDB(t)
	repo := NewAiReviewRepository(db, newTestLogger(t))
	ctx := context.Background()

	post := seedPost(t, db, enums.CategoryPaper, "author-1")
	v1 := seedVersion(t, db, post.ID, 1)

	first, err := repo.CreatePending(ctx, post.ID, v1.ID, enums.TriggerAutoCreate, `{"title":"t"}`)
	require.NoError(t, err)
	assert.Equal(t, enums.ReviewStatusPending, first.Status)
	require.True(t, first.PaperVersionID.Valid)
	assert.Equal(t, int64(v1.ID), first.PaperVersionID.Int64)

	_, err = repo.CreatePending(ctx, post.ID, v1.ID, enums.TriggerManual, "")
	assert.ErrorIs(t, err, myErrors.ErrReviewAlreadyInProgress)

	// 其他帖子的 pending 不受影响
	other := seedPost(t, db, enums.CategoryPaper, "author-2")
	v2 := seedVersion(t, db, other.ID, 1)
	_, err = repo.CreatePending(ctx, other.ID, v2.ID, enums.TriggerAutoCreate, "")
	assert.NoError(t, err)

	// 终态之后允许重新创建
	require.NoError(t, repo.MarkFailed(ctx, first.ID, "engine timeout"))
	_, err = repo.CreatePending(ctx, post.ID, v1.ID, enums.TriggerManual, "")
	assert.NoError(t, err)
}

// TestMarkCompleted 验证结果写入与终态守卫:
// 二次写入返回已终态错误，不存在的评审返回未找到。
func TestMarkCompleted(t *testing.T) {
	db := newTestDB(t)
	repo := NewAiReviewRepository(db, newTestLogger(t))
	ctx := context.Background()

	post := seedPost(t, db, enums.CategoryPaper, "author-1")
	v1 := seedVersion(t, db, post.ID, 1)
	review, err := repo.CreatePending(ctx, post.ID, v1.ID, enums.TriggerAutoCreate, "")
	require.NoError(t, err)

	scores := [5]*int{intPtr(4), intPtr(5), nil, intPtr(3), intPtr(4)}
	err = repo.MarkCompleted(ctx, review.ID, enums.DecisionMinorRevision, scores,
		"结构清晰但实验不足", "建议补充消融实验", `["缺少基线对比"]`, `["选题新颖"]`, `{"raw":true}`)
	require.NoError(t, err)

	stored, err := repo.GetReviewByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ReviewStatusCompleted, stored.Status)
	decision, ok := stored.DecisionEnum()
	require.True(t, ok)
	assert.Equal(t, enums.DecisionMinorRevision, decision)
	assert.Equal(t, int64(4), stored.ScoreOriginality.Int64)
	assert.Equal(t, int64(5), stored.ScoreMethodology.Int64)
	assert.False(t, stored.ScoreClarity.Valid)
	assert.Equal(t, int64(3), stored.ScoreRelevance.Int64)
	assert.Equal(t, int64(4), stored.ScoreOverall.Int64)
	assert.Equal(t, "结构清晰但实验不足", stored.EditorialSummary.String)
	assert.Equal(t, `["缺少基线对比"]`, stored.Issues)
	assert.True(t, stored.CompletedAt.Valid)
	assert.True(t, stored.Terminal())

	// 终态只允许写入一次
	err = repo.MarkCompleted(ctx, review.ID, enums.DecisionAccept, [5]*int{}, "", "", "", "", "")
	assert.ErrorIs(t, err, myErrors.ErrReviewAlreadyTerminal)
	err = repo.MarkFailed(ctx, review.ID, "late failure")
	assert.ErrorIs(t, err, myErrors.ErrReviewAlreadyTerminal)

	err = repo.MarkCompleted(ctx, 99999, enums.DecisionAccept, [5]*int{}, "", "", "", "", "")
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}

// TestMarkFailed 失败终态记录错误信息。
func TestMarkFailed(t *testing.T) {
	db := newTestDB(t)
	repo := NewAiReviewRepository(db, newTestLogger(t))
	ctx := context.Background()

	post := seedPost(t, db, enums.CategoryPaper, "author-1")
	v1 := seedVersion(t, db, post.ID, 1)
	review, err := repo.CreatePending(ctx, post.ID, v1.ID, enums.TriggerAutoCreate, "")
	require.NoError(t, err)

	require.NoError(t, repo.MarkFailed(ctx, review.ID, "engine unavailable"))

	stored, err := repo.GetReviewByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ReviewStatusFailed, stored.Status)
	require.True(t, stored.ErrorMessage.Valid)
	assert.Equal(t, "engine unavailable", stored.ErrorMessage.String)
	assert.False(t, stored.Decision.Valid)
}

// TestGetLatestReviewQueries 最近评审按创建顺序取最后一条，completed 查询跳过失败记录。
func TestGetLatestReviewQueries(t *testing.T) {
	db := newTestDB(t)
	repo := NewAiReviewRepository(db, newTestLogger(t))
	ctx := context.Background()

	post := seedPost(t, db, enums.CategoryPaper, "author-1")
	v1 := seedVersion(t, db, post.ID, 1)

	first, err := repo.CreatePending(ctx, post.ID, v1.ID, enums.TriggerAutoCreate, "")
	require.NoError(t, err)
	require.NoError(t, repo.MarkCompleted(ctx, first.ID, enums.DecisionMajorRevision, [5]*int{}, "", "", "", "", ""))

	second, err := repo.CreatePending(ctx, post.ID, v1.ID, enums.TriggerManual, "")
	require.NoError(t, err)
	require.NoError(t, repo.MarkFailed(ctx, second.ID, "timeout"))

	latest, err := repo.GetLatestByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	completed, err := repo.GetLatestCompletedByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, completed.ID)

	history, total, err := repo.ListByPostID(ctx, post.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
}

// TestListStalePending 只返回创建时间早于阈值的 pending 记录。
func TestListStalePending(t *testing.T) {
	db := newTestDB(t)
	repo := NewAiReviewRepository(db, newTestLogger(t))
	ctx := context.Background()

	post := seedPost(t, db, enums.CategoryPaper, "author-1")
	v1 := seedVersion(t, db, post.ID, 1)
	stale, err := repo.CreatePending(ctx, post.ID, v1.ID, enums.TriggerAutoCreate, "")
	require.NoError(t, err)

	// 回拨创建时间，模拟长时间滞留
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&entities.AiReview{}).
		Where("id = ?", stale.ID).
		Update("created_at", old).Error)

	other := seedPost(t, db, enums.CategoryPaper, "author-2")
	v2 := seedVersion(t, db, other.ID, 1)
	_, err = repo.CreatePending(ctx, other.ID, v2.ID, enums.TriggerAutoCreate, "")
	require.NoError(t, err)

	rows, err := repo.ListStalePending(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, stale.ID, rows[0].ID)
}

// TestReviewAggregates 验证指标聚合: 状态分布、结论分布与总体评分均值。
func TestReviewAggregates(t *testing.T) {
	db := newTestDB(t)
	repo := NewAiReviewRepository(db, newTestLogger(t))
	ctx := context.Background()

	// 无任何评审时均值为空
	avg, err := repo.AvgOverallScore(ctx)
	require.NoError(t, err)
	assert.Nil(t, avg)

	for i := 0; i < 3; i++ {
		post := seedPost(t, db, enums.CategoryPaper, "author-1")
		v := seedVersion(t, db, post.ID, 1)
		review, createErr := repo.CreatePending(ctx, post.ID, v.ID, enums.TriggerAutoCreate, "")
		require.NoError(t, createErr)
		switch i {
		case 0:
			require.NoError(t, repo.MarkCompleted(ctx, review.ID, enums.DecisionAccept,
				[5]*int{nil, nil, nil, nil, intPtr(4)}, "", "", "", "", ""))
		case 1:
			require.NoError(t, repo.MarkCompleted(ctx, review.ID, enums.DecisionAccept,
				[5]*int{nil, nil, nil, nil, intPtr(2)}, "", "", "", "", ""))
		case 2:
			require.NoError(t, repo.MarkFailed(ctx, review.ID, "timeout"))
		}
	}

	statusRows, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	statusCounts := make(map[enums.ReviewStatus]int64, len(statusRows))
	for _, row := range statusRows {
		statusCounts[row.Status] = row.Count
	}
	assert.Equal(t, int64(2), statusCounts[enums.ReviewStatusCompleted])
	assert.Equal(t, int64(1), statusCounts[enums.ReviewStatusFailed])

	decisionRows, err := repo.CountByDecision(ctx)
	require.NoError(t, err)
	require.Len(t, decisionRows, 1)
	assert.Equal(t, enums.DecisionAccept, decisionRows[0].Decision)
	assert.Equal(t, int64(2), decisionRows[0].Count)

	avg, err = repo.AvgOverallScore(ctx)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 3.0, *avg, 0.0001)
}
