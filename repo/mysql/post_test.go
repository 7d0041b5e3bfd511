package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/paper_service/models/enums"
	"github.com/Xushengqwer/paper_service/myErrors"
)

// TestGetPostByIDNotFound 不存在的帖子返回统一的未找到错误。
func TestGetPostByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, newTestLogger(t))

	_, err := repo.GetPostByID(context.Background(), 12345)
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}

// TestAdvanceRevision 验证版本指针的 CAS 推进:
// 首次推进成功并写入新指针；持过期计数的第二次推进返回版本冲突。
func TestAdvanceRevision(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, newTestLogger(t))
	ctx := context.Background()

	post := seedPost(t, db, enums.CategoryPaper, "author-1")
	v1 := seedVersion(t, db, post.ID, 1)

	require.NoError(t, repo.AdvanceRevision(ctx, db, post.ID, 0, v1.ID))

	updated, err := repo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), updated.CurrentRevision)
	require.True(t, updated.LatestVersionID.Valid)
	assert.Equal(t, int64(v1.ID), updated.LatestVersionID.Int64)

	// 仍以旧计数 0 尝试推进，应命中 0 行并被判定为并发冲突
	v2 := seedVersion(t, db, post.ID, 2)
	err = repo.AdvanceRevision(ctx, db, post.ID, 0, v2.ID)
	assert.ErrorIs(t, err, myErrors.ErrVersionConflict)

	// 帖子不存在时与并发冲突区分开
	err = repo.AdvanceRevision(ctx, db, 99999, 0, v2.ID)
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}

// TestPublishPost 验证发布守卫: 仅 accepted 可发布，published_at 首次写入后不再改变。
func TestPublishPost(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, newTestLogger(t))
	ctx := context.Background()

	post := seedPost(t, db, enums.CategoryPaper, "author-1")

	// draft 状态不可发布
	_, err := repo.PublishPost(ctx, post.ID)
	assert.ErrorIs(t, err, myErrors.ErrNotAccepted)

	require.NoError(t, repo.UpdatePaperStatus(ctx, db, post.ID, enums.PaperStatusAccepted))

	published, err := repo.PublishPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaperStatusPublished, published.PaperStatus)
	assert.True(t, published.IsPublished)
	require.True(t, published.PublishedAt.Valid)
	firstPublishedAt := published.PublishedAt.Time

	// 重评通过后再次发布，发布时间保持首次写入的值
	require.NoError(t, repo.UpdatePaperStatus(ctx, db, post.ID, enums.PaperStatusAccepted))
	time.Sleep(50 * time.Millisecond)

	republished, err := repo.PublishPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaperStatusPublished, republished.PaperStatus)
	require.True(t, republished.PublishedAt.Valid)
	assert.WithinDuration(t, firstPublishedAt, republished.PublishedAt.Time, 10*time.Millisecond)

	// 已发布状态下再次发布仍被守卫拦截
	_, err = repo.PublishPost(ctx, post.ID)
	assert.ErrorIs(t, err, myErrors.ErrNotAccepted)
}

// TestUpdateEditableFields 内容字段更新不触碰工作流字段。
func TestUpdateEditableFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, newTestLogger(t))
	ctx := context.Background()

	post := seedPost(t, db, enums.CategoryPaper, "author-1")
	require.NoError(t, repo.UpdatePaperStatus(ctx, db, post.ID, enums.PaperStatusSubmitted))

	err := repo.UpdateEditableFields(ctx, db, post.ID, map[string]interface{}{
		"title": "修订后的标题",
		"body":  "修订后的正文",
	})
	require.NoError(t, err)

	updated, err := repo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "修订后的标题", updated.Title)
	assert.Equal(t, "修订后的正文", updated.Body)
	assert.Equal(t, enums.PaperStatusSubmitted, updated.PaperStatus)

	err = repo.UpdateEditableFields(ctx, db, 99999, map[string]interface{}{"title": "x"})
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}

// TestListByAuthor 验证作者列表的状态过滤与分页计数。
func TestListByAuthor(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, newTestLogger(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedPost(t, db, enums.CategoryPaper, "author-1")
	}
	accepted := seedPost(t, db, enums.CategoryPaper, "author-1")
	require.NoError(t, repo.UpdatePaperStatus(ctx, db, accepted.ID, enums.PaperStatusAccepted))
	seedPost(t, db, enums.CategoryPaper, "author-2")

	posts, total, err := repo.ListByAuthor(ctx, "author-1", nil, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, posts, 4)

	status := enums.PaperStatusAccepted
	posts, total, err = repo.ListByAuthor(ctx, "author-1", &status, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, accepted.ID, posts[0].ID)

	// 分页越界返回空列表但总数不变
	posts, total, err = repo.ListByAuthor(ctx, "author-1", nil, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Empty(t, posts)
}

// TestDeletePost 软删除后帖子对查询不可见。
func TestDeletePost(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db, newTestLogger(t))
	ctx := context.Background()

	post := seedPost(t, db, enums.CategoryPaper, "author-1")
	require.NoError(t, repo.DeletePost(ctx, db, post.ID))

	_, err := repo.GetPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}
