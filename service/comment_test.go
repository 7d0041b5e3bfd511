package service

import (
	"context"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/paper_service/models/dto"
	"github.com/Xushengqwer/paper_service/models/enums"
	"github.com/Xushengqwer/paper_service/models/vo"
	"github.com/Xushengqwer/paper_service/myErrors"
)

// createComment 是测试内的简便封装。
func createComment(t *testing.T, env *testEnv, postID uint64, authorID string, isAdmin bool, req *dto.CreateReviewCommentRequest) *vo.ReviewCommentVO {
	t.Helper()
	comment, err := env.commentSvc.CreateComment(context.Background(), postID, authorID, isAdmin, req)
	require.NoError(t, err)
	return comment
}

// TestCreateCommentVisibility 未发布的帖子只有作者与管理员能评论。
func TestCreateCommentVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.submitPaper(t, "author-1", "")

	_, err := env.commentSvc.CreateComment(ctx, created.PostID, "stranger", false,
		&dto.CreateReviewCommentRequest{Content: "想提前围观"})
	assert.ErrorIs(t, err, myErrors.ErrNotAuthorized)

	createComment(t, env, created.PostID, "author-1", false,
		&dto.CreateReviewCommentRequest{Content: "自己留个备注"})
	createComment(t, env, created.PostID, "admin-1", true,
		&dto.CreateReviewCommentRequest{Content: "管理员可以参与讨论"})

	// 发布后任何已登录用户可以评论
	env.completeReview(t, *created.ReviewID, enums.DecisionAccept)
	_, err = env.paperSvc.PublishPaper(ctx, created.PostID, "author-1", false)
	require.NoError(t, err)

	createComment(t, env, created.PostID, "stranger", false,
		&dto.CreateReviewCommentRequest{Content: "论文写得不错"})
}

// TestCreateCommentVersionValidation 指定的版本必须属于该帖子。
func TestCreateCommentVersionValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	paperA := env.submitPaper(t, "author-1", "")
	paperB := env.submitPaper(t, "author-1", "")

	versionB, err := env.versionRepo.GetLatestByPostID(ctx, paperB.PostID)
	require.NoError(t, err)

	// 其他帖子的版本被拒绝
	_, err = env.commentSvc.CreateComment(ctx, paperA.PostID, "author-1", false,
		&dto.CreateReviewCommentRequest{Content: "指错了版本", PaperVersionID: &versionB.ID})
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)

	versionA, err := env.versionRepo.GetLatestByPostID(ctx, paperA.PostID)
	require.NoError(t, err)

	comment := createComment(t, env, paperA.PostID, "author-1", false,
		&dto.CreateReviewCommentRequest{Content: "针对 v1 的疑问", PaperVersionID: &versionA.ID})
	require.NotNil(t, comment.PaperVersionID)
	assert.Equal(t, versionA.ID, *comment.PaperVersionID)
}

// TestCreateCommentParentValidation 回复的父评论必须属于同一帖子。
func TestCreateCommentParentValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	paperA := env.submitPaper(t, "author-1", "")
	paperB := env.submitPaper(t, "author-1", "")

	parentOnB := createComment(t, env, paperB.PostID, "author-1", false,
		&dto.CreateReviewCommentRequest{Content: "B 帖下的评论"})

	_, err := env.commentSvc.CreateComment(ctx, paperA.PostID, "author-1", false,
		&dto.CreateReviewCommentRequest{Content: "跨帖回复", ParentID: &parentOnB.ID})
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)

	// 不存在的父评论
	missing := uint64(99999)
	_, err = env.commentSvc.CreateComment(ctx, paperA.PostID, "author-1", false,
		&dto.CreateReviewCommentRequest{Content: "回复幽灵", ParentID: &missing})
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}

// TestDeleteCommentPermissions 删除权限:
// 评论作者与管理员总是可以；帖子作者只在未发布阶段可以清理他人评论。
func TestDeleteCommentPermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.submitPaper(t, "author-1", "")

	adminComment := createComment(t, env, created.PostID, "admin-1", true,
		&dto.CreateReviewCommentRequest{Content: "管理员的评论"})

	// 陌生人不可删除
	err := env.commentSvc.DeleteComment(ctx, adminComment.ID, "stranger", false)
	assert.ErrorIs(t, err, myErrors.ErrNotAuthorized)

	// 未发布期间帖子作者可以清理他人评论
	require.NoError(t, env.commentSvc.DeleteComment(ctx, adminComment.ID, "author-1", false))

	// 幂等: 重复删除直接成功
	require.NoError(t, env.commentSvc.DeleteComment(ctx, adminComment.ID, "author-1", false))

	// 发布后帖子作者失去对他人评论的删除权
	env.completeReview(t, *created.ReviewID, enums.DecisionAccept)
	_, err = env.paperSvc.PublishPaper(ctx, created.PostID, "author-1", false)
	require.NoError(t, err)

	readerComment := createComment(t, env, created.PostID, "reader-1", false,
		&dto.CreateReviewCommentRequest{Content: "读者的评论"})

	err = env.commentSvc.DeleteComment(ctx, readerComment.ID, "author-1", false)
	assert.ErrorIs(t, err, myErrors.ErrNotAuthorized)

	// 评论作者本人与管理员仍然可以
	require.NoError(t, env.commentSvc.DeleteComment(ctx, readerComment.ID, "reader-1", false))
}

// TestDeleteCommentKeepsReplies 墓碑化删除保留子回复，内容替换为占位文本。
func TestDeleteCommentKeepsReplies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.submitPaper(t, "author-1", "")

	parent := createComment(t, env, created.PostID, "admin-1", true,
		&dto.CreateReviewCommentRequest{Content: "方法部分有疑问"})
	reply := createComment(t, env, created.PostID, "author-1", false,
		&dto.CreateReviewCommentRequest{Content: "已在修订版中补充", ParentID: &parent.ID})

	require.NoError(t, env.commentSvc.DeleteComment(ctx, parent.ID, "admin-1", true))

	list, err := env.commentSvc.ListComments(ctx, created.PostID, "author-1", false,
		&dto.ListReviewCommentsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)
	require.Len(t, list.Comments, 1)

	tombstone := list.Comments[0]
	assert.Equal(t, parent.ID, tombstone.ID)
	assert.True(t, tombstone.IsDeleted)
	assert.Equal(t, vo.DeletedCommentPlaceholder, tombstone.Content)
	require.Len(t, tombstone.Replies, 1)
	assert.Equal(t, reply.ID, tombstone.Replies[0].ID)
	assert.Equal(t, "已在修订版中补充", tombstone.Replies[0].Content)
}

// TestListCommentsTreeOrder 顶层最新在前，回复时间正序。
func TestListCommentsTreeOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.submitPaper(t, "author-1", "")

	first := createComment(t, env, created.PostID, "author-1", false,
		&dto.CreateReviewCommentRequest{Content: "第一条"})
	second := createComment(t, env, created.PostID, "admin-1", true,
		&dto.CreateReviewCommentRequest{Content: "第二条"})
	replyA := createComment(t, env, created.PostID, "admin-1", true,
		&dto.CreateReviewCommentRequest{Content: "回复一", ParentID: &first.ID})
	replyB := createComment(t, env, created.PostID, "author-1", false,
		&dto.CreateReviewCommentRequest{Content: "回复二", ParentID: &first.ID})

	list, err := env.commentSvc.ListComments(ctx, created.PostID, "author-1", false,
		&dto.ListReviewCommentsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Comments, 2)
	assert.Equal(t, second.ID, list.Comments[0].ID)
	assert.Equal(t, first.ID, list.Comments[1].ID)

	replies := list.Comments[1].Replies
	require.Len(t, replies, 2)
	assert.Equal(t, replyA.ID, replies[0].ID)
	assert.Equal(t, replyB.ID, replies[1].ID)
}

// TestListCommentsVersionFilter 按版本筛选时，父评论不在结果集的回复提升为顶层。
func TestListCommentsVersionFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.submitPaper(t, "author-1", "")
	version, err := env.versionRepo.GetLatestByPostID(ctx, created.PostID)
	require.NoError(t, err)

	general := createComment(t, env, created.PostID, "author-1", false,
		&dto.CreateReviewCommentRequest{Content: "整体评论"})
	versioned := createComment(t, env, created.PostID, "admin-1", true,
		&dto.CreateReviewCommentRequest{Content: "只针对 v1", PaperVersionID: &version.ID})
	orphan := createComment(t, env, created.PostID, "admin-1", true,
		&dto.CreateReviewCommentRequest{Content: "针对 v1 的回复", PaperVersionID: &version.ID, ParentID: &general.ID})

	list, err := env.commentSvc.ListComments(ctx, created.PostID, "author-1", false,
		&dto.ListReviewCommentsRequest{PaperVersionID: &version.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)
	require.Len(t, list.Comments, 2)
	// 父评论未入选，回复提升为顶层；顶层仍按最新在前
	assert.Equal(t, orphan.ID, list.Comments[0].ID)
	assert.Equal(t, versioned.ID, list.Comments[1].ID)
	assert.Empty(t, list.Comments[0].Replies)
}
