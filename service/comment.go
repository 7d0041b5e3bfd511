package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/paper_service/models/dto"
	"github.com/Xushengqwer/paper_service/models/entities"
	"github.com/Xushengqwer/paper_service/models/vo"
	"github.com/Xushengqwer/paper_service/myErrors"
	"github.com/Xushengqwer/paper_service/repo/mysql"
)

// CommentService 定义了评审讨论评论的业务逻辑接口。
type CommentService interface {
	// CreateComment 发表评论或回复。
	// - 可见性与帖子一致: 未发布的帖子只有作者与管理员能评论。
	// - 指定版本时校验版本属于该帖子；回复时校验父评论属于同一帖子。
	CreateComment(ctx context.Context, postID uint64, authorID string, isAdmin bool, req *dto.CreateReviewCommentRequest) (*vo.ReviewCommentVO, error)

	// DeleteComment 软删除评论: 行保留为墓碑，子回复不受影响。
	// - 允许操作者: 评论作者、管理员，以及帖子未发布期间的帖子作者。
	DeleteComment(ctx context.Context, commentID uint64, userID string, isAdmin bool) error

	// ListComments 返回帖子的评论树。
	// - 顶层评论最新在前，各层回复按时间正序。
	ListComments(ctx context.Context, postID uint64, userID string, isAdmin bool, req *dto.ListReviewCommentsRequest) (*vo.ListReviewCommentsVO, error)
}

// commentService 是 CommentService 接口的具体实现。
type commentService struct {
	postRepo    mysql.PostRepository
	versionRepo mysql.PaperVersionRepository
	commentRepo mysql.ReviewCommentRepository
	logger      *core.ZapLogger
}

// NewCommentService 是 commentService 的构造函数。
func NewCommentService(
	postRepo mysql.PostRepository,
	versionRepo mysql.PaperVersionRepository,
	commentRepo mysql.ReviewCommentRepository,
	logger *core.ZapLogger,
) CommentService {
	return &commentService{
		postRepo:    postRepo,
		versionRepo: versionRepo,
		commentRepo: commentRepo,
		logger:      logger,
	}
}

// CreateComment 实现评论创建。
func (s *commentService) CreateComment(ctx context.Context, postID uint64, authorID string, isAdmin bool, req *dto.CreateReviewCommentRequest) (*vo.ReviewCommentVO, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := canViewPost(post, authorID, isAdmin); err != nil {
		return nil, err
	}

	comment := &entities.ReviewComment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  req.Content,
	}

	if req.PaperVersionID != nil {
		version, verErr := s.versionRepo.GetVersionByID(ctx, *req.PaperVersionID)
		if verErr != nil {
			return nil, verErr
		}
		if version.PostID != postID {
			s.logger.Warn("评论指向的版本不属于该帖子",
				zap.Uint64("postID", postID),
				zap.Uint64("versionID", *req.PaperVersionID))
			return nil, fmt.Errorf("版本 %d 不属于帖子 %d: %w", *req.PaperVersionID, postID, commonerrors.ErrRepoNotFound)
		}
		comment.PaperVersionID = sql.NullInt64{Int64: int64(*req.PaperVersionID), Valid: true}
	}

	if req.ParentID != nil {
		parent, parentErr := s.commentRepo.GetCommentByID(ctx, *req.ParentID)
		if parentErr != nil {
			return nil, parentErr
		}
		if parent.PostID != postID {
			s.logger.Warn("回复的父评论不属于该帖子",
				zap.Uint64("postID", postID),
				zap.Uint64("parentID", *req.ParentID))
			return nil, fmt.Errorf("父评论 %d 不属于帖子 %d: %w", *req.ParentID, postID, commonerrors.ErrRepoNotFound)
		}
		comment.ParentID = sql.NullInt64{Int64: int64(*req.ParentID), Valid: true}
	}

	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return vo.NewReviewCommentVOFromEntity(comment), nil
}

// DeleteComment 实现评论的墓碑化删除。
func (s *commentService) DeleteComment(ctx context.Context, commentID uint64, userID string, isAdmin bool) error {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}

	allowed := isAdmin || comment.AuthorID == userID
	if !allowed {
		// 帖子作者在未发布阶段可以清理自己帖子下的讨论
		post, postErr := s.postRepo.GetPostByID(ctx, comment.PostID)
		if postErr != nil && !errors.Is(postErr, commonerrors.ErrRepoNotFound) {
			return postErr
		}
		if post != nil && post.AuthorID == userID && !post.IsPublished {
			allowed = true
		}
	}
	if !allowed {
		return myErrors.ErrNotAuthorized
	}

	if comment.IsDeleted {
		// 幂等: 重复删除直接成功
		return nil
	}
	if err := s.commentRepo.MarkDeleted(ctx, commentID); err != nil {
		return err
	}
	s.logger.Info("评审评论已墓碑化",
		zap.Uint64("commentID", commentID),
		zap.String("operator", userID))
	return nil
}

// ListComments 实现评论树查询与组装。
func (s *commentService) ListComments(ctx context.Context, postID uint64, userID string, isAdmin bool, req *dto.ListReviewCommentsRequest) (*vo.ListReviewCommentsVO, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := canViewPost(post, userID, isAdmin); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID, req.PaperVersionID)
	if err != nil {
		return nil, err
	}

	return &vo.ListReviewCommentsVO{
		Comments: assembleCommentTree(comments),
		Total:    int64(len(comments)),
	}, nil
}

// assembleCommentTree 将平铺的评论列表组装为树。
// 输入按 id 升序；顶层倒排为最新在前，回复保持时间正序。
// 父评论不在结果集内的回复（按版本筛选时父子跨版本）提升为顶层展示。
func assembleCommentTree(comments []*entities.ReviewComment) []*vo.ReviewCommentVO {
	nodes := make(map[uint64]*vo.ReviewCommentVO, len(comments))
	for _, comment := range comments {
		nodes[comment.ID] = vo.NewReviewCommentVOFromEntity(comment)
	}

	topLevel := make([]*vo.ReviewCommentVO, 0, len(comments))
	for _, comment := range comments {
		node := nodes[comment.ID]
		if comment.ParentID.Valid {
			if parent, ok := nodes[uint64(comment.ParentID.Int64)]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		topLevel = append(topLevel, node)
	}

	sort.Slice(topLevel, func(i, j int) bool { return topLevel[i].ID > topLevel[j].ID })
	return topLevel
}
