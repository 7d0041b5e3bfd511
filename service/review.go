package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/paper_service/dependencies"
	"github.com/Xushengqwer/paper_service/models/dto"
	"github.com/Xushengqwer/paper_service/models/entities"
	"github.com/Xushengqwer/paper_service/models/enums"
	"github.com/Xushengqwer/paper_service/models/events"
	"github.com/Xushengqwer/paper_service/models/vo"
	"github.com/Xushengqwer/paper_service/mq/producer"
	"github.com/Xushengqwer/paper_service/myErrors"
	"github.com/Xushengqwer/paper_service/repo/mysql"
	"github.com/Xushengqwer/paper_service/repo/redis"
)

// ReviewService 定义了 AI 评审台账的业务逻辑接口。
type ReviewService interface {
	// StartManualRerun 手动对当前最新版本发起重评。
	// - 不生成新版本，不改变 paper_status。
	// - 帖子尚无版本时返回 myErrors.ErrNoVersion；
	//   已有 pending 评审时返回 myErrors.ErrReviewAlreadyInProgress。
	StartManualRerun(ctx context.Context, postID uint64, userID string, isAdmin bool) (*vo.RerunReviewResultVO, error)

	// CompleteReview 评审引擎成功回调: 校验并写入评审结果。
	// - 结论不在枚举内返回 myErrors.ErrInvalidDecision；
	//   评分越界返回 myErrors.ErrInvalidScore，不截断不落库。
	// - 仅当评审针对的版本仍是帖子最新版本时才推进 paper_status，
	//   过期评审只记录结果，不干扰新一轮提交。
	CompleteReview(ctx context.Context, reviewID uint64, outcome *dto.ReviewOutcome) error

	// FailReview 评审引擎失败回调: 记录错误信息，paper_status 保持不变。
	FailReview(ctx context.Context, reviewID uint64, message string) error

	// GetLatestReview 获取帖子最近一次评审，带 Redis 缓存（轮询场景）。
	GetLatestReview(ctx context.Context, postID uint64, userID string, isAdmin bool) (*vo.AiReviewVO, error)

	// ListHistory 分页查询帖子的评审历史，按时间倒序。
	ListHistory(ctx context.Context, postID uint64, userID string, isAdmin bool, req *dto.ListReviewHistoryRequest) (*vo.ListReviewHistoryVO, error)
}

// reviewService 是 ReviewService 接口的具体实现。
type reviewService struct {
	postRepo    mysql.PostRepository
	versionRepo mysql.PaperVersionRepository
	reviewRepo  mysql.AiReviewRepository
	cacheRepo   redis.ReviewCacheRepository
	cosClient   dependencies.COSClientInterface
	db          *gorm.DB
	kafkaSvc    *producer.KafkaProducer
	logger      *core.ZapLogger
}

// NewReviewService 是 reviewService 的构造函数。
func NewReviewService(
	db *gorm.DB,
	postRepo mysql.PostRepository,
	versionRepo mysql.PaperVersionRepository,
	reviewRepo mysql.AiReviewRepository,
	cacheRepo redis.ReviewCacheRepository,
	cosClient dependencies.COSClientInterface,
	kafkaSvc *producer.KafkaProducer,
	logger *core.ZapLogger,
) ReviewService {
	return &reviewService{
		postRepo:    postRepo,
		versionRepo: versionRepo,
		reviewRepo:  reviewRepo,
		cacheRepo:   cacheRepo,
		cosClient:   cosClient,
		db:          db,
		kafkaSvc:    kafkaSvc,
		logger:      logger,
	}
}

// StartManualRerun 实现手动重评。
func (s *reviewService) StartManualRerun(ctx context.Context, postID uint64, userID string, isAdmin bool) (*vo.RerunReviewResultVO, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID && !isAdmin {
		return nil, myErrors.ErrNotAuthorized
	}
	if post.Category != enums.CategoryPaper {
		return nil, myErrors.ErrNotPaperCategory
	}
	if !post.LatestVersionID.Valid {
		return nil, myErrors.ErrNoVersion
	}

	version, err := s.versionRepo.GetVersionByID(ctx, uint64(post.LatestVersionID.Int64))
	if err != nil {
		return nil, err
	}

	snapshot := buildSnapshotEventData(post.ID, version, s.cosClient)
	payload, marshalErr := json.Marshal(snapshot)
	if marshalErr != nil {
		s.logger.Error("序列化送审快照失败", zap.Error(marshalErr), zap.Uint64("postID", postID))
		payload = []byte("{}")
	}

	review, err := s.reviewRepo.CreatePending(ctx, postID, version.ID, enums.TriggerManual, string(payload))
	if err != nil {
		return nil, err
	}

	// 重评发起后本地缓存已过期
	if cacheErr := s.cacheRepo.InvalidateLatestReview(ctx, postID); cacheErr != nil {
		s.logger.Warn("重评后删除评审缓存失败", zap.Error(cacheErr), zap.Uint64("postID", postID))
	}

	go func(reviewID uint64) {
		bgCtx := context.Background()
		if kafkaErr := s.kafkaSvc.SendReviewRequestedEvent(bgCtx, reviewID, snapshot); kafkaErr != nil {
			s.logger.Error("发送 Kafka 送审事件失败", zap.Error(kafkaErr), zap.Uint64("review_id", reviewID))
		} else {
			s.logger.Info("成功发送 Kafka 送审事件", zap.Uint64("review_id", reviewID))
		}
	}(review.ID)

	return &vo.RerunReviewResultVO{
		ReviewID:       review.ID,
		PaperVersionID: version.ID,
	}, nil
}

// CompleteReview 实现评审成功结果的落库与状态机推进。
func (s *reviewService) CompleteReview(ctx context.Context, reviewID uint64, outcome *dto.ReviewOutcome) error {
	if !outcome.Decision.IsValid() {
		s.logger.Warn("评审回调携带未知结论", zap.Uint64("reviewID", reviewID), zap.Int("decision", int(outcome.Decision)))
		return myErrors.ErrInvalidDecision
	}

	// 评分越界整体拒绝，不截断
	var scores [5]*int
	for i, score := range outcome.Scores() {
		if score != nil && (*score < 1 || *score > 5) {
			s.logger.Warn("评审回调携带越界评分",
				zap.Uint64("reviewID", reviewID),
				zap.Int("score", *score))
			return myErrors.ErrInvalidScore
		}
		scores[i] = score
	}

	issues := encodeStringList(outcome.Issues)
	strengths := encodeStringList(outcome.Strengths)

	if err := s.reviewRepo.MarkCompleted(ctx, reviewID, outcome.Decision, scores,
		outcome.EditorialSummary, outcome.PeerSummary, issues, strengths, outcome.RawPayload); err != nil {
		return err
	}

	review, err := s.reviewRepo.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}

	// 终态已确定，先失效轮询缓存
	if cacheErr := s.cacheRepo.InvalidateLatestReview(ctx, review.PostID); cacheErr != nil {
		s.logger.Warn("评审完成后删除评审缓存失败", zap.Error(cacheErr), zap.Uint64("postID", review.PostID))
	}

	if err := s.applyDecision(ctx, review, outcome.Decision); err != nil {
		return err
	}
	return nil
}

// applyDecision 将评审结论映射为论文状态。
// 仅当评审针对的版本仍是帖子最新版本时才生效；过期评审静默跳过。
func (s *reviewService) applyDecision(ctx context.Context, review *entities.AiReview, decision enums.ReviewDecision) error {
	post, err := s.postRepo.GetPostByID(ctx, review.PostID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			// 帖子在评审期间被删除，结果留在台账即可
			s.logger.Warn("评审完成时帖子已不存在", zap.Uint64("postID", review.PostID))
			return nil
		}
		return err
	}

	if !post.LatestVersionID.Valid || !review.TargetsVersion(uint64(post.LatestVersionID.Int64)) {
		s.logger.Info("过期评审完成，不推进论文状态",
			zap.Uint64("reviewID", review.ID),
			zap.Uint64("postID", review.PostID))
		return nil
	}

	var next enums.PaperStatus
	switch decision {
	case enums.DecisionAccept:
		// 已发布的论文重评通过后保持 published，不降级回 accepted
		if post.PaperStatus == enums.PaperStatusPublished {
			return nil
		}
		next = enums.PaperStatusAccepted
	case enums.DecisionMinorRevision, enums.DecisionMajorRevision:
		next = enums.PaperStatusRevision
	case enums.DecisionReject:
		next = enums.PaperStatusRejected
	default:
		return nil
	}

	if err := s.postRepo.UpdatePaperStatus(ctx, s.db, review.PostID, next); err != nil {
		s.logger.Error("评审完成后推进论文状态失败",
			zap.Error(err),
			zap.Uint64("postID", review.PostID),
			zap.String("next", next.String()))
		return err
	}
	s.logger.Info("评审完成，论文状态已推进",
		zap.Uint64("postID", review.PostID),
		zap.String("decision", decision.String()),
		zap.String("paperStatus", next.String()))
	return nil
}

// FailReview 实现评审失败结果的落库。论文状态保持不变。
func (s *reviewService) FailReview(ctx context.Context, reviewID uint64, message string) error {
	if err := s.reviewRepo.MarkFailed(ctx, reviewID, message); err != nil {
		return err
	}

	review, err := s.reviewRepo.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if cacheErr := s.cacheRepo.InvalidateLatestReview(ctx, review.PostID); cacheErr != nil {
		s.logger.Warn("评审失败后删除评审缓存失败", zap.Error(cacheErr), zap.Uint64("postID", review.PostID))
	}
	s.logger.Info("评审已标记为失败",
		zap.Uint64("reviewID", reviewID),
		zap.String("message", message))
	return nil
}

// GetLatestReview 实现带缓存的最新评审查询（cache-aside）。
func (s *reviewService) GetLatestReview(ctx context.Context, postID uint64, userID string, isAdmin bool) (*vo.AiReviewVO, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := canViewPost(post, userID, isAdmin); err != nil {
		return nil, err
	}

	cached, err := s.cacheRepo.GetLatestReview(ctx, postID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, myErrors.ErrCacheMiss) {
		// Redis 故障时直接回源，不让缓存问题放大为接口错误
		s.logger.Warn("读取评审缓存失败，回源数据库", zap.Error(err), zap.Uint64("postID", postID))
	}

	review, err := s.reviewRepo.GetLatestByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	result := vo.NewAiReviewVOFromEntity(review)

	if cacheErr := s.cacheRepo.SetLatestReview(ctx, postID, result); cacheErr != nil {
		s.logger.Warn("写入评审缓存失败", zap.Error(cacheErr), zap.Uint64("postID", postID))
	}
	return result, nil
}

// ListHistory 实现评审历史的分页查询。
func (s *reviewService) ListHistory(ctx context.Context, postID uint64, userID string, isAdmin bool, req *dto.ListReviewHistoryRequest) (*vo.ListReviewHistoryVO, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := canViewPost(post, userID, isAdmin); err != nil {
		return nil, err
	}

	offset := (req.Page - 1) * req.PageSize
	reviews, total, err := s.reviewRepo.ListByPostID(ctx, postID, offset, req.PageSize)
	if err != nil {
		return nil, err
	}
	return &vo.ListReviewHistoryVO{
		Reviews: vo.MapReviewsToVOs(reviews),
		Total:   total,
	}, nil
}

// buildSnapshotEventData 将版本快照组装为送审事件载荷（服务间共用）。
func buildSnapshotEventData(postID uint64, version *entities.PaperVersion, cosClient dependencies.COSClientInterface) events.PaperSnapshotData {
	snapshot := events.PaperSnapshotData{
		PostID:          postID,
		PaperVersionID:  version.ID,
		VersionNumber:   version.VersionNumber,
		Title:           version.Title,
		Body:            version.Body,
		Tags:            decodeJSONStringList(version.Tags),
		CitationTargets: decodeJSONIDList(version.CitationTargets),
		SubmitterID:     version.SubmitterID,
	}
	if version.Summary.Valid {
		snapshot.Summary = version.Summary.String
	}
	if version.ExternalLink.Valid {
		snapshot.ExternalLink = version.ExternalLink.String
	}
	if version.AttachmentPath.Valid {
		snapshot.AttachmentURL = cosClient.GetObjectURL(version.AttachmentPath.String)
	}
	return snapshot
}
