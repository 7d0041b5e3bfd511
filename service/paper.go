package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/paper_service/constant"
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

// PaperService 定义了论文工作流的核心业务逻辑接口。
type PaperService interface {
	// CreatePaper 处理用户创建帖子的业务流程。
	// - 非论文类别（普通帖子/讨论）创建即发布。
	// - 论文类别: 草稿只写实时行；正式提交额外生成 1 号版本快照、
	//   置状态为 submitted 并自动发起一次评审（auto_create）。
	// - 附件（如 PDF）上传到 COS，数据库只存对象键。
	CreatePaper(ctx context.Context, req *dto.CreatePaperRequest, authorID string, attachment *multipart.FileHeader) (*vo.SubmitPaperResultVO, error)

	// UpdatePaper 处理编辑帖子的业务流程。
	// - 实时行立即更新，读者马上看到新内容；已发布标记不受编辑影响。
	// - 论文存为草稿时状态回到 draft，不生成版本快照。
	// - 论文类别的正式提交生成下一个版本快照并触发评审（auto_update）；
	//   并发提交的败者收到 myErrors.ErrVersionConflict，由调用方重试。
	UpdatePaper(ctx context.Context, postID uint64, req *dto.UpdatePaperRequest, userID string, isAdmin bool, attachment *multipart.FileHeader) (*vo.SubmitPaperResultVO, error)

	// PublishPaper 作者显式发布 accepted 状态的论文。
	// - 首次发布写入 published_at；重新发布已发布过的论文不刷新该时间。
	PublishPaper(ctx context.Context, postID uint64, userID string, isAdmin bool) (*vo.PublishPaperResultVO, error)

	// GetPaper 获取单个帖子。
	// - 未发布的论文只有作者与管理员可见，返回 myErrors.ErrNotAuthorized。
	GetPaper(ctx context.Context, postID uint64, userID string, isAdmin bool) (*vo.PaperVO, error)

	// ListMyPapers 分页查询当前用户的帖子，可按工作流状态筛选。
	ListMyPapers(ctx context.Context, authorID string, req *dto.ListMyPapersRequest) (*vo.ListMyPapersVO, error)

	// ListVersions 列出论文的全部版本快照，新版本在前；可见性与 GetPaper 一致。
	ListVersions(ctx context.Context, postID uint64, userID string, isAdmin bool) ([]*vo.PaperVersionVO, error)

	// ListCitations 返回帖子引用的目标ID并集（manual ∪ auto），升序。
	ListCitations(ctx context.Context, postID uint64) ([]uint64, error)

	// GetCitationRank 从 Redis 读取被引用次数排行榜。
	GetCitationRank(ctx context.Context, limit int) ([]*vo.CitationRankItemVO, error)

	// DeletePaper 软删除帖子，仅作者与管理员可执行。
	DeletePaper(ctx context.Context, postID uint64, userID string, isAdmin bool) error
}

// paperService 是 PaperService 接口的具体实现。
type paperService struct {
	postRepo     mysql.PostRepository         // 帖子实时行的 MySQL 操作
	versionRepo  mysql.PaperVersionRepository // 版本快照的 MySQL 操作
	reviewRepo   mysql.AiReviewRepository     // 评审台账的 MySQL 操作
	citationRepo mysql.CitationRepository     // 引用边的 MySQL 操作
	rankRepo     redis.CitationRankRepository // 引用排行榜的 Redis 操作
	extractor    *CitationExtractor           // 引用解析器
	cosClient    dependencies.COSClientInterface
	db           *gorm.DB                // GORM 数据库实例，主要用于事务管理
	kafkaSvc     *producer.KafkaProducer // Kafka 生产者，用于发送送审事件
	logger       *core.ZapLogger
}

// NewPaperService 是 paperService 的构造函数，通过依赖注入初始化服务实例。
// - 这种方式便于单元测试和组件替换。
func NewPaperService(
	db *gorm.DB,
	postRepo mysql.PostRepository,
	versionRepo mysql.PaperVersionRepository,
	reviewRepo mysql.AiReviewRepository,
	citationRepo mysql.CitationRepository,
	rankRepo redis.CitationRankRepository,
	extractor *CitationExtractor,
	cosClient dependencies.COSClientInterface,
	kafkaSvc *producer.KafkaProducer,
	logger *core.ZapLogger,
) PaperService {
	return &paperService{
		postRepo:     postRepo,
		versionRepo:  versionRepo,
		reviewRepo:   reviewRepo,
		citationRepo: citationRepo,
		rankRepo:     rankRepo,
		extractor:    extractor,
		cosClient:    cosClient,
		db:           db,
		kafkaSvc:     kafkaSvc,
		logger:       logger,
	}
}

// generateAttachmentObjectKey 创建一个唯一的 COS 对象键。
// 规则: papers/attachments/YYYYMMDD/userID_uuid.ext
func (s *paperService) generateAttachmentObjectKey(originalFilename string, userID string) string {
	now := time.Now()
	datePrefix := now.Format("20060102")
	randomUUID := uuid.NewString()
	extension := strings.ToLower(filepath.Ext(originalFilename))

	return fmt.Sprintf("%s%s/%s_%s%s",
		constant.COSObjectKeyPrefixPaperAttachments,
		datePrefix,
		userID,
		randomUUID,
		extension,
	)
}

// uploadAttachment 上传附件并返回对象键。attachment 为 nil 时返回空串。
func (s *paperService) uploadAttachment(ctx context.Context, attachment *multipart.FileHeader, userID string) (string, error) {
	if attachment == nil {
		return "", nil
	}
	file, err := attachment.Open()
	if err != nil {
		s.logger.Error("打开附件文件以上传失败",
			zap.String("filename", attachment.Filename),
			zap.Error(err))
		return "", fmt.Errorf("打开附件文件 %s 失败: %w", attachment.Filename, err)
	}
	defer file.Close()

	contentType := attachment.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
		s.logger.Warn("未提供附件的内容类型，使用默认值",
			zap.String("filename", attachment.Filename),
			zap.String("defaultContentType", contentType))
	}

	objectKey := s.generateAttachmentObjectKey(attachment.Filename, userID)
	if _, err := s.cosClient.UploadFile(ctx, objectKey, file, attachment.Size, contentType); err != nil {
		s.logger.Error("上传附件到 COS 失败",
			zap.String("filename", attachment.Filename),
			zap.String("objectKey", objectKey),
			zap.Error(err))
		return "", fmt.Errorf("上传附件 %s 到 COS 失败: %w", attachment.Filename, err)
	}
	return objectKey, nil
}

// resolveCitations 解析显式列表与正文标记，过滤出真实存在的论文目标。
// 返回值: manualIDs（显式列表，已过滤）、autoIDs（正文扫描，已过滤）、二者并集。
func (s *paperService) resolveCitations(ctx context.Context, explicitList, body string, selfID uint64) (manual, auto, union []uint64, err error) {
	manualRaw := s.extractor.ParseExplicitList(explicitList, selfID)
	autoRaw := s.extractor.ExtractFromBody(body, selfID)

	manual, err = s.citationRepo.FilterPaperIDs(ctx, manualRaw)
	if err != nil {
		return nil, nil, nil, err
	}
	auto, err = s.citationRepo.FilterPaperIDs(ctx, autoRaw)
	if err != nil {
		return nil, nil, nil, err
	}
	union = s.extractor.Union(manual, auto)
	return manual, auto, union, nil
}

// CreatePaper 处理帖子创建，论文类别接入版本与评审流程。
func (s *paperService) CreatePaper(ctx context.Context, req *dto.CreatePaperRequest, authorID string, attachment *multipart.FileHeader) (*vo.SubmitPaperResultVO, error) {
	if !req.Category.IsValid() {
		return nil, fmt.Errorf("无效的帖子类别: %d", req.Category)
	}

	// 1. 先上传附件
	objectKey, err := s.uploadAttachment(ctx, attachment, authorID)
	if err != nil {
		return nil, err
	}

	isPaper := req.Category == enums.CategoryPaper
	submitNow := isPaper && !req.IsDraft

	post := &entities.Post{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		AuthorID: authorID,
		Tags:     encodeStringList(req.Tags),
	}
	if req.Summary != "" {
		post.Summary = sql.NullString{String: req.Summary, Valid: true}
	}
	if req.ExternalLink != "" {
		post.ExternalLink = sql.NullString{String: req.ExternalLink, Valid: true}
	}
	if objectKey != "" {
		post.AttachmentPath = sql.NullString{String: objectKey, Valid: true}
		post.AttachmentName = sql.NullString{String: attachment.Filename, Valid: true}
	}

	switch {
	case !isPaper:
		// 非论文类别创建即发布，不走评审流程
		post.PaperStatus = enums.PaperStatusPublished
		post.IsPublished = true
		post.PublishedAt = sql.NullTime{Time: time.Now(), Valid: true}
	case submitNow:
		post.PaperStatus = enums.PaperStatusSubmitted
	default:
		post.PaperStatus = enums.PaperStatusDraft
	}

	// 2. 在事务中写入实时行、引用边，正式提交时再追加版本快照
	var createdVersion *entities.PaperVersion
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if repoErr := s.postRepo.CreatePost(ctx, tx, post); repoErr != nil {
			return fmt.Errorf("创建帖子失败: %w", repoErr)
		}

		manual, auto, union, resolveErr := s.resolveCitations(ctx, req.Citations, req.Body, post.ID)
		if resolveErr != nil {
			return fmt.Errorf("解析引用目标失败: %w", resolveErr)
		}
		if repoErr := s.citationRepo.ReplaceBySource(ctx, tx, post.ID, enums.CitationSourceManual, manual); repoErr != nil {
			return fmt.Errorf("写入手工引用边失败: %w", repoErr)
		}
		if repoErr := s.citationRepo.ReplaceBySource(ctx, tx, post.ID, enums.CitationSourceAuto, auto); repoErr != nil {
			return fmt.Errorf("写入自动引用边失败: %w", repoErr)
		}

		if !submitNow {
			return nil
		}

		version := s.buildVersionSnapshot(post, 1, authorID, union)
		if repoErr := s.versionRepo.CreateVersion(ctx, tx, version); repoErr != nil {
			return fmt.Errorf("创建版本快照失败: %w", repoErr)
		}
		if repoErr := s.postRepo.AdvanceRevision(ctx, tx, post.ID, 0, version.ID); repoErr != nil {
			return fmt.Errorf("推进版本指针失败: %w", repoErr)
		}
		createdVersion = version
		return nil
	})
	if err != nil {
		s.logger.Error("创建帖子事务失败", zap.Error(err))
		// 数据库失败后清理已上传的附件，避免 COS 中残留孤立文件
		if objectKey != "" {
			if cleanupErr := s.cosClient.DeleteObject(context.Background(), objectKey); cleanupErr != nil {
				s.logger.Error("清理孤立的 COS 附件失败", zap.String("objectKey", objectKey), zap.Error(cleanupErr))
			}
		}
		return nil, err
	}

	result := &vo.SubmitPaperResultVO{
		PostID:          post.ID,
		PaperStatus:     post.PaperStatus,
		CurrentRevision: post.CurrentRevision,
	}
	if createdVersion != nil {
		result.CurrentRevision = 1
		reviewID := s.requestReview(ctx, post.ID, createdVersion, enums.TriggerAutoCreate)
		result.ReviewID = reviewID
	}
	return result, nil
}

// UpdatePaper 处理帖子编辑，论文的正式提交生成新版本并触发评审。
func (s *paperService) UpdatePaper(ctx context.Context, postID uint64, req *dto.UpdatePaperRequest, userID string, isAdmin bool, attachment *multipart.FileHeader) (*vo.SubmitPaperResultVO, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID && !isAdmin {
		return nil, myErrors.ErrNotAuthorized
	}

	// 1. 附件变更: 新文件覆盖旧附件；RemoveAttachment 清空
	newObjectKey, err := s.uploadAttachment(ctx, attachment, post.AuthorID)
	if err != nil {
		return nil, err
	}
	oldObjectKey := ""
	if post.AttachmentPath.Valid {
		oldObjectKey = post.AttachmentPath.String
	}

	attachmentPath := post.AttachmentPath
	attachmentName := post.AttachmentName
	switch {
	case newObjectKey != "":
		attachmentPath = sql.NullString{String: newObjectKey, Valid: true}
		attachmentName = sql.NullString{String: attachment.Filename, Valid: true}
	case req.RemoveAttachment:
		attachmentPath = sql.NullString{}
		attachmentName = sql.NullString{}
	}

	isPaper := post.Category == enums.CategoryPaper
	submitNow := isPaper && !req.IsDraft
	observedRevision := post.CurrentRevision

	fields := map[string]interface{}{
		"title":           req.Title,
		"body":            req.Body,
		"summary":         nullStringOrNil(req.Summary),
		"external_link":   nullStringOrNil(req.ExternalLink),
		"tags":            encodeStringList(req.Tags),
		"attachment_path": attachmentPath,
		"attachment_name": attachmentName,
	}

	// 2. 事务: 实时行 + 引用边，正式提交时追加版本快照与 CAS 推进
	var createdVersion *entities.PaperVersion
	var newStatus = post.PaperStatus
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if repoErr := s.postRepo.UpdateEditableFields(ctx, tx, postID, fields); repoErr != nil {
			return repoErr
		}

		manual, auto, union, resolveErr := s.resolveCitations(ctx, req.Citations, req.Body, postID)
		if resolveErr != nil {
			return fmt.Errorf("解析引用目标失败: %w", resolveErr)
		}
		if repoErr := s.citationRepo.ReplaceBySource(ctx, tx, postID, enums.CitationSourceManual, manual); repoErr != nil {
			return fmt.Errorf("写入手工引用边失败: %w", repoErr)
		}
		if repoErr := s.citationRepo.ReplaceBySource(ctx, tx, postID, enums.CitationSourceAuto, auto); repoErr != nil {
			return fmt.Errorf("写入自动引用边失败: %w", repoErr)
		}

		if !submitNow {
			// 存为草稿时论文回到 draft 状态；已发布标记与历史版本不受影响
			if isPaper && post.PaperStatus != enums.PaperStatusDraft {
				if repoErr := s.postRepo.UpdatePaperStatus(ctx, tx, postID, enums.PaperStatusDraft); repoErr != nil {
					return repoErr
				}
				newStatus = enums.PaperStatusDraft
			}
			return nil
		}

		snapshotSource := &entities.Post{
			Title:          req.Title,
			Body:           req.Body,
			Summary:        sql.NullString{String: req.Summary, Valid: req.Summary != ""},
			ExternalLink:   sql.NullString{String: req.ExternalLink, Valid: req.ExternalLink != ""},
			Tags:           encodeStringList(req.Tags),
			AttachmentPath: attachmentPath,
			AttachmentName: attachmentName,
		}
		snapshotSource.ID = postID

		version := s.buildVersionSnapshot(snapshotSource, observedRevision+1, userID, union)
		if repoErr := s.versionRepo.CreateVersion(ctx, tx, version); repoErr != nil {
			return fmt.Errorf("创建版本快照失败: %w", repoErr)
		}
		if repoErr := s.postRepo.AdvanceRevision(ctx, tx, postID, observedRevision, version.ID); repoErr != nil {
			// ErrVersionConflict 原样上抛，调用方用新状态重试
			return repoErr
		}
		// 重新提交回到 submitted，等待新一轮评审结果；已发布标记不受影响
		if repoErr := s.postRepo.UpdatePaperStatus(ctx, tx, postID, enums.PaperStatusSubmitted); repoErr != nil {
			return repoErr
		}
		newStatus = enums.PaperStatusSubmitted
		createdVersion = version
		return nil
	})
	if err != nil {
		if errors.Is(err, myErrors.ErrVersionConflict) {
			s.logger.Warn("编辑提交遇到并发版本冲突",
				zap.Uint64("postID", postID),
				zap.Uint64("observedRevision", observedRevision))
		} else {
			s.logger.Error("编辑帖子事务失败", zap.Error(err), zap.Uint64("postID", postID))
		}
		// 事务失败时清理本次上传的新附件
		if newObjectKey != "" {
			if cleanupErr := s.cosClient.DeleteObject(context.Background(), newObjectKey); cleanupErr != nil {
				s.logger.Error("清理孤立的 COS 附件失败", zap.String("objectKey", newObjectKey), zap.Error(cleanupErr))
			}
		}
		return nil, err
	}

	// 3. 事务成功后，异步清理被替换/移除的旧附件
	if oldObjectKey != "" && (newObjectKey != "" || req.RemoveAttachment) {
		go func(key string) {
			if cleanupErr := s.cosClient.DeleteObject(context.Background(), key); cleanupErr != nil {
				s.logger.Error("删除被替换的 COS 附件失败", zap.String("objectKey", key), zap.Error(cleanupErr))
			}
		}(oldObjectKey)
	}

	result := &vo.SubmitPaperResultVO{
		PostID:          postID,
		PaperStatus:     newStatus,
		CurrentRevision: observedRevision,
	}
	if createdVersion != nil {
		result.CurrentRevision = observedRevision + 1
		reviewID := s.requestReview(ctx, postID, createdVersion, enums.TriggerAutoUpdate)
		result.ReviewID = reviewID
	}
	return result, nil
}

// buildVersionSnapshot 从帖子的当前内容构造一条不可变版本快照。
func (s *paperService) buildVersionSnapshot(post *entities.Post, versionNumber uint64, submitterID string, citedIDs []uint64) *entities.PaperVersion {
	return &entities.PaperVersion{
		PostID:          post.ID,
		VersionNumber:   versionNumber,
		Title:           post.Title,
		Body:            post.Body,
		Summary:         post.Summary,
		ExternalLink:    post.ExternalLink,
		AttachmentPath:  post.AttachmentPath,
		AttachmentName:  post.AttachmentName,
		Tags:            post.Tags,
		CitationTargets: encodeIDList(citedIDs),
		SubmitterID:     submitterID,
		SubmittedAt:     time.Now(),
	}
}

// requestReview 为新版本创建 pending 评审并异步发送送审事件。
// - 已存在 pending 评审时跳过（自动触发不报错，旧评审完成后因版本不匹配不会影响状态）。
// - 返回新建的评审ID；跳过或失败时返回 nil，不阻断提交主流程。
func (s *paperService) requestReview(ctx context.Context, postID uint64, version *entities.PaperVersion, trigger enums.ReviewTrigger) *uint64 {
	snapshot := buildSnapshotEventData(postID, version, s.cosClient)
	payload, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Error("序列化送审快照失败", zap.Error(err), zap.Uint64("postID", postID))
		payload = []byte("{}")
	}

	review, err := s.reviewRepo.CreatePending(ctx, postID, version.ID, trigger, string(payload))
	if err != nil {
		if errors.Is(err, myErrors.ErrReviewAlreadyInProgress) {
			s.logger.Warn("已存在 pending 评审，本次提交不再发起新评审",
				zap.Uint64("postID", postID),
				zap.Uint64("versionID", version.ID))
		} else {
			s.logger.Error("创建 pending 评审失败", zap.Error(err), zap.Uint64("postID", postID))
		}
		return nil
	}

	go func(reviewID uint64, paper events.PaperSnapshotData) {
		bgCtx := context.Background()
		if kafkaErr := s.kafkaSvc.SendReviewRequestedEvent(bgCtx, reviewID, paper); kafkaErr != nil {
			s.logger.Error("发送 Kafka 送审事件失败", zap.Error(kafkaErr), zap.Uint64("review_id", reviewID))
		} else {
			s.logger.Info("成功发送 Kafka 送审事件", zap.Uint64("review_id", reviewID))
		}
	}(review.ID, snapshot)

	reviewID := review.ID
	return &reviewID
}

// PublishPaper 实现作者显式发布。
func (s *paperService) PublishPaper(ctx context.Context, postID uint64, userID string, isAdmin bool) (*vo.PublishPaperResultVO, error) {
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

	published, err := s.postRepo.PublishPost(ctx, postID)
	if err != nil {
		if errors.Is(err, myErrors.ErrNotAccepted) {
			s.logger.Warn("发布被拒绝: 论文不在 accepted 状态",
				zap.Uint64("postID", postID),
				zap.String("paperStatus", post.PaperStatus.String()))
		}
		return nil, err
	}

	result := &vo.PublishPaperResultVO{
		PostID:      published.ID,
		IsPublished: published.IsPublished,
	}
	if published.PublishedAt.Valid {
		t := published.PublishedAt.Time
		result.PublishedAt = &t
	}
	return result, nil
}

// GetPaper 实现单帖查询与可见性控制。
func (s *paperService) GetPaper(ctx context.Context, postID uint64, userID string, isAdmin bool) (*vo.PaperVO, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("帖子未找到", zap.Uint64("postID", postID))
		}
		return nil, err
	}
	if err := canViewPost(post, userID, isAdmin); err != nil {
		return nil, err
	}

	attachmentURL := ""
	if post.AttachmentPath.Valid {
		attachmentURL = s.cosClient.GetObjectURL(post.AttachmentPath.String)
	}
	return vo.NewPaperVOFromEntity(post, attachmentURL), nil
}

// ListMyPapers 实现当前用户的帖子分页查询。
func (s *paperService) ListMyPapers(ctx context.Context, authorID string, req *dto.ListMyPapersRequest) (*vo.ListMyPapersVO, error) {
	offset := (req.Page - 1) * req.PageSize
	posts, total, err := s.postRepo.ListByAuthor(ctx, authorID, req.PaperStatus, offset, req.PageSize)
	if err != nil {
		return nil, err
	}

	papers := make([]*vo.PaperVO, 0, len(posts))
	for _, post := range posts {
		attachmentURL := ""
		if post.AttachmentPath.Valid {
			attachmentURL = s.cosClient.GetObjectURL(post.AttachmentPath.String)
		}
		papers = append(papers, vo.NewPaperVOFromEntity(post, attachmentURL))
	}
	return &vo.ListMyPapersVO{Papers: papers, Total: total}, nil
}

// ListVersions 实现版本历史查询。
func (s *paperService) ListVersions(ctx context.Context, postID uint64, userID string, isAdmin bool) ([]*vo.PaperVersionVO, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := canViewPost(post, userID, isAdmin); err != nil {
		return nil, err
	}

	versions, err := s.versionRepo.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	out := make([]*vo.PaperVersionVO, 0, len(versions))
	for _, version := range versions {
		out = append(out, vo.NewPaperVersionVOFromEntity(version))
	}
	return out, nil
}

// ListCitations 实现引用目标并集查询。
func (s *paperService) ListCitations(ctx context.Context, postID uint64) ([]uint64, error) {
	if _, err := s.postRepo.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.citationRepo.ListCitedIDs(ctx, postID)
}

// GetCitationRank 实现排行榜读取。
func (s *paperService) GetCitationRank(ctx context.Context, limit int) ([]*vo.CitationRankItemVO, error) {
	if limit <= 0 || limit > constant.CitationRankSize {
		limit = constant.CitationRankSize
	}
	return s.rankRepo.GetTopCited(ctx, limit)
}

// DeletePaper 实现帖子软删除。
func (s *paperService) DeletePaper(ctx context.Context, postID uint64, userID string, isAdmin bool) error {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID && !isAdmin {
		return myErrors.ErrNotAuthorized
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.postRepo.DeletePost(ctx, tx, postID)
	})
	if err != nil {
		s.logger.Error("软删除帖子失败", zap.Error(err), zap.Uint64("postID", postID))
		return err
	}
	s.logger.Info("帖子已软删除", zap.Uint64("postID", postID))
	return nil
}

// canViewPost 可见性规则: 已发布的帖子任何已登录用户可见；
// 未发布的只有作者与管理员可见。
func canViewPost(post *entities.Post, userID string, isAdmin bool) error {
	if post.IsPublished {
		if userID == "" {
			return myErrors.ErrNotAuthorized
		}
		return nil
	}
	if isAdmin || (userID != "" && post.AuthorID == userID) {
		return nil
	}
	return myErrors.ErrNotAuthorized
}

// nullStringOrNil 空串写 NULL，非空写值，用于 map 形式的字段更新。
func nullStringOrNil(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

// encodeStringList 序列化为 JSON 数组字符串，nil 与空列表统一写 "[]"。
func encodeStringList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

// encodeIDList 序列化ID列表为 JSON 数组字符串。
func encodeIDList(ids []uint64) string {
	if len(ids) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

// decodeJSONStringList 解析 JSON 数组字符串，失败时返回空切片。
func decodeJSONStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	return out
}

// decodeJSONIDList 解析 JSON 数组字符串为ID列表。
func decodeJSONIDList(raw string) []uint64 {
	if raw == "" {
		return []uint64{}
	}
	var out []uint64
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []uint64{}
	}
	return out
}
