package consumer

import (
	"context"
	"testing"

	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/paper_service/models/dto"
	"github.com/Xushengqwer/paper_service/models/enums"
	"github.com/Xushengqwer/paper_service/models/vo"
	"github.com/Xushengqwer/paper_service/myErrors"
)

// fakeReviewService 记录回调调用，按预设错误响应。
type fakeReviewService struct {
	completeCalls []uint64
	lastOutcome   *dto.ReviewOutcome
	failCalls     []uint64
	lastMessage   string
	completeErr   error
	failErr       error
}

func (f *fakeReviewService) StartManualRerun(_ context.Context, _ uint64, _ string, _ bool) (*vo.RerunReviewResultVO, error) {
	return nil, nil
}

func (f *fakeReviewService) CompleteReview(_ context.Context, reviewID uint64, outcome *dto.ReviewOutcome) error {
	f.completeCalls = append(f.completeCalls, reviewID)
	f.lastOutcome = outcome
	return f.completeErr
}

func (f *fakeReviewService) FailReview(_ context.Context, reviewID uint64, message string) error {
	f.failCalls = append(f.failCalls, reviewID)
	f.lastMessage = message
	return f.failErr
}

func (f *fakeReviewService) GetLatestReview(_ context.Context, _ uint64, _ string, _ bool) (*vo.AiReviewVO, error) {
	return nil, nil
}

func (f *fakeReviewService) ListHistory(_ context.Context, _ uint64, _ string, _ bool, _ *dto.ListReviewHistoryRequest) (*vo.ListReviewHistoryVO, error) {
	return nil, nil
}

func newHandlerLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{})
	require.NoError(t, err)
	return logger
}

// TestCompletedHandlerHappyPath 合法消息被解析并转交服务层。
func TestCompletedHandlerHappyPath(t *testing.T) {
	svc := &fakeReviewService{}
	handler := NewReviewCompletedHandler(newHandlerLogger(t), svc)

	payload := `{
		"event_id": "evt-1",
		"review_id": 42,
		"post_id": 7,
		"decision": "minor_revision",
		"score_overall": 3,
		"issues": ["缺少基线"],
		"strengths": ["选题新颖"]
	}`
	err := handler.Handle(context.Background(), kafka.Message{Value: []byte(payload)})
	require.NoError(t, err)
	require.Equal(t, []uint64{42}, svc.completeCalls)
	assert.Equal(t, enums.DecisionMinorRevision, svc.lastOutcome.Decision)
	require.NotNil(t, svc.lastOutcome.ScoreOverall)
	assert.Equal(t, 3, *svc.lastOutcome.ScoreOverall)
	assert.Equal(t, []string{"缺少基线"}, svc.lastOutcome.Issues)
}

// TestCompletedHandlerDropsBadMessages 无法解析或契约外的消息丢弃而不重试。
func TestCompletedHandlerDropsBadMessages(t *testing.T) {
	svc := &fakeReviewService{}
	handler := NewReviewCompletedHandler(newHandlerLogger(t), svc)
	ctx := context.Background()

	// 坏 JSON
	err := handler.Handle(ctx, kafka.Message{Value: []byte(`{not-json`)})
	assert.NoError(t, err)

	// 未知结论
	err = handler.Handle(ctx, kafka.Message{Value: []byte(`{"review_id":1,"decision":"maybe"}`)})
	assert.NoError(t, err)
	assert.Empty(t, svc.completeCalls)

	// 数据级失败不触发重试
	svc.completeErr = myErrors.ErrInvalidScore
	err = handler.Handle(ctx, kafka.Message{Value: []byte(`{"review_id":1,"decision":"accept"}`)})
	assert.NoError(t, err)

	svc.completeErr = myErrors.ErrInvalidDecision
	err = handler.Handle(ctx, kafka.Message{Value: []byte(`{"review_id":1,"decision":"accept"}`)})
	assert.NoError(t, err)

	svc.completeErr = myErrors.ErrReviewAlreadyTerminal
	err = handler.Handle(ctx, kafka.Message{Value: []byte(`{"review_id":1,"decision":"accept"}`)})
	assert.NoError(t, err)
}

// TestCompletedHandlerRetriesTransientErrors 未知错误向上返回，由消费器重试。
func TestCompletedHandlerRetriesTransientErrors(t *testing.T) {
	svc := &fakeReviewService{completeErr: context.DeadlineExceeded}
	handler := NewReviewCompletedHandler(newHandlerLogger(t), svc)

	err := handler.Handle(context.Background(), kafka.Message{Value: []byte(`{"review_id":1,"decision":"accept"}`)})
	assert.Error(t, err)
}

// TestFailedHandler 失败事件落库，缺省原因时补默认文案。
func TestFailedHandler(t *testing.T) {
	svc := &fakeReviewService{}
	handler := NewReviewFailedHandler(newHandlerLogger(t), svc)
	ctx := context.Background()

	err := handler.Handle(ctx, kafka.Message{Value: []byte(`{"review_id":9,"message":"引擎超时"}`)})
	require.NoError(t, err)
	require.Equal(t, []uint64{9}, svc.failCalls)
	assert.Equal(t, "引擎超时", svc.lastMessage)

	err = handler.Handle(ctx, kafka.Message{Value: []byte(`{"review_id":10}`)})
	require.NoError(t, err)
	assert.Equal(t, "评审引擎未提供失败原因", svc.lastMessage)

	// 重复投递的终态冲突丢弃
	svc.failErr = myErrors.ErrReviewAlreadyTerminal
	err = handler.Handle(ctx, kafka.Message{Value: []byte(`{"review_id":11,"message":"x"}`)})
	assert.NoError(t, err)
}
