package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "github.com/MTenderSourceCode/e-chronograph/internal/pkg/errors"
	"github.com/MTenderSourceCode/e-chronograph/internal/pkg/version"
	"github.com/MTenderSourceCode/e-chronograph/internal/service/contract"
	"github.com/MTenderSourceCode/e-chronograph/internal/service/contract/mocks"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

//==============================================================================
// 테스트 헬퍼
//==============================================================================

// stubWindowProvider 고정된 평가 구간을 반환하는 WindowProvider 테스트 스텁입니다.
type stubWindowProvider struct {
	window contract.TimeRange
}

func (s stubWindowProvider) CurrentWindow() contract.TimeRange {
	return s.window
}

func testWindow() contract.TimeRange {
	return contract.OpenTimeRange(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
}

// newTestContext 핸들러 단위 테스트용 echo.Context를 생성합니다.
func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return echo.New().NewContext(req, rec), rec
}

//==============================================================================
// ScheduleTaskHandler
//==============================================================================

func TestScheduleTaskHandler_Accepted(t *testing.T) {
	t.Parallel()

	submitter := new(mocks.MockCommandSubmitter)
	h := NewHandler(submitter, stubWindowProvider{window: testWindow()}, version.Info{})

	var submitted contract.ScheduleCommand
	submitter.On("Submit", mock.Anything, mock.AnythingOfType("contract.ScheduleCommand")).
		Run(func(args mock.Arguments) {
			submitted = args.Get(1).(contract.ScheduleCommand)
		}).
		Return(nil).
		Once()

	body := `{
		"request_id": "de1ac3b9-7c2f-4a9a-8f61-3b2e0f1e9c55",
		"ocid": "ocds-t1s2t3-MD-1548754100276",
		"phase": "awardPeriod",
		"launch_time": "2025-06-01T11:30:00Z",
		"meta_data": "{\"cpid\":\"MD-1548754100276\"}"
	}`

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/tasks", body)

	err := h.ScheduleTaskHandler(c)

	require.NoError(t, err, "정상 요청은 에러 없이 접수되어야 합니다")
	assert.Equal(t, http.StatusAccepted, rec.Code, "접수 성공 시 202를 반환해야 합니다")
	assert.Contains(t, rec.Body.String(), "de1ac3b9-7c2f-4a9a-8f61-3b2e0f1e9c55", "응답에 요청 ID가 포함되어야 합니다")

	assert.Equal(t, contract.RequestID("de1ac3b9-7c2f-4a9a-8f61-3b2e0f1e9c55"), submitted.RequestID)
	assert.Equal(t, contract.OCID("ocds-t1s2t3-MD-1548754100276"), submitted.Key.OCID)
	assert.Equal(t, contract.Phase("awardPeriod"), submitted.Key.Phase)
	assert.Equal(t, time.Date(2025, 6, 1, 11, 30, 0, 0, time.UTC), submitted.LaunchTime, "기동 시각은 UTC로 정규화되어야 합니다")
	assert.Equal(t, testWindow(), submitted.TimeRange, "명령에는 접수 시점의 평가 구간이 실려야 합니다")

	submitter.AssertExpectations(t)
}

func TestScheduleTaskHandler_GeneratesRequestID(t *testing.T) {
	t.Parallel()

	submitter := new(mocks.MockCommandSubmitter)
	h := NewHandler(submitter, stubWindowProvider{window: testWindow()}, version.Info{})

	var submitted contract.ScheduleCommand
	submitter.On("Submit", mock.Anything, mock.AnythingOfType("contract.ScheduleCommand")).
		Run(func(args mock.Arguments) {
			submitted = args.Get(1).(contract.ScheduleCommand)
		}).
		Return(nil).
		Once()

	body := `{
		"ocid": "ocds-t1s2t3-MD-1548754100276",
		"phase": "awardPeriod",
		"launch_time": "2025-06-01T11:30:00Z",
		"meta_data": "{}"
	}`

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/tasks", body)

	err := h.ScheduleTaskHandler(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.NotEmpty(t, submitted.RequestID, "요청 ID 생략 시 서버가 새로 발급해야 합니다")
	assert.NoError(t, submitted.RequestID.Validate(), "발급된 요청 ID는 유효한 UUID여야 합니다")
}

func TestScheduleTaskHandler_InvalidBody(t *testing.T) {
	t.Parallel()

	submitter := new(mocks.MockCommandSubmitter)
	h := NewHandler(submitter, stubWindowProvider{window: testWindow()}, version.Info{})

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/tasks", `{invalid-json`)

	err := h.ScheduleTaskHandler(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr, "잘못된 본문은 HTTP 에러를 반환해야 합니다")
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestScheduleTaskHandler_InvalidCommand(t *testing.T) {
	t.Parallel()

	submitter := new(mocks.MockCommandSubmitter)
	h := NewHandler(submitter, stubWindowProvider{window: testWindow()}, version.Info{})

	submitter.On("Submit", mock.Anything, mock.Anything).
		Return(apperrors.New(apperrors.InvalidInput, "OCID는 필수입니다")).
		Once()

	// OCID가 비어있는 요청은 Dispatcher의 검증 단계에서 거부됩니다.
	body := `{"phase": "awardPeriod", "launch_time": "2025-06-01T11:30:00Z", "meta_data": "{}"}`

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/tasks", body)

	err := h.ScheduleTaskHandler(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code, "유효하지 않은 명령은 400을 반환해야 합니다")
}

func TestScheduleTaskHandler_SubmitFailure(t *testing.T) {
	t.Parallel()

	submitter := new(mocks.MockCommandSubmitter)
	h := NewHandler(submitter, stubWindowProvider{window: testWindow()}, version.Info{})

	submitter.On("Submit", mock.Anything, mock.Anything).
		Return(apperrors.New(apperrors.Internal, "서비스가 실행중이지 않습니다")).
		Once()

	body := `{"ocid": "ocds-t1s2t3-MD-1548754100276", "phase": "awardPeriod", "launch_time": "2025-06-01T11:30:00Z", "meta_data": "{}"}`

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/tasks", body)

	err := h.ScheduleTaskHandler(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Code, "접수 실패 시 503을 반환해야 합니다")
}

//==============================================================================
// ReplaceTaskHandler
//==============================================================================

func TestReplaceTaskHandler_Accepted(t *testing.T) {
	t.Parallel()

	submitter := new(mocks.MockCommandSubmitter)
	h := NewHandler(submitter, stubWindowProvider{window: testWindow()}, version.Info{})

	var submitted contract.ReplaceCommand
	submitter.On("Submit", mock.Anything, mock.AnythingOfType("contract.ReplaceCommand")).
		Run(func(args mock.Arguments) {
			submitted = args.Get(1).(contract.ReplaceCommand)
		}).
		Return(nil).
		Once()

	body := `{"new_launch_time": "2025-06-02T09:00:00Z", "meta_data": "{\"stage\":\"EV\"}"}`

	c, rec := newTestContext(t, http.MethodPut, "/api/v1/tasks/ocds-t1s2t3-MD-1548754100276/awardPeriod", body)
	c.SetParamNames("ocid", "phase")
	c.SetParamValues("ocds-t1s2t3-MD-1548754100276", "awardPeriod")

	err := h.ReplaceTaskHandler(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	assert.Equal(t, contract.OCID("ocds-t1s2t3-MD-1548754100276"), submitted.Key.OCID, "대상 작업의 OCID는 URL 경로에서 가져와야 합니다")
	assert.Equal(t, contract.Phase("awardPeriod"), submitted.Key.Phase)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), submitted.NewLaunchTime)
	assert.Equal(t, contract.MetaData(`{"stage":"EV"}`), submitted.MetaData)
	assert.NotEmpty(t, submitted.RequestID)
}

//==============================================================================
// CancelTaskHandler
//==============================================================================

func TestCancelTaskHandler_Accepted(t *testing.T) {
	t.Parallel()

	submitter := new(mocks.MockCommandSubmitter)
	h := NewHandler(submitter, stubWindowProvider{window: testWindow()}, version.Info{})

	var submitted contract.CancelCommand
	submitter.On("Submit", mock.Anything, mock.AnythingOfType("contract.CancelCommand")).
		Run(func(args mock.Arguments) {
			submitted = args.Get(1).(contract.CancelCommand)
		}).
		Return(nil).
		Once()

	c, rec := newTestContext(t, http.MethodDelete,
		"/api/v1/tasks/ocds-t1s2t3-MD-1548754100276/awardPeriod?request_id=de1ac3b9-7c2f-4a9a-8f61-3b2e0f1e9c55", "")
	c.SetParamNames("ocid", "phase")
	c.SetParamValues("ocds-t1s2t3-MD-1548754100276", "awardPeriod")

	err := h.CancelTaskHandler(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	assert.Equal(t, contract.RequestID("de1ac3b9-7c2f-4a9a-8f61-3b2e0f1e9c55"), submitted.RequestID, "쿼리로 전달된 요청 ID가 유지되어야 합니다")
	assert.Equal(t, contract.OCID("ocds-t1s2t3-MD-1548754100276"), submitted.Key.OCID)
	assert.Equal(t, contract.Phase("awardPeriod"), submitted.Key.Phase)
}

func TestCancelTaskHandler_GeneratesRequestID(t *testing.T) {
	t.Parallel()

	submitter := new(mocks.MockCommandSubmitter)
	h := NewHandler(submitter, stubWindowProvider{window: testWindow()}, version.Info{})

	var submitted contract.CancelCommand
	submitter.On("Submit", mock.Anything, mock.AnythingOfType("contract.CancelCommand")).
		Run(func(args mock.Arguments) {
			submitted = args.Get(1).(contract.CancelCommand)
		}).
		Return(nil).
		Once()

	c, _ := newTestContext(t, http.MethodDelete, "/api/v1/tasks/ocds-t1s2t3-MD-1548754100276/awardPeriod", "")
	c.SetParamNames("ocid", "phase")
	c.SetParamValues("ocds-t1s2t3-MD-1548754100276", "awardPeriod")

	err := h.CancelTaskHandler(c)

	require.NoError(t, err)
	assert.NoError(t, submitted.RequestID.Validate(), "요청 ID 생략 시 서버가 새로 발급해야 합니다")
}

//==============================================================================
// 시스템 핸들러
//==============================================================================

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	h := NewHandler(new(mocks.MockCommandSubmitter), stubWindowProvider{}, version.Info{})

	c, rec := newTestContext(t, http.MethodGet, "/health", "")

	err := h.HealthHandler(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestVersionHandler(t *testing.T) {
	t.Parallel()

	h := NewHandler(new(mocks.MockCommandSubmitter), stubWindowProvider{}, version.Info{
		Version: "1.2.3",
		Commit:  "abc1234",
	})

	c, rec := newTestContext(t, http.MethodGet, "/version", "")

	err := h.VersionHandler(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1.2.3")
	assert.Contains(t, rec.Body.String(), "abc1234")
}

//==============================================================================
// 생성자 검증
//==============================================================================

func TestNewHandler_PanicsOnNilDependencies(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		NewHandler(nil, stubWindowProvider{}, version.Info{})
	}, "CommandSubmitter가 nil이면 panic이 발생해야 합니다")

	assert.Panics(t, func() {
		NewHandler(new(mocks.MockCommandSubmitter), nil, version.Info{})
	}, "WindowProvider가 nil이면 panic이 발생해야 합니다")
}
