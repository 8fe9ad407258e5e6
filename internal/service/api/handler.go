package api

import (
	"net/http"

	apperrors "github.com/MTenderSourceCode/e-chronograph/internal/pkg/errors"
	"github.com/MTenderSourceCode/e-chronograph/internal/pkg/version"
	"github.com/MTenderSourceCode/e-chronograph/internal/service/contract"
	applog "github.com/MTenderSourceCode/e-chronograph/pkg/log"
	"github.com/labstack/echo/v4"
)

// componentHandler API 핸들러의 로깅용 컴포넌트 이름
const componentHandler = "api.handler"

// WindowProvider 현재 평가 구간을 제공하는 인터페이스입니다. Ticker가 구현합니다.
//
// Schedule/Replace 명령의 즉시 전달 판정에는 명령 생성 시점의 구간이 필요하므로,
// 핸들러가 매 요청마다 이 인터페이스를 통해 구간을 조회하여 명령에 실어 보냅니다.
type WindowProvider interface {
	CurrentWindow() contract.TimeRange
}

// Handler 작업 명령의 접수를 처리하는 API 핸들러입니다.
type Handler struct {
	submitter contract.CommandSubmitter
	windows   WindowProvider
	buildInfo version.Info
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(submitter contract.CommandSubmitter, windows WindowProvider, buildInfo version.Info) *Handler {
	if submitter == nil {
		panic("CommandSubmitter는 필수입니다")
	}
	if windows == nil {
		panic("WindowProvider는 필수입니다")
	}

	return &Handler{
		submitter: submitter,
		windows:   windows,
		buildInfo: buildInfo,
	}
}

// ScheduleTaskHandler 신규 작업의 등록 명령을 접수합니다.
//
// 명령은 비동기로 처리되므로 접수 성공 시 202 Accepted를 반환하며,
// 처리 결과의 실패(중복 작업 등)는 에러 웹훅으로 전달됩니다.
func (h *Handler) ScheduleTaskHandler(c echo.Context) error {
	req := new(ScheduleTaskRequest)
	if err := c.Bind(req); err != nil {
		return newBadRequestError("잘못된 요청 형식입니다")
	}

	cmd := req.toCommand(h.windows.CurrentWindow())

	return h.submit(c, cmd, string(cmd.RequestID))
}

// ReplaceTaskHandler 기존 작업의 기동 시각 교체 명령을 접수합니다.
func (h *Handler) ReplaceTaskHandler(c echo.Context) error {
	req := new(ReplaceTaskRequest)
	if err := c.Bind(req); err != nil {
		return newBadRequestError("잘못된 요청 형식입니다")
	}

	cmd := req.toCommand(c.Param("ocid"), c.Param("phase"), h.windows.CurrentWindow())

	return h.submit(c, cmd, string(cmd.RequestID))
}

// CancelTaskHandler 기존 작업의 취소 명령을 접수합니다.
func (h *Handler) CancelTaskHandler(c echo.Context) error {
	requestID := contract.RequestID(c.QueryParam("request_id"))
	if requestID == "" {
		requestID = contract.NewRequestID()
	}

	cmd := contract.CancelCommand{
		RequestID: requestID,
		Key: contract.TaskKey{
			OCID:  contract.OCID(c.Param("ocid")),
			Phase: contract.Phase(c.Param("phase")),
		},
	}

	return h.submit(c, cmd, string(requestID))
}

// submit 명령을 Dispatcher에 접수하고 결과에 따른 HTTP 응답을 반환합니다.
func (h *Handler) submit(c echo.Context, cmd contract.Command, requestID string) error {
	if err := h.submitter.Submit(c.Request().Context(), cmd); err != nil {
		if apperrors.Is(err, apperrors.InvalidInput) {
			return newBadRequestError(err.Error())
		}

		h.log(c).WithFields(applog.Fields{
			"command_kind": cmd.Kind().String(),
			"request_id":   requestID,
			"error":        err,
		}).Error("명령 접수 실패 (서비스 혼잡 또는 종료 중)")

		return newServiceUnavailableError("현재 서비스가 혼잡하여 요청을 처리할 수 없습니다. 잠시 후 다시 시도해주세요.")
	}

	h.log(c).WithFields(applog.Fields{
		"command_kind": cmd.Kind().String(),
		"request_id":   requestID,
	}).Info("명령 접수 성공")

	return newAcceptedResponse(c, requestID)
}

// HealthHandler 서비스의 동작 여부를 반환합니다.
func (h *Handler) HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// VersionHandler 빌드 및 버전 정보를 반환합니다.
func (h *Handler) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.buildInfo)
}

// log 공통 로깅 필드가 설정된 로거 엔트리를 반환합니다.
func (h *Handler) log(c echo.Context) *applog.Entry {
	return applog.WithComponentAndFields(componentHandler, applog.Fields{
		"endpoint": c.Path(),
	})
}
