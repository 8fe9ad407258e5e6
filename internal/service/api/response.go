package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuccessResponse 명령 접수 성공 시 반환하는 응답 본문입니다.
//
// 명령은 비동기로 처리되므로, 이 응답은 "접수되었음"만을 의미합니다.
// 처리 결과(중복 작업, 작업 없음 등)는 에러 웹훅을 통해 별도로 전달됩니다.
type SuccessResponse struct {
	Result    string `json:"result"`
	RequestID string `json:"request_id"`
}

// ErrorResponse 요청 처리 실패 시 반환하는 응답 본문입니다.
type ErrorResponse struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

// newAcceptedResponse 202 Accepted 응답을 반환합니다.
func newAcceptedResponse(c echo.Context, requestID string) error {
	return c.JSON(http.StatusAccepted, SuccessResponse{
		Result:    "accepted",
		RequestID: requestID,
	})
}

// newBadRequestError 400 Bad Request 에러를 생성합니다.
func newBadRequestError(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}

// newUnauthorizedError 401 Unauthorized 에러를 생성합니다.
func newUnauthorizedError(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, message)
}

// newServiceUnavailableError 503 Service Unavailable 에러를 생성합니다.
func newServiceUnavailableError(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusServiceUnavailable, message)
}

// newTooManyRequestsError 429 Too Many Requests 에러를 생성합니다.
func newTooManyRequestsError(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusTooManyRequests, message)
}

// httpErrorHandler 모든 HTTP 에러를 일관된 JSON 형식으로 변환하는 전역 에러 핸들러입니다.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "서버 내부 오류가 발생했습니다"

	if httpErr, ok := err.(*echo.HTTPError); ok {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	_ = c.JSON(code, ErrorResponse{
		Result:  "error",
		Message: message,
	})
}
