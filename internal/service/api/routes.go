package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes API 서비스의 라우트를 등록합니다.
//
// 다음 엔드포인트들을 설정합니다:
//   - 시스템 엔드포인트: 서비스 상태 확인(/health) 및 버전 정보(/version) (인증 불필요)
//   - 작업 엔드포인트(/api/v1/tasks): 작업 명령의 접수 (App Key 인증 필요)
func RegisterRoutes(e *echo.Echo, h *Handler, appKey string) {
	registerSystemRoutes(e, h)
	registerTaskRoutes(e, h, appKey)
}

func registerSystemRoutes(e *echo.Echo, h *Handler) {
	e.GET("/health", h.HealthHandler)
	e.GET("/version", h.VersionHandler)
}

func registerTaskRoutes(e *echo.Echo, h *Handler, appKey string) {
	g := e.Group("/api/v1/tasks", requireAppKey(appKey))

	g.POST("", h.ScheduleTaskHandler, validateContentType(echo.MIMEApplicationJSON))
	g.PUT("/:ocid/:phase", h.ReplaceTaskHandler, validateContentType(echo.MIMEApplicationJSON))
	g.DELETE("/:ocid/:phase", h.CancelTaskHandler)
}
