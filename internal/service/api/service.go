package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MTenderSourceCode/e-chronograph/internal/config"
	"github.com/MTenderSourceCode/e-chronograph/internal/pkg/version"
	"github.com/MTenderSourceCode/e-chronograph/internal/service/contract"
	applog "github.com/MTenderSourceCode/e-chronograph/pkg/log"
	"github.com/labstack/echo/v4"
)

// component API 서비스의 로깅용 컴포넌트 이름
const component = "api.service"

// shutdownTimeout Graceful Shutdown 시 최대 대기 시간
const shutdownTimeout = 5 * time.Second

// Service 작업 접수 API 서버의 생명주기를 관리하는 서비스입니다.
//
// 이 서비스는 다음과 같은 역할을 수행합니다:
//   - Echo 기반 HTTP/HTTPS 서버 시작 및 종료
//   - 미들웨어 체인 설정 (PanicRecovery, RequestID, HTTPLogging, RateLimiting 등)
//   - App Key 기반 엔드포인트 인증
//   - 작업 명령(Schedule/Replace/Cancel)의 접수 및 Dispatcher 전달
//   - Graceful Shutdown 지원 (5초 타임아웃)
//
// 서비스는 고루틴으로 실행되며, context를 통해 종료 신호를 받습니다.
type Service struct {
	appConfig *config.AppConfig

	submitter contract.CommandSubmitter
	windows   WindowProvider

	buildInfo version.Info

	running   bool
	runningMu sync.Mutex
}

// NewService Service 인스턴스를 생성합니다.
func NewService(appConfig *config.AppConfig, submitter contract.CommandSubmitter, windows WindowProvider, buildInfo version.Info) *Service {
	if appConfig == nil {
		panic("AppConfig는 필수입니다")
	}
	if submitter == nil {
		panic("CommandSubmitter는 필수입니다")
	}
	if windows == nil {
		panic("WindowProvider는 필수입니다")
	}

	return &Service{
		appConfig: appConfig,

		submitter: submitter,
		windows:   windows,

		buildInfo: buildInfo,

		running:   false,
		runningMu: sync.Mutex{},
	}
}

// Start API 서비스를 시작합니다.
//
// 이 함수는 즉시 반환되며, 실제 서버는 고루틴에서 실행됩니다.
// 서비스가 이미 실행 중이면 경고 로그를 남기고 그대로 반환합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("API 서비스 시작중...")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("API 서비스가 이미 시작되었습니다.")
		return nil
	}

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponent(component).Info("API 서비스 시작됨")

	return nil
}

// runServiceLoop 서비스의 메인 실행 루프입니다.
// 서버 설정, HTTP 서버 시작, Shutdown 대기를 순차적으로 수행합니다.
func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer Echo 서버 인스턴스를 생성하고 모든 설정을 완료합니다.
func (s *Service) setupServer() *echo.Echo {
	h := NewHandler(s.submitter, s.windows, s.buildInfo)

	e := NewHTTPServer(HTTPServerConfig{
		Debug:              s.appConfig.Debug,
		RateLimitPerSecond: s.appConfig.API.RateLimit,
	})

	RegisterRoutes(e, h, s.appConfig.API.AppKey)

	return e
}

// startHTTPServer HTTP/HTTPS 서버를 시작합니다.
//
// 설정에 따라 TLS 활성화 여부를 결정하며, 서버가 종료되면 done 채널을 닫아
// 대기 중인 고루틴에 신호를 보냅니다. 이 함수는 서버가 종료될 때까지 블로킹됩니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	port := s.appConfig.API.ListenPort
	applog.WithComponentAndFields(component, applog.Fields{
		"port": port,
	}).Debug("HTTP 서버 시작중...")

	var err error
	if s.appConfig.API.TLSServer {
		err = e.StartTLS(fmt.Sprintf(":%d", port), s.appConfig.API.TLSCertFile, s.appConfig.API.TLSKeyFile)
	} else {
		err = e.Start(fmt.Sprintf(":%d", port))
	}

	s.handleServerError(err)
}

// handleServerError HTTP 서버 종료 시 반환된 에러를 처리합니다.
// http.ErrServerClosed는 Graceful Shutdown의 정상적인 결과이므로 Info로 기록합니다.
func (s *Service) handleServerError(err error) {
	if err == nil {
		return
	}

	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(component).Info("HTTP 서버가 중지되었습니다.")
		return
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"port":  s.appConfig.API.ListenPort,
		"error": err,
	}).Error("HTTP 서버가 예상치 못한 에러로 종료되었습니다.")
}

// waitForShutdown 종료 신호를 대기하고 Graceful Shutdown을 수행합니다.
// 이 함수는 서비스가 완전히 종료될 때까지 블로킹됩니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(component).Info("API 서비스 중지중...")
	case <-httpServerDone:
		// HTTP 서버가 예기치 않게 종료됨 (포트 바인딩 실패 등)
		// 이미 종료되었으므로 Shutdown 호출 없이 상태만 정리
		applog.WithComponent(component).Error("HTTP 서버가 예기치 않게 종료되어 API 서비스를 중지합니다.")

		s.cleanup()

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Error("HTTP 서버 Shutdown 중에 에러가 발생하였습니다.")
	}

	<-httpServerDone

	s.cleanup()
}

// cleanup 서비스 종료 후 상태를 정리합니다.
func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(component).Info("API 서비스 중지됨")
}
