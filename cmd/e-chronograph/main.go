package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MTenderSourceCode/e-chronograph/internal/config"
	"github.com/MTenderSourceCode/e-chronograph/internal/pkg/version"
	"github.com/MTenderSourceCode/e-chronograph/internal/service"
	"github.com/MTenderSourceCode/e-chronograph/internal/service/api"
	"github.com/MTenderSourceCode/e-chronograph/internal/service/contract"
	"github.com/MTenderSourceCode/e-chronograph/internal/service/dispatcher"
	"github.com/MTenderSourceCode/e-chronograph/internal/service/relay"
	"github.com/MTenderSourceCode/e-chronograph/internal/service/storage"
	"github.com/MTenderSourceCode/e-chronograph/internal/service/ticker"
	applog "github.com/MTenderSourceCode/e-chronograph/pkg/log"
	log "github.com/sirupsen/logrus"
)

const banner = `
               _                                                     _
   ___        | |__   _ __  ___   _ __    ___    __ _  _ __  __ _  _ __  | |__
  / _ \ _____ | '_ \ | '__|/ _ \ | '_ \  / _ \  / _' || '__|/ _' || '_ \ | '_ \
 |  __/|_____|| | | || |  | (_) || | | || (_) || (_| || |  | (_| || |_) || | | |
  \___|       |_| |_||_|   \___/ |_| |_| \___/  \__, ||_|   \__,_|| .__/ |_| |_|
                                                |___/             |_|  %s
--------------------------------------------------------------------------------
`

func main() {
	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.Load()
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	// 3. 로그 레벨 최종 확정
	applog.SetDebugMode(appConfig.Debug)

	buildInfo := version.Get()

	// 아스키아트 출력(폰트: standard)
	fmt.Printf(banner, buildInfo.Version)

	applog.WithComponentAndFields("main", log.Fields{
		"version": buildInfo.String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(warning)
	}

	// 작업 저장소를 연다.
	taskStore, err := storage.NewSQLiteTaskStore(appConfig.Storage.Path)
	if err != nil {
		applog.WithComponentAndFields("main", log.Fields{
			"path":  appConfig.Storage.Path,
			"error": err,
		}).Error("작업 저장소 초기화 실패")

		log.Fatal("작업 저장소 초기화 실패로 프로그램을 종료합니다")
	}
	defer taskStore.Close()

	// Dispatcher와 Relay를 잇는 캐시/에러 채널을 생성한다.
	cacheC := make(chan contract.Task, appConfig.Dispatcher.CacheBufferSize)
	errorC := make(chan contract.ErrorResponse, appConfig.Dispatcher.ErrorBufferSize)

	// 서비스를 생성하고 초기화한다.
	dispatcherService := dispatcher.NewService(taskStore, cacheC, errorC, appConfig.Dispatcher.CommandQueueSize)
	tickerService := ticker.NewService(appConfig.Ticker.TimeSpec, appConfig.Ticker.AdvanceDuration(), dispatcherService)
	relayService := relay.NewService(appConfig.Consumer.TaskEndpoint, appConfig.Consumer.ErrorEndpoint, cacheC, errorC, nil)
	relayService.ConfigureRetry(appConfig.HTTPRetry.MaxRetries, appConfig.HTTPRetry.RetryDelayDuration())
	apiService := api.NewService(appConfig, dispatcherService, tickerService, buildInfo)

	// Set up cancellation context and waitgroup
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	// 서비스를 시작한다.
	// Relay가 먼저 채널 소비를 시작한 뒤 Dispatcher가 명령을 받고,
	// 마지막으로 Ticker가 초기 Load를 발행하고 API가 외부 요청을 받는다.
	services := []service.Service{relayService, dispatcherService, tickerService, apiService}
	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields("main", log.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel() // 다른 서비스들도 종료
			serviceStopWG.Wait()

			log.Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
		}
	}

	// Handle sigterm and await termC signal
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC // Blocks here until interrupted

	// Handle shutdown
	applog.WithComponent("main").Info("Shutdown signal received")
	cancel()             // Signal cancellation to context.Context
	serviceStopWG.Wait() // Block here until are workers are done
}
