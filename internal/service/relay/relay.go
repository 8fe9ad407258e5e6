// Package relay 캐시 채널과 에러 채널의 메시지를 하류 소비자에게 전달하는 Relay 서비스를 제공합니다.
//
// Dispatcher는 기동 대상 작업과 에러 응답을 프로세스 내부 채널에 실어 보낼 뿐,
// 외부 전달 방식은 알지 못합니다. Relay가 두 채널을 소비하여 각 메시지를
// 설정된 웹훅 엔드포인트로 JSON 본문의 HTTP 요청으로 전달합니다.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "github.com/MTenderSourceCode/e-chronograph/internal/pkg/errors"
	"github.com/MTenderSourceCode/e-chronograph/internal/service/contract"
	applog "github.com/MTenderSourceCode/e-chronograph/pkg/log"
)

// component Relay 서비스의 로깅용 컴포넌트 이름
const component = "relay.service"

const (
	// defaultRequestTimeout 웹훅 요청 1회에 대한 기본 타임아웃입니다.
	defaultRequestTimeout = 10 * time.Second

	// defaultMaxRetries 일시적 장애 시 기본 재시도 횟수입니다.
	defaultMaxRetries = 3

	// defaultMinRetryDelay 지수 백오프의 시작 대기 시간입니다.
	defaultMinRetryDelay = 1 * time.Second

	// defaultMaxRetryDelay 지수 백오프 증가 시 대기 시간의 상한입니다.
	defaultMaxRetryDelay = 30 * time.Second
)

// Fetcher 웹훅 요청을 수행하는 인터페이스입니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// Service 캐시 채널과 에러 채널을 소비하여 웹훅으로 전달하는 서비스입니다.
//
// 전달 실패 시 일시적 장애(네트워크 오류, 5xx, 429, 408)에 한해 지수 백오프와
// Jitter를 적용하여 재시도하며, 재시도 횟수를 소진하면 메시지를 폐기하고
// 에러 로그만 남깁니다. 전달 순서는 채널 수신 순서를 따릅니다.
type Service struct {
	// taskEndpoint 기동 작업을 전달할 웹훅 주소입니다.
	taskEndpoint string

	// errorEndpoint 에러 응답을 전달할 웹훅 주소입니다.
	errorEndpoint string

	fetcher Fetcher

	maxRetries    int
	minRetryDelay time.Duration
	maxRetryDelay time.Duration

	// cacheC Dispatcher가 기동 대상 작업을 실어 보내는 수신 채널입니다.
	cacheC <-chan contract.Task

	// errorC Dispatcher가 에러 응답을 실어 보내는 수신 채널입니다.
	errorC <-chan contract.ErrorResponse

	// consumersStopWG 두 소비 고루틴의 종료를 대기하는 WaitGroup
	consumersStopWG *sync.WaitGroup

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Relay 서비스 인스턴스를 생성합니다.
//
// 매개변수:
//   - taskEndpoint: 기동 작업 전달용 웹훅 주소
//   - errorEndpoint: 에러 응답 전달용 웹훅 주소
//   - cacheC: 기동 작업 수신 채널입니다. nil이면 패닉이 발생합니다.
//   - errorC: 에러 응답 수신 채널입니다. nil이면 패닉이 발생합니다.
//   - fetcher: 웹훅 요청을 수행할 클라이언트입니다. nil이면 기본 HTTP 클라이언트를 사용합니다.
func NewService(taskEndpoint, errorEndpoint string, cacheC <-chan contract.Task, errorC <-chan contract.ErrorResponse, fetcher Fetcher) *Service {
	if cacheC == nil {
		panic("캐시 수신 채널(cacheC)은 필수입니다")
	}
	if errorC == nil {
		panic("에러 응답 수신 채널(errorC)은 필수입니다")
	}

	if fetcher == nil {
		fetcher = newDefaultFetcher()
	}

	return &Service{
		taskEndpoint:  taskEndpoint,
		errorEndpoint: errorEndpoint,

		fetcher: fetcher,

		maxRetries:    defaultMaxRetries,
		minRetryDelay: defaultMinRetryDelay,
		maxRetryDelay: defaultMaxRetryDelay,

		cacheC: cacheC,
		errorC: errorC,

		consumersStopWG: &sync.WaitGroup{},

		running:   false,
		runningMu: sync.Mutex{},
	}
}

// ConfigureRetry 재시도 정책을 설정합니다.
//
// maxRetries가 음수이거나 minRetryDelay가 0 이하이면 해당 항목은 기본값을 유지합니다.
// Start 호출 이후의 변경은 지원하지 않습니다.
func (s *Service) ConfigureRetry(maxRetries int, minRetryDelay time.Duration) {
	if maxRetries >= 0 {
		s.maxRetries = maxRetries
	}
	if minRetryDelay > 0 {
		s.minRetryDelay = minRetryDelay
	}
}

// Start Relay 서비스를 시작하고 두 채널의 소비 고루틴을 실행합니다.
//
// 매개변수:
//   - serviceStopCtx: 서비스 종료 신호를 받기 위한 Context
//   - serviceStopWG: 서비스 종료 완료를 알리기 위한 WaitGroup
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: Relay 서비스 초기화 프로세스를 시작합니다")

	if strings.TrimSpace(s.taskEndpoint) == "" {
		serviceStopWG.Done()
		return ErrEmptyTaskEndpoint
	}
	if strings.TrimSpace(s.errorEndpoint) == "" {
		serviceStopWG.Done()
		return ErrEmptyErrorEndpoint
	}

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Relay 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	s.consumersStopWG.Add(2)
	go s.consumeTasks(serviceStopCtx)
	go s.consumeErrorResponses(serviceStopCtx)

	go s.waitForShutdown(serviceStopCtx, serviceStopWG)

	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"task_endpoint":  s.taskEndpoint,
		"error_endpoint": s.errorEndpoint,
	}).Info("서비스 시작 완료: Relay 서비스가 정상적으로 초기화되었습니다")

	return nil
}

// waitForShutdown 서비스의 종료 신호를 감지하고 소비 고루틴의 종료를 대기합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	<-serviceStopCtx.Done()

	applog.WithComponent(component).Info("종료 절차 진입: Relay 서비스 중지 시그널을 수신했습니다")

	s.consumersStopWG.Wait()

	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(component).Info("Relay 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// consumeTasks 캐시 채널의 기동 작업을 순서대로 웹훅에 전달합니다.
func (s *Service) consumeTasks(serviceStopCtx context.Context) {
	defer s.consumersStopWG.Done()

	for {
		select {
		case task, ok := <-s.cacheC:
			if !ok {
				return
			}

			if err := s.deliverJSON(serviceStopCtx, s.taskEndpoint, newTaskPayload(task)); err != nil {
				applog.WithComponentAndFields(component, applog.Fields{
					"request_id": task.RequestID,
					"task_key":   task.Key.String(),
					"error":      err,
				}).Error("기동 작업 전달 실패: 재시도 횟수를 소진하여 메시지를 폐기합니다")
				continue
			}

			applog.WithComponentAndFields(component, applog.Fields{
				"request_id": task.RequestID,
				"task_key":   task.Key.String(),
			}).Debug("기동 작업 전달 완료")

		case <-serviceStopCtx.Done():
			return
		}
	}
}

// consumeErrorResponses 에러 채널의 응답을 순서대로 웹훅에 전달합니다.
func (s *Service) consumeErrorResponses(serviceStopCtx context.Context) {
	defer s.consumersStopWG.Done()

	for {
		select {
		case resp, ok := <-s.errorC:
			if !ok {
				return
			}

			if err := s.deliverJSON(serviceStopCtx, s.errorEndpoint, newErrorPayload(resp)); err != nil {
				applog.WithComponentAndFields(component, applog.Fields{
					"response_kind":  resp.Kind().String(),
					"correlation_id": resp.CorrelationID(),
					"error":          err,
				}).Error("에러 응답 전달 실패: 재시도 횟수를 소진하여 메시지를 폐기합니다")
				continue
			}

			applog.WithComponentAndFields(component, applog.Fields{
				"response_kind":  resp.Kind().String(),
				"correlation_id": resp.CorrelationID(),
			}).Debug("에러 응답 전달 완료")

		case <-serviceStopCtx.Done():
			return
		}
	}
}

// deliverJSON 페이로드를 JSON으로 직렬화하여 엔드포인트에 전달합니다.
//
// 일시적 장애(Unavailable)에 한해 지수 백오프 + Full Jitter로 재시도합니다.
// 같은 본문을 그대로 다시 보내는 전달이므로 수신 측에서 요청 식별자 기반의
// 중복 제거가 가능하며, 재시도를 허용합니다.
func (s *Service) deliverJSON(ctx context.Context, endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return NewErrPayloadMarshalFailed(err)
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			if !s.waitBeforeRetry(ctx, attempt) {
				return ctx.Err()
			}
		}

		lastErr = s.deliverOnce(ctx, endpoint, body)
		if lastErr == nil {
			return nil
		}

		// 일시적 장애가 아니면 재시도해도 결과가 달라지지 않으므로 즉시 반환합니다.
		if !apperrors.Is(lastErr, apperrors.Unavailable) {
			return lastErr
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"endpoint": endpoint,
			"attempt":  attempt + 1,
			"error":    lastErr,
		}).Warn("웹훅 전달 실패: 일시적 장애로 판단되어 재시도합니다")
	}

	return lastErr
}

func (s *Service) deliverOnce(ctx context.Context, endpoint string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return NewErrRequestCreationFailed(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.fetcher.Do(req)
	if err != nil {
		return NewErrDeliveryFailed(err)
	}
	defer func() {
		// 연결 재사용을 위해 남은 본문을 비우고 닫습니다.
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewErrUnexpectedStatus(resp.StatusCode, resp.Status)
	}

	return nil
}

// waitBeforeRetry 지수 백오프 + Full Jitter로 계산된 시간만큼 대기합니다.
//
// 반환값이 false이면 대기 중에 컨텍스트가 취소된 것입니다.
func (s *Service) waitBeforeRetry(ctx context.Context, attempt int) bool {
	delay := s.minRetryDelay << (attempt - 1)
	if delay > s.maxRetryDelay || delay <= 0 {
		delay = s.maxRetryDelay
	}

	// Full Jitter: 동시 재시도가 몰리는 것을 분산합니다.
	delay = time.Duration(rand.Int64N(int64(delay)) + 1)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
