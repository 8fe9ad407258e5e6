// Package ticker 주기적으로 적재(Load) 명령을 발행하는 Ticker 서비스를 제공합니다.
//
// Ticker는 Cron 스케줄에 맞춰 평가 구간(Due Window)을 전진시키며, 각 틱마다
// 새로 편입된 구간의 작업을 적재하도록 Dispatcher에 Load 명령을 접수합니다.
// 구간은 서로 겹치지 않으므로 정상 동작 중에는 같은 작업이 두 번 적재되지 않습니다.
package ticker

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MTenderSourceCode/e-chronograph/internal/service/contract"
	"github.com/MTenderSourceCode/e-chronograph/pkg/cronx"
	applog "github.com/MTenderSourceCode/e-chronograph/pkg/log"
)

// component Ticker 서비스의 로깅용 컴포넌트 이름
const component = "ticker.service"

// commandSubmitTimeout 명령 접수 요청 시 최대 대기 시간 (블로킹 방지)
const commandSubmitTimeout = 5 * time.Second

// Ticker 평가 구간을 전진시키며 Load 명령을 발행하는 서비스입니다.
//
// 구간 전진 규칙:
//   - 최초 틱: Open(now + advance) 구간을 발행하여, 프로세스 중단 동안
//     기동 시각이 지나버린 과거의 작업까지 한 번에 적재합니다.
//   - 이후 틱: Closed(직전 상한, now + advance) 구간을 발행합니다.
//     하한 포함 + 상한 배타 규칙 덕분에 인접한 구간은 겹치지도, 비지도 않습니다.
//
// Load 명령 접수에 실패한 틱에서는 상한을 전진시키지 않습니다. 다음 틱의
// 구간이 실패한 구간을 그대로 포함하게 되므로 적재 누락이 발생하지 않습니다.
type Ticker struct {
	timeSpec string

	// advance 구간 상한을 현재 시각보다 얼마나 앞당겨 잡을지 결정하는 선행 시간입니다.
	// 다음 틱 이전에 기동 시각이 도래할 작업들을 미리 적재하기 위한 여유분입니다.
	advance time.Duration

	cron *cron.Cron

	// commandSubmitter Load 명령의 접수를 담당하는 인터페이스입니다.
	commandSubmitter contract.CommandSubmitter

	// windowEnd 지금까지 적재가 완료된 구간의 상한(배타)입니다.
	// 제로 값이면 아직 한 번도 적재가 수행되지 않은 상태입니다.
	windowEnd   time.Time
	windowEndMu sync.Mutex

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Ticker 서비스 인스턴스를 생성합니다.
//
// 매개변수:
//   - timeSpec: 틱 주기를 정의하는 Cron 표현식 (초 단위 필드 포함 6필드)
//   - advance: 구간 상한의 선행 시간입니다. 0 이하이면 패닉이 발생합니다.
//   - submitter: Load 명령을 접수할 인터페이스입니다. nil이면 패닉이 발생합니다.
func NewService(timeSpec string, advance time.Duration, submitter contract.CommandSubmitter) *Ticker {
	if submitter == nil {
		panic("CommandSubmitter는 필수입니다")
	}
	if advance <= 0 {
		panic("적재 선행 시간(advance)은 0보다 커야 합니다")
	}

	return &Ticker{
		timeSpec: timeSpec,

		advance: advance,

		commandSubmitter: submitter,
	}
}

// Start Ticker를 시작하고 Cron 엔진에 틱 스케줄을 등록합니다.
//
// 등록 직후 첫 적재를 즉시 한 번 수행하여, 프로세스 재시작 직후에도
// 기동 시각이 이미 지난 작업들이 다음 틱까지 방치되지 않도록 합니다.
//
// 매개변수:
//   - serviceStopCtx: 서비스 종료 신호를 받기 위한 Context
//   - serviceStopWG: 서비스 종료 완료를 알리기 위한 WaitGroup
func (s *Ticker) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: Ticker 서비스 초기화 프로세스를 시작합니다")

	if err := cronx.Validate(s.timeSpec); err != nil {
		serviceStopWG.Done()
		return ErrInvalidTimeSpec
	}

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Ticker 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// Cron 엔진 초기화
	// - StandardParser: 초 단위 스케줄링 지원 (6개 필드: 초 분 시 일 월 요일)
	// - Recover: Panic 발생 시 복구하여 다음 틱에 영향을 주지 않음
	// - SkipIfStillRunning: 이전 틱이 끝나지 않았으면 다음 틱을 건너뜀
	s.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	if _, err := s.cron.AddFunc(s.timeSpec, s.tick); err != nil {
		serviceStopWG.Done()
		s.cron = nil
		return ErrInvalidTimeSpec
	}

	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"time_spec": s.timeSpec,
		"advance":   s.advance.String(),
	}).Info("서비스 시작 완료: Ticker 서비스가 정상적으로 초기화되었습니다")

	// 첫 적재는 스케줄을 기다리지 않고 즉시 수행합니다.
	go s.tick()

	// 종료 신호 대기 (고루틴)
	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 Ticker를 안전하게 중지합니다.
func (s *Ticker) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("종료 절차 진입: Ticker 서비스 중지 시그널을 수신했습니다")

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Ticker 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// CurrentWindow 지금까지 적재가 완료된 시각의 구간을 반환합니다.
//
// 반환된 구간에 속하는 기동 시각은 이미 일괄 적재가 지나간 시각이므로,
// 그 이후에 등록/교체되는 작업은 즉시 전달 대상이 됩니다. Schedule/Replace
// 명령을 만들어 내는 경계(API)가 이 구간을 명령에 실어 보냅니다.
//
//   - 아직 한 번도 적재가 수행되지 않았으면 Empty 구간을 반환합니다.
//   - 그 외에는 Open(지금까지의 상한) 구간을 반환합니다.
func (s *Ticker) CurrentWindow() contract.TimeRange {
	s.windowEndMu.Lock()
	defer s.windowEndMu.Unlock()

	if s.windowEnd.IsZero() {
		return contract.EmptyTimeRange()
	}
	return contract.OpenTimeRange(s.windowEnd)
}

// tick 평가 구간을 한 칸 전진시키고 해당 구간의 Load 명령을 접수합니다.
func (s *Ticker) tick() {
	newEnd := time.Now().UTC().Add(s.advance)

	s.windowEndMu.Lock()
	prevEnd := s.windowEnd
	s.windowEndMu.Unlock()

	// 시계 역행 등으로 상한이 전진하지 않는 틱은 건너뜁니다.
	if !prevEnd.IsZero() && !newEnd.After(prevEnd) {
		applog.WithComponentAndFields(component, applog.Fields{
			"prev_end": prevEnd,
			"new_end":  newEnd,
		}).Warn("적재 건너뜀: 구간 상한이 전진하지 않았습니다")
		return
	}

	var timeRange contract.TimeRange
	if prevEnd.IsZero() {
		timeRange = contract.OpenTimeRange(newEnd)
	} else {
		timeRange = contract.ClosedTimeRange(prevEnd, newEnd)
	}

	// 명령 접수의 생명주기를 서비스 종료 시그널과 분리하고,
	// 명령 큐 포화 시 무한 대기를 방지하기 위해 타임아웃을 적용합니다.
	ctx, cancel := context.WithTimeout(context.Background(), commandSubmitTimeout)
	defer cancel()

	if err := s.commandSubmitter.Submit(ctx, contract.LoadCommand{TimeRange: timeRange}); err != nil {
		// 상한을 전진시키지 않고 반환합니다. 다음 틱의 구간이 이번 구간을
		// 포함하게 되므로 적재 누락은 발생하지 않습니다.
		applog.WithComponentAndFields(component, applog.Fields{
			"time_range": timeRange.String(),
			"error":      err,
		}).Error("적재 명령 접수 실패: 구간 상한을 전진시키지 않고 다음 틱에 재시도합니다")
		return
	}

	s.windowEndMu.Lock()
	s.windowEnd = newEnd
	s.windowEndMu.Unlock()

	applog.WithComponentAndFields(component, applog.Fields{
		"time_range": timeRange.String(),
	}).Debug("적재 명령 접수 완료: 평가 구간이 전진했습니다")
}
