package dispatcher

import (
	"context"
	"sync"

	"github.com/MTenderSourceCode/e-chronograph/internal/service/contract"
	applog "github.com/MTenderSourceCode/e-chronograph/pkg/log"
)

// component Dispatcher 서비스의 로깅용 컴포넌트 이름
const component = "dispatcher.service"

// defaultQueueSize 명령 수신 채널(commandC)의 기본 버퍼 크기입니다.
// 일시적인 요청 급증 시 이벤트 루프가 처리하기 전까지 명령을 버퍼에 보관하여 블로킹을 줄입니다.
const defaultQueueSize = 10

// Service 명령 처리의 중심이 되는 Dispatcher 서비스입니다.
//
// 이 서비스 인스턴스를 통한 작업 저장소의 모든 쓰기(Create/Replace/Cancel)는
// 단 하나의 이벤트 루프 고루틴에서 수행됩니다. 수신된 명령은 도착 순서 그대로,
// 한 번에 정확히 하나씩 핸들러에서 끝까지 처리되므로 핸들러는 저장소 변경에 대한
// 별도의 잠금이 필요하지 않습니다.
//
// 주요 책임:
//   - 명령 판별자(CommandKind) 기반 핸들러 라우팅
//   - 기동 대상(Due) 작업의 하류 캐시 채널 전달
//   - 도메인 실패(중복 작업, 작업 없음)의 상관관계 에러 응답 회신
//   - 미분류 장애의 로그 기록 및 무시 (Dispatcher 가용성 우선)
type Service struct {
	// store 작업을 영속화하는 저장소입니다. 쓰기 연산은 이벤트 루프에서만 호출됩니다.
	store contract.TaskStore

	// commandC 접수된 명령을 이벤트 루프에 전달하는 수신 채널입니다.
	commandC chan contract.Command

	// cacheC 기동 대상(Due)으로 판정된 작업을 하류 소비자에게 전달하는 송신 채널입니다.
	// 채널이 가득 차면 이벤트 루프가 함께 블로킹되며, 이는 명령 접수를 자연스럽게
	// 조절(Backpressure)하는 의도된 동작입니다.
	cacheC chan<- contract.Task

	// errorC 도메인 실패를 원래 요청자에게 회신하는 에러 응답 송신 채널입니다.
	errorC chan<- contract.ErrorResponse

	running   bool
	runningMu sync.Mutex
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ contract.CommandSubmitter = (*Service)(nil)

// NewService Dispatcher 서비스를 생성합니다.
//
// 생성 시점에는 어떤 명령도 소비하지 않으며, Start() 호출 시점부터 이벤트 루프가 동작합니다.
//
// 매개변수:
//   - store: 작업 저장소 구현체입니다. nil을 전달하면 패닉이 발생합니다.
//   - cacheC: 기동 대상 작업의 송신 채널입니다. nil을 전달하면 패닉이 발생합니다.
//   - errorC: 에러 응답의 송신 채널입니다. nil을 전달하면 패닉이 발생합니다.
//   - queueSize: 명령 수신 채널의 버퍼 크기입니다. 0 이하이면 기본값(10)을 사용합니다.
func NewService(store contract.TaskStore, cacheC chan<- contract.Task, errorC chan<- contract.ErrorResponse, queueSize int) *Service {
	if store == nil {
		panic("TaskStore는 필수입니다")
	}
	if cacheC == nil {
		panic("캐시 송신 채널(cacheC)은 필수입니다")
	}
	if errorC == nil {
		panic("에러 응답 송신 채널(errorC)은 필수입니다")
	}

	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	return &Service{
		store: store,

		commandC: make(chan contract.Command, queueSize),

		cacheC: cacheC,
		errorC: errorC,

		running:   false,
		runningMu: sync.Mutex{},
	}
}

// Start Dispatcher 서비스를 시작하고 이벤트 루프를 준비합니다.
//
// 내부적으로 runEventLoop()를 별도의 고루틴으로 실행하여 수신된 명령을 순차 처리합니다.
// 서비스가 이미 실행 중인 경우에는 경고 로그만 남기고 정상 반환합니다. (멱등성 보장)
//
// 매개변수:
//   - serviceStopCtx: 서비스 종료 신호를 전달받는 컨텍스트입니다.
//     이 컨텍스트가 취소되면 이벤트 루프는 처리 중인 명령을 끝까지 마친 뒤 종료합니다.
//   - serviceStopWG: 서비스 종료 시 이벤트 루프 고루틴이 완전히 종료될 때까지
//     대기하기 위한 WaitGroup입니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: Dispatcher 서비스 초기화 프로세스를 시작합니다")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("Dispatcher 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	s.running = true

	go s.runEventLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponent(component).Info("서비스 시작 완료: Dispatcher 서비스가 정상적으로 초기화되었습니다")

	return nil
}

// runEventLoop 서비스의 메인 이벤트 루프입니다.
//
// 단일 고루틴 안에서 아래 이벤트를 채널로 전달받아 순차적으로 처리하며,
// 두 명령이 동시에 처리되는 일이 없음을 보장합니다:
//
//   - commandC: 접수된 명령 수신 → handleCommand()
//   - serviceStopCtx.Done(): 서비스 종료 신호 수신 → handleStop()
//
// 예기치 않은 패닉으로 인해 이 루프가 종료될 경우 서비스 전체가 마비되므로,
// select 블록을 익명 함수로 감싸고 그 내부에서 recover()로 패닉을 잡습니다.
// 패닉이 발생하더라도 해당 회차의 익명 함수만 종료될 뿐, 외부 for 루프는
// 살아있으므로 다음 명령 처리를 정상적으로 재개합니다.
//
// Note: 이 함수는 블로킹되며, Start()에서 별도의 고루틴으로 실행됩니다.
func (s *Service) runEventLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

loop:
	for {
		// shouldStop = true  → break loop (정상 또는 채널 닫힘으로 인한 종료)
		// shouldStop = false → 다음 명령 처리를 위해 루프 재개
		shouldStop := func() bool {
			defer func() {
				if r := recover(); r != nil {
					applog.WithComponentAndFields(component, applog.Fields{
						"panic":             r,
						"command_queue_len": len(s.commandC), // 대기 중이던 명령 수
					}).Error("Dispatcher 이벤트 루프 치명적 오류 복구: 예기치 않은 패닉 상태에서 회복되어 명령 프로세싱을 재개합니다 (즉각적인 시스템 안정성 점검이 요구됩니다)")
				}
			}()

			select {
			case cmd, ok := <-s.commandC:
				// handleStop()이 commandC를 닫으면 ok=false가 됩니다.
				// 이 시점에 서비스는 이미 종료 처리를 마쳤으므로 루프를 종료합니다.
				if !ok {
					return true // break loop
				}

				s.handleCommand(serviceStopCtx, cmd)

			case <-serviceStopCtx.Done():
				// 시스템 종료 신호 수신 시, 수신 채널을 정리하고 루프를 종료합니다.
				// select에 이미 진입한 명령은 위 case에서 끝까지 처리된 후이므로,
				// 처리 도중의 명령이 중단되는 일은 없습니다.
				s.handleStop()

				return true // break loop
			}

			return false // 루프 재개
		}()

		if shouldStop {
			break loop
		}
	}
}

// handleCommand 수신된 명령을 판별자에 따라 정확히 하나의 핸들러로 라우팅합니다.
//
// 명령의 종류 간에 우선순위나 재정렬은 없으며, 알 수 없는 명령은 에러 로그만 남기고 무시합니다.
func (s *Service) handleCommand(ctx context.Context, cmd contract.Command) {
	if cmd == nil {
		applog.WithComponent(component).Error("명령 처리 무시: nil 명령이 수신되었습니다")
		return
	}

	switch c := cmd.(type) {
	case contract.LoadCommand:
		s.handleLoad(ctx, c)
	case contract.ScheduleCommand:
		s.handleSchedule(ctx, c)
	case contract.ReplaceCommand:
		s.handleReplace(ctx, c)
	case contract.CancelCommand:
		s.handleCancel(ctx, c)
	default:
		applog.WithComponentAndFields(component, applog.Fields{
			"command_kind": cmd.Kind(),
		}).Error("명령 처리 무시: 지원하지 않는 명령 종류가 수신되었습니다")
	}
}

// handleStop 명령 수신을 차단하고 서비스 리소스를 정리합니다.
//
// running = false를 먼저 설정하는 이유:
// Submit() 메서드는 running 플래그를 확인한 후 채널에 전송합니다.
// 만약 running = false 설정 없이 채널을 먼저 닫으면, 다른 고루틴이 닫힌 채널에
// 전송을 시도해 패닉이 발생할 수 있습니다. 뮤텍스를 통해 이 순서를 보장합니다.
// (그럼에도 남는 극히 짧은 경쟁 구간은 Submit()의 defer + recover가 방어합니다)
//
// 수신 채널에 남아있던 미처리 명령은 폐기됩니다. 저장소 변경은 각 핸들러에서
// 성공적으로 반환된 시점에 이미 확정(Committed)되었으므로 롤백하지 않습니다.
func (s *Service) handleStop() {
	applog.WithComponent(component).Info("종료 절차 진입: Dispatcher 서비스 중지 시그널을 수신했습니다")

	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	pending := len(s.commandC)
	close(s.commandC)

	if pending > 0 {
		applog.WithComponentAndFields(component, applog.Fields{
			"discarded_commands": pending,
		}).Warn("Dispatcher 종료: 수신 채널에 남아있던 미처리 명령을 폐기합니다")
	}

	applog.WithComponent(component).Info("Dispatcher 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// Submit 명령을 검증하고 이벤트 루프의 수신 큐에 등록합니다.
//
// 요청은 아래 순서로 검증된 후 큐에 등록됩니다:
//  1. nil 체크 및 명령 유효성 검사 (Fail Fast)
//  2. 서비스 실행 상태 확인
//  3. commandC 채널에 전달 (큐 포화 시 ctx 취소까지 블로킹 대기)
//
// 매개변수:
//   - ctx: 큐가 가득 찼을 때 호출자가 대기를 취소할 수 있는 컨텍스트입니다.
//     ctx가 취소되면 ctx.Err()를 반환합니다.
//   - cmd: 접수할 명령입니다.
//
// 반환값:
//   - nil: 명령이 성공적으로 큐에 등록된 경우
//   - error: 명령이 유효하지 않거나, 서비스가 중지 중이거나, ctx가 취소된 경우
func (s *Service) Submit(ctx context.Context, cmd contract.Command) (err error) {
	if cmd == nil {
		return contract.ErrNilCommand
	}

	if err := cmd.Validate(); err != nil {
		return err
	}

	// handleStop()이 commandC를 닫은 이후에 Submit()이 호출될 경우,
	// 닫힌 채널에 전송을 시도해 패닉이 발생할 수 있습니다.
	// defer + recover로 이를 잡아 패닉을 에러로 변환하여 호출자에게 안전하게 반환합니다.
	defer func() {
		if r := recover(); r != nil {
			err = newCommandSubmitPanicError(r)

			applog.WithComponentAndFields(component, applog.Fields{
				"command_kind":      cmd.Kind(),
				"command_queue_len": len(s.commandC),
				"panic":             r,
			}).Error("명령 접수 실패: 패닉 발생")
		}
	}()

	// 서비스 실행 상태를 확인합니다.
	// running 플래그를 읽을 때는 뮤텍스로 보호하여 데이터 레이스를 방지합니다.
	s.runningMu.Lock()
	running := s.running
	s.runningMu.Unlock()

	if !running {
		return ErrServiceNotRunning
	}

	// 락을 해제한 상태에서 채널 전송을 시도합니다.
	// 일시적인 큐 포화 상태에서도 ctx 타임아웃까지 대기를 허용합니다.
	// (이벤트 루프가 채널을 소비하면 자연스럽게 전송이 완료됩니다)
	select {
	case s.commandC <- cmd:
		return nil

	case <-ctx.Done():
		return ctx.Err()
	}
}
