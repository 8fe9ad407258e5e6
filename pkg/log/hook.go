package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// hook 로그 레벨에 따라 단일 로그 이벤트를 여러 채널(Main, Critical, Verbose, Console)로 분배합니다.
//
//   - Error 이상: Critical + Main
//   - Info / Warn: Main
//   - Debug / Trace: Verbose (메인 로그를 오염시키지 않도록 Main에는 기록하지 않음)
//   - Console: 활성화된 경우 레벨 필터링 없이 전체 출력
type hook struct {
	mainWriter     io.Writer // 운영 상태와 에러를 기록하는 메인 로깅 채널
	criticalWriter io.Writer // 치명적 장애를 별도로 격리하여 보존하는 채널
	verboseWriter  io.Writer // 상세 분석을 위한 디버깅 정보를 기록하는 채널
	consoleWriter  io.Writer // 모든 레벨의 로그를 실시간으로 출력하는 표준 출력(Stdout)

	formatter Formatter

	// mu 로그 기록(Read Lock)과 종료 처리(Write Lock) 간의 동시성 제어
	mu sync.RWMutex

	// closed Hook의 종료 여부. true일 경우 모든 로그 기록 요청을 거부합니다.
	closed bool
}

// Levels 이 Hook이 수신할 로그 레벨의 집합을 반환합니다.
func (h *hook) Levels() []Level {
	return AllLevels
}

// Fire 발생한 로그 이벤트를 수신하여 레벨 기반 라우팅 정책에 따라 적절한 Writer로 기록합니다.
func (h *hook) Fire(entry *Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	// 로그 포맷팅 (한 번만 수행하여 재사용)
	msg, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	var firstErr error

	// 콘솔 출력 실패는 전체 로깅 시스템의 가용성에 영향을 주지 않도록 에러를 전파하지 않습니다.
	if h.consoleWriter != nil {
		if _, err := h.consoleWriter.Write(msg); err != nil {
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-WARN] 표준 출력(Console) 쓰기 실패: %v\n", err)
		}
	}

	// Critical Writer (Error 이상)
	// 이 단계의 쓰기 에러는 유예하고 메인 로그 기록을 반드시 시도합니다.
	if entry.Level <= ErrorLevel {
		if h.criticalWriter != nil {
			if _, err := h.criticalWriter.Write(msg); err != nil {
				firstErr = err
				fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-FAILURE] Critical 로그 파일 쓰기 실패 (데이터 유실 위험): %v\n", err)
			}
		}
	}

	// Verbose Writer (Debug/Trace)
	// 상세 로그는 메인 로그에 남기지 않으므로 여기서 함수를 종료합니다.
	if entry.Level >= DebugLevel {
		if h.verboseWriter != nil {
			if _, err := h.verboseWriter.Write(msg); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-WARN] Verbose 로그 파일 쓰기 실패: %v\n", err)
			}
		}

		return firstErr
	}

	// Main Writer (Info 이상)
	if h.mainWriter != nil {
		if _, err := h.mainWriter.Write(msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-FAILURE] Main 로그 파일 쓰기 실패 (운영 기록 유실 위험): %v\n", err)
		}
	}

	return firstErr
}

// Close Hook을 종료 상태로 전환하여 더 이상의 로그 기록을 차단합니다.
func (h *hook) Close() error {
	// Write Lock을 획득하여, 현재 실행 중인 모든 로깅 작업(Read Lock)이 완료될 때까지 대기합니다.
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	return nil
}
