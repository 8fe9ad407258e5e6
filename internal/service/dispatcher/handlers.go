package dispatcher

import (
	"context"

	"github.com/MTenderSourceCode/e-chronograph/internal/service/contract"
	applog "github.com/MTenderSourceCode/e-chronograph/pkg/log"
)

// handleLoad 시간 범위에 해당하는 작업을 저장소에서 조회하여 캐시 채널로 전달합니다.
//
// 시간 범위의 종류에 따라 조회 방식이 달라집니다:
//   - Empty: 아무 작업도 조회하지 않습니다. (저장소 접근 없음)
//   - Open: 종료 시각 이전(launchTime < end)의 모든 작업을 조회합니다.
//   - Closed: 시작 시각 이상, 종료 시각 미만(start <= launchTime < end)의 작업을 조회합니다.
//
// 조회된 작업은 저장소가 반환한 순서 그대로(기동 시각 오름차순) 하나씩 전달됩니다.
// 조회 실패는 시스템 장애이므로 에러 응답 없이 로그만 남기고 무시합니다.
func (s *Service) handleLoad(ctx context.Context, cmd contract.LoadCommand) {
	var (
		tasks []contract.Task
		err   error
	)

	switch cmd.TimeRange.Kind() {
	case contract.TimeRangeEmpty:
		// 빈 범위는 어떤 시각도 포함하지 않으므로 조회 없이 종료합니다.
		applog.WithComponent(component).Debug("작업 적재 건너뜀: 빈 시간 범위가 지정되었습니다")
		return

	case contract.TimeRangeOpen:
		tasks, err = s.store.LoadBefore(ctx, cmd.TimeRange.End())

	case contract.TimeRangeClosed:
		tasks, err = s.store.LoadBetween(ctx, cmd.TimeRange.Start(), cmd.TimeRange.End())
	}

	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"time_range": cmd.TimeRange.String(),
			"error":      err,
		}).Error("작업 적재 실패: 저장소에서 작업을 조회하는 중에 오류가 발생했습니다")
		return
	}

	for _, task := range tasks {
		s.forwardTask(task)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"time_range": cmd.TimeRange.String(),
		"task_count": len(tasks),
	}).Debug("작업 적재 완료: 시간 범위에 해당하는 작업을 모두 전달했습니다")
}

// handleSchedule 신규 작업을 저장소에 등록하고, 즉시 기동 대상이면 캐시 채널로 전달합니다.
//
// 동일한 키(OCID + 단계)의 작업이 이미 존재하면 등록은 거부되고,
// 저장소와 캐시 채널 어느 쪽에도 영향을 주지 않은 채 원래 요청의 식별자가 담긴
// 에러 응답을 회신합니다.
//
// 등록 성공 후 기동 시각이 현재 적재 범위에 포함되면(이미 해당 범위의 일괄 적재가
// 끝난 뒤에 등록된 작업이므로) 이 작업만 즉시 전달합니다. 등록과 전달은 하나의
// 명령 처리 안에서 끝까지 수행되므로, 그 사이에 다른 명령이 끼어들 수 없습니다.
func (s *Service) handleSchedule(ctx context.Context, cmd contract.ScheduleCommand) {
	task := cmd.Task()

	if err := s.store.Create(ctx, task); err != nil {
		if contract.IsDomainError(err) {
			applog.WithComponentAndFields(component, applog.Fields{
				"request_id": cmd.RequestID,
				"task_key":   cmd.Key.String(),
				"error":      err,
			}).Error("작업 등록 실패: 동일한 키의 작업이 이미 존재합니다")

			s.reportError(contract.ScheduleErrorResponse{
				RequestID:  cmd.RequestID,
				Key:        cmd.Key,
				LaunchTime: cmd.LaunchTime,
				MetaData:   cmd.MetaData,
			})
		} else {
			applog.WithComponentAndFields(component, applog.Fields{
				"request_id": cmd.RequestID,
				"task_key":   cmd.Key.String(),
				"error":      err,
			}).Error("작업 등록 실패: 저장소에 작업을 등록하는 중에 오류가 발생했습니다")
		}
		return
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"request_id":  cmd.RequestID,
		"task_key":    cmd.Key.String(),
		"launch_time": cmd.LaunchTime,
	}).Debug("작업 등록 완료: 신규 작업이 저장소에 등록되었습니다")

	if cmd.TimeRange.Contains(cmd.LaunchTime) {
		s.forwardTask(task)
	}
}

// handleReplace 기존 작업의 기동 시각과 메타데이터를 새 값으로 교체하고,
// 즉시 기동 대상이면 캐시 채널로 전달합니다.
//
// 해당 키의 작업이 존재하지 않으면 교체는 거부되고 에러 응답을 회신합니다.
// 기존 작업의 이전 기동 시각은 보존되지 않으며, 교체 성공 시 새 기동 시각이
// 현재 적재 범위에 포함되는지를 기준으로 즉시 전달 여부를 판단합니다.
func (s *Service) handleReplace(ctx context.Context, cmd contract.ReplaceCommand) {
	task := cmd.Task()

	if err := s.store.Replace(ctx, task); err != nil {
		if contract.IsDomainError(err) {
			applog.WithComponentAndFields(component, applog.Fields{
				"request_id": cmd.RequestID,
				"task_key":   cmd.Key.String(),
				"error":      err,
			}).Error("작업 교체 실패: 해당 키의 작업이 존재하지 않습니다")

			s.reportError(contract.ReplaceErrorResponse{
				RequestID:     cmd.RequestID,
				Key:           cmd.Key,
				NewLaunchTime: cmd.NewLaunchTime,
				MetaData:      cmd.MetaData,
			})
		} else {
			applog.WithComponentAndFields(component, applog.Fields{
				"request_id": cmd.RequestID,
				"task_key":   cmd.Key.String(),
				"error":      err,
			}).Error("작업 교체 실패: 저장소의 작업을 교체하는 중에 오류가 발생했습니다")
		}
		return
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"request_id":      cmd.RequestID,
		"task_key":        cmd.Key.String(),
		"new_launch_time": cmd.NewLaunchTime,
	}).Debug("작업 교체 완료: 작업의 기동 시각이 새 값으로 교체되었습니다")

	if cmd.TimeRange.Contains(cmd.NewLaunchTime) {
		s.forwardTask(task)
	}
}

// handleCancel 예약된 작업을 저장소에서 제거합니다.
//
// 해당 키의 작업이 존재하지 않으면 에러 응답을 회신합니다.
// 취소 성공 시에는 별도의 응답 없이 조용히 완료됩니다.
// 이미 캐시 채널로 전달된 작업은 회수하지 않습니다. (전달은 취소 불가능한 시점)
func (s *Service) handleCancel(ctx context.Context, cmd contract.CancelCommand) {
	if err := s.store.Cancel(ctx, cmd.RequestID, cmd.Key); err != nil {
		if contract.IsDomainError(err) {
			applog.WithComponentAndFields(component, applog.Fields{
				"request_id": cmd.RequestID,
				"task_key":   cmd.Key.String(),
				"error":      err,
			}).Error("작업 취소 실패: 해당 키의 작업이 존재하지 않습니다")

			s.reportError(contract.CancelErrorResponse{
				RequestID: cmd.RequestID,
				Key:       cmd.Key,
			})
		} else {
			applog.WithComponentAndFields(component, applog.Fields{
				"request_id": cmd.RequestID,
				"task_key":   cmd.Key.String(),
				"error":      err,
			}).Error("작업 취소 실패: 저장소에서 작업을 제거하는 중에 오류가 발생했습니다")
		}
		return
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"request_id": cmd.RequestID,
		"task_key":   cmd.Key.String(),
	}).Debug("작업 취소 완료: 작업이 저장소에서 제거되었습니다")
}

// forwardTask 기동 대상 작업을 캐시 채널로 전달합니다.
//
// 캐시 채널이 가득 차면 소비자가 수신할 때까지 블로킹됩니다. 이 블로킹은
// 이벤트 루프 전체를 멈추게 하며, 하류 소비 속도에 맞춰 명령 처리를 조절하는
// 의도된 배압(Backpressure) 동작입니다.
//
// 전달은 저장소의 작업 상태를 변경하지 않습니다. 같은 시간 범위로 적재가
// 반복되면 동일한 작업이 다시 전달될 수 있으며, 중복 제거는 하류 소비자의 몫입니다.
func (s *Service) forwardTask(task contract.Task) {
	s.cacheC <- task

	applog.WithComponentAndFields(component, applog.Fields{
		"request_id":  task.RequestID,
		"task_key":    task.Key.String(),
		"launch_time": task.LaunchTime,
	}).Debug("작업 전달 완료: 기동 대상 작업을 캐시 채널로 전달했습니다")
}

// reportError 도메인 실패에 대한 에러 응답을 에러 채널로 회신합니다.
//
// 응답에는 실패한 원래 요청의 식별자가 그대로 담겨 있어, 수신자는 이를 통해
// 어느 요청이 실패했는지 식별할 수 있습니다.
func (s *Service) reportError(resp contract.ErrorResponse) {
	s.errorC <- resp

	applog.WithComponentAndFields(component, applog.Fields{
		"response_kind":  resp.Kind().String(),
		"correlation_id": resp.CorrelationID(),
	}).Debug("에러 응답 회신 완료: 도메인 실패 응답을 에러 채널로 전달했습니다")
}
