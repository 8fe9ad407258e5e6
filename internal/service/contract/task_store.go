package contract

import (
	"context"
	"time"
)

// TaskStore 작업을 영속적으로 저장하고 조회하는 저장소 인터페이스입니다.
//
// Dispatcher는 이 인터페이스를 통해서만 저장소에 접근하며, 서비스 인스턴스 내에서
// 쓰기 연산(Create/Replace/Cancel)을 호출하는 것은 Dispatcher의 이벤트 루프 하나뿐입니다.
// 조회 연산은 launch_time 오름차순으로 정렬된 결과를 반환해야 합니다.
type TaskStore interface {
	// LoadBefore 기동 시각이 endExclusive보다 이른 모든 작업을 조회합니다. (하한 없음)
	LoadBefore(ctx context.Context, endExclusive time.Time) ([]Task, error)

	// LoadBetween 기동 시각이 [start, endExclusive) 구간에 속하는 모든 작업을 조회합니다.
	LoadBetween(ctx context.Context, start, endExclusive time.Time) ([]Task, error)

	// Create 새로운 작업을 등록합니다.
	// 동일한 Key의 작업이 이미 존재하는 경우 ErrDuplicateTask를 반환합니다.
	Create(ctx context.Context, task Task) error

	// Replace 기존 작업의 기동 시각과 메타데이터를 교체합니다.
	// 해당 Key의 작업이 존재하지 않는 경우 ErrTaskNotFound를 반환합니다.
	Replace(ctx context.Context, task Task) error

	// Cancel 기존 작업을 제거합니다.
	// 해당 Key의 작업이 존재하지 않는 경우 ErrTaskNotFound를 반환합니다.
	Cancel(ctx context.Context, requestID RequestID, key TaskKey) error
}
