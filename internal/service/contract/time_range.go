package contract

import (
	"fmt"
	"time"
)

// TimeRangeKind TimeRange의 종류를 나타내는 판별자입니다.
type TimeRangeKind int

const (
	// TimeRangeEmpty 아무 시각과도 일치하지 않는 빈 구간입니다.
	TimeRangeEmpty TimeRangeKind = iota

	// TimeRangeOpen 하한이 없는 구간입니다. endExclusive보다 이른 모든 시각과 일치합니다.
	TimeRangeOpen

	// TimeRangeClosed [start, endExclusive) 구간입니다.
	TimeRangeClosed
)

// TimeRange 작업의 기동 시각이 현재 평가 구간(Due Window)에 속하는지 판정하는 값 타입입니다.
//
// 상한은 항상 배타적(exclusive)이고 하한은 포함(inclusive)입니다.
// Closed 구간에서 endExclusive > start가 기대되지만, 이 타입은 스스로 검증하지 않습니다.
// (구간을 만들어 내는 협력자의 책임입니다)
type TimeRange struct {
	kind  TimeRangeKind
	start time.Time
	end   time.Time
}

// EmptyTimeRange 아무 시각과도 일치하지 않는 빈 구간을 생성합니다.
func EmptyTimeRange() TimeRange {
	return TimeRange{kind: TimeRangeEmpty}
}

// OpenTimeRange endExclusive보다 이른 모든 시각과 일치하는, 하한 없는 구간을 생성합니다.
func OpenTimeRange(endExclusive time.Time) TimeRange {
	return TimeRange{kind: TimeRangeOpen, end: endExclusive}
}

// ClosedTimeRange [start, endExclusive) 구간을 생성합니다.
func ClosedTimeRange(start, endExclusive time.Time) TimeRange {
	return TimeRange{kind: TimeRangeClosed, start: start, end: endExclusive}
}

// Kind 구간의 종류를 반환합니다.
func (r TimeRange) Kind() TimeRangeKind {
	return r.kind
}

// Start Closed 구간의 하한(포함)을 반환합니다. 그 외 종류에서는 제로 값입니다.
func (r TimeRange) Start() time.Time {
	return r.start
}

// End Open/Closed 구간의 상한(배타)을 반환합니다. Empty 구간에서는 제로 값입니다.
func (r TimeRange) End() time.Time {
	return r.end
}

// Contains 주어진 시각이 구간에 속하는지 판정합니다.
//
//   - Empty:  항상 false
//   - Open:   t < endExclusive
//   - Closed: start <= t < endExclusive
func (r TimeRange) Contains(t time.Time) bool {
	switch r.kind {
	case TimeRangeOpen:
		return t.Before(r.end)
	case TimeRangeClosed:
		return !t.Before(r.start) && t.Before(r.end)
	default:
		return false
	}
}

// String 로그 출력용 문자열 표현을 반환합니다.
func (r TimeRange) String() string {
	switch r.kind {
	case TimeRangeOpen:
		return fmt.Sprintf("Open(..%s)", r.end.Format(time.RFC3339))
	case TimeRangeClosed:
		return fmt.Sprintf("Closed(%s..%s)", r.start.Format(time.RFC3339), r.end.Format(time.RFC3339))
	default:
		return "Empty"
	}
}
