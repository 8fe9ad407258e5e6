package contract

import "time"

// ErrorResponseKind 에러 응답의 종류를 나타내는 판별자입니다.
type ErrorResponseKind int

const (
	// ErrorResponseSchedule 중복 키로 인한 작업 등록 실패 응답입니다.
	ErrorResponseSchedule ErrorResponseKind = iota

	// ErrorResponseReplace 존재하지 않는 키로 인한 작업 변경 실패 응답입니다.
	ErrorResponseReplace

	// ErrorResponseCancel 존재하지 않는 키로 인한 작업 취소 실패 응답입니다.
	ErrorResponseCancel
)

// String ErrorResponseKind의 문자열 표현을 반환합니다.
func (k ErrorResponseKind) String() string {
	switch k {
	case ErrorResponseSchedule:
		return "ScheduleError"
	case ErrorResponseReplace:
		return "ReplaceError"
	case ErrorResponseCancel:
		return "CancelError"
	default:
		return "Unknown"
	}
}

// ErrorResponse 도메인 실패(중복 작업, 작업 없음)를 원래 요청자에게 회신하기 위한
// 아웃바운드 메시지가 구현하는 인터페이스입니다.
//
// 도메인 실패가 아닌 인프라 장애(UnclassifiedError)는 에러 응답으로 회신되지 않고
// 로그로만 기록됩니다. 이는 Dispatcher의 가용성을 우선하는 의도된 비대칭입니다.
type ErrorResponse interface {
	// Kind 에러 응답의 판별자를 반환합니다.
	Kind() ErrorResponseKind

	// CorrelationID 원래 명령과의 상관관계를 추적하기 위한 요청 식별자를 반환합니다.
	CorrelationID() RequestID
}

// ScheduleErrorResponse 이미 등록된 작업 키에 대한 Schedule 명령의 실패 응답입니다.
type ScheduleErrorResponse struct {
	RequestID  RequestID `json:"requestId"`
	Key        TaskKey   `json:"key"`
	LaunchTime time.Time `json:"launchTime"`
	MetaData   MetaData  `json:"metaData,omitempty"`
}

func (r ScheduleErrorResponse) Kind() ErrorResponseKind { return ErrorResponseSchedule }
func (r ScheduleErrorResponse) CorrelationID() RequestID { return r.RequestID }

// ReplaceErrorResponse 등록되지 않은 작업 키에 대한 Replace 명령의 실패 응답입니다.
type ReplaceErrorResponse struct {
	RequestID     RequestID `json:"requestId"`
	Key           TaskKey   `json:"key"`
	NewLaunchTime time.Time `json:"newLaunchTime"`
	MetaData      MetaData  `json:"metaData,omitempty"`
}

func (r ReplaceErrorResponse) Kind() ErrorResponseKind { return ErrorResponseReplace }
func (r ReplaceErrorResponse) CorrelationID() RequestID { return r.RequestID }

// CancelErrorResponse 등록되지 않은 작업 키에 대한 Cancel 명령의 실패 응답입니다.
type CancelErrorResponse struct {
	RequestID RequestID `json:"requestId"`
	Key       TaskKey   `json:"key"`
}

func (r CancelErrorResponse) Kind() ErrorResponseKind { return ErrorResponseCancel }
func (r CancelErrorResponse) CorrelationID() RequestID { return r.RequestID }
