package contract

import (
	"time"

	apperrors "github.com/MTenderSourceCode/e-chronograph/internal/pkg/errors"
)

// CommandKind 명령의 종류를 나타내는 판별자입니다.
//
// Dispatcher는 동적 디스패치 대신 이 판별자를 검사하여 명령을 핸들러로 라우팅합니다.
type CommandKind int

const (
	// CommandLoad 평가 구간에 속하는 모든 작업을 저장소에서 조회하여 하류로 전달하는 명령입니다.
	CommandLoad CommandKind = iota

	// CommandSchedule 새로운 작업을 저장소에 등록하는 명령입니다.
	CommandSchedule

	// CommandReplace 기존 작업의 기동 시각을 교체하는 명령입니다.
	CommandReplace

	// CommandCancel 기존 작업을 저장소에서 제거하는 명령입니다.
	CommandCancel
)

// String CommandKind의 문자열 표현을 반환합니다.
func (k CommandKind) String() string {
	switch k {
	case CommandLoad:
		return "Load"
	case CommandSchedule:
		return "Schedule"
	case CommandReplace:
		return "Replace"
	case CommandCancel:
		return "Cancel"
	default:
		return "Unknown"
	}
}

// Command Dispatcher가 수신하는 모든 명령이 구현하는 인터페이스입니다.
type Command interface {
	// Kind 명령의 판별자를 반환합니다.
	Kind() CommandKind

	// Validate 명령의 필수 필드가 채워져 있는지 검증합니다.
	// Dispatcher는 검증된 명령만 수신한다고 가정하므로, 명령을 만들어 내는
	// 경계(API, Ticker)에서 호출해야 합니다.
	Validate() error
}

// LoadCommand 평가 구간(TimeRange)에 속하는 모든 작업의 조회와 전달을 요청하는 명령입니다.
// 주기적인 타이머(Ticker)에 의해 생성됩니다.
type LoadCommand struct {
	// TimeRange 조회할 기동 시각의 평가 구간입니다.
	TimeRange TimeRange
}

func (c LoadCommand) Kind() CommandKind { return CommandLoad }

// Validate Load 명령은 빈 구간도 유효한 입력(no-op)이므로 항상 nil을 반환합니다.
func (c LoadCommand) Validate() error { return nil }

// ScheduleCommand 새로운 작업의 등록을 요청하는 명령입니다.
type ScheduleCommand struct {
	RequestID  RequestID
	Key        TaskKey
	LaunchTime time.Time
	MetaData   MetaData

	// TimeRange 현재 평가 구간입니다. 등록 직후 즉시 전달 여부의 판정에만 사용되며 저장되지 않습니다.
	TimeRange TimeRange
}

func (c ScheduleCommand) Kind() CommandKind { return CommandSchedule }

func (c ScheduleCommand) Validate() error {
	return c.Task().Validate()
}

// Task 이 명령이 등록을 요청하는 Task를 구성하여 반환합니다.
func (c ScheduleCommand) Task() Task {
	return Task{
		RequestID:  c.RequestID,
		Key:        c.Key,
		LaunchTime: c.LaunchTime,
		MetaData:   c.MetaData,
	}
}

// ReplaceCommand 기존 작업의 기동 시각 교체를 요청하는 명령입니다.
type ReplaceCommand struct {
	RequestID     RequestID
	Key           TaskKey
	NewLaunchTime time.Time
	MetaData      MetaData

	// TimeRange 현재 평가 구간입니다. 교체 직후 즉시 전달 여부의 판정에만 사용되며 저장되지 않습니다.
	TimeRange TimeRange
}

func (c ReplaceCommand) Kind() CommandKind { return CommandReplace }

func (c ReplaceCommand) Validate() error {
	return c.Task().Validate()
}

// Task 이 명령이 교체를 요청하는 Task(새로운 기동 시각 반영)를 구성하여 반환합니다.
func (c ReplaceCommand) Task() Task {
	return Task{
		RequestID:  c.RequestID,
		Key:        c.Key,
		LaunchTime: c.NewLaunchTime,
		MetaData:   c.MetaData,
	}
}

// CancelCommand 기존 작업의 제거를 요청하는 명령입니다.
type CancelCommand struct {
	RequestID RequestID
	Key       TaskKey
}

func (c CancelCommand) Kind() CommandKind { return CommandCancel }

func (c CancelCommand) Validate() error {
	if err := c.RequestID.Validate(); err != nil {
		return err
	}
	return c.Key.Validate()
}

// ErrNilCommand nil 명령이 전달되었을 때 반환하는 에러입니다.
var ErrNilCommand = apperrors.New(apperrors.InvalidInput, "명령(Command)은 nil일 수 없습니다")
