package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/MTenderSourceCode/e-chronograph/internal/pkg/errors"
)

func validScheduleCommand() ScheduleCommand {
	return ScheduleCommand{
		RequestID:  NewRequestID(),
		Key:        TaskKey{OCID: "ocds-t1s2t3-MD-1", Phase: "awardPeriodEnd"},
		LaunchTime: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		MetaData:   `{"operationId":"op-1"}`,
		TimeRange:  EmptyTimeRange(),
	}
}

// TestCommandKind_String은 명령 판별자의 문자열 표현을 검증합니다.
func TestCommandKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Load", CommandLoad.String())
	assert.Equal(t, "Schedule", CommandSchedule.String())
	assert.Equal(t, "Replace", CommandReplace.String())
	assert.Equal(t, "Cancel", CommandCancel.String())
}

// TestScheduleCommand_Validate는 Schedule 명령의 유효성 검증을 확인합니다.
func TestScheduleCommand_Validate(t *testing.T) {
	t.Parallel()

	t.Run("정상 명령", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, validScheduleCommand().Validate())
	})

	t.Run("RequestID 누락", func(t *testing.T) {
		t.Parallel()

		cmd := validScheduleCommand()
		cmd.RequestID = "  "
		err := cmd.Validate()
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})

	t.Run("OCID 누락", func(t *testing.T) {
		t.Parallel()

		cmd := validScheduleCommand()
		cmd.Key.OCID = ""
		require.Error(t, cmd.Validate())
	})

	t.Run("Phase 누락", func(t *testing.T) {
		t.Parallel()

		cmd := validScheduleCommand()
		cmd.Key.Phase = ""
		require.Error(t, cmd.Validate())
	})

	t.Run("LaunchTime 누락", func(t *testing.T) {
		t.Parallel()

		cmd := validScheduleCommand()
		cmd.LaunchTime = time.Time{}
		require.Error(t, cmd.Validate())
	})

	t.Run("깨진 JSON 메타데이터", func(t *testing.T) {
		t.Parallel()

		cmd := validScheduleCommand()
		cmd.MetaData = `{"broken":`
		err := cmd.Validate()
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})

	t.Run("빈 메타데이터는 허용", func(t *testing.T) {
		t.Parallel()

		cmd := validScheduleCommand()
		cmd.MetaData = ""
		require.NoError(t, cmd.Validate())
	})
}

// TestScheduleCommand_Task는 명령으로부터의 Task 구성을 검증합니다.
func TestScheduleCommand_Task(t *testing.T) {
	t.Parallel()

	cmd := validScheduleCommand()
	task := cmd.Task()

	assert.Equal(t, cmd.RequestID, task.RequestID)
	assert.Equal(t, cmd.Key, task.Key)
	assert.Equal(t, cmd.LaunchTime, task.LaunchTime)
	assert.Equal(t, cmd.MetaData, task.MetaData)
}

// TestReplaceCommand_Task는 새로운 기동 시각이 반영된 Task 구성을 검증합니다.
func TestReplaceCommand_Task(t *testing.T) {
	t.Parallel()

	newLaunchTime := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	cmd := ReplaceCommand{
		RequestID:     NewRequestID(),
		Key:           TaskKey{OCID: "ocds-t1s2t3-MD-1", Phase: "awardPeriodEnd"},
		NewLaunchTime: newLaunchTime,
		TimeRange:     EmptyTimeRange(),
	}

	require.NoError(t, cmd.Validate())
	assert.Equal(t, newLaunchTime, cmd.Task().LaunchTime)
}

// TestCancelCommand_Validate는 Cancel 명령의 유효성 검증을 확인합니다.
func TestCancelCommand_Validate(t *testing.T) {
	t.Parallel()

	cmd := CancelCommand{
		RequestID: NewRequestID(),
		Key:       TaskKey{OCID: "ocds-t1s2t3-MD-1", Phase: "awardPeriodEnd"},
	}
	require.NoError(t, cmd.Validate())

	cmd.Key.OCID = ""
	require.Error(t, cmd.Validate())
}

// TestNewRequestID는 발급된 요청 식별자의 고유성을 검증합니다.
func TestNewRequestID(t *testing.T) {
	t.Parallel()

	id1 := NewRequestID()
	id2 := NewRequestID()

	require.NoError(t, id1.Validate())
	assert.NotEqual(t, id1, id2, "발급된 RequestID는 전역 고유해야 합니다")
}

// TestIsDomainError는 도메인 에러 판별을 검증합니다.
func TestIsDomainError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDomainError(ErrDuplicateTask))
	assert.True(t, IsDomainError(ErrTaskNotFound))
	assert.True(t, IsDomainError(apperrors.Wrap(ErrTaskNotFound, apperrors.System, "저장소 접근 실패")),
		"래핑된 도메인 에러도 판별되어야 합니다")
	assert.False(t, IsDomainError(apperrors.New(apperrors.System, "database is locked")))
	assert.False(t, IsDomainError(nil))
}
