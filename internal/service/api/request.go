package api

import (
	"time"

	"github.com/MTenderSourceCode/e-chronograph/internal/service/contract"
)

// ScheduleTaskRequest 신규 작업의 등록을 요청하는 본문입니다.
type ScheduleTaskRequest struct {
	// RequestID 요청 식별자입니다. 생략하면 서버가 새로 발급합니다.
	RequestID string `json:"request_id"`

	OCID  string `json:"ocid"`
	Phase string `json:"phase"`

	// LaunchTime 작업의 기동 시각 (RFC 3339 형식)
	LaunchTime time.Time `json:"launch_time"`

	// MetaData 기동 시 소비자에게 그대로 전달되는 불투명한 JSON 값입니다.
	MetaData string `json:"meta_data"`
}

// toCommand 요청을 Schedule 명령으로 변환합니다. timeRange는 현재 평가 구간입니다.
func (r *ScheduleTaskRequest) toCommand(timeRange contract.TimeRange) contract.ScheduleCommand {
	requestID := contract.RequestID(r.RequestID)
	if requestID == "" {
		requestID = contract.NewRequestID()
	}

	return contract.ScheduleCommand{
		RequestID:  requestID,
		Key:        contract.TaskKey{OCID: contract.OCID(r.OCID), Phase: contract.Phase(r.Phase)},
		LaunchTime: r.LaunchTime.UTC(),
		MetaData:   contract.MetaData(r.MetaData),
		TimeRange:  timeRange,
	}
}

// ReplaceTaskRequest 기존 작업의 기동 시각 교체를 요청하는 본문입니다.
// 대상 작업의 키(OCID, 단계)는 URL 경로로 전달받습니다.
type ReplaceTaskRequest struct {
	// RequestID 요청 식별자입니다. 생략하면 서버가 새로 발급합니다.
	RequestID string `json:"request_id"`

	// NewLaunchTime 교체할 새 기동 시각 (RFC 3339 형식)
	NewLaunchTime time.Time `json:"new_launch_time"`

	// MetaData 기동 시 소비자에게 그대로 전달되는 불투명한 JSON 값입니다.
	MetaData string `json:"meta_data"`
}

func (r *ReplaceTaskRequest) toCommand(ocid, phase string, timeRange contract.TimeRange) contract.ReplaceCommand {
	requestID := contract.RequestID(r.RequestID)
	if requestID == "" {
		requestID = contract.NewRequestID()
	}

	return contract.ReplaceCommand{
		RequestID:     requestID,
		Key:           contract.TaskKey{OCID: contract.OCID(ocid), Phase: contract.Phase(phase)},
		NewLaunchTime: r.NewLaunchTime.UTC(),
		MetaData:      contract.MetaData(r.MetaData),
		TimeRange:     timeRange,
	}
}
