package relay

import (
	"encoding/json"
	"time"

	"github.com/MTenderSourceCode/e-chronograph/internal/service/contract"
)

// taskPayload 기동 작업을 하류 소비자에게 전달할 때 사용하는 웹훅 본문입니다.
type taskPayload struct {
	RequestID  string          `json:"requestId"`
	OCID       string          `json:"ocid"`
	Phase      string          `json:"phase"`
	LaunchTime time.Time       `json:"launchTime"`
	MetaData   json.RawMessage `json:"metaData,omitempty"`
}

// errorPayload 도메인 실패 응답을 요청자에게 전달할 때 사용하는 웹훅 본문입니다.
//
// Kind 필드로 실패한 명령의 종류를 구분하며, 수신자는 RequestID를 통해
// 자신이 보냈던 요청과 이 응답을 대응시킵니다.
type errorPayload struct {
	Kind          string          `json:"kind"`
	RequestID     string          `json:"requestId"`
	OCID          string          `json:"ocid"`
	Phase         string          `json:"phase"`
	LaunchTime    *time.Time      `json:"launchTime,omitempty"`
	NewLaunchTime *time.Time      `json:"newLaunchTime,omitempty"`
	MetaData      json.RawMessage `json:"metaData,omitempty"`
}

func newTaskPayload(task contract.Task) taskPayload {
	return taskPayload{
		RequestID:  string(task.RequestID),
		OCID:       string(task.Key.OCID),
		Phase:      string(task.Key.Phase),
		LaunchTime: task.LaunchTime,
		MetaData:   json.RawMessage(task.MetaData),
	}
}

func newErrorPayload(resp contract.ErrorResponse) errorPayload {
	switch r := resp.(type) {
	case contract.ScheduleErrorResponse:
		launchTime := r.LaunchTime
		return errorPayload{
			Kind:       r.Kind().String(),
			RequestID:  string(r.RequestID),
			OCID:       string(r.Key.OCID),
			Phase:      string(r.Key.Phase),
			LaunchTime: &launchTime,
			MetaData:   json.RawMessage(r.MetaData),
		}

	case contract.ReplaceErrorResponse:
		newLaunchTime := r.NewLaunchTime
		return errorPayload{
			Kind:          r.Kind().String(),
			RequestID:     string(r.RequestID),
			OCID:          string(r.Key.OCID),
			Phase:         string(r.Key.Phase),
			NewLaunchTime: &newLaunchTime,
			MetaData:      json.RawMessage(r.MetaData),
		}

	case contract.CancelErrorResponse:
		return errorPayload{
			Kind:      r.Kind().String(),
			RequestID: string(r.RequestID),
			OCID:      string(r.Key.OCID),
			Phase:     string(r.Key.Phase),
		}

	default:
		return errorPayload{
			Kind:      resp.Kind().String(),
			RequestID: string(resp.CorrelationID()),
		}
	}
}
