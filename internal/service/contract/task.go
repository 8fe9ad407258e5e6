// Package contract 서비스 간에 공유되는 도메인 타입과 협력자(Collaborator) 인터페이스를 정의합니다.
//
// 이 패키지는 구현을 포함하지 않으며, Dispatcher / Storage / Ticker / API 서비스가
// 서로를 직접 참조하지 않고 협력할 수 있도록 하는 계약(Contract) 역할만 수행합니다.
package contract

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	apperrors "github.com/MTenderSourceCode/e-chronograph/internal/pkg/errors"
)

// OCID 작업이 속한 입찰 절차(Contracting Process)의 고유 식별자입니다.
type OCID string

// Phase 입찰 절차 내에서 작업이 실행되어야 하는 단계의 이름입니다.
// 예: "awardPeriodEnd", "tenderPeriodEnd"
type Phase string

// MetaData 작업에 함께 실어 보내는 불투명한 JSON 페이로드입니다.
// 이 서비스는 내용을 해석하지 않고 그대로 하류 소비자에게 전달합니다.
type MetaData string

// Validate MetaData가 비어있거나 유효한 JSON 문서인지 검증합니다.
//
// 페이로드의 구조는 해석하지 않으며, 소비자에게 깨진 JSON이 전달되는 것만 차단합니다.
func (m MetaData) Validate() error {
	if m == "" {
		return nil
	}
	if !gjson.Valid(string(m)) {
		return apperrors.New(apperrors.InvalidInput, "메타데이터(MetaData)가 유효한 JSON 형식이 아닙니다")
	}
	return nil
}

// TaskKey 저장소 내에서 작업을 유일하게 식별하는 복합 키입니다.
//
// 불변식: 동일한 TaskKey를 가진 살아있는 작업은 저장소에 최대 1개만 존재합니다.
type TaskKey struct {
	OCID  OCID  `json:"ocid"`
	Phase Phase `json:"phase"`
}

// Validate TaskKey의 필수 필드가 채워져 있는지 검증합니다.
func (k TaskKey) Validate() error {
	if strings.TrimSpace(string(k.OCID)) == "" {
		return apperrors.New(apperrors.InvalidInput, "작업 키의 OCID는 비워둘 수 없습니다")
	}
	if strings.TrimSpace(string(k.Phase)) == "" {
		return apperrors.New(apperrors.InvalidInput, "작업 키의 Phase는 비워둘 수 없습니다")
	}
	return nil
}

// String 로그 출력용 "ocid/phase" 형식의 문자열을 반환합니다.
func (k TaskKey) String() string {
	return string(k.OCID) + "/" + string(k.Phase)
}

// Task 스케줄링 대상이 되는 작업 단위입니다.
//
// 생명주기: Schedule 명령 성공으로 생성되고, Replace 명령 성공으로 LaunchTime이 변경되며,
// Cancel 명령 성공으로 저장소에서 제거됩니다. 하류 소비자로의 전달(Forward)은
// 저장소의 상태를 변경하지 않습니다.
type Task struct {
	// RequestID 이 작업을 생성/변경한 요청과의 상관관계를 추적하기 위한 식별자입니다.
	RequestID RequestID `json:"requestId"`

	// Key 저장소 내에서 작업을 유일하게 식별하는 복합 키입니다.
	Key TaskKey `json:"key"`

	// LaunchTime 작업이 기동 대상(Due)이 되는 시각입니다.
	LaunchTime time.Time `json:"launchTime"`

	// MetaData 하류 소비자에게 그대로 전달되는 불투명한 페이로드입니다.
	MetaData MetaData `json:"metaData,omitempty"`
}

// Validate Task의 필수 필드가 채워져 있는지 검증합니다.
func (t Task) Validate() error {
	if err := t.RequestID.Validate(); err != nil {
		return err
	}
	if err := t.Key.Validate(); err != nil {
		return err
	}
	if t.LaunchTime.IsZero() {
		return apperrors.New(apperrors.InvalidInput, "작업의 기동 시각(LaunchTime)은 비워둘 수 없습니다")
	}
	return t.MetaData.Validate()
}
