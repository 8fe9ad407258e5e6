package relay

import (
	"fmt"

	apperrors "github.com/MTenderSourceCode/e-chronograph/internal/pkg/errors"
)

var (
	// ErrEmptyTaskEndpoint 기동 작업 전달용 웹훅 주소가 설정되지 않았을 때 반환하는 에러입니다.
	ErrEmptyTaskEndpoint = apperrors.New(apperrors.InvalidInput, "Relay 초기화 실패: 기동 작업 전달용 웹훅 주소가 설정되지 않았습니다")

	// ErrEmptyErrorEndpoint 에러 응답 전달용 웹훅 주소가 설정되지 않았을 때 반환하는 에러입니다.
	ErrEmptyErrorEndpoint = apperrors.New(apperrors.InvalidInput, "Relay 초기화 실패: 에러 응답 전달용 웹훅 주소가 설정되지 않았습니다")
)

// NewErrPayloadMarshalFailed 전달 페이로드의 JSON 직렬화에 실패했을 때 반환하는 에러를 생성합니다.
func NewErrPayloadMarshalFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Internal, "전달 실패: 페이로드 직렬화(JSON Marshal) 중 오류가 발생했습니다")
}

// NewErrRequestCreationFailed 웹훅 요청 객체 생성에 실패했을 때 반환하는 에러를 생성합니다.
func NewErrRequestCreationFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Internal, "전달 실패: 웹훅 요청 생성 중 오류가 발생했습니다")
}

// NewErrDeliveryFailed 웹훅 요청 전송 중 네트워크 오류가 발생했을 때 반환하는 에러를 생성합니다.
func NewErrDeliveryFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Unavailable, "전달 실패: 웹훅 요청 전송 중 네트워크 오류가 발생했습니다")
}

// NewErrUnexpectedStatus 웹훅 응답이 성공 상태 코드가 아닐 때 반환하는 에러를 생성합니다.
//
// 5xx, 429, 408은 일시적 장애로 간주하여 Unavailable로, 그 외는 Internal로 분류합니다.
func NewErrUnexpectedStatus(statusCode int, status string) error {
	errType := apperrors.Internal
	if statusCode >= 500 || statusCode == 429 || statusCode == 408 {
		errType = apperrors.Unavailable
	}
	return apperrors.New(errType, fmt.Sprintf("전달 실패: 웹훅 요청이 거부되었습니다. 상태 코드: %s", status))
}
