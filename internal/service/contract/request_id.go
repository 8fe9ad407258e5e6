package contract

import (
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/MTenderSourceCode/e-chronograph/internal/pkg/errors"
)

// RequestID 명령과 그 결과(에러 응답)를 상호 연관짓기 위한 불투명한 상관관계 식별자입니다.
type RequestID string

// NewRequestID 전역 고유한 새로운 RequestID를 발급합니다.
// 요청자가 상관관계 식별자 없이 명령을 전달한 경우에 사용합니다.
func NewRequestID() RequestID {
	return RequestID(uuid.NewString())
}

// Validate RequestID가 비어있지 않은지 검증합니다.
//
// 식별자의 형식(UUID 여부 등)은 요청자의 소관이므로 검사하지 않습니다.
func (id RequestID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return apperrors.New(apperrors.InvalidInput, "요청 식별자(RequestID)는 비워둘 수 없습니다")
	}
	return nil
}

func (id RequestID) String() string {
	return string(id)
}
