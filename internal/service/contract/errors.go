package contract

import (
	apperrors "github.com/MTenderSourceCode/e-chronograph/internal/pkg/errors"
)

var (
	// ErrDuplicateTask 동일한 작업 키(OCID + Phase)로 이미 등록된 작업이 존재하여
	// Create에 실패했을 때 반환하는 도메인 에러입니다.
	ErrDuplicateTask = apperrors.New(apperrors.Conflict, "등록 실패: 동일한 키의 작업이 이미 존재합니다")

	// ErrTaskNotFound 대상 작업 키가 저장소에 존재하지 않아
	// Replace/Cancel에 실패했을 때 반환하는 도메인 에러입니다.
	ErrTaskNotFound = apperrors.New(apperrors.NotFound, "조회 실패: 해당 키로 등록된 작업이 없습니다")
)

// IsDomainError 주어진 에러가 요청자에게 에러 응답으로 회신되어야 하는
// 도메인 에러(중복 작업, 작업 없음)인지 판별합니다.
//
// 도메인 에러가 아닌 모든 실패는 미분류(Unclassified) 장애로 간주되어
// 로그로만 기록되고 무시됩니다.
func IsDomainError(err error) bool {
	return apperrors.Is(err, apperrors.Conflict) || apperrors.Is(err, apperrors.NotFound)
}
