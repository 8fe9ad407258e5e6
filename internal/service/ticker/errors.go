package ticker

import (
	apperrors "github.com/MTenderSourceCode/e-chronograph/internal/pkg/errors"
)

var (
	// ErrInvalidTimeSpec 설정된 Cron 표현식이 유효하지 않을 때 반환하는 에러입니다.
	ErrInvalidTimeSpec = apperrors.New(apperrors.InvalidInput, "Ticker 초기화 실패: 유효하지 않은 Cron 표현식입니다")

	// ErrInvalidAdvance 적재 선행 시간(Advance)이 0 이하로 설정되었을 때 반환하는 에러입니다.
	ErrInvalidAdvance = apperrors.New(apperrors.InvalidInput, "Ticker 초기화 실패: 적재 선행 시간은 0보다 커야 합니다")
)
