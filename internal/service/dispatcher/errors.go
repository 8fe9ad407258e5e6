package dispatcher

import (
	"fmt"

	apperrors "github.com/MTenderSourceCode/e-chronograph/internal/pkg/errors"
)

var (
	// ErrServiceNotRunning Dispatcher 서비스가 실행 중이 아닐 때 반환되는 에러입니다.
	ErrServiceNotRunning = apperrors.New(apperrors.Internal, "Dispatcher 서비스가 현재 실행 중이지 않아 명령을 접수할 수 없습니다")
)

// newCommandSubmitPanicError Submit() 처리 중 패닉이 발생했을 때 반환할 표준 에러를 생성합니다.
//
// Submit()은 닫힌 commandC 채널에 전송을 시도할 경우 패닉이 발생할 수 있으며,
// defer + recover를 통해 잡은 패닉 값을 이 함수로 전달하여 호출자에게 안전하게 반환합니다.
func newCommandSubmitPanicError(v any) error {
	return apperrors.New(apperrors.Internal, fmt.Sprintf("명령 접수 처리 중 예기치 않은 내부 오류가 발생하였습니다 (상세: %v)", v))
}
