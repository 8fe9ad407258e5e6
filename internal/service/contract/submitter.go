package contract

import "context"

// CommandSubmitter 명령을 Dispatcher의 수신 큐에 등록하기 위한 인터페이스입니다.
//
// 명령을 만들어 내는 협력자(API, Ticker)는 이 인터페이스를 통해서만 Dispatcher에 접근합니다.
type CommandSubmitter interface {
	// Submit 명령을 수신 큐에 등록합니다.
	//
	// 큐가 가득 찬 경우 ctx가 취소될 때까지 대기하며, ctx가 취소되면 ctx.Err()를 반환합니다.
	// 서비스가 실행 중이 아니거나 명령이 유효하지 않은 경우 에러를 반환합니다.
	Submit(ctx context.Context, cmd Command) error
}
