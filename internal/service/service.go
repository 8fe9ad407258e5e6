// Package service 애플리케이션을 구성하는 모든 서비스가 따르는 공통 생명주기 규약을 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 애플리케이션을 구성하는 장기 실행 서비스의 공통 인터페이스입니다.
//
// 모든 서비스는 2단계 생명주기를 따릅니다: 생성자에서 의존성을 주입받아 조립되고(소비 시작 안 함),
// Start() 호출 시점부터 동작을 시작합니다. Start()는 멱등해야 하며,
// serviceStopCtx가 취소되면 진행 중인 작업을 정리한 뒤 serviceStopWG.Done()을 호출해야 합니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
