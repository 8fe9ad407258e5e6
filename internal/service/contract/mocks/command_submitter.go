package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MTenderSourceCode/e-chronograph/internal/service/contract"
)

// MockCommandSubmitter contract.CommandSubmitter 인터페이스의 Mock 구현체입니다.
type MockCommandSubmitter struct {
	mock.Mock
}

var _ contract.CommandSubmitter = (*MockCommandSubmitter)(nil)

// Submit 명령을 수신 큐에 등록하는 Mock 메서드입니다.
func (m *MockCommandSubmitter) Submit(ctx context.Context, cmd contract.Command) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}
