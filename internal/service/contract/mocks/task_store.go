package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/MTenderSourceCode/e-chronograph/internal/service/contract"
)

// MockTaskStore contract.TaskStore 인터페이스의 Mock 구현체입니다.
type MockTaskStore struct {
	mock.Mock
}

var _ contract.TaskStore = (*MockTaskStore)(nil)

// LoadBefore 상한 이전의 작업을 조회하는 Mock 메서드입니다.
func (m *MockTaskStore) LoadBefore(ctx context.Context, endExclusive time.Time) ([]contract.Task, error) {
	args := m.Called(ctx, endExclusive)
	if tasks, ok := args.Get(0).([]contract.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// LoadBetween 구간 내의 작업을 조회하는 Mock 메서드입니다.
func (m *MockTaskStore) LoadBetween(ctx context.Context, start, endExclusive time.Time) ([]contract.Task, error) {
	args := m.Called(ctx, start, endExclusive)
	if tasks, ok := args.Get(0).([]contract.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// Create 작업을 등록하는 Mock 메서드입니다.
func (m *MockTaskStore) Create(ctx context.Context, task contract.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// Replace 작업을 교체하는 Mock 메서드입니다.
func (m *MockTaskStore) Replace(ctx context.Context, task contract.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// Cancel 작업을 제거하는 Mock 메서드입니다.
func (m *MockTaskStore) Cancel(ctx context.Context, requestID contract.RequestID, key contract.TaskKey) error {
	args := m.Called(ctx, requestID, key)
	return args.Error(0)
}
