package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/MTenderSourceCode/e-chronograph/internal/service/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLaunchTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// =============================================================================
// Test Helpers
// =============================================================================

func newTestStore(t *testing.T) *SQLiteTaskStore {
	t.Helper()

	store, err := NewSQLiteTaskStore(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err, "저장소 초기화 실패")

	t.Cleanup(func() {
		require.NoError(t, store.Close(), "저장소 닫기 실패")
	})

	return store
}

func newStoreTestTask(ocid contract.OCID, phase contract.Phase, launchTime time.Time) contract.Task {
	return contract.Task{
		RequestID:  contract.NewRequestID(),
		Key:        contract.TaskKey{OCID: ocid, Phase: phase},
		LaunchTime: launchTime,
		MetaData:   contract.MetaData(`{"cpid":"ocds-t1s2t3-MD"}`),
	}
}

// =============================================================================
// Initialization Tests
// =============================================================================

func TestNewSQLiteTaskStore(t *testing.T) {
	t.Parallel()

	t.Run("경로가 비어있으면 초기화에 실패한다", func(t *testing.T) {
		t.Parallel()

		store, err := NewSQLiteTaskStore("   ")

		require.Error(t, err, "빈 경로는 거부되어야 합니다")
		assert.ErrorIs(t, err, ErrEmptyDatabasePath, "ErrEmptyDatabasePath가 반환되어야 합니다")
		assert.Nil(t, store, "실패 시 저장소는 nil이어야 합니다")
	})

	t.Run("존재하지 않는 디렉토리는 생성된다", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", "tasks.db")

		store, err := NewSQLiteTaskStore(path)

		require.NoError(t, err, "상위 디렉토리가 없어도 초기화는 성공해야 합니다")
		require.NoError(t, store.Close(), "저장소 닫기 실패")
	})

	t.Run("같은 파일을 다시 열면 기존 작업이 보존된다", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "tasks.db")
		task := newStoreTestTask("ocds-t1s2t3-MD-0001", "awardPeriod", testLaunchTime)

		store, err := NewSQLiteTaskStore(path)
		require.NoError(t, err, "저장소 초기화 실패")
		require.NoError(t, store.Create(context.Background(), task), "작업 등록 실패")
		require.NoError(t, store.Close(), "저장소 닫기 실패")

		reopened, err := NewSQLiteTaskStore(path)
		require.NoError(t, err, "저장소 재초기화 실패")
		defer func() { require.NoError(t, reopened.Close(), "저장소 닫기 실패") }()

		tasks, err := reopened.LoadBefore(context.Background(), testLaunchTime.Add(time.Second))
		require.NoError(t, err, "작업 조회 실패")
		require.Len(t, tasks, 1, "재시작 후에도 작업이 보존되어야 합니다")
		assert.Equal(t, task, tasks[0], "보존된 작업의 내용이 일치해야 합니다")
	})
}

// =============================================================================
// Create Tests
// =============================================================================

func TestSQLiteTaskStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("새로운 키의 작업은 등록에 성공한다", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		task := newStoreTestTask("ocds-t1s2t3-MD-0001", "awardPeriod", testLaunchTime)

		require.NoError(t, store.Create(context.Background(), task), "작업 등록 실패")
	})

	t.Run("동일한 키로 두 번 등록하면 ErrDuplicateTask를 반환한다", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		task := newStoreTestTask("ocds-t1s2t3-MD-0001", "awardPeriod", testLaunchTime)

		require.NoError(t, store.Create(context.Background(), task), "첫 번째 등록은 성공해야 합니다")

		duplicate := newStoreTestTask(task.Key.OCID, task.Key.Phase, testLaunchTime.Add(time.Hour))
		err := store.Create(context.Background(), duplicate)

		require.Error(t, err, "중복 키 등록은 실패해야 합니다")
		assert.ErrorIs(t, err, contract.ErrDuplicateTask, "ErrDuplicateTask가 반환되어야 합니다")

		// 거부된 등록이 기존 작업을 변경하지 않았는지 확인합니다.
		tasks, loadErr := store.LoadBefore(context.Background(), testLaunchTime.Add(2*time.Hour))
		require.NoError(t, loadErr, "작업 조회 실패")
		require.Len(t, tasks, 1, "중복 등록 시도 후에도 작업은 하나여야 합니다")
		assert.Equal(t, task, tasks[0], "기존 작업이 변경 없이 보존되어야 합니다")
	})

	t.Run("OCID가 같아도 단계가 다르면 별도의 작업으로 등록된다", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)

		require.NoError(t, store.Create(context.Background(),
			newStoreTestTask("ocds-t1s2t3-MD-0001", "awardPeriod", testLaunchTime)), "첫 번째 단계 등록 실패")
		require.NoError(t, store.Create(context.Background(),
			newStoreTestTask("ocds-t1s2t3-MD-0001", "enquiryPeriod", testLaunchTime)), "두 번째 단계 등록 실패")

		tasks, err := store.LoadBefore(context.Background(), testLaunchTime.Add(time.Second))
		require.NoError(t, err, "작업 조회 실패")
		assert.Len(t, tasks, 2, "단계가 다른 작업은 각각 등록되어야 합니다")
	})
}

// =============================================================================
// Load Tests
// =============================================================================

func TestSQLiteTaskStore_Load(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	// 기동 시각이 서로 다른 작업 세 개를 역순으로 등록합니다.
	task3 := newStoreTestTask("ocds-t1s2t3-MD-0003", "awardPeriod", testLaunchTime.Add(2*time.Hour))
	task1 := newStoreTestTask("ocds-t1s2t3-MD-0001", "awardPeriod", testLaunchTime)
	task2 := newStoreTestTask("ocds-t1s2t3-MD-0002", "awardPeriod", testLaunchTime.Add(time.Hour))

	require.NoError(t, store.Create(ctx, task3), "작업 등록 실패")
	require.NoError(t, store.Create(ctx, task1), "작업 등록 실패")
	require.NoError(t, store.Create(ctx, task2), "작업 등록 실패")

	t.Run("LoadBefore는 상한 이전의 작업을 기동 시각 오름차순으로 반환한다", func(t *testing.T) {
		tasks, err := store.LoadBefore(ctx, testLaunchTime.Add(2*time.Hour))

		require.NoError(t, err, "작업 조회 실패")
		require.Len(t, tasks, 2, "상한 이전의 작업 두 개가 조회되어야 합니다")
		assert.Equal(t, task1, tasks[0], "기동 시각이 가장 이른 작업이 먼저 와야 합니다")
		assert.Equal(t, task2, tasks[1], "기동 시각 순서가 보존되어야 합니다")
	})

	t.Run("LoadBefore의 상한은 배타적이다", func(t *testing.T) {
		tasks, err := store.LoadBefore(ctx, testLaunchTime)

		require.NoError(t, err, "작업 조회 실패")
		assert.Empty(t, tasks, "상한과 같은 기동 시각의 작업은 제외되어야 합니다")
	})

	t.Run("LoadBetween은 하한 포함, 상한 배타 구간의 작업을 반환한다", func(t *testing.T) {
		tasks, err := store.LoadBetween(ctx, testLaunchTime.Add(time.Hour), testLaunchTime.Add(2*time.Hour))

		require.NoError(t, err, "작업 조회 실패")
		require.Len(t, tasks, 1, "구간에 속한 작업 하나가 조회되어야 합니다")
		assert.Equal(t, task2, tasks[0], "하한과 같은 기동 시각의 작업은 포함되어야 합니다")
	})

	t.Run("구간에 속한 작업이 없으면 빈 목록을 반환한다", func(t *testing.T) {
		tasks, err := store.LoadBetween(ctx, testLaunchTime.Add(-2*time.Hour), testLaunchTime.Add(-time.Hour))

		require.NoError(t, err, "작업 조회 실패")
		assert.Empty(t, tasks, "빈 구간 조회는 빈 목록을 반환해야 합니다")
		assert.NotNil(t, tasks, "빈 결과도 nil이 아닌 빈 슬라이스여야 합니다")
	})
}

// =============================================================================
// Replace Tests
// =============================================================================

func TestSQLiteTaskStore_Replace(t *testing.T) {
	t.Parallel()

	t.Run("기존 작업의 기동 시각과 메타데이터를 교체한다", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		ctx := context.Background()

		original := newStoreTestTask("ocds-t1s2t3-MD-0001", "awardPeriod", testLaunchTime)
		require.NoError(t, store.Create(ctx, original), "작업 등록 실패")

		replacement := contract.Task{
			RequestID:  contract.NewRequestID(),
			Key:        original.Key,
			LaunchTime: testLaunchTime.Add(3 * time.Hour),
			MetaData:   contract.MetaData(`{"cpid":"ocds-t1s2t3-MD","stage":"EV"}`),
		}
		require.NoError(t, store.Replace(ctx, replacement), "작업 교체 실패")

		tasks, err := store.LoadBefore(ctx, testLaunchTime.Add(4*time.Hour))
		require.NoError(t, err, "작업 조회 실패")
		require.Len(t, tasks, 1, "교체 후에도 작업은 하나여야 합니다")
		assert.Equal(t, replacement, tasks[0], "교체된 값이 저장되어야 합니다")
	})

	t.Run("존재하지 않는 키의 교체는 ErrTaskNotFound를 반환한다", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)

		err := store.Replace(context.Background(),
			newStoreTestTask("ocds-t1s2t3-MD-9999", "awardPeriod", testLaunchTime))

		require.Error(t, err, "존재하지 않는 작업의 교체는 실패해야 합니다")
		assert.ErrorIs(t, err, contract.ErrTaskNotFound, "ErrTaskNotFound가 반환되어야 합니다")
	})
}

// =============================================================================
// Cancel Tests
// =============================================================================

func TestSQLiteTaskStore_Cancel(t *testing.T) {
	t.Parallel()

	t.Run("기존 작업을 제거한다", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		ctx := context.Background()

		task := newStoreTestTask("ocds-t1s2t3-MD-0001", "awardPeriod", testLaunchTime)
		require.NoError(t, store.Create(ctx, task), "작업 등록 실패")

		require.NoError(t, store.Cancel(ctx, contract.NewRequestID(), task.Key), "작업 취소 실패")

		tasks, err := store.LoadBefore(ctx, testLaunchTime.Add(time.Second))
		require.NoError(t, err, "작업 조회 실패")
		assert.Empty(t, tasks, "취소된 작업은 조회되지 않아야 합니다")
	})

	t.Run("취소 후 같은 키로 다시 등록할 수 있다", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		ctx := context.Background()

		task := newStoreTestTask("ocds-t1s2t3-MD-0001", "awardPeriod", testLaunchTime)
		require.NoError(t, store.Create(ctx, task), "작업 등록 실패")
		require.NoError(t, store.Cancel(ctx, contract.NewRequestID(), task.Key), "작업 취소 실패")

		require.NoError(t, store.Create(ctx,
			newStoreTestTask(task.Key.OCID, task.Key.Phase, testLaunchTime.Add(time.Hour))),
			"취소 후 재등록은 성공해야 합니다")
	})

	t.Run("존재하지 않는 키의 취소는 ErrTaskNotFound를 반환한다", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)

		err := store.Cancel(context.Background(), contract.NewRequestID(),
			contract.TaskKey{OCID: "ocds-t1s2t3-MD-9999", Phase: "awardPeriod"})

		require.Error(t, err, "존재하지 않는 작업의 취소는 실패해야 합니다")
		assert.ErrorIs(t, err, contract.ErrTaskNotFound, "ErrTaskNotFound가 반환되어야 합니다")
	})
}
