// Package storage 예약 작업의 SQLite 기반 영속 저장소를 제공합니다.
//
// 작업은 프로세스가 재시작되어도 유실되지 않아야 하므로 파일 기반 데이터베이스에
// 저장됩니다. 쓰기 연산은 Dispatcher의 단일 이벤트 루프에서만 호출되므로
// 저장소 차원의 추가적인 잠금 없이 UNIQUE 제약만으로 작업 키의 유일성을 보장합니다.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MTenderSourceCode/e-chronograph/internal/service/contract"
	applog "github.com/MTenderSourceCode/e-chronograph/pkg/log"
)

// component SQLite 저장소의 로깅용 컴포넌트 이름
const component = "storage.sqlite"

//go:embed migrations.sql
var migrationsFS embed.FS

// SQLiteTaskStore contract.TaskStore의 SQLite 구현체입니다.
//
// 기동 시각(launch_time)은 UTC 기준의 Unix 나노초 정수로 저장되며,
// 모든 조회는 launch_time 오름차순으로 정렬된 결과를 반환합니다.
type SQLiteTaskStore struct {
	db *sql.DB
}

var _ contract.TaskStore = (*SQLiteTaskStore)(nil)

// NewSQLiteTaskStore 지정된 경로의 데이터베이스 파일을 열고 저장소를 초기화합니다.
//
// 파일과 상위 디렉토리가 존재하지 않으면 생성하며, 스키마 마이그레이션까지
// 완료된 저장소를 반환합니다. SQLite는 다중 쓰기 연결에 취약하므로
// 연결 풀 크기를 1로 고정합니다.
func NewSQLiteTaskStore(path string) (*SQLiteTaskStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyDatabasePath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, NewErrDirectoryCreationFailed(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, NewErrDatabaseOpenFailed(err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")
	_, _ = db.Exec("PRAGMA busy_timeout = 5000")

	store := &SQLiteTaskStore{db: db}

	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, NewErrMigrationFailed(err)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"path": path,
	}).Info("작업 저장소 초기화 완료: SQLite 데이터베이스 연결 및 마이그레이션이 완료되었습니다")

	return store, nil
}

func (s *SQLiteTaskStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

// Close 데이터베이스 연결을 닫습니다.
func (s *SQLiteTaskStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LoadBefore 기동 시각이 endExclusive보다 이른 모든 작업을 기동 시각 오름차순으로 조회합니다.
func (s *SQLiteTaskStore) LoadBefore(ctx context.Context, endExclusive time.Time) ([]contract.Task, error) {
	return s.queryTasks(ctx,
		`SELECT request_id, ocid, phase, launch_time, meta_data
		   FROM tasks
		  WHERE launch_time < ?
		  ORDER BY launch_time ASC, id ASC`,
		endExclusive.UnixNano(),
	)
}

// LoadBetween 기동 시각이 [start, endExclusive) 구간에 속하는 모든 작업을
// 기동 시각 오름차순으로 조회합니다.
func (s *SQLiteTaskStore) LoadBetween(ctx context.Context, start, endExclusive time.Time) ([]contract.Task, error) {
	return s.queryTasks(ctx,
		`SELECT request_id, ocid, phase, launch_time, meta_data
		   FROM tasks
		  WHERE launch_time >= ? AND launch_time < ?
		  ORDER BY launch_time ASC, id ASC`,
		start.UnixNano(), endExclusive.UnixNano(),
	)
}

func (s *SQLiteTaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]contract.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewErrQueryFailed(err)
	}
	defer rows.Close()

	tasks := make([]contract.Task, 0)
	for rows.Next() {
		var (
			requestID       string
			ocid            string
			phase           string
			launchTimeNanos int64
			metaData        string
		)
		if err := rows.Scan(&requestID, &ocid, &phase, &launchTimeNanos, &metaData); err != nil {
			return nil, NewErrRowScanFailed(err)
		}

		tasks = append(tasks, contract.Task{
			RequestID:  contract.RequestID(requestID),
			Key:        contract.TaskKey{OCID: contract.OCID(ocid), Phase: contract.Phase(phase)},
			LaunchTime: time.Unix(0, launchTimeNanos).UTC(),
			MetaData:   contract.MetaData(metaData),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, NewErrRowScanFailed(err)
	}

	return tasks, nil
}

// Create 새로운 작업을 등록합니다.
//
// 이 저장소의 쓰기는 Dispatcher의 단일 이벤트 루프에서만 일어나므로,
// 존재 확인과 등록 사이에 다른 쓰기가 끼어들 수 없습니다. 드라이버별 제약 위반
// 에러 문자열을 해석하는 대신 존재 확인을 먼저 수행하여 중복을 판정합니다.
// (UNIQUE 제약은 이 가정이 깨졌을 때의 최종 방어선으로 유지됩니다)
func (s *SQLiteTaskStore) Create(ctx context.Context, task contract.Task) error {
	exists, err := s.exists(ctx, task.Key)
	if err != nil {
		return err
	}
	if exists {
		return contract.ErrDuplicateTask
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks (request_id, ocid, phase, launch_time, meta_data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(task.RequestID), string(task.Key.OCID), string(task.Key.Phase),
		task.LaunchTime.UnixNano(), string(task.MetaData), time.Now().UnixNano(),
	)
	if err != nil {
		return NewErrExecFailed(err)
	}

	return nil
}

// Replace 기존 작업의 요청 식별자, 기동 시각, 메타데이터를 새 값으로 교체합니다.
func (s *SQLiteTaskStore) Replace(ctx context.Context, task contract.Task) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks
		    SET request_id = ?, launch_time = ?, meta_data = ?
		  WHERE ocid = ? AND phase = ?`,
		string(task.RequestID), task.LaunchTime.UnixNano(), string(task.MetaData),
		string(task.Key.OCID), string(task.Key.Phase),
	)
	if err != nil {
		return NewErrExecFailed(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return NewErrExecFailed(err)
	}
	if affected == 0 {
		return contract.ErrTaskNotFound
	}

	return nil
}

// Cancel 기존 작업을 제거합니다.
func (s *SQLiteTaskStore) Cancel(ctx context.Context, _ contract.RequestID, key contract.TaskKey) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE ocid = ? AND phase = ?`,
		string(key.OCID), string(key.Phase),
	)
	if err != nil {
		return NewErrExecFailed(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return NewErrExecFailed(err)
	}
	if affected == 0 {
		return contract.ErrTaskNotFound
	}

	return nil
}

func (s *SQLiteTaskStore) exists(ctx context.Context, key contract.TaskKey) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM tasks WHERE ocid = ? AND phase = ?`,
		string(key.OCID), string(key.Phase),
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, NewErrQueryFailed(err)
	}
	return true, nil
}
