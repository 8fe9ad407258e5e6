package storage

import (
	apperrors "github.com/MTenderSourceCode/e-chronograph/internal/pkg/errors"
)

var (
	// ErrEmptyDatabasePath 저장소 초기화 시 데이터베이스 파일 경로가 비어있을 때 반환하는 에러입니다.
	ErrEmptyDatabasePath = apperrors.New(apperrors.InvalidInput, "저장소 초기화 실패: 데이터베이스 파일 경로가 지정되지 않았습니다")
)

// NewErrDirectoryCreationFailed 데이터베이스 파일이 위치할 디렉토리 생성에 실패했을 때 반환하는 에러를 생성합니다.
func NewErrDirectoryCreationFailed(err error) error {
	return apperrors.Wrap(err, apperrors.System, "저장소 초기화 실패: 데이터베이스 디렉토리 생성 중 오류가 발생했습니다")
}

// NewErrDatabaseOpenFailed 데이터베이스 연결에 실패했을 때 반환하는 에러를 생성합니다.
func NewErrDatabaseOpenFailed(err error) error {
	return apperrors.Wrap(err, apperrors.System, "저장소 초기화 실패: 데이터베이스 연결 중 오류가 발생했습니다")
}

// NewErrMigrationFailed 데이터베이스 스키마 마이그레이션에 실패했을 때 반환하는 에러를 생성합니다.
func NewErrMigrationFailed(err error) error {
	return apperrors.Wrap(err, apperrors.System, "저장소 초기화 실패: 스키마 마이그레이션 중 오류가 발생했습니다")
}

// NewErrQueryFailed 작업 조회 쿼리 실행에 실패했을 때 반환하는 에러를 생성합니다.
func NewErrQueryFailed(err error) error {
	return apperrors.Wrap(err, apperrors.System, "작업 조회 실패: 쿼리 실행 중 오류가 발생했습니다")
}

// NewErrRowScanFailed 조회 결과 행의 읽기에 실패했을 때 반환하는 에러를 생성합니다.
func NewErrRowScanFailed(err error) error {
	return apperrors.Wrap(err, apperrors.System, "작업 조회 실패: 조회 결과를 읽는 중 오류가 발생했습니다")
}

// NewErrExecFailed 작업 변경 쿼리 실행에 실패했을 때 반환하는 에러를 생성합니다.
func NewErrExecFailed(err error) error {
	return apperrors.Wrap(err, apperrors.System, "작업 변경 실패: 쿼리 실행 중 오류가 발생했습니다")
}
