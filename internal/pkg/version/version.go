// Package version 애플리케이션의 빌드 및 버저닝 정보를 관리하는 패키지입니다.
//
// 빌드 시점에 링커 플래그(-ldflags)로 주입된 메타데이터(버전, 커밋 해시, 빌드 시간 등)와
// 실행 시점의 환경 정보(Go 버전, OS, 아키텍처)를 통합하여 제공합니다.
// /version API 엔드포인트와 기동 배너 출력에 사용됩니다.
package version

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
)

const unknown = "unknown"

// globalInfo 전역 빌드 정보 (atomic.Value로 Thread-Safe 접근 보장)
var globalInfo atomic.Value

// 다음 변수들은 빌드 시점에 링커 플래그(ldflags)를 통해 주입됩니다.
// 애플리케이션 로직에서는 이 변수들에 직접 접근하지 말고 Get()을 사용해야 합니다.
var (
	appVersion    = "" // 애플리케이션 버전 (예: v1.0.1-155-gf25b8bf)
	gitCommitHash = "" // Git 커밋 해시
	gitTreeState  = "" // Git 작업 트리의 변경 상태 (clean 또는 dirty)
	buildDate     = "" // 빌드 수행 시간
	buildNumber   = "" // CI/CD 파이프라인 빌드 번호
)

func init() {
	bi := Info{
		Version:     strings.TrimSpace(appVersion),
		Commit:      strings.TrimSpace(gitCommitHash),
		BuildDate:   strings.TrimSpace(buildDate),
		BuildNumber: strings.TrimSpace(buildNumber),
	}

	if strings.EqualFold(strings.TrimSpace(gitTreeState), "dirty") {
		bi.DirtyBuild = true
	}

	Set(bi)
}

// Info 애플리케이션의 빌드 정보를 담고 있습니다.
type Info struct {
	Version     string `json:"version"`      // 애플리케이션의 버전
	Commit      string `json:"commit"`       // Git 커밋 해시
	BuildDate   string `json:"build_date"`   // 빌드 날짜 (ISO 8601 형식 권장)
	BuildNumber string `json:"build_number"` // CI/CD 빌드 번호
	GoVersion   string `json:"go_version"`   // 빌드에 사용된 Go 컴파일러 버전
	OS          string `json:"os"`           // 실행 중인 운영체제
	Arch        string `json:"arch"`         // 실행 중인 시스템 아키텍처
	DirtyBuild  bool   `json:"dirty_build"`  // 빌드 시점의 로컬 변경사항 존재 여부
}

// Set 전역 빌드 정보를 설정합니다. 비어있는 런타임 환경 필드는 자동으로 채워집니다.
// 앱 시작 시 1회 호출을 전제로 합니다.
func Set(bi Info) {
	if bi.GoVersion == "" {
		bi.GoVersion = runtime.Version()
	}
	if bi.OS == "" {
		bi.OS = runtime.GOOS
	}
	if bi.Arch == "" {
		bi.Arch = runtime.GOARCH
	}

	globalInfo.Store(bi)
}

// Get 애플리케이션의 빌드 정보를 반환합니다.
func Get() Info {
	bi := globalInfo.Load()
	if bi == nil {
		return Info{
			Version:     unknown,
			Commit:      unknown,
			BuildDate:   unknown,
			BuildNumber: "0",
		}
	}
	return bi.(Info)
}

// Version 애플리케이션의 버전 문자열을 반환합니다.
func Version() string {
	return Get().Version
}

// String 빌드 정보를 사람이 읽기 쉬운 하나의 문자열로 요약해 반환합니다.
func (i Info) String() string {
	if i.Version == "" {
		return unknown
	}

	version := i.Version
	if i.DirtyBuild {
		version += "+dirty"
	}

	var details []string

	if i.Commit != "" && i.Commit != unknown {
		commit := i.Commit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		details = append(details, fmt.Sprintf("commit: %s", commit))
	}
	if i.BuildNumber != "" {
		details = append(details, fmt.Sprintf("build: %s", i.BuildNumber))
	}
	if i.BuildDate != "" && i.BuildDate != unknown {
		details = append(details, fmt.Sprintf("date: %s", i.BuildDate))
	}
	if i.GoVersion != "" {
		details = append(details, fmt.Sprintf("go_version: %s", i.GoVersion))
	}
	if i.OS != "" {
		details = append(details, fmt.Sprintf("os: %s", i.OS))
	}
	if i.Arch != "" {
		details = append(details, fmt.Sprintf("arch: %s", i.Arch))
	}

	if len(details) == 0 {
		return version
	}

	return fmt.Sprintf("%s (%s)", version, strings.Join(details, ", "))
}
