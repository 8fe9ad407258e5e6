package relay

import (
	"net/http"
	"time"

	"github.com/MTenderSourceCode/e-chronograph/internal/pkg/version"
	applog "github.com/MTenderSourceCode/e-chronograph/pkg/log"
)

// loggingFetcher 웹훅 요청의 상세 정보를 로그로 남기는 Fetcher 데코레이터입니다.
//
// 요청 메서드, URL, 응답 상태 코드, 소요 시간을 기록하며,
// 에러가 발생했더라도 응답 객체가 있다면 상태 코드를 함께 로깅합니다.
type loggingFetcher struct {
	delegate Fetcher
}

var _ Fetcher = (*loggingFetcher)(nil)

func (f *loggingFetcher) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := f.delegate.Do(req)

	fields := applog.Fields{
		"method":   req.Method,
		"url":      req.URL.Redacted(),
		"duration": time.Since(start).String(),
	}

	if err != nil {
		fields["error"] = err.Error()
	}
	if resp != nil {
		fields["status_code"] = resp.StatusCode
	}

	applog.WithComponentAndFields(component, fields).Debug("웹훅 HTTP 요청 완료")

	return resp, err
}

// userAgentFetcher 요청에 서비스 식별용 User-Agent를 주입하는 Fetcher 데코레이터입니다.
// 이미 User-Agent가 설정된 요청은 수정하지 않습니다.
type userAgentFetcher struct {
	delegate  Fetcher
	userAgent string
}

var _ Fetcher = (*userAgentFetcher)(nil)

func (f *userAgentFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return f.delegate.Do(req)
	}

	// 원본 요청을 보호하기 위해 복제한다.
	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set("User-Agent", f.userAgent)

	return f.delegate.Do(clonedReq)
}

// newDefaultFetcher 로깅과 User-Agent 주입이 적용된 기본 웹훅 클라이언트를 생성합니다.
func newDefaultFetcher() Fetcher {
	return &loggingFetcher{
		delegate: &userAgentFetcher{
			delegate:  &http.Client{Timeout: defaultRequestTimeout},
			userAgent: "e-chronograph/" + version.Version(),
		},
	}
}
