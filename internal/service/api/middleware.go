package api

import (
	"crypto/sha256"
	"crypto/subtle"
	"runtime/debug"
	"strings"
	"sync"

	applog "github.com/MTenderSourceCode/e-chronograph/pkg/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// componentMiddleware API 미들웨어의 로깅용 컴포넌트 이름
const componentMiddleware = "api.middleware"

// headerAppKey API 요청 인증에 사용되는 헤더 이름
const headerAppKey = "X-App-Key"

// panicRecovery 핸들러에서 발생한 패닉을 복구하여 서버 다운을 방지하는 미들웨어입니다.
//
// 패닉은 스택 트레이스와 함께 로깅되고, 클라이언트에게는 500 응답이 반환됩니다.
// 가장 먼저 적용되어야 이후의 미들웨어에서 발생한 패닉도 복구할 수 있습니다.
func panicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					applog.WithComponentAndFields(componentMiddleware, applog.Fields{
						"panic":  r,
						"path":   c.Request().URL.Path,
						"method": c.Request().Method,
						"stack":  string(debug.Stack()),
					}).Error("HTTP 핸들러 치명적 오류 복구: 예기치 않은 패닉 상태에서 회복되었습니다")

					err = echo.NewHTTPError(500, "서버 내부 오류가 발생했습니다")
				}
			}()

			return next(c)
		}
	}
}

// httpLogging 모든 HTTP 요청을 구조화된 로그로 기록하는 미들웨어입니다.
func httpLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			applog.WithComponentAndFields(componentMiddleware, applog.Fields{
				"method":    c.Request().Method,
				"path":      c.Request().URL.Path,
				"status":    c.Response().Status,
				"remote_ip": c.RealIP(),
			}).Debug("HTTP 요청 처리 완료")

			return err
		}
	}
}

// ipRateLimiter IP 주소별로 Rate Limiter를 관리하는 구조체입니다.
//
// Token Bucket 알고리즘(golang.org/x/time/rate) 기반으로 IP당 독립적인
// 요청 제한을 적용합니다. IP 항목은 서버 재시작 전까지 메모리에 유지됩니다.
type ipRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newIPRateLimiter(requestsPerSecond float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.limiters[ip]
	i.mu.RUnlock()

	if exists {
		return limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double-check: 다른 고루틴이 이미 생성했을 수 있음
	if limiter, exists = i.limiters[ip]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(i.rate, i.burst)
	i.limiters[ip] = limiter

	return limiter
}

// rateLimiting IP 기반 Rate Limiting 미들웨어를 반환합니다.
//
// 제한 초과 시 Retry-After 헤더와 함께 429 응답을 반환합니다.
// requestsPerSecond가 0 이하이면 제한을 적용하지 않습니다.
func rateLimiting(requestsPerSecond float64, burst int) echo.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	if burst <= 0 {
		burst = int(requestsPerSecond) * 2
		if burst <= 0 {
			burst = 1
		}
	}

	limiter := newIPRateLimiter(requestsPerSecond, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			if !limiter.getLimiter(ip).Allow() {
				applog.WithComponentAndFields(componentMiddleware, applog.Fields{
					"remote_ip": ip,
					"path":      c.Request().URL.Path,
					"method":    c.Request().Method,
				}).Warn("Rate limit 초과")

				c.Response().Header().Set("Retry-After", "1")

				return newTooManyRequestsError("요청이 너무 많습니다. 잠시 후 다시 시도해주세요.")
			}

			return next(c)
		}
	}
}

// requireAppKey X-App-Key 헤더를 검증하는 인증 미들웨어를 반환합니다.
//
// 타이밍 공격을 방지하기 위해 키를 해시한 후 상수 시간 비교를 수행합니다.
func requireAppKey(appKey string) echo.MiddlewareFunc {
	expected := sha256.Sum256([]byte(appKey))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			provided := c.Request().Header.Get(headerAppKey)
			if provided == "" {
				return newUnauthorizedError("인증 키(X-App-Key)가 제공되지 않았습니다")
			}

			providedHash := sha256.Sum256([]byte(provided))
			if subtle.ConstantTimeCompare(expected[:], providedHash[:]) != 1 {
				applog.WithComponentAndFields(componentMiddleware, applog.Fields{
					"remote_ip": c.RealIP(),
					"path":      c.Request().URL.Path,
				}).Warn("인증 실패: 유효하지 않은 App Key")

				return newUnauthorizedError("인증에 실패했습니다")
			}

			return next(c)
		}
	}
}

// validateContentType 요청의 Content-Type 헤더가 기대한 MIME 타입인지 검증하는 미들웨어를 반환합니다.
func validateContentType(mimeType string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contentType := c.Request().Header.Get(echo.HeaderContentType)
			if !strings.HasPrefix(contentType, mimeType) {
				return newBadRequestError("Content-Type은 " + mimeType + "이어야 합니다")
			}

			return next(c)
		}
	}
}
