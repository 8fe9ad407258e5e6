package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// okHandler 항상 200을 반환하는 테스트용 핸들러입니다.
func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// invokeMiddleware 미들웨어를 단독으로 실행하고 결과를 반환합니다.
func invokeMiddleware(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, error) {
	t.Helper()

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	return rec, mw(okHandler)(c)
}

//==============================================================================
// requireAppKey
//==============================================================================

func TestRequireAppKey(t *testing.T) {
	t.Parallel()

	const appKey = "secret-app-key"

	t.Run("유효한 키는 통과", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(headerAppKey, appKey)

		rec, err := invokeMiddleware(t, requireAppKey(appKey), req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("키 누락 시 401", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", nil)

		_, err := invokeMiddleware(t, requireAppKey(appKey), req)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("잘못된 키는 401", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(headerAppKey, "wrong-key")

		_, err := invokeMiddleware(t, requireAppKey(appKey), req)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}

//==============================================================================
// validateContentType
//==============================================================================

func TestValidateContentType(t *testing.T) {
	t.Parallel()

	t.Run("application/json은 통과", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		rec, err := invokeMiddleware(t, validateContentType(echo.MIMEApplicationJSON), req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("charset 파라미터가 있어도 통과", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(echo.HeaderContentType, "application/json; charset=utf-8")

		rec, err := invokeMiddleware(t, validateContentType(echo.MIMEApplicationJSON), req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("다른 타입은 400", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(echo.HeaderContentType, echo.MIMETextPlain)

		_, err := invokeMiddleware(t, validateContentType(echo.MIMEApplicationJSON), req)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

//==============================================================================
// rateLimiting
//==============================================================================

func TestRateLimiting(t *testing.T) {
	t.Parallel()

	t.Run("제한 초과 시 429와 Retry-After 헤더", func(t *testing.T) {
		t.Parallel()

		// 초당 1건, 버스트 1로 설정하여 두 번째 요청부터 차단되도록 합니다.
		mw := rateLimiting(1, 1)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:1234"

		rec, err := invokeMiddleware(t, mw, req)
		require.NoError(t, err, "첫 번째 요청은 허용되어야 합니다")
		assert.Equal(t, http.StatusOK, rec.Code)

		rec2 := httptest.NewRecorder()
		c2 := echo.New().NewContext(req, rec2)
		err = mw(okHandler)(c2)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr, "두 번째 요청은 차단되어야 합니다")
		assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
		assert.Equal(t, "1", c2.Response().Header().Get("Retry-After"))
	})

	t.Run("IP별로 독립적인 제한", func(t *testing.T) {
		t.Parallel()

		mw := rateLimiting(1, 1)

		req1 := httptest.NewRequest(http.MethodGet, "/", nil)
		req1.RemoteAddr = "192.0.2.20:1234"

		_, err := invokeMiddleware(t, mw, req1)
		require.NoError(t, err)

		// 다른 IP의 요청은 앞선 IP의 소비량에 영향을 받지 않습니다.
		req2 := httptest.NewRequest(http.MethodGet, "/", nil)
		req2.RemoteAddr = "192.0.2.21:1234"

		rec, err := invokeMiddleware(t, mw, req2)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("0 이하이면 제한하지 않음", func(t *testing.T) {
		t.Parallel()

		mw := rateLimiting(0, 0)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.30:1234"

		for range 10 {
			rec, err := invokeMiddleware(t, mw, req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

//==============================================================================
// panicRecovery
//==============================================================================

func TestPanicRecovery(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	panicHandler := func(echo.Context) error {
		panic("예기치 않은 오류")
	}

	var err error
	require.NotPanics(t, func() {
		err = panicRecovery()(panicHandler)(c)
	}, "패닉은 미들웨어에서 복구되어야 합니다")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
}
