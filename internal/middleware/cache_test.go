package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetix/cinetix/internal/config"
)

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          30 * time.Second,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCacheHitServesStoredResponse(t *testing.T) {
	cfg := cacheConfig()
	rdb, mock := redismock.NewClientMock()

	e := echo.New()
	handlerCalls := 0
	h := func(c echo.Context) error {
		handlerCalls++
		return c.String(http.StatusOK, "fresh")
	}
	e.GET("/movies", h, NewRedisCache(cfg, rdb))

	hdr := http.Header{"Content-Type": []string{"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"cached":true}`))
	require.NoError(t, err)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/movies", nil), httptest.NewRecorder())
	c.SetPath("/movies")
	key := cacheKeyFrom(cfg, c)
	mock.ExpectGet(key).SetVal(string(payload))

	rec := serve(e, http.MethodGet, "/movies")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"cached":true}`, rec.Body.String())
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Zero(t, handlerCalls, "a hit must not invoke the handler")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheMissStoresResponse(t *testing.T) {
	cfg := cacheConfig()
	rdb, mock := redismock.NewClientMock()

	e := echo.New()
	e.GET("/movies", func(c echo.Context) error {
		return c.String(http.StatusOK, "fresh")
	}, NewRedisCache(cfg, rdb))

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/movies", nil), httptest.NewRecorder())
	c.SetPath("/movies")
	key := cacheKeyFrom(cfg, c)

	mock.ExpectGet(key).RedisNil()
	// The stored payload embeds response headers, so match loosely.
	mock.CustomMatch(func(expected, actual []interface{}) error { return nil }).
		ExpectSetEx(key, "", cfg.TTL).SetVal("OK")

	rec := serve(e, http.MethodGet, "/movies")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fresh", rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheSkipsUncachedMethods(t *testing.T) {
	cfg := cacheConfig()
	rdb, mock := redismock.NewClientMock()

	e := echo.New()
	e.POST("/movies", func(c echo.Context) error {
		return c.String(http.StatusCreated, "created")
	}, NewRedisCache(cfg, rdb))

	rec := serve(e, http.MethodPost, "/movies")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheDisabledIsNoOp(t *testing.T) {
	cfg := cacheConfig()
	cfg.Enabled = false

	e := echo.New()
	e.GET("/movies", func(c echo.Context) error {
		return c.String(http.StatusOK, "fresh")
	}, NewRedisCache(cfg, nil))

	rec := serve(e, http.MethodGet, "/movies")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte("body"))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, "body", string(body))

	_, _, _, ok = decodePayload([]byte("short"))
	assert.False(t, ok)
}
