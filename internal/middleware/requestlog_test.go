package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/puzzle-link/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testInput struct {
	Code string `path:"code"`
}

type testOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

func setupTestAPI(t *testing.T) (*chi.Mux, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zap.InfoLevel)

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestLogger(zap.New(core)))

	huma.Register(api, huma.Operation{
		OperationID: "get-thing",
		Method:      http.MethodGet,
		Path:        "/things/{code}",
	}, func(_ context.Context, in *testInput) (*testOutput, error) {
		if in.Code == "missing" {
			return nil, huma.Error404NotFound("no such thing")
		}

		out := &testOutput{}
		out.Body.Message = "ok"

		return out, nil
	})

	return router, logs
}

func TestRequestLogger(t *testing.T) {
	t.Run("logs the route template and status", func(t *testing.T) {
		router, logs := setupTestAPI(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/Ab3dEf9H", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, 1, logs.Len())

		fields := logs.All()[0].ContextMap()
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
		assert.Equal(t, "get-thing", fields["operation"])
		assert.Equal(t, "/things/{code}", fields["route"])

		for key, value := range fields {
			if s, ok := value.(string); ok {
				assert.NotContains(t, s, "Ab3dEf9H", key)
			}
		}
	})

	t.Run("logs error statuses", func(t *testing.T) {
		router, logs := setupTestAPI(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/missing", nil))

		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, int64(http.StatusNotFound), logs.All()[0].ContextMap()["status"])
	})

	t.Run("takes the first forwarded address", func(t *testing.T) {
		router, logs := setupTestAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/things/x", nil)
		req.Header.Set("X-Forwarded-For", "192.168.1.1, 10.0.0.1, 172.16.0.1")

		router.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "192.168.1.1", logs.All()[0].ContextMap()["client_ip"])
	})

	t.Run("uses X-Real-IP when X-Forwarded-For is absent", func(t *testing.T) {
		router, logs := setupTestAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/things/x", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")

		router.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "10.0.0.1", logs.All()[0].ContextMap()["client_ip"])
	})

	t.Run("falls back to the remote address", func(t *testing.T) {
		router, logs := setupTestAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/things/x", nil)
		req.RemoteAddr = "203.0.113.7:51234"

		router.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "203.0.113.7", logs.All()[0].ContextMap()["client_ip"])
	})
}
