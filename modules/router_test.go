package modules_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morshed33/xprs-go/modules"
	"github.com/morshed33/xprs-go/modules/post"
	"github.com/morshed33/xprs-go/modules/user"
	"github.com/morshed33/xprs-go/pkg/environment"
	"github.com/morshed33/xprs-go/pkg/logger"
	"github.com/morshed33/xprs-go/pkg/metrics"
	"github.com/morshed33/xprs-go/pkg/ratelimiter"
	"github.com/morshed33/xprs-go/pkg/requestid"
)

type fixture struct {
	handler http.Handler
	mock    sqlmock.Sqlmock
	logs    *bytes.Buffer
	metrics *metrics.Metrics
}

func newFixture(t *testing.T, env environment.Environment, checks ...func(context.Context) error) fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	sdb := sqlx.NewDb(db, "pgx")

	logs := &bytes.Buffer{}
	m := metrics.New("test")
	h := modules.Router(modules.RouterOptions{
		Logger:          logger.New(logger.WithOutput(logs), logger.WithLevel(logger.LevelHTTP)),
		Environment:     env,
		Metrics:         m,
		ReadinessChecks: checks,
		Users:           user.NewStore(sdb),
		Posts:           post.NewStore(sdb),
	})
	return fixture{handler: h, mock: mock, logs: logs, metrics: m}
}

func (f fixture) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestRoot(t *testing.T) {
	t.Parallel()

	f := newFixture(t, environment.Production)
	rec, body := f.do(t, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, modules.RootMessage, body["message"])
	assert.Equal(t, rec.Header().Get(requestid.Header), body["correlationId"])
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	f := newFixture(t, environment.Production)
	rec, body := f.do(t, http.MethodGet, "/api/v2/nothing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"message": "Can't find your requested url: '/api/v2/nothing' in the server"}, body["errors"])
	assert.Equal(t, true, body["operational"])
	assert.Contains(t, f.logs.String(), `"level":"HTTP"`)
	assert.Contains(t, f.logs.String(), `"level":"ERROR"`)
}

func TestPostNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, environment.Production)
	f.mock.ExpectQuery("FROM posts WHERE id").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	id := uuid.NewString()
	rec, body := f.do(t, http.MethodGet, "/api/v1/posts/"+id, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(404), body["statusCode"])
	assert.Equal(t, map[string]any{"message": "Post not found"}, body["errors"])
	assert.Equal(t, true, body["operational"])
	assert.NotEmpty(t, body["correlationId"])
	assert.NotContains(t, body, "stack")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestDatabaseFailure(t *testing.T) {
	t.Parallel()

	t.Run("production hides the message", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, environment.Production)
		f.mock.ExpectQuery("FROM users").WillReturnError(errors.New("connection refused"))

		rec, body := f.do(t, http.MethodGet, "/api/v1/users", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, false, body["operational"])
		assert.NotContains(t, body, "stack")
		assert.NotContains(t, rec.Body.String(), "connection refused")
		assert.Contains(t, f.logs.String(), "connection refused")
	})

	t.Run("development exposes stack", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, environment.Development)
		f.mock.ExpectQuery("FROM users").WillReturnError(errors.New("connection refused"))

		rec, body := f.do(t, http.MethodGet, "/api/v1/users", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, body["errors"].(map[string]any)["message"], "connection refused")
		assert.NotEmpty(t, body["stack"])
	})
}

func TestCreateUserThroughStack(t *testing.T) {
	t.Parallel()

	f := newFixture(t, environment.Production)
	now := time.Now().UTC()
	f.mock.ExpectQuery("INSERT INTO users").
		WithArgs("Ada", "ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "created_at", "updated_at", "deleted_at"}).
			AddRow(uuid.NewString(), "Ada", "ada@example.com", now, now, nil))

	rec, body := f.do(t, http.MethodPost, "/api/v1/users", `{"name":"Ada","email":"ada@example.com"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User created successfully", body["message"])
	assert.Contains(t, f.logs.String(), `"body":{"name":"Ada","email":"ada@example.com"}`)
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	f := newFixture(t, environment.Production)
	rec, body := f.do(t, http.MethodPut, "/api/v1/users/", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, true, body["operational"])
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	ready := true
	f := newFixture(t, environment.Production, func(context.Context) error {
		if ready {
			return nil
		}
		return errors.New("db down")
	})

	rec, _ := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, "ALIVE", rec.Body.String())

	rec, _ = f.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, "READY", rec.Body.String())

	ready = false
	rec, _ = f.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	f := newFixture(t, environment.Production)
	f.do(t, http.MethodGet, "/nope", "")

	rec, _ := f.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_http_errors_total{operational="true",status="404"} 1`)
}

func TestNilLoggerUsesDefault(t *testing.T) {
	t.Parallel()

	h := modules.Router(modules.RouterOptions{Logger: slog.New(slog.DiscardHandler)})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimitedAPI(t *testing.T) {
	t.Parallel()

	bucket, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(),
		ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})
	require.NoError(t, err)

	h := modules.Router(modules.RouterOptions{
		Logger:      slog.New(slog.DiscardHandler),
		RateLimiter: bucket,
		// A malformed id is rejected before the store is touched.
		Users: user.NewStore(nil),
	})

	do := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.RemoteAddr = "192.0.2.10:5555"
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnprocessableEntity, do("/api/v1/users/42").Code)

	rec := do("/api/v1/users/42")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ratelimiter.TooManyRequestsMessage, body["errors"].(map[string]any)["message"])
	assert.Equal(t, true, body["operational"])

	assert.Equal(t, http.StatusOK, do("/healthz").Code, "service endpoints are not limited")
}
