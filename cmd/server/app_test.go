package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/phrazzld/books-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            0,
			LogLevel:        "error",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			IdleTimeout:     time.Second,
			ShutdownTimeout: time.Second,
		},
		Database: config.DatabaseConfig{Store: "memory"},
		RateLimit: config.RateLimitConfig{
			Limit:  100,
			Window: time.Minute,
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestApplicationMemoryStore(t *testing.T) {
	app, err := newApplication(context.Background(), testConfig(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	assert.Nil(t, app.db)
	assert.Nil(t, app.limiter)

	srv := httptest.NewServer(app.router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/books", "application/json", strings.NewReader(
		`{"title":"Dune","author":"Herbert","publishedYear":1965,"genres":["SciFi"],"stock":5}`))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"message":"success create book"`)

	resp, err = http.Get(srv.URL + "/books")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApplicationRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RateLimit.RedisAddr = mr.Addr()
	cfg.RateLimit.Limit = 1

	app, err := newApplication(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(app.cleanup)
	require.NotNil(t, app.limiter)

	h := app.router()
	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestApplicationUnknownStore(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Store = "mongo"
	_, err := newApplication(context.Background(), cfg, discardLogger())
	assert.ErrorContains(t, err, `unknown book store "mongo"`)
}

func TestSetupAppDatabaseRequiresURL(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Store = "postgres"
	_, err := setupAppDatabase(context.Background(), cfg, discardLogger())
	assert.Error(t, err)
}

func TestRunMigrationsRequiresPostgres(t *testing.T) {
	err := runMigrations(context.Background(), testConfig(), discardLogger(), "up")
	assert.ErrorContains(t, err, "require the postgres store")
}

func TestServeStopsOnCancel(t *testing.T) {
	app, err := newApplication(context.Background(), testConfig(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
