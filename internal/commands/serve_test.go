package commands

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildServer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(io.Discard, dir, "Test Biz", "private_limited"))

	srv, logger, cleanup, err := buildServer(context.Background(), serveOptions{
		repoDir:  dir,
		addr:     "127.0.0.1:0",
		logLevel: "warn",
	})
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, "127.0.0.1:0", srv.Addr)
	assert.Equal(t, "warning", logger.GetLevel().String())

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildServer_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(io.Discard, dir, "Test Biz", "private_limited"))
	t.Setenv("LEDGERBOOK_ADDR", "127.0.0.1:9999")
	t.Setenv("LEDGERBOOK_SEQUENCE_BACKEND", "memory")

	srv, _, cleanup, err := buildServer(context.Background(), serveOptions{repoDir: dir})
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, "127.0.0.1:9999", srv.Addr)
}

func TestBuildServer_UnknownBackend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(io.Discard, dir, "Test Biz", "private_limited"))
	t.Setenv("LEDGERBOOK_SEQUENCE_BACKEND", "etcd")

	_, _, _, err := buildServer(context.Background(), serveOptions{repoDir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sequence backend")
}

func TestRunServer_ShutsDownOnCancel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(io.Discard, dir, "Test Biz", "private_limited"))

	srv, logger, cleanup, err := buildServer(context.Background(), serveOptions{repoDir: dir, addr: "127.0.0.1:0", logLevel: "error"})
	require.NoError(t, err)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, runServer(ctx, srv, logger))
}
