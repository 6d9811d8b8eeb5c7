package client

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battery-daemon/pkg/powerinfo"
)

// shortSocketPath keeps the path below the unix socket length limit,
// which t.TempDir can exceed.
func shortSocketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "bdc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, "d.sock")
}

func serveUnix(t *testing.T, h http.Handler) string {
	t.Helper()
	path := shortSocketPath(t)
	l, err := net.Listen("unix", path)
	require.NoError(t, err)

	srv := httptest.NewUnstartedServer(h)
	srv.Listener = l
	srv.Start()
	t.Cleanup(srv.Close)
	return path
}

func TestClient_GetStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
  "version": "v1.2.3",
  "source": "sysfs",
  "sink": "notify-send",
  "threshold": 30,
  "intervalSeconds": 60,
  "alerted": true,
  "episodeId": "abc",
  "lastSample": {"capacity": 21, "state": "Discharging"},
  "alertsFired": 1,
  "alertErrors": 0,
  "sampleErrors": 2,
  "startedAt": "2024-01-02T03:04:05Z"
}`))
	})
	c := NewClient(serveUnix(t, mux))

	st, err := c.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", st.Version)
	assert.Equal(t, 30, st.Threshold)
	assert.True(t, st.Alerted)
	assert.Equal(t, "abc", st.EpisodeID)
	require.NotNil(t, st.LastSample)
	assert.Equal(t, powerinfo.Sample{Capacity: 21, State: powerinfo.Discharging}, *st.LastSample)
	assert.Equal(t, 2, st.SampleErrors)
}

func TestClient_GetVersion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`"v1.2.3"`))
	})
	c := NewClient(serveUnix(t, mux))

	v, err := c.GetVersion()
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", v)
}

func TestClient_Errors(t *testing.T) {
	t.Run("daemon not running", func(t *testing.T) {
		c := NewClient(shortSocketPath(t))
		_, err := c.GetStatus()
		assert.True(t, errors.Is(err, ErrDaemonNotRunning), "got %v", err)
	})

	t.Run("stale socket", func(t *testing.T) {
		path := shortSocketPath(t)
		l, err := net.Listen("unix", path)
		require.NoError(t, err)
		// Keep the file, drop the listener.
		l.(*net.UnixListener).SetUnlinkOnClose(false)
		require.NoError(t, l.Close())

		_, err = NewClient(path).GetStatus()
		assert.True(t, errors.Is(err, ErrDaemonNotRunning), "got %v", err)
	})

	t.Run("permission denied", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root bypasses socket permissions")
		}
		path := shortSocketPath(t)
		l, err := net.Listen("unix", path)
		require.NoError(t, err)
		defer l.Close()
		require.NoError(t, os.Chmod(path, 0))

		_, err = NewClient(path).GetStatus()
		assert.True(t, errors.Is(err, ErrPermissionDenied), "got %v", err)
	})

	t.Run("not found", func(t *testing.T) {
		c := NewClient(serveUnix(t, http.NotFoundHandler()))
		_, err := c.GetVersion()
		assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
	})

	t.Run("server error", func(t *testing.T) {
		c := NewClient(serveUnix(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})))
		_, err := c.Get("/status")
		assert.ErrorContains(t, err, "got 500")
	})
}
