package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battery-daemon/pkg/events"
	"github.com/charlie0129/battery-daemon/pkg/types"
	"github.com/charlie0129/battery-daemon/pkg/version"
)

func newTestServer(t *testing.T, readings ...reading) (*server, *Loop) {
	t.Helper()
	reg := prometheus.NewRegistry()
	hub := events.NewEventHub()
	l := NewLoop(LoopConfig{
		Source:     &fakeSource{readings: readings},
		Sink:       &fakeSink{},
		Threshold:  30,
		Interval:   time.Minute,
		Hub:        hub,
		Registerer: reg,
	})
	return &server{
		loop:     l,
		hub:      hub,
		gatherer: reg,
		source:   "sysfs",
		sink:     "log",
	}, l
}

func TestServer_GetStatus(t *testing.T) {
	s, l := newTestServer(t, ok(discharging(22)))
	l.RunOnce(context.Background())

	w := httptest.NewRecorder()
	s.routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var st types.DaemonStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, version.Version, st.Version)
	assert.Equal(t, "sysfs", st.Source)
	assert.Equal(t, "log", st.Sink)
	assert.Equal(t, 30, st.Threshold)
	assert.Equal(t, 60, st.IntervalSeconds)
	assert.True(t, st.Alerted)
	assert.NotEmpty(t, st.EpisodeID)
	assert.Equal(t, 1, st.AlertsFired)
	require.NotNil(t, st.LastSample)
	assert.Equal(t, 22, st.LastSample.Capacity)
}

func TestServer_GetVersion(t *testing.T) {
	s, _ := newTestServer(t, ok(full(100)))

	w := httptest.NewRecorder()
	s.routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var v string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, version.Version, v)
}

func TestServer_Metrics(t *testing.T) {
	s, l := newTestServer(t, ok(discharging(10)))
	l.RunOnce(context.Background())

	w := httptest.NewRecorder()
	s.routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "battery_daemon_alerts_fired_total 1")
	assert.Contains(t, body, "battery_daemon_battery_capacity_percent 10")
	assert.Contains(t, body, "battery_daemon_threshold_percent 30")
}

func TestServer_NotFound(t *testing.T) {
	s, _ := newTestServer(t, ok(full(100)))

	w := httptest.NewRecorder()
	s.routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limit", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Events(t *testing.T) {
	s, l := newTestServer(t, ok(discharging(25)))
	ts := httptest.NewServer(s.routes())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return s.hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	l.RunOnce(context.Background())

	var got []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() && len(got) < 2 {
		line := scanner.Text()
		if name, found := strings.CutPrefix(line, "event:"); found {
			got = append(got, name)
		}
	}
	assert.Equal(t, []string{events.Sample, events.AlertFired}, got)
}
