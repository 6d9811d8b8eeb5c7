package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battery-daemon/pkg/config"
	"github.com/charlie0129/battery-daemon/pkg/powerinfo"
	"github.com/charlie0129/battery-daemon/pkg/types"
)

func TestNewStatusJSON(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("no sample yet", func(t *testing.T) {
		out := newStatusJSON(&types.DaemonStatus{Threshold: 30, SampleErrors: 3, LastSampleError: "no battery found"})
		assert.Nil(t, out.Battery.ChargePercent)
		assert.Equal(t, "Unknown", out.Battery.State)
		assert.Equal(t, 3, out.Battery.SampleErrors)
		assert.Equal(t, 30, out.Configuration.ThresholdPercent)
	})

	t.Run("alerted", func(t *testing.T) {
		out := newStatusJSON(&types.DaemonStatus{
			Threshold:    30,
			Alerted:      true,
			EpisodeID:    "ep",
			LastSample:   &powerinfo.Sample{Capacity: 12, State: powerinfo.Discharging},
			LastSampleAt: &at,
			AlertsFired:  1,
		})
		require.NotNil(t, out.Battery.ChargePercent)
		assert.Equal(t, 12, *out.Battery.ChargePercent)
		assert.Equal(t, "Discharging", out.Battery.State)
		assert.True(t, out.Alerts.Alerted)
		assert.Equal(t, "ep", out.Alerts.EpisodeID)
		assert.Equal(t, 1, out.Alerts.Fired)
	})
}

func TestPrintStatus(t *testing.T) {
	color.NoColor = true
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	printStatus(cmd, &types.DaemonStatus{
		Version:         "v1.0.0",
		Source:          "sysfs",
		Sink:            "notify-send",
		Threshold:       30,
		IntervalSeconds: 60,
		Alerted:         true,
		LastSample:      &powerinfo.Sample{Capacity: 25, State: powerinfo.Discharging},
		LastSampleAt:    &at,
		AlertsFired:     2,
	}, at.Add(10*time.Second))

	out := buf.String()
	assert.Contains(t, out, "Current charge: 25%")
	assert.Contains(t, out, "State: discharging")
	assert.Contains(t, out, "Sampled: 10s ago")
	assert.Contains(t, out, "Alerts fired: 2")
	assert.Contains(t, out, "Threshold: 30%")
	assert.Contains(t, out, "Interval: 1m0s")
}

func TestNewCommand_Flags(t *testing.T) {
	cmd := NewCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-i", "15", "-t", "20", "--sink", "log"}))

	v := config.FlagValues(cmd.Flags())
	assert.Equal(t, config.Values{
		config.KeyInterval:  "15",
		config.KeyThreshold: "20",
		config.KeySink:      "log",
	}, v)
}
