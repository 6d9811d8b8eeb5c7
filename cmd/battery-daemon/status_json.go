package main

import (
	"time"

	"github.com/charlie0129/battery-daemon/pkg/types"
)

type statusJSON struct {
	Battery       statusBatteryJSON `json:"battery"`
	Alerts        statusAlertsJSON  `json:"alerts"`
	Configuration statusConfigJSON  `json:"configuration"`
}

type statusBatteryJSON struct {
	// ChargePercent is nil until the daemon has sampled successfully.
	ChargePercent *int       `json:"chargePercent"`
	State         string     `json:"state"`
	SampledAt     *time.Time `json:"sampledAt"`
	LastError     string     `json:"lastError,omitempty"`
	SampleErrors  int        `json:"sampleErrors"`
}

type statusAlertsJSON struct {
	Alerted     bool       `json:"alerted"`
	EpisodeID   string     `json:"episodeId,omitempty"`
	Fired       int        `json:"fired"`
	Failed      int        `json:"failed"`
	LastAlertAt *time.Time `json:"lastAlertAt"`
	LastError   string     `json:"lastError,omitempty"`
}

type statusConfigJSON struct {
	ThresholdPercent int       `json:"thresholdPercent"`
	IntervalSeconds  int       `json:"intervalSeconds"`
	Source           string    `json:"source"`
	Sink             string    `json:"sink"`
	Version          string    `json:"version"`
	StartedAt        time.Time `json:"startedAt"`
}

func newStatusJSON(st *types.DaemonStatus) statusJSON {
	out := statusJSON{
		Battery: statusBatteryJSON{
			State:        "Unknown",
			SampledAt:    st.LastSampleAt,
			LastError:    st.LastSampleError,
			SampleErrors: st.SampleErrors,
		},
		Alerts: statusAlertsJSON{
			Alerted:     st.Alerted,
			EpisodeID:   st.EpisodeID,
			Fired:       st.AlertsFired,
			Failed:      st.AlertErrors,
			LastAlertAt: st.LastAlertAt,
			LastError:   st.LastAlertError,
		},
		Configuration: statusConfigJSON{
			ThresholdPercent: st.Threshold,
			IntervalSeconds:  st.IntervalSeconds,
			Source:           st.Source,
			Sink:             st.Sink,
			Version:          st.Version,
			StartedAt:        st.StartedAt,
		},
	}

	if st.LastSample != nil {
		capacity := st.LastSample.Capacity
		out.Battery.ChargePercent = &capacity
		out.Battery.State = st.LastSample.State.String()
	}

	return out
}
