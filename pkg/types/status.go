package types

import (
	"time"

	"github.com/charlie0129/battery-daemon/pkg/powerinfo"
)

// DaemonStatus is a snapshot of the daemon loop.
// This struct is shared between the daemon and client packages.
type DaemonStatus struct {
	Version         string `json:"version"`
	Source          string `json:"source"`
	Sink            string `json:"sink"`
	Threshold       int    `json:"threshold"`
	IntervalSeconds int    `json:"intervalSeconds"`

	// Alerted is true while an alert has been fired for the current low-battery episode.
	Alerted   bool   `json:"alerted"`
	EpisodeID string `json:"episodeId,omitempty"`

	LastSample      *powerinfo.Sample `json:"lastSample,omitempty"`
	LastSampleAt    *time.Time        `json:"lastSampleAt,omitempty"`
	LastSampleError string            `json:"lastSampleError,omitempty"`
	LastAlertAt     *time.Time        `json:"lastAlertAt,omitempty"`
	LastAlertError  string            `json:"lastAlertError,omitempty"`

	AlertsFired  int `json:"alertsFired"`
	AlertErrors  int `json:"alertErrors"`
	SampleErrors int `json:"sampleErrors"`

	StartedAt time.Time `json:"startedAt"`
}
