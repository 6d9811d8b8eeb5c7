package events

import "encoding/json"

// Event names published by the daemon loop.
const (
	Sample         = "sample"
	SampleFailed   = "sample.failed"
	AlertFired     = "alert.fired"
	AlertFailed    = "alert.failed"
	EpisodeCleared = "episode.cleared"
)

// Event is a generic SSE event from daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// SampleEvent is the payload for sample.
type SampleEvent struct {
	Capacity int    `json:"capacity"`
	State    string `json:"state"`
	Alerted  bool   `json:"alerted"`
	Ts       int64  `json:"ts"`
}

// AlertEvent is the payload for alert.fired, alert.failed and episode.cleared.
type AlertEvent struct {
	EpisodeID string `json:"episodeId"`
	Capacity  int    `json:"capacity"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Ts        int64  `json:"ts"`
}

// ErrorEvent is the payload for sample.failed.
type ErrorEvent struct {
	Error string `json:"error"`
	Ts    int64  `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
//
// Example:
//
//	payload, err := events.DecodeAs[events.AlertEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.EpisodeID, payload.Capacity)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
