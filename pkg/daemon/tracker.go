package daemon

import (
	"fmt"

	"github.com/charlie0129/battery-daemon/pkg/powerinfo"
)

// AlertTitle is the title of every low battery alert.
const AlertTitle = "Battery Low"

// ActionKind tells the loop what to do after a sample has been observed.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionFireAlert
)

// Action is the decision made by EpisodeTracker for a single sample.
type Action struct {
	Kind ActionKind
	// Message is set for ActionFireAlert.
	Message string
}

// None is the no-op action.
var None = Action{Kind: ActionNone}

// FireAlert returns an action asking the loop to deliver message.
func FireAlert(message string) Action {
	return Action{Kind: ActionFireAlert, Message: message}
}

func (a Action) String() string {
	if a.Kind == ActionFireAlert {
		return fmt.Sprintf("FireAlert(%q)", a.Message)
	}
	return "None"
}

// EpisodeTracker turns a stream of samples into at most one alert per
// low battery episode. An episode is a contiguous run of samples that are
// discharging at or below the threshold.
//
// It is not safe for concurrent use. Samples must be observed in poll order.
type EpisodeTracker struct {
	threshold int
	alerted   bool
}

func NewEpisodeTracker(threshold int) *EpisodeTracker {
	return &EpisodeTracker{threshold: threshold}
}

// Observe feeds one sample into the tracker and returns what to do about it.
func (t *EpisodeTracker) Observe(s powerinfo.Sample) Action {
	if !isLow(s, t.threshold) {
		t.alerted = false
		return None
	}

	if t.alerted {
		return None
	}

	t.alerted = true
	return FireAlert(alertMessage(s.Capacity))
}

// Alerted reports whether an alert has already fired for the current episode.
func (t *EpisodeTracker) Alerted() bool {
	return t.alerted
}

func (t *EpisodeTracker) Threshold() int {
	return t.threshold
}

func isLow(s powerinfo.Sample, threshold int) bool {
	return s.State == powerinfo.Discharging && s.Capacity <= threshold
}

func alertMessage(capacity int) string {
	return fmt.Sprintf("Battery level is at %d%%. Please plug in charger.", capacity)
}
