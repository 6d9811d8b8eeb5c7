package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battery-daemon/pkg/events"
	"github.com/charlie0129/battery-daemon/pkg/notify"
	"github.com/charlie0129/battery-daemon/pkg/powerinfo"
	"github.com/charlie0129/battery-daemon/pkg/types"
)

// recorderSize is how many cycle times are kept for missed cycle detection.
const recorderSize = 60

// LoopConfig holds everything a Loop needs.
type LoopConfig struct {
	Source    powerinfo.Source
	Sink      notify.Sink
	Threshold int
	Interval  time.Duration

	// Hub receives loop events. Optional.
	Hub *events.EventHub
	// Registerer receives loop metrics. Optional.
	Registerer prometheus.Registerer
}

// Loop samples the battery every interval, feeds the samples to an
// EpisodeTracker and delivers the alerts it asks for.
//
// Run and RunOnce must not be called concurrently. Status may be called
// from any goroutine.
type Loop struct {
	source   powerinfo.Source
	sink     notify.Sink
	tracker  *EpisodeTracker
	interval time.Duration
	schedule cron.Schedule
	hub      *events.EventHub
	metrics  *loopMetrics
	recorder *TimeSeriesRecorder

	// episodeID identifies the episode the tracker last fired for.
	episodeID string

	mu     sync.Mutex
	status types.DaemonStatus

	lastPrintTime time.Time
	lastPrinted   loopStatus
}

func NewLoop(c LoopConfig) *Loop {
	l := &Loop{
		source:   c.Source,
		sink:     c.Sink,
		tracker:  NewEpisodeTracker(c.Threshold),
		interval: c.Interval,
		schedule: cron.Every(c.Interval),
		hub:      c.Hub,
		metrics:  newLoopMetrics(c.Registerer),
		recorder: NewTimeSeriesRecorder(recorderSize, c.Interval),
		status: types.DaemonStatus{
			Threshold:       c.Threshold,
			IntervalSeconds: int(c.Interval / time.Second),
			StartedAt:       time.Now().Round(0),
		},
	}
	l.metrics.threshold.Set(float64(c.Threshold))
	return l
}

// Run runs the loop until ctx is cancelled. A cycle in progress is always
// completed; cancellation is observed while waiting for the next cycle.
func (l *Loop) Run(ctx context.Context) error {
	logrus.WithFields(logrus.Fields{
		"interval":  l.interval.String(),
		"threshold": l.tracker.Threshold(),
	}).Info("main loop starts")

	for {
		l.RunOnce(ctx)

		next := l.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			logrus.Info("main loop stopped")
			return nil
		case <-timer.C:
		}
	}
}

// RunOnce runs a single cycle and returns the action the tracker decided on.
func (l *Loop) RunOnce(ctx context.Context) Action {
	now := time.Now()
	l.checkMissedCycles(now)
	l.recorder.AddRecord(now)

	sample, err := l.source.Sample(ctx)
	if err != nil {
		// Leave the tracker alone. A failed read says nothing about the episode.
		logrus.Errorf("failed to sample battery: %v", err)
		l.metrics.sampleErrors.Inc()
		l.updateStatus(func(s *types.DaemonStatus) {
			s.SampleErrors++
			s.LastSampleError = err.Error()
		})
		l.hub.Publish(events.SampleFailed, events.ErrorEvent{Error: err.Error(), Ts: now.Unix()})
		return None
	}

	wasAlerted := l.tracker.Alerted()
	action := l.tracker.Observe(sample)
	alerted := l.tracker.Alerted()

	l.metrics.observeSample(sample, alerted)
	l.printStatus(sample, alerted)
	l.hub.Publish(events.Sample, events.SampleEvent{
		Capacity: sample.Capacity,
		State:    sample.State.String(),
		Alerted:  alerted,
		Ts:       now.Unix(),
	})

	if wasAlerted && !alerted {
		logrus.WithFields(logrus.Fields{
			"episode":  l.episodeID,
			"capacity": sample.Capacity,
			"state":    sample.State.String(),
		}).Info("low battery episode is over")
		l.hub.Publish(events.EpisodeCleared, events.AlertEvent{
			EpisodeID: l.episodeID,
			Capacity:  sample.Capacity,
			Ts:        now.Unix(),
		})
		l.episodeID = ""
	}

	l.updateStatus(func(s *types.DaemonStatus) {
		s.LastSample = &sample
		s.LastSampleAt = &now
		s.LastSampleError = ""
		s.Alerted = alerted
		if !alerted {
			s.EpisodeID = ""
		}
	})

	if action.Kind == ActionFireAlert {
		l.episodeID = uuid.NewString()
		l.fireAlert(ctx, sample, action.Message, now)
	}

	return action
}

// fireAlert delivers message. A delivery failure is reported but does not
// re-arm the tracker, so a broken sink cannot cause an alert storm.
func (l *Loop) fireAlert(ctx context.Context, sample powerinfo.Sample, message string, now time.Time) {
	entry := logrus.WithFields(logrus.Fields{
		"episode":   l.episodeID,
		"capacity":  sample.Capacity,
		"threshold": l.tracker.Threshold(),
	})
	l.metrics.alertsFired.Inc()

	err := l.sink.Alert(ctx, AlertTitle, message)
	if err != nil {
		entry.Errorf("failed to send notification: %v", err)
		l.metrics.alertErrors.Inc()
		l.updateStatus(func(s *types.DaemonStatus) {
			s.AlertsFired++
			s.AlertErrors++
			s.EpisodeID = l.episodeID
			s.LastAlertAt = &now
			s.LastAlertError = err.Error()
		})
		l.hub.Publish(events.AlertFailed, events.AlertEvent{
			EpisodeID: l.episodeID,
			Capacity:  sample.Capacity,
			Message:   message,
			Error:     err.Error(),
			Ts:        now.Unix(),
		})
		return
	}

	entry.Infof("notification sent: %s", message)
	l.updateStatus(func(s *types.DaemonStatus) {
		s.AlertsFired++
		s.EpisodeID = l.episodeID
		s.LastAlertAt = &now
		s.LastAlertError = ""
	})
	l.hub.Publish(events.AlertFired, events.AlertEvent{
		EpisodeID: l.episodeID,
		Capacity:  sample.Capacity,
		Message:   message,
		Ts:        now.Unix(),
	})
}

// Status returns a snapshot of the loop.
func (l *Loop) Status() types.DaemonStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.status
}

func (l *Loop) updateStatus(fn func(s *types.DaemonStatus)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(&l.status)
}

// checkMissedCycles logs when cycles did not run on time, which usually
// means the machine was suspended.
func (l *Loop) checkMissedCycles(now time.Time) {
	missed := l.recorder.MissedSince(now)
	if missed == 0 {
		return
	}

	logrus.WithFields(logrus.Fields{
		"missedCycles":     missed,
		"lastCycle":        l.recorder.GetLastRecord().Format(time.RFC3339),
		"continuousCycles": l.recorder.GetRecordsIn(recorderSize * l.interval),
	}).Info("possibly missed loop cycles, was the system asleep?")
}

type loopStatus struct {
	capacity int
	state    powerinfo.ChargeState
	alerted  bool
}

func (l *Loop) printStatus(sample powerinfo.Sample, alerted bool) {
	current := loopStatus{
		capacity: sample.Capacity,
		state:    sample.State,
		alerted:  alerted,
	}

	fields := logrus.Fields{
		"capacity":  sample.Capacity,
		"state":     sample.State.String(),
		"threshold": l.tracker.Threshold(),
		"alerted":   alerted,
	}

	defer func() { l.lastPrintTime = time.Now() }()

	// Skip printing if the last print was less than interval+1 seconds ago and everything is the same.
	if time.Since(l.lastPrintTime) < l.interval+time.Second && l.lastPrinted == current {
		logrus.WithFields(fields).Trace("loop status")
		return
	}

	logrus.WithFields(fields).Debug("loop status")

	l.lastPrinted = current
}
