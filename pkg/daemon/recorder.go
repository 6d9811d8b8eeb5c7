package daemon

import (
	"sync"
	"time"
)

// TimeSeriesRecorder records the last N loop cycle times.
type TimeSeriesRecorder struct {
	MaxRecordCount int
	// Interval is the expected time between two records.
	Interval   time.Duration
	CycleTimes []time.Time
	mu         *sync.Mutex
}

// NewTimeSeriesRecorder returns a new TimeSeriesRecorder.
func NewTimeSeriesRecorder(maxRecordCount int, interval time.Duration) *TimeSeriesRecorder {
	return &TimeSeriesRecorder{
		MaxRecordCount: maxRecordCount,
		Interval:       interval,
		CycleTimes:     make([]time.Time, 0),
		mu:             &sync.Mutex{},
	}
}

// AddRecord adds a new record.
func (r *TimeSeriesRecorder) AddRecord(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Strip monotonic clock reading.
	// This will prevent time.Since from returning values that are not accurate (especially when the system is in sleep mode).
	t = t.Round(0)

	if len(r.CycleTimes) >= r.MaxRecordCount {
		r.CycleTimes = r.CycleTimes[1:]
	}
	r.CycleTimes = append(r.CycleTimes, t)
}

// GetRecordsIn returns the number of continuous records in the last duration.
func (r *TimeSeriesRecorder) GetRecordsIn(last time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	gap := r.Interval + time.Second

	// The last record must be within the last duration.
	if len(r.CycleTimes) > 0 && time.Since(r.CycleTimes[len(r.CycleTimes)-1]) >= gap {
		return 0
	}

	// Find continuous records from the end of the list.
	// Continuous records are defined as the time difference between
	// two adjacent records is less than Interval+1 second.
	count := 0
	for i := len(r.CycleTimes) - 1; i >= 0; i-- {
		record := r.CycleTimes[i]
		if time.Since(record) > last {
			break
		}

		theRecordAfter := record
		if i+1 < len(r.CycleTimes) {
			theRecordAfter = r.CycleTimes[i+1]
		}

		if theRecordAfter.Sub(record) >= gap {
			break
		}
		count++
	}

	return count
}

// GetLastRecord returns the last record.
func (r *TimeSeriesRecorder) GetLastRecord() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.CycleTimes) == 0 {
		return time.Time{}
	}

	return r.CycleTimes[len(r.CycleTimes)-1]
}

// MissedSince returns how many cycles were expected but did not happen
// between the last record and now. It is 0 when there is no record yet.
func (r *TimeSeriesRecorder) MissedSince(now time.Time) int {
	last := r.GetLastRecord()
	if last.IsZero() || r.Interval <= 0 {
		return 0
	}

	elapsed := now.Round(0).Sub(last)
	if elapsed < 2*r.Interval+time.Second {
		return 0
	}
	return int(elapsed/r.Interval) - 1
}
