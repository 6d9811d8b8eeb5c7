package daemon

import (
	"sync"
	"testing"
	"time"
)

func TestTimeSeriesRecorder_GetRecordsIn(t *testing.T) {
	type fields struct {
		MaxRecordCount int
		CycleTimes     []time.Time
	}
	type args struct {
		last time.Duration
	}
	tests := []struct {
		name   string
		fields fields
		args   args
		want   int
	}{
		{
			name: "test noncontinuous records",
			fields: fields{
				MaxRecordCount: 10,
				CycleTimes: []time.Time{
					time.Now().Add(-time.Second * 31).Add(-10 * time.Millisecond),
					time.Now().Add(-time.Second * 20).Add(-10 * time.Millisecond),
					time.Now().Add(-time.Second * 10).Add(-10 * time.Millisecond),
				},
			},
			args: args{
				last: time.Second * 40,
			},
			want: 2,
		},
		{
			name: "test continuous records",
			fields: fields{
				MaxRecordCount: 10,
				CycleTimes: []time.Time{
					time.Now().Add(-time.Second * 70).Add(-10 * time.Millisecond),
					time.Now().Add(-time.Second * 60).Add(-10 * time.Millisecond),
					time.Now().Add(-time.Second * 40).Add(-10 * time.Millisecond),
					time.Now().Add(-time.Second * 30).Add(-10 * time.Millisecond),
					time.Now().Add(-time.Second * 20).Add(-10 * time.Millisecond),
					time.Now().Add(-time.Second * 10).Add(-10 * time.Millisecond),
				},
			},
			args: args{
				last: time.Second * 50,
			},
			want: 4,
		},
		{
			name: "test stale last record",
			fields: fields{
				MaxRecordCount: 10,
				CycleTimes: []time.Time{
					time.Now().Add(-time.Second * 70).Add(-10 * time.Millisecond),
					time.Now().Add(-time.Second * 60).Add(-10 * time.Millisecond),
					time.Now().Add(-time.Second * 40).Add(-10 * time.Millisecond),
					time.Now().Add(-time.Second * 30).Add(-10 * time.Millisecond),
					time.Now().Add(-time.Second * 20).Add(-10 * time.Millisecond),
					time.Now().Add(-time.Second * 15).Add(-10 * time.Millisecond),
				},
			},
			args: args{
				last: time.Second * 50,
			},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &TimeSeriesRecorder{
				MaxRecordCount: tt.fields.MaxRecordCount,
				Interval:       time.Second * 10,
				CycleTimes:     tt.fields.CycleTimes,
				mu:             &sync.Mutex{},
			}
			if got := r.GetRecordsIn(tt.args.last); got != tt.want {
				t.Errorf("GetRecordsIn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeSeriesRecorder_AddRecord(t *testing.T) {
	r := NewTimeSeriesRecorder(3, time.Minute)
	base := time.Now()
	for i := 0; i < 5; i++ {
		r.AddRecord(base.Add(time.Duration(i) * time.Minute))
	}

	if len(r.CycleTimes) != 3 {
		t.Fatalf("expected 3 records, got %d", len(r.CycleTimes))
	}
	if got := r.GetLastRecord(); !got.Equal(base.Add(4 * time.Minute)) {
		t.Errorf("GetLastRecord() = %v, want %v", got, base.Add(4*time.Minute))
	}
}

func TestTimeSeriesRecorder_MissedSince(t *testing.T) {
	r := NewTimeSeriesRecorder(10, time.Minute)
	now := time.Now()

	if got := r.MissedSince(now); got != 0 {
		t.Errorf("MissedSince() without records = %d, want 0", got)
	}

	r.AddRecord(now)
	tests := []struct {
		after time.Duration
		want  int
	}{
		{after: time.Minute, want: 0},
		{after: time.Minute + 30*time.Second, want: 0},
		{after: 2*time.Minute + 2*time.Second, want: 1},
		{after: 30 * time.Minute, want: 29},
	}
	for _, tt := range tests {
		if got := r.MissedSince(now.Add(tt.after)); got != tt.want {
			t.Errorf("MissedSince(+%s) = %d, want %d", tt.after, got, tt.want)
		}
	}
}
