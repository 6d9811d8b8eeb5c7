package powerinfo

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ChargeState represents the charging state of the battery.
type ChargeState int

const (
	// Unknown is used for any state a backend reports that we do not recognize.
	Unknown ChargeState = iota
	// Charging indicates the battery is charging.
	Charging
	// Discharging indicates the battery is discharging.
	Discharging
	// Full indicates the battery is full.
	Full
)

func (s ChargeState) String() string {
	switch s {
	case Charging:
		return "Charging"
	case Discharging:
		return "Discharging"
	case Full:
		return "Full"
	default:
		return "Unknown"
	}
}

// ParseChargeState maps a backend status string to a ChargeState.
// Unrecognized values map to Unknown, never to an error.
func ParseChargeState(s string) ChargeState {
	switch strings.TrimSpace(s) {
	case "Charging":
		return Charging
	case "Discharging":
		return Discharging
	case "Full":
		return Full
	default:
		return Unknown
	}
}

func (s ChargeState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ChargeState) UnmarshalText(b []byte) error {
	*s = ParseChargeState(string(b))
	return nil
}

// Sample is a single battery reading.
type Sample struct {
	// Capacity is the charge percentage, 0-100.
	Capacity int         `json:"capacity"`
	State    ChargeState `json:"state"`
}

// Source reads the current battery state.
type Source interface {
	Sample(ctx context.Context) (Sample, error)
}

// SourceError is returned when a battery cannot be located or read.
type SourceError struct {
	Backend string
	Err     error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Backend, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// IsSourceError reports whether err is, or wraps, a *SourceError.
func IsSourceError(err error) bool {
	var se *SourceError
	return errors.As(err, &se)
}

const (
	BackendSysfs  = "sysfs"
	BackendNative = "native"
)

// New returns the Source registered under name. battery is an optional
// battery identifier understood by the backend.
func New(name, battery string) (Source, error) {
	switch name {
	case BackendSysfs:
		return NewSysfsSource(DefaultPowerSupplyDir, battery), nil
	case BackendNative:
		return NewNativeSource(0), nil
	default:
		return nil, fmt.Errorf("unknown battery source %q (available: %s, %s)", name, BackendSysfs, BackendNative)
	}
}
