package powerinfo

import (
	"context"
	"errors"
	"math"

	"github.com/distatus/battery"
	pkgerrors "github.com/pkg/errors"
)

// getBattery is a test seam for battery.Get.
var getBattery = battery.Get

var _ Source = &NativeSource{}

// NativeSource reads battery state through github.com/distatus/battery,
// which works on Linux, macOS, the BSDs and Windows.
type NativeSource struct {
	index int
}

func NewNativeSource(index int) *NativeSource {
	return &NativeSource{index: index}
}

func (s *NativeSource) Sample(_ context.Context) (Sample, error) {
	bat, err := getBattery(s.index)
	if err != nil {
		// A partial read is fine as long as the fields we need are there.
		var partial battery.ErrPartial
		if !errors.As(err, &partial) || bat == nil || partial.State != nil || partial.Current != nil || partial.Full != nil {
			return Sample{}, &SourceError{Backend: BackendNative, Err: pkgerrors.Wrapf(err, "failed to read battery %d", s.index)}
		}
	}
	if bat == nil {
		return Sample{}, &SourceError{Backend: BackendNative, Err: pkgerrors.Errorf("battery %d not found", s.index)}
	}

	return sampleFromBattery(bat)
}

func sampleFromBattery(bat *battery.Battery) (Sample, error) {
	if bat.Full <= 0 {
		return Sample{}, &SourceError{Backend: BackendNative, Err: pkgerrors.Errorf("invalid full capacity %.0f", bat.Full)}
	}

	capacity := int(math.Round(bat.Current / bat.Full * 100))
	if capacity < 0 {
		capacity = 0
	}
	if capacity > 100 {
		capacity = 100
	}

	var state ChargeState
	switch bat.State {
	case battery.Charging:
		state = Charging
	case battery.Discharging:
		state = Discharging
	case battery.Full:
		state = Full
	default:
		state = Unknown
	}

	return Sample{Capacity: capacity, State: state}, nil
}
