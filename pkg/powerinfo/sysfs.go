package powerinfo

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultPowerSupplyDir is where the kernel exposes power supplies.
	DefaultPowerSupplyDir = "/sys/class/power_supply"

	batteryNamePrefix = "BAT"
)

var _ Source = &SysfsSource{}

// SysfsSource reads battery state from the Linux power_supply class.
type SysfsSource struct {
	root string
	// name is the configured battery, e.g. BAT1. Empty means auto-discover.
	name string
	// path is the battery directory found by the last successful lookup.
	path string
}

// NewSysfsSource returns a SysfsSource rooted at root. If name is empty,
// the first entry whose name starts with BAT is used.
func NewSysfsSource(root, name string) *SysfsSource {
	return &SysfsSource{
		root: root,
		name: name,
	}
}

func (s *SysfsSource) Sample(_ context.Context) (Sample, error) {
	path, err := s.batteryPath()
	if err != nil {
		return Sample{}, &SourceError{Backend: BackendSysfs, Err: err}
	}

	sample, err := readSysfsBattery(path)
	if err != nil {
		// The battery may have been removed. Look it up again next time.
		s.path = ""
		return Sample{}, &SourceError{Backend: BackendSysfs, Err: err}
	}

	return sample, nil
}

func (s *SysfsSource) batteryPath() (string, error) {
	if s.path != "" {
		return s.path, nil
	}

	if s.name != "" {
		p := filepath.Join(s.root, s.name)
		if _, err := os.Stat(p); err != nil {
			return "", pkgerrors.Wrapf(err, "battery %s not found in %s", s.name, s.root)
		}
		s.path = p
		return p, nil
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to list %s", s.root)
	}

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), batteryNamePrefix) {
			s.path = filepath.Join(s.root, e.Name())
			logrus.WithField("path", s.path).Debug("found battery")
			return s.path, nil
		}
	}

	return "", pkgerrors.Errorf("no battery found in %s", s.root)
}

func readSysfsBattery(path string) (Sample, error) {
	capacityPath := filepath.Join(path, "capacity")
	b, err := os.ReadFile(capacityPath)
	if err != nil {
		return Sample{}, pkgerrors.Wrapf(err, "failed to read capacity from %s", capacityPath)
	}

	capacity, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return Sample{}, pkgerrors.Wrapf(err, "failed to parse capacity value %q", strings.TrimSpace(string(b)))
	}
	if capacity < 0 || capacity > 100 {
		return Sample{}, pkgerrors.Errorf("capacity %d out of range 0-100", capacity)
	}

	statusPath := filepath.Join(path, "status")
	b, err = os.ReadFile(statusPath)
	if err != nil {
		return Sample{}, pkgerrors.Wrapf(err, "failed to read status from %s", statusPath)
	}

	return Sample{
		Capacity: capacity,
		State:    ParseChargeState(string(b)),
	}, nil
}
