package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battery-daemon/pkg/notify"
	"github.com/charlie0129/battery-daemon/pkg/powerinfo"
)

// Keys understood in the config file, the environment and on the command line.
const (
	KeyInterval  = "interval"
	KeyThreshold = "threshold"
	KeySource    = "source"
	KeySink      = "sink"
	KeyBattery   = "battery"
	KeySocket    = "socket"
)

// Keys lists every configuration key.
var Keys = []string{KeyInterval, KeyThreshold, KeySource, KeySink, KeyBattery, KeySocket}

const (
	DefaultInterval  = 60 * time.Second
	DefaultThreshold = 30

	// MinInterval keeps a typo like "1ms" from turning the daemon into a busy loop.
	MinInterval = time.Second

	appName = "battery-daemon"
)

// Config is the resolved daemon configuration. It does not change after
// startup.
type Config struct {
	Interval  time.Duration
	Threshold int
	Source    string
	Sink      string
	// Battery is the sysfs battery name. Empty means auto-discover.
	Battery string
	Socket  string
}

// Values is one layer of raw, unparsed settings keyed by Keys.
// A missing key means the layer does not set it.
type Values map[string]string

// Defaults returns the built-in layer.
func Defaults() Values {
	return Values{
		KeyInterval:  DefaultInterval.String(),
		KeyThreshold: strconv.Itoa(DefaultThreshold),
		KeySource:    powerinfo.BackendSysfs,
		KeySink:      notify.BackendNotifySend,
		KeySocket:    DefaultSocketPath(),
	}
}

// Resolve merges layers from lowest to highest precedence. For every key
// the last layer that sets it wins.
func Resolve(layers ...Values) Values {
	out := Values{}
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

// Parse validates resolved values and turns them into a Config.
func Parse(v Values) (*Config, error) {
	interval, err := ParseInterval(v[KeyInterval])
	if err != nil {
		return nil, err
	}

	threshold, err := ParseThreshold(v[KeyThreshold])
	if err != nil {
		return nil, err
	}

	c := &Config{
		Interval:  interval,
		Threshold: threshold,
		Source:    strings.TrimSpace(v[KeySource]),
		Sink:      strings.TrimSpace(v[KeySink]),
		Battery:   strings.TrimSpace(v[KeyBattery]),
		Socket:    strings.TrimSpace(v[KeySocket]),
	}

	switch c.Source {
	case powerinfo.BackendSysfs, powerinfo.BackendNative:
	default:
		return nil, fmt.Errorf("unknown battery source %q, must be one of %s, %s", c.Source, powerinfo.BackendSysfs, powerinfo.BackendNative)
	}

	switch c.Sink {
	case notify.BackendNotifySend, notify.BackendLog:
	default:
		return nil, fmt.Errorf("unknown alert sink %q, must be one of %s, %s", c.Sink, notify.BackendNotifySend, notify.BackendLog)
	}

	if c.Socket == "" {
		return nil, pkgerrors.New("socket path must not be empty")
	}

	return c, nil
}

// ParseInterval accepts a Go duration ("90s", "2m") or a bare integer,
// which is taken as seconds.
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, pkgerrors.New("interval must not be empty")
	}

	var d time.Duration
	if n, err := strconv.Atoi(s); err == nil {
		d = time.Duration(n) * time.Second
	} else {
		d, err = time.ParseDuration(s)
		if err != nil {
			return 0, pkgerrors.Wrapf(err, "invalid interval %q", s)
		}
	}

	if d < MinInterval {
		return 0, fmt.Errorf("interval must be at least %s, got %s", MinInterval, d)
	}
	// The loop schedule has one second resolution.
	if d%time.Second != 0 {
		return 0, fmt.Errorf("interval must be a whole number of seconds, got %s", d)
	}

	return d, nil
}

// ParseThreshold accepts an integer percentage between 0 and 100.
func ParseThreshold(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "invalid threshold %q", s)
	}

	if n < 0 || n > 100 {
		return 0, fmt.Errorf("threshold must be between 0 and 100, got %d", n)
	}

	return n, nil
}

// DefaultSocketPath returns the status API socket path, preferring
// $XDG_RUNTIME_DIR and falling back to the temp dir.
func DefaultSocketPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, appName+".sock")
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/battery-daemon/config, or
// ~/.config/battery-daemon/config. It is empty if neither can be found.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config")
}

func (c *Config) LogrusFields() logrus.Fields {
	battery := c.Battery
	if battery == "" {
		battery = "auto"
	}

	return logrus.Fields{
		"interval":  c.Interval.String(),
		"threshold": c.Threshold,
		"source":    c.Source,
		"sink":      c.Sink,
		"battery":   battery,
		"socket":    c.Socket,
	}
}
