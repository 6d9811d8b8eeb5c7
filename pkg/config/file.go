package config

import (
	"errors"
	"io/fs"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key to form its environment variable,
// e.g. BATTERY_DAEMON_INTERVAL.
const EnvPrefix = "BATTERY_DAEMON"

// Load resolves the configuration from, in order of precedence, flags set
// on the command line, the environment, the config file and the defaults.
//
// An empty configPath means the default config file, which may be absent.
// An explicitly given file must exist.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath()
	}

	file, err := FileValues(configPath, explicit)
	if err != nil {
		return nil, err
	}

	c, err := Parse(Resolve(Defaults(), file, EnvValues(), FlagValues(flags)))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "invalid configuration")
	}

	return c, nil
}

// FileValues reads key=value pairs from path. Lines starting with # are
// comments. Keys are case-insensitive.
func FileValues(path string, mustExist bool) (Values, error) {
	if path == "" {
		return Values{}, nil
	}

	raw, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !mustExist {
			logrus.WithField("path", path).Debug("config file not found, using defaults")
			return Values{}, nil
		}
		return nil, pkgerrors.Wrapf(err, "failed to read config file %s", path)
	}

	out := Values{}
	for k, v := range raw {
		key := strings.ToLower(strings.TrimSpace(k))
		if !slices.Contains(Keys, key) {
			logrus.WithField("path", path).Warnf("ignoring unknown config key %q", k)
			continue
		}
		out[key] = v
	}

	return out, nil
}

// EnvValues returns the keys set through BATTERY_DAEMON_* variables.
// Empty variables count as unset.
func EnvValues() Values {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	out := Values{}
	for _, key := range Keys {
		if v.IsSet(key) {
			out[key] = v.GetString(key)
		}
	}
	return out
}

// FlagValues returns the keys explicitly set on the command line. Flags
// left at their default do not override lower layers.
func FlagValues(flags *pflag.FlagSet) Values {
	out := Values{}
	if flags == nil {
		return out
	}

	flags.Visit(func(f *pflag.Flag) {
		if slices.Contains(Keys, f.Name) {
			out[f.Name] = f.Value.String()
		}
	})
	return out
}
