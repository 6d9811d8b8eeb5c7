package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battery-daemon/hack"
)

// UnitName is the name of the systemd user unit.
const UnitName = "battery-daemon.service"

var (
	// unitDir returns the directory systemd looks for user units in.
	unitDir = func() (string, error) {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "systemd", "user"), nil
	}

	systemctl = func(args ...string) error {
		out, err := exec.Command("systemctl", append([]string{"--user"}, args...)...).CombinedOutput()
		if err != nil {
			return fmt.Errorf("systemctl --user %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
		}
		return nil
	}

	executable = os.Executable
)

// UnitPath returns where the unit file is installed.
func UnitPath() (string, error) {
	dir, err := unitDir()
	if err != nil {
		return "", fmt.Errorf("failed to find systemd user unit directory: %w", err)
	}
	return filepath.Join(dir, UnitName), nil
}

// Install writes a systemd user unit that runs the current executable and
// starts it.
func Install() error {
	exePath, err := executable()
	if err != nil {
		return fmt.Errorf("failed to get the path to the current executable: %w", err)
	}
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return fmt.Errorf("failed to get the absolute path to the current executable: %w", err)
	}

	logrus.Infof("current executable path: %s", exePath)

	unitPath, err := UnitPath()
	if err != nil {
		return err
	}

	unit := strings.ReplaceAll(hack.SystemdUnitTemplate, "/path/to/battery-daemon", exePath)

	err = os.MkdirAll(filepath.Dir(unitPath), 0755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(unitPath), err)
	}

	if _, err := os.Stat(unitPath); err == nil {
		logrus.Warnf("%s already exists, overwriting", unitPath)
	}

	logrus.Infof("writing systemd user unit to %s", unitPath)

	err = os.WriteFile(unitPath, []byte(unit), 0644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", unitPath, err)
	}

	if err := systemctl("daemon-reload"); err != nil {
		return err
	}

	logrus.Infof("starting battery-daemon")

	return systemctl("enable", "--now", UnitName)
}
