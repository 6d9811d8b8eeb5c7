package daemon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeSystemd(t *testing.T, failOn string) (dir string, calls *[][]string) {
	t.Helper()
	dir = t.TempDir()
	calls = &[][]string{}

	oldDir, oldCtl, oldExe := unitDir, systemctl, executable
	t.Cleanup(func() { unitDir, systemctl, executable = oldDir, oldCtl, oldExe })

	unitDir = func() (string, error) { return dir, nil }
	executable = func() (string, error) { return "/opt/bin/battery-daemon", nil }
	systemctl = func(args ...string) error {
		*calls = append(*calls, args)
		if len(args) > 0 && args[0] == failOn {
			return errors.New("systemctl failed")
		}
		return nil
	}
	return dir, calls
}

func TestInstall(t *testing.T) {
	dir, calls := fakeSystemd(t, "")

	require.NoError(t, Install())

	b, err := os.ReadFile(filepath.Join(dir, UnitName))
	require.NoError(t, err)
	assert.Contains(t, string(b), "ExecStart=/opt/bin/battery-daemon daemon")
	assert.NotContains(t, string(b), "/path/to/battery-daemon")

	assert.Equal(t, [][]string{
		{"daemon-reload"},
		{"enable", "--now", UnitName},
	}, *calls)
}

func TestInstall_SystemctlError(t *testing.T) {
	_, _ = fakeSystemd(t, "enable")
	assert.ErrorContains(t, Install(), "systemctl failed")
}

func TestUninstall(t *testing.T) {
	dir, calls := fakeSystemd(t, "")
	unit := filepath.Join(dir, UnitName)
	require.NoError(t, os.WriteFile(unit, []byte("[Unit]\n"), 0644))

	require.NoError(t, Uninstall())

	_, err := os.Stat(unit)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, [][]string{
		{"disable", "--now", UnitName},
		{"daemon-reload"},
	}, *calls)
}

func TestUninstall_NotInstalled(t *testing.T) {
	_, calls := fakeSystemd(t, "")

	require.NoError(t, Uninstall())
	assert.Empty(t, *calls)
}
