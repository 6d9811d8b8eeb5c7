package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/battery-daemon/pkg/client"
	"github.com/charlie0129/battery-daemon/pkg/config"
	"github.com/charlie0129/battery-daemon/pkg/daemon"
)

var (
	logLevel   = "info"
	configPath = ""
)

var (
	gBasic        = "Basic:"
	gInstallation = "Installation:"
	commandGroups = []string{
		gBasic,
		gInstallation,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	switch {
	case errors.Is(err, client.ErrDaemonNotRunning):
		fmt.Fprintln(os.Stderr, "\nError: battery-daemon is not running")
		fmt.Fprintln(os.Stderr, "Start it with 'battery-daemon', or install it as a service with 'battery-daemon install'.")
	case errors.Is(err, client.ErrPermissionDenied):
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - The daemon socket belongs to another user")
		fmt.Fprintln(os.Stderr, "  - Use --socket to point at your own daemon")
	case errors.Is(err, daemon.ErrAlreadyRunning):
		fmt.Fprintln(os.Stderr, "\nError: battery-daemon is already running")
		fmt.Fprintln(os.Stderr, "Check it with 'battery-daemon status'.")
	}
}

func main() {
	// A battery monitor has no business using every core.
	if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(2)
	}

	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "battery-daemon",
		Short: "battery-daemon warns you once when your battery runs low",
		Long: `battery-daemon polls the battery and shows a desktop notification when it is
discharging at or below the threshold. It notifies once per low battery episode
and re-arms as soon as you plug in.

Running battery-daemon without a subcommand starts the daemon in the foreground.

Configuration, highest precedence first:
  command line flags
  environment variables (BATTERY_DAEMON_INTERVAL, BATTERY_DAEMON_THRESHOLD, ...)
  config file (key=value, default $XDG_CONFIG_HOME/battery-daemon/config)
  built-in defaults

Website: https://github.com/charlie0129/battery-daemon`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
		RunE: runDaemon,
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path (default $XDG_CONFIG_HOME/battery-daemon/config)")
	globalFlags.StringP(config.KeyInterval, "i", config.DefaultInterval.String(), "polling interval, a duration or a number of seconds")
	globalFlags.IntP(config.KeyThreshold, "t", config.DefaultThreshold, "alert at or below this battery percentage (0-100)")
	globalFlags.String(config.KeySource, "sysfs", "battery source (sysfs, native)")
	globalFlags.String(config.KeySink, "notify-send", "alert sink (notify-send, log)")
	globalFlags.String(config.KeyBattery, "", "sysfs battery name, e.g. BAT1 (default: first battery found)")
	globalFlags.String(config.KeySocket, config.DefaultSocketPath(), "status API unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewDaemonCommand(),
		NewVersionCommand(),
		NewStatusCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
	)

	return cmd
}
