package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	daemonutils "github.com/charlie0129/battery-daemon/pkg/utils/daemon"
)

// NewInstallCommand .
func NewInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "install",
		Short:   "Install battery-daemon as a systemd user service",
		GroupID: gInstallation,
		Long: `Install battery-daemon as a systemd user service.

This makes battery-daemon run in the background whenever you are logged in to a graphical session. Do not run this command as root: notifications are shown on the desktop of the user that owns the service.

The service reads the same config file and BATTERY_DAEMON_* variables as the foreground daemon.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if os.Geteuid() == 0 {
				logrus.Warn("installing as root, the service will only notify root's desktop session")
			}

			if err := daemonutils.Install(); err != nil {
				return fmt.Errorf("failed to install daemon: %w", err)
			}

			logrus.Infof("installation succeeded")

			exePath, _ := os.Executable()

			cmd.Printf("systemd will use the current binary (%s) so please make sure you do not move this binary. Once this binary is moved or deleted, you will need to run ``battery-daemon install'' again.\n", exePath)

			return nil
		},
	}
}

// NewUninstallCommand .
func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall",
		Short:   "Uninstall the battery-daemon systemd user service",
		GroupID: gInstallation,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := daemonutils.Uninstall(); err != nil {
				return fmt.Errorf("failed to uninstall daemon: %w", err)
			}

			logrus.Infof("uninstallation succeeded")

			cmd.Println("battery-daemon is stopped and will no longer start on login. You can remove this binary now.")

			return nil
		},
	}
}
