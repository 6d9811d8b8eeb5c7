package main

import (
	"errors"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battery-daemon/pkg/client"
	"github.com/charlie0129/battery-daemon/pkg/config"
	"github.com/charlie0129/battery-daemon/pkg/version"
)

// newAPIClient connects to the socket the daemon would use with the same
// flags, environment and config file.
func newAPIClient(cmd *cobra.Command) *client.Client {
	conf, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		socket, _ := cmd.Flags().GetString(config.KeySocket)
		logrus.Warnf("%v, using socket %s", err, socket)
		return client.NewClient(socket)
	}
	return client.NewClient(conf.Socket)
}

// checkVersion warns when the daemon is a different build than this binary.
func checkVersion(c *client.Client) {
	daemonVersion, err := c.GetVersion()
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			logrus.Error("daemon is too old to report its version. Restart it with this binary.")
		}
		return
	}

	if daemonVersion != version.Version {
		logrus.WithFields(logrus.Fields{
			"clientVersion": version.Version,
			"daemonVersion": daemonVersion,
		}).Warn("Version mismatch between client and daemon. Restart the daemon to use this version.")
	}
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
