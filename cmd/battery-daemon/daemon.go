package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battery-daemon/pkg/config"
	"github.com/charlie0129/battery-daemon/pkg/daemon"
	"github.com/charlie0129/battery-daemon/pkg/version"
)

// NewDaemonCommand is the explicit form of the root command, used by the
// systemd unit.
func NewDaemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "daemon",
		Hidden: true,
		Short:  "Run battery-daemon in the foreground",
		Args:   cobra.NoArgs,
		RunE:   runDaemon,
	}
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	conf, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"version": version.Version,
		"commit":  version.GitCommit,
	}).Info("battery-daemon starting")

	return daemon.Run(conf)
}
