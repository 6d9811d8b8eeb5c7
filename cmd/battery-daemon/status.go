package main

import (
	"encoding/json"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battery-daemon/pkg/powerinfo"
	"github.com/charlie0129/battery-daemon/pkg/types"
)

func NewStatusCommand() *cobra.Command {
	asJSON := false

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current status of battery-daemon",
		Long:    `Get the last battery sample, the alert state and the configuration of the running daemon.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newAPIClient(cmd)

			st, err := c.GetStatus()
			if err != nil {
				return err
			}

			if asJSON {
				b, err := json.MarshalIndent(newStatusJSON(st), "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(b))
				return nil
			}

			checkVersion(c)
			printStatus(cmd, st, time.Now())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")

	return cmd
}

func printStatus(cmd *cobra.Command, st *types.DaemonStatus, now time.Time) {
	cmd.Println(bold("Battery status:"))
	if st.LastSample == nil {
		cmd.Println("  No successful sample yet.")
	} else {
		charge := bold("%d%%", st.LastSample.Capacity)
		if st.LastSample.Capacity <= st.Threshold {
			charge = color.New(color.Bold, color.FgRed).Sprintf("%d%%", st.LastSample.Capacity)
		}
		cmd.Printf("  Current charge: %s\n", charge)
		cmd.Printf("  State: %s\n", bold("%s", stateText(st.LastSample.State)))
		if st.LastSampleAt != nil {
			cmd.Printf("  Sampled: %s ago\n", now.Sub(*st.LastSampleAt).Round(time.Second))
		}
	}
	if st.LastSampleError != "" {
		cmd.Printf("  Last error: %s\n", color.RedString(st.LastSampleError))
	}

	cmd.Println()

	cmd.Println(bold("Alerts:"))
	cmd.Printf("  Low battery episode: %s\n", bool2Text(st.Alerted))
	if st.Alerted {
		cmd.Println("    You have been notified. The next alert fires after the battery charges above the threshold or you plug in.")
	}
	cmd.Printf("  Alerts fired: %s\n", bold("%d", st.AlertsFired))
	if st.LastAlertAt != nil {
		cmd.Printf("  Last alert: %s\n", st.LastAlertAt.Local().Format(time.DateTime))
	}
	if st.LastAlertError != "" {
		cmd.Printf("  Last delivery error: %s\n", color.RedString(st.LastAlertError))
	}

	cmd.Println()

	cmd.Println(bold("Configuration:"))
	cmd.Printf("  Threshold: %s\n", bold("%d%%", st.Threshold))
	cmd.Printf("  Interval: %s\n", bold("%s", time.Duration(st.IntervalSeconds)*time.Second))
	cmd.Printf("  Source: %s\n", bold("%s", st.Source))
	cmd.Printf("  Sink: %s\n", bold("%s", st.Sink))
	cmd.Printf("  Daemon version: %s\n", bold("%s", st.Version))
}

func stateText(s powerinfo.ChargeState) string {
	switch s {
	case powerinfo.Charging:
		return color.GreenString("charging")
	case powerinfo.Discharging:
		return color.RedString("discharging")
	case powerinfo.Full:
		return "full"
	default:
		return "unknown"
	}
}
