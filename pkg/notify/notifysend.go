package notify

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// runCommand runs name with args and returns whatever it wrote to stderr.
var runCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}

// deliveryTimeout bounds a single notify-send run.
const deliveryTimeout = 10 * time.Second

var _ Sink = &NotifySend{}

// NotifySend shows desktop notifications using the notify-send utility
// from libnotify.
type NotifySend struct {
	Binary  string
	Urgency string
}

func NewNotifySend() *NotifySend {
	return &NotifySend{
		Binary:  "notify-send",
		Urgency: "critical",
	}
}

func (n *NotifySend) Alert(ctx context.Context, title, message string) error {
	args := []string{"--urgency=" + n.Urgency, title, message}

	logrus.WithFields(logrus.Fields{
		"binary": n.Binary,
		"args":   args,
	}).Trace("running notify-send")

	// A shutdown must not kill a notification that is already on its way.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
	defer cancel()

	stderr, err := runCommand(ctx, n.Binary, args...)
	if err != nil {
		return &SinkError{
			Backend: BackendNotifySend,
			Output:  strings.TrimSpace(string(stderr)),
			Err:     err,
		}
	}

	return nil
}
