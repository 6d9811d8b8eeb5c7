package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/charlie0129/battery-daemon/pkg/config"
	"github.com/charlie0129/battery-daemon/pkg/events"
	"github.com/charlie0129/battery-daemon/pkg/notify"
	"github.com/charlie0129/battery-daemon/pkg/powerinfo"
)

// ErrAlreadyRunning is returned when another daemon is serving the socket.
var ErrAlreadyRunning = errors.New("another daemon is already running")

const shutdownTimeout = 5 * time.Second

// Run starts the daemon and blocks until SIGINT or SIGTERM.
func Run(conf *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return RunContext(ctx, conf)
}

// RunContext runs the daemon until ctx is cancelled.
func RunContext(ctx context.Context, conf *config.Config) error {
	logrus.WithFields(conf.LogrusFields()).Info("config loaded")

	source, err := powerinfo.New(conf.Source, conf.Battery)
	if err != nil {
		return err
	}

	sink, err := notify.New(conf.Sink)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	hub := events.NewEventHub()
	loop := NewLoop(LoopConfig{
		Source:     source,
		Sink:       sink,
		Threshold:  conf.Threshold,
		Interval:   conf.Interval,
		Hub:        hub,
		Registerer: reg,
	})

	srv := &server{
		loop:     loop,
		hub:      hub,
		gatherer: reg,
		source:   conf.Source,
		sink:     conf.Sink,
	}

	l, err := listen(conf.Socket)
	if errors.Is(err, ErrAlreadyRunning) {
		return err
	}
	if err != nil {
		// Keep alerting without the status API.
		logrus.Errorf("status API disabled: %v", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if l != nil {
		httpServer := &http.Server{
			Handler:           srv.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			logrus.Infof("http server listening on %s", l.Addr().String())
			if err := httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("http server stopped: %v", err)
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			logrus.Info("shutting down http server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logrus.Errorf("failed to shutdown http server: %v", err)
				// Event streams may still be open.
				_ = httpServer.Close()
			}
			return nil
		})
	}

	g.Go(func() error {
		return loop.Run(ctx)
	})

	err = g.Wait()
	logrus.Info("exiting")
	return err
}

// listen creates the status API socket. A socket that nobody answers on is
// left over from a crashed daemon and is replaced.
func listen(path string) (net.Listener, error) {
	if fi, err := os.Stat(path); err == nil {
		if fi.Mode()&os.ModeSocket == 0 {
			return nil, fmt.Errorf("%s exists and is not a socket", path)
		}

		conn, err := net.DialTimeout("unix", path, time.Second)
		if err == nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%w: %s is in use", ErrAlreadyRunning, path)
		}

		logrus.Warnf("removing stale socket %s", path)
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket %s: %w", path, err)
		}
	}

	l, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", path, err)
	}

	if err := os.Chmod(path, 0600); err != nil {
		logrus.Warnf("failed to chmod %s: %v", path, err)
	}

	return l, nil
}
