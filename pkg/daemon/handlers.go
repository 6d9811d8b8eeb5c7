package daemon

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battery-daemon/pkg/events"
	"github.com/charlie0129/battery-daemon/pkg/types"
	"github.com/charlie0129/battery-daemon/pkg/version"
)

// server exposes the read-only status API of a running daemon.
type server struct {
	loop     *Loop
	hub      *events.EventHub
	gatherer prometheus.Gatherer

	source string
	sink   string
}

func (s *server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/status", s.getStatus)
	router.GET("/version", s.getVersion)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	router.GET("/events", s.streamEvents)

	return router
}

func (s *server) status() types.DaemonStatus {
	st := s.loop.Status()
	st.Version = version.Version
	st.Source = s.source
	st.Sink = s.sink
	return st
}

func (s *server) getStatus(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, s.status())
}

func (s *server) getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

// streamEvents sends loop events as server-sent events until the client
// goes away.
func (s *server) streamEvents(c *gin.Context) {
	if s.hub == nil {
		c.IndentedJSON(http.StatusNotFound, "event stream is not enabled")
		return
	}

	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	// Send headers right away so clients are not left waiting for the first event.
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		}
	})
}
