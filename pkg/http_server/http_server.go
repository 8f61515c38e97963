package http_server

import (
	"context"
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// Server wraps http.Server with a notify channel so the caller can select
// on server failure alongside OS signals.
type Server struct {
	server *http.Server
	notify chan error
}

func New(handler http.Handler, address string) *Server {
	s := &Server{
		server: &http.Server{
			Handler:           handler,
			Addr:              address,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		notify: make(chan error, 1),
	}

	go func() {
		s.notify <- s.server.ListenAndServe()
		close(s.notify)
	}()

	return s
}

// Notify delivers the ListenAndServe result once the server stops serving.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown drains in-flight requests, giving up after shutdownTimeout.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.server.Shutdown(ctx)
}
