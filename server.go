package soaper

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adamwoolhether/soaper/connector"
	"github.com/adamwoolhether/soaper/endpoint"
	"github.com/adamwoolhether/soaper/pool"
)

// shutdownTimeout bounds how long Stop waits for in-flight requests
// before closing connections forcefully.
const shutdownTimeout = 20 * time.Second

// Server owns the bound listeners, the request worker pool, and the
// responder registry. Instances are produced by [Builder.Build] and
// driven through Start, Stop, and Destroy; state queries are safe from
// any goroutine at any time, including during a transition.
type Server struct {
	cfg        Config
	logger     *slog.Logger
	registry   *endpoint.Registry
	handler    *endpoint.Endpoint
	workers    *pool.Pool
	connectors []connector.Config

	state atomic.Int32

	mu        sync.Mutex
	destroyed bool
	httpSrv   *http.Server
	listeners []net.Listener
	addrs     map[string]string
	serveWG   sync.WaitGroup
}

// Start binds the configured connectors and begins accepting requests.
// A bind or keystore failure leaves the server in [StateFailed] and is
// returned as a [ServerError]. Starting a running server is a no-op;
// starting a destroyed server fails.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return &ServerError{Op: "start", Err: ErrServerDestroyed}
	}
	if st := s.State(); st == StateStarting || st == StateRunning {
		return nil
	}

	s.setState(StateStarting)

	// Shutdown retires an http.Server for good, so every start cycle
	// serves from a fresh one.
	httpSrv := &http.Server{
		Handler:  s.handler,
		ErrorLog: slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	addrs := make(map[string]string, len(s.connectors))

	var listeners []net.Listener

	ctx := context.Background()
	for _, conn := range s.connectors {
		httpSrv.IdleTimeout = conn.IdleTimeout

		ln, err := conn.Open(ctx)
		if err != nil {
			// Serve goroutines that haven't tracked their listener yet
			// won't close it, so the bound ones are released directly.
			httpSrv.Close()
			for _, l := range listeners {
				l.Close()
			}
			s.serveWG.Wait()
			s.setState(StateFailed)

			return &ServerError{Op: "start", Err: err}
		}

		listeners = append(listeners, ln)
		addrs[conn.Scheme()] = ln.Addr().String()

		for _, shared := range connector.Share(ln, conn.Acceptors) {
			s.serveWG.Add(1)
			go func() {
				defer s.serveWG.Done()
				if err := httpSrv.Serve(shared); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.logger.Error("server", "serve", err)
				}
			}()
		}

		s.logger.Info("listener bound", "scheme", conn.Scheme(), "addr", ln.Addr().String())
	}

	s.httpSrv = httpSrv
	s.listeners = listeners
	s.addrs = addrs
	s.setState(StateRunning)

	return nil
}

// Stop drains in-flight requests and closes the listeners. The worker
// pool and registry are kept, so a stopped server can be started again.
// Stop on an instance that isn't running is a no-op. Stop must not be
// called from inside a responder; it blocks until in-flight requests
// finish.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stopLocked()
}

func (s *Server) stopLocked() error {
	switch s.State() {
	case StateNew, StateStopping, StateStopped:
		return nil
	case StateFailed:
		// A failed start holds no resources.
		s.setState(StateStopped)
		return nil
	}

	s.setState(StateStopping)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.logger.Error("server", "graceful stop", err)
		if err := s.httpSrv.Close(); err != nil {
			s.setState(StateFailed)

			return &ServerError{Op: "stop", Err: err}
		}
	}

	// Shutdown only closes tracked listeners; close the rest directly so
	// a stop racing a freshly spawned accept loop can't leak a socket.
	for _, ln := range s.listeners {
		ln.Close()
	}
	s.serveWG.Wait()

	s.httpSrv = nil
	s.listeners = nil
	s.addrs = nil
	s.setState(StateStopped)
	s.logger.Info("server stopped")

	return nil
}

// Destroy stops the server and releases the worker pool. Destroy is
// idempotent; a destroyed server cannot be started again.
func (s *Server) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return nil
	}

	if err := s.stopLocked(); err != nil {
		return err
	}

	s.workers.Close()
	s.destroyed = true
	s.logger.Info("server destroyed")

	return nil
}

// RegisterRequestResponder binds responder to the given context path,
// logging the externally reachable URL of the registration. The
// registry may be mutated while the server is running.
func (s *Server) RegisterRequestResponder(path string, responder endpoint.Responder) error {
	return s.registry.Register(path, responder)
}

// UnregisterRequestResponder removes the responder bound to path.
func (s *Server) UnregisterRequestResponder(path string) error {
	return s.registry.Unregister(path)
}

// RegisteredContextPaths returns a snapshot of the registered context
// paths in registration order.
func (s *Server) RegisteredContextPaths() []string {
	return s.registry.Paths()
}

// Config returns a copy of the server's configuration.
func (s *Server) Config() Config {
	return s.cfg
}

// HTTPAddr returns the bound address of the plain listener, or "" when
// it isn't serving.
func (s *Server) HTTPAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addrs["http"]
}

// HTTPSAddr returns the bound address of the TLS listener, or "" when
// it isn't serving.
func (s *Server) HTTPSAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addrs["https"]
}

func (s *Server) setState(st State) {
	s.state.Store(int32(st))
}

// State returns the server's current lifecycle state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// IsRunning reports whether the server is starting or started.
func (s *Server) IsRunning() bool {
	st := s.State()
	return st == StateStarting || st == StateRunning
}

// IsStarted reports whether the server has fully started.
func (s *Server) IsStarted() bool {
	return s.State() == StateRunning
}

// IsStarting reports whether a start is in progress.
func (s *Server) IsStarting() bool {
	return s.State() == StateStarting
}

// IsStopping reports whether a stop is in progress.
func (s *Server) IsStopping() bool {
	return s.State() == StateStopping
}

// IsStopped reports whether the server is stopped or was never started.
func (s *Server) IsStopped() bool {
	st := s.State()
	return st == StateNew || st == StateStopped
}

// IsFailed reports whether the last start failed.
func (s *Server) IsFailed() bool {
	return s.State() == StateFailed
}

// IsNotRunning reports whether the server is stopping or stopped.
func (s *Server) IsNotRunning() bool {
	return s.IsStopping() || s.IsStopped()
}
