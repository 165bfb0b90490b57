// Package connector builds the bound network listeners of a server from
// its transport configuration: a plain TCP listener, or a TLS listener
// serving keystore certificate material.
package connector

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"
)

// Config describes a single listener. The generic settings (port,
// address reuse, idle timeout, acceptor count) apply to both listener
// kinds; TLS is set only for the encrypted variant.
type Config struct {
	Port         int
	ReuseAddress bool
	IdleTimeout  time.Duration
	Acceptors    int
	TLS          *TLS
}

// Scheme reports the URL scheme served by listeners built from c.
func (c Config) Scheme() string {
	if c.TLS != nil {
		return "https"
	}

	return "http"
}

// Open binds a TCP listener on the configured port, setting SO_REUSEADDR
// before bind when address reuse is enabled, and wraps it for TLS when
// certificate material is configured. Keystore and bind errors surface
// here rather than at configuration time.
func (c Config) Open(ctx context.Context) (net.Listener, error) {
	lc := net.ListenConfig{}
	if c.ReuseAddress {
		lc.Control = reuseAddr
	}

	ln, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", c.Port))
	if err != nil {
		return nil, fmt.Errorf("binding port %d: %w", c.Port, err)
	}

	if c.TLS == nil {
		return ln, nil
	}

	cert, err := c.TLS.certificate(ctx)
	if err != nil {
		ln.Close()
		return nil, err
	}

	return tls.NewListener(ln, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}), nil
}

// Share returns n listeners backed by ln, one per accept loop. All of
// them accept from the same socket, and closing any of them closes ln
// exactly once; later closes observe the first result. This keeps a
// server that closes every listener it serves from reporting a double
// close of the shared socket.
func Share(ln net.Listener, n int) []net.Listener {
	if n < 1 {
		n = 1
	}

	cl := &closeOnce{ln: ln}

	out := make([]net.Listener, n)
	for i := range out {
		out[i] = &sharedListener{Listener: ln, close: cl}
	}

	return out
}

type closeOnce struct {
	ln   net.Listener
	once sync.Once
	err  error
}

func (c *closeOnce) Close() error {
	c.once.Do(func() { c.err = c.ln.Close() })
	return c.err
}

type sharedListener struct {
	net.Listener
	close *closeOnce
}

func (s *sharedListener) Close() error { return s.close.Close() }
