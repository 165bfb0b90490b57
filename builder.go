package soaper

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/adamwoolhether/soaper/connector"
	"github.com/adamwoolhether/soaper/endpoint"
	"github.com/adamwoolhether/soaper/pool"
	"github.com/adamwoolhether/soaper/throttle"
	"go.opentelemetry.io/otel/trace"
)

// Builder assembles a [Server] through fluent setters. Each setter
// validates its argument immediately; the first violation is recorded
// and surfaced by [Builder.Build], which also enforces the cross-field
// rules no single setter can check.
type Builder struct {
	cfg      Config
	logger   *slog.Logger
	tracer   trace.Tracer
	throttle *throttle.Config
	maxBytes int64
	err      error
}

// NewBuilder returns a Builder preloaded with [DefaultConfig].
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

func (b *Builder) fail(field string, err error) *Builder {
	if b.err == nil {
		b.err = &ConfigError{Field: field, Err: err}
	}

	return b
}

// HTTPPort sets the plain listener port and enables plain transport.
func (b *Builder) HTTPPort(port int) *Builder {
	if port < 0 || port > 65535 {
		return b.fail("httpPort", fmt.Errorf("port[%d] %w", port, ErrPortOutOfRange))
	}

	b.cfg.HTTPPort = port
	b.cfg.HTTPEnabled = true

	return b
}

// HTTPSPort sets the TLS listener port and enables TLS transport. A
// keystore URL must be supplied before [Builder.Build].
func (b *Builder) HTTPSPort(port int) *Builder {
	if port < 0 || port > 65535 {
		return b.fail("httpsPort", fmt.Errorf("port[%d] %w", port, ErrPortOutOfRange))
	}

	b.cfg.HTTPSPort = port
	b.cfg.HTTPSEnabled = true

	return b
}

// ConnectionMaxIdleTimeInSeconds closes keep-alive connections that
// stay idle longer than the given number of seconds.
func (b *Builder) ConnectionMaxIdleTimeInSeconds(seconds int) *Builder {
	if seconds < 0 {
		return b.fail("connectionMaxIdleTimeInSeconds", fmt.Errorf("seconds[%d] %w", seconds, ErrMustNotBeNegative))
	}

	b.cfg.ConnectionMaxIdleTimeInSeconds = seconds

	return b
}

// AcceptorThreads sets the number of accept loops per listener.
func (b *Builder) AcceptorThreads(count int) *Builder {
	if count <= 0 {
		return b.fail("acceptorThreads", fmt.Errorf("count[%d] %w", count, ErrMustBePositive))
	}

	b.cfg.AcceptorThreads = count

	return b
}

// CoreThreads sets the resident size of the request worker pool.
func (b *Builder) CoreThreads(count int) *Builder {
	if count <= 0 {
		return b.fail("coreThreads", fmt.Errorf("count[%d] %w", count, ErrMustBePositive))
	}

	b.cfg.CoreThreads = count

	return b
}

// MaxThreads caps the request worker pool size.
func (b *Builder) MaxThreads(count int) *Builder {
	if count <= 0 {
		return b.fail("maxThreads", fmt.Errorf("count[%d] %w", count, ErrMustBePositive))
	}

	b.cfg.MaxThreads = count

	return b
}

// ThreadKeepAliveTimeInSeconds sets how long workers above CoreThreads
// stay alive while idle.
func (b *Builder) ThreadKeepAliveTimeInSeconds(seconds int) *Builder {
	if seconds < 0 {
		return b.fail("threadKeepAliveTimeInSeconds", fmt.Errorf("seconds[%d] %w", seconds, ErrMustNotBeNegative))
	}

	b.cfg.ThreadKeepAliveTimeInSeconds = seconds

	return b
}

// KeyStoreURL locates the certificate container for the TLS listener.
func (b *Builder) KeyStoreURL(u *url.URL) *Builder {
	if u == nil {
		return b.fail("keyStoreUrl", fmt.Errorf("url %w", ErrMissingValue))
	}

	b.cfg.KeyStoreURL = u

	return b
}

// KeyStoreType names the keystore container format. JKS, PKCS12, and
// PEM are readable; the material itself is not checked until the
// listener loads the keystore at start.
func (b *Builder) KeyStoreType(keystoreType string) *Builder {
	if keystoreType == "" {
		return b.fail("keyStoreType", fmt.Errorf("type %w", ErrMissingValue))
	}

	b.cfg.KeyStoreType = keystoreType

	return b
}

// KeyStorePassword sets the keystore password. An empty password is
// permitted.
func (b *Builder) KeyStorePassword(password string) *Builder {
	b.cfg.KeyStorePassword = password

	return b
}

// ReuseAddress toggles SO_REUSEADDR on the listening sockets.
func (b *Builder) ReuseAddress(reuse bool) *Builder {
	b.cfg.ReuseAddress = reuse

	return b
}

// Logger sets the logger used by the server and its registry.
func (b *Builder) Logger(log *slog.Logger) *Builder {
	b.logger = log

	return b
}

// Tracer injects the given tracer into the request dispatch path.
func (b *Builder) Tracer(tracer trace.Tracer) *Builder {
	b.tracer = tracer

	return b
}

// RequestThrottle rate-limits dispatch with a token bucket of the given
// requests per second and burst capacity.
func (b *Builder) RequestThrottle(rps, burst int) *Builder {
	if rps <= 0 || burst <= 0 {
		return b.fail("requestThrottle", fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero))
	}

	b.throttle = &throttle.Config{RPS: rps, Burst: burst}

	return b
}

// MaxRequestBytes caps accepted request body sizes. Zero means no limit.
func (b *Builder) MaxRequestBytes(n int64) *Builder {
	if n < 0 {
		return b.fail("maxRequestBytes", fmt.Errorf("bytes[%d] %w", n, ErrMustNotBeNegative))
	}

	b.maxBytes = n

	return b
}

// Build validates the assembled configuration and returns a [Server] in
// [StateNew]. The TLS keystore is located here, not loaded; unreadable
// certificate material surfaces when [Server.Start] binds the listener.
func (b *Builder) Build() (*Server, error) {
	if b.err != nil {
		return nil, b.err
	}

	if err := Validate(b.cfg); err != nil {
		if fields, ok := errors.AsType[FieldErrors](err); ok && len(fields) > 0 {
			return nil, &ConfigError{Field: fields[0].Field, Err: errors.New(fields[0].Err)}
		}

		return nil, fmt.Errorf("validating config: %w", err)
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	workers, err := pool.New(b.cfg.CoreThreads, b.cfg.MaxThreads, time.Duration(b.cfg.ThreadKeepAliveTimeInSeconds)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}

	cfg := b.cfg

	registry := endpoint.NewRegistry(func(path string) string {
		return endpointURL(cfg, path)
	}, logger)

	endpointOpts := []endpoint.Option{
		endpoint.WithLogger(logger),
		endpoint.WithExecutor(workers),
	}
	if b.tracer != nil {
		endpointOpts = append(endpointOpts, endpoint.WithTracer(b.tracer))
	}
	if b.maxBytes > 0 {
		endpointOpts = append(endpointOpts, endpoint.WithMaxRequestBytes(b.maxBytes))
	}
	if b.throttle != nil {
		gate, err := throttle.NewGate(b.throttle.RPS, b.throttle.Burst, func() *slog.Logger { return logger })
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		endpointOpts = append(endpointOpts, endpoint.WithGate(gate))
	}

	idle := time.Duration(cfg.ConnectionMaxIdleTimeInSeconds) * time.Second

	var connectors []connector.Config
	if cfg.HTTPEnabled {
		connectors = append(connectors, connector.Config{
			Port:         cfg.HTTPPort,
			ReuseAddress: cfg.ReuseAddress,
			IdleTimeout:  idle,
			Acceptors:    cfg.AcceptorThreads,
		})
	}
	if cfg.HTTPSEnabled {
		connectors = append(connectors, connector.Config{
			Port:         cfg.HTTPSPort,
			ReuseAddress: cfg.ReuseAddress,
			IdleTimeout:  idle,
			Acceptors:    cfg.AcceptorThreads,
			TLS: &connector.TLS{
				KeyStoreURL:      cfg.KeyStoreURL,
				KeyStoreType:     cfg.KeyStoreType,
				KeyStorePassword: cfg.KeyStorePassword,
			},
		})
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		registry:   registry,
		handler:    endpoint.New(registry, endpointOpts...),
		workers:    workers,
		connectors: connectors,
	}, nil
}
