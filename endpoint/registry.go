package endpoint

import (
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"
)

// Registry maps context paths to their responders. It is safe for
// concurrent use; every operation completes atomically under a single
// lock, so a failed call leaves the Registry unchanged.
type Registry struct {
	mu         sync.Mutex
	responders map[string]Responder
	order      []string
	resolve    func(path string) string
	logger     *slog.Logger
}

// NewRegistry creates an empty Registry. resolve turns a context path
// into the externally visible endpoint URL used for validation and
// logging; a nil resolve uses the path itself. A nil logger falls back
// to [slog.Default].
func NewRegistry(resolve func(path string) string, logger *slog.Logger) *Registry {
	if resolve == nil {
		resolve = func(path string) string { return path }
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		responders: make(map[string]Responder),
		resolve:    resolve,
		logger:     logger,
	}
}

// Register binds responder to the given context path. The path must
// begin with a slash, resolve to a well-formed URL, and not collide
// with an existing registration.
func (reg *Registry) Register(path string, responder Responder) error {
	if responder == nil {
		return &RegistrationError{Path: path, Err: ErrNilResponder}
	}
	if !strings.HasPrefix(path, "/") {
		return &RegistrationError{Path: path, Err: ErrPathFormat}
	}

	endpointURL := reg.resolve(path)
	if _, err := url.Parse(endpointURL); err != nil {
		return &RegistrationError{Path: path, Err: fmt.Errorf("%w: %w", ErrMalformedURL, err)}
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.responders[path]; ok {
		return &RegistrationError{Path: path, Err: ErrDuplicatePath}
	}

	reg.logger.Info("registering responder", "responder", fmt.Sprintf("%T", responder), "url", endpointURL)

	reg.responders[path] = responder
	reg.order = append(reg.order, path)

	return nil
}

// Unregister removes the responder bound to the given context path.
func (reg *Registry) Unregister(path string) error {
	reg.logger.Info("unregistering responder", "url", reg.resolve(path))

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.responders[path]; !ok {
		return &RegistrationError{Path: path, Err: ErrUnknownPath}
	}

	delete(reg.responders, path)
	if i := slices.Index(reg.order, path); i >= 0 {
		reg.order = slices.Delete(reg.order, i, i+1)
	}

	return nil
}

// Lookup returns the responder registered under the given context path.
func (reg *Registry) Lookup(path string) (Responder, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	responder, ok := reg.responders[path]

	return responder, ok
}

// Paths returns the registered context paths in registration order.
// The returned slice is a snapshot; later registrations don't alter it.
func (reg *Registry) Paths() []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return slices.Clone(reg.order)
}
