package soaper

import "fmt"

// endpointURL builds the externally reachable URL for a context path.
// The plain listener is preferred when enabled; otherwise the TLS
// scheme and port are used, even when neither transport is enabled.
func endpointURL(cfg Config, path string) string {
	if cfg.HTTPEnabled {
		return fmt.Sprintf("http://localhost:%d%s", cfg.HTTPPort, path)
	}

	return fmt.Sprintf("https://localhost:%d%s", cfg.HTTPSPort, path)
}
