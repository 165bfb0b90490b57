package soaper

import "net/url"

// Default configuration values applied by [NewBuilder].
const (
	DefaultHTTPPort               = 8080
	DefaultHTTPSPort              = 8443
	DefaultConnectionMaxIdleTime  = 60
	DefaultAcceptorThreads        = 4
	DefaultCoreThreads            = 8
	DefaultMaxThreads             = 16
	DefaultThreadKeepAliveSeconds = 60
	DefaultKeyStoreType           = "JKS"
)

// Config is the validated, immutable server configuration produced by a
// [Builder]. Neither transport is enabled by default; setting a port
// through the builder enables the matching transport.
type Config struct {
	HTTPEnabled  bool `json:"httpEnabled"`
	HTTPPort     int  `json:"httpPort" validate:"min=0,max=65535"`
	HTTPSEnabled bool `json:"httpsEnabled"`
	HTTPSPort    int  `json:"httpsPort" validate:"min=0,max=65535"`

	// ReuseAddress sets SO_REUSEADDR on the listening sockets, letting a
	// restarted server rebind a port still in TIME_WAIT.
	ReuseAddress bool `json:"reuseAddress"`

	// ConnectionMaxIdleTimeInSeconds closes keep-alive connections that
	// stay idle longer than this.
	ConnectionMaxIdleTimeInSeconds int `json:"connectionMaxIdleTimeInSeconds" validate:"min=0"`

	// AcceptorThreads is the number of accept loops per listener.
	AcceptorThreads int `json:"acceptorThreads" validate:"gt=0"`

	// CoreThreads and MaxThreads size the request worker pool. A
	// MaxThreads below CoreThreads is tolerated; the pool clamps its
	// resident worker count to MaxThreads.
	CoreThreads int `json:"coreThreads" validate:"gt=0"`
	MaxThreads  int `json:"maxThreads" validate:"gt=0"`

	// ThreadKeepAliveTimeInSeconds is how long workers above CoreThreads
	// stay alive while idle.
	ThreadKeepAliveTimeInSeconds int `json:"threadKeepAliveTimeInSeconds" validate:"min=0"`

	// KeyStoreURL locates the certificate container for the TLS
	// listener. Required when HTTPSEnabled; file and http(s) URLs are
	// supported.
	KeyStoreURL      *url.URL `json:"keyStoreUrl" validate:"required_if=HTTPSEnabled true"`
	KeyStoreType     string   `json:"keyStoreType" validate:"required"`
	KeyStorePassword string   `json:"keyStorePassword"`
}

// DefaultConfig returns the configuration a fresh [Builder] starts from.
func DefaultConfig() Config {
	return Config{
		HTTPPort:                       DefaultHTTPPort,
		HTTPSPort:                      DefaultHTTPSPort,
		ReuseAddress:                   true,
		ConnectionMaxIdleTimeInSeconds: DefaultConnectionMaxIdleTime,
		AcceptorThreads:                DefaultAcceptorThreads,
		CoreThreads:                    DefaultCoreThreads,
		MaxThreads:                     DefaultMaxThreads,
		ThreadKeepAliveTimeInSeconds:   DefaultThreadKeepAliveSeconds,
		KeyStoreType:                   DefaultKeyStoreType,
	}
}
