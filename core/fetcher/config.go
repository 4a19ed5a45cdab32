package fetcher

// Config holds configuration for retrieving remote feed documents.
type Config struct {
	// TimeoutSeconds bounds a whole fetch (connect, headers and body).
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxItems caps the number of items kept from one document, in document order.
	MaxItems int `mapstructure:"max_items" default:"10"`
	// MaxBodyBytes rejects documents larger than this many bytes.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" default:"10485760"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"feedsync/1.0"`
	// HostIntervalMs is the minimum delay between two requests to the same host. Zero disables throttling.
	HostIntervalMs int `mapstructure:"host_interval_ms" default:"0"`
}

// DefaultMaxItems is used when Config.MaxItems is not positive.
const DefaultMaxItems = 10
