package fetch

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type options struct {
	logger     *zap.Logger
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
}

var defaultOptions = options{
	logger:  zap.NewNop(),
	baseURL: DefaultBaseURL,
	timeout: 15 * time.Second,
}

// Option configures a Client.
type Option func(opts *options)

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithBaseURL points the client at another host.
func WithBaseURL(baseURL string) Option {
	return func(opts *options) {
		if baseURL != "" {
			opts.baseURL = baseURL
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *options) {
		if timeout > 0 {
			opts.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the HTTP client; WithTimeout no longer applies.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *options) {
		opts.httpClient = client
	}
}

// WithLimiter throttles outgoing requests.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(opts *options) {
		opts.limiter = limiter
	}
}
