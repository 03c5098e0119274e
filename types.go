package requestspro

import (
	"context"
	"net/http"
	"time"
)

// Transport is the capability a backing engine must expose to the middleware.
// It is deliberately explicit: an engine member that is not listed here is not
// reachable, there is no fallback delegation to the wrapped engine.
type Transport interface {
	// Do performs a single attempt of the given verb. Redirects are never
	// followed by the engine; the middleware handles them.
	Do(ctx context.Context, method, url string, opts *RequestOptions) (*Response, error)

	// Headers returns the session's mutable header mapping. Mutations are
	// visible on subsequent attempts.
	Headers() *HeaderMap
	// SetHeaders replaces the whole header mapping.
	SetHeaders(h map[string]string)
	// UpdateHeaders merges the given headers into the mapping.
	UpdateHeaders(h map[string]string)

	// Cookies returns the live cookie jar.
	Cookies() *Jar

	// Proxies reports the currently applied proxy configuration.
	Proxies() ProxyConfig
	// SetProxies applies a proxy configuration after validating it. An
	// invalid configuration leaves the current one untouched.
	SetProxies(p ProxyConfig) error

	// Identifier is the engine's client identifier (fingerprint profile for
	// TLS engines, a browser version tag otherwise).
	Identifier() string
	// Kind tags the engine variant for snapshots and factories.
	Kind() string

	// Renew builds a fresh transport of the same kind, copying every
	// low-level negotiation parameter from this one. Session state
	// (headers, cookies, proxies) starts empty on the new transport.
	Renew() (Transport, error)

	// Close releases the engine's resources. The transport must not be used
	// afterwards.
	Close() error
}

// Response is the transport-agnostic view of one HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// URL is the final URL the response was served from.
	URL string
}

// Text returns the body as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// StatusHandler replaces the built-in status classification for one call.
// Any error it returns is recorded as a generic attempt failure.
type StatusHandler func(resp *Response) error

// RequestOptions carries the per-call overrides and middleware knobs.
// The zero value means "all defaults".
type RequestOptions struct {
	// Timeout bounds a single attempt. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Verify enables TLS certificate verification. Unset means disabled,
	// which keeps local MITM proxying workable.
	Verify *bool
	// Proxies overrides the session proxies for this call only.
	Proxies ProxyConfig

	// Headers are merged over the session headers for this call only.
	Headers map[string]string
	// Cookies are sent on top of the jar for this call only.
	Cookies map[string]string

	// Body is the request payload: []byte, string, io.Reader, url.Values or
	// map[string]string (form-encoded).
	Body any
	// JSON, when set, is marshalled and sent with Content-Type
	// application/json. Takes precedence over Body.
	JSON any
	// Query is appended to the URL: url.Values, map[string]string, or a
	// struct with `url` tags (encoded via go-querystring). Dropped when a
	// redirect is followed.
	Query any

	// MaxRetries caps the attempt count. Defaults to DefaultMaxRetries.
	MaxRetries int
	// MaxRedirects caps redirect hops within one call, independently of the
	// retry budget. Defaults to DefaultMaxRedirects.
	MaxRedirects int
	// SkipStatusCheck disables status classification for this call.
	SkipStatusCheck bool
	// SkipRedirects stops the middleware from following redirects.
	SkipRedirects bool
	// CustomStatusHandler fully replaces the built-in status rules.
	CustomStatusHandler StatusHandler
	// RedirectStopExact halts redirect-following when the target URL equals
	// it exactly.
	RedirectStopExact string
	// RedirectStopContains halts redirect-following when the target URL
	// contains it.
	RedirectStopContains string
	// StatusesToSkip lists status codes that always pass classification.
	// Use SkipStatuses to build it from ints or strings.
	StatusesToSkip []string

	// NoMiddleware sends the request straight to the transport, bypassing
	// retries, redirects, cookie sync and status classification.
	NoMiddleware bool
	// UseMITM overrides the session's local-MITM routing for this call.
	UseMITM *bool
}

// Default middleware knobs.
const (
	DefaultTimeout      = 5 * time.Second
	DefaultMaxRetries   = 3
	DefaultMaxRedirects = 10
)

// Transport kind tags. The values double as the snapshot type tags, so they
// are part of the persisted-state compatibility contract.
const (
	KindHTTP = "RequestsClient"
	KindTLS  = "TLSClient"
)

// Option configures a Client at construction time.
type Option func(*Client)

// ProxySource supplies formatted proxy URLs for rotation. An empty string
// with a nil error means "nothing available right now".
type ProxySource interface {
	Proxy() (string, error)
}

// ResetOptions tunes Client.Reset.
type ResetOptions struct {
	// Proxies, when set, is applied instead of rotating through the source.
	Proxies ProxyConfig
	// UseProxies false leaves the new transport proxyless.
	UseProxies bool
	// PreserveCookies carries the jar over to the new transport. The
	// default drops it, matching a clean reset.
	PreserveCookies bool
	// PreserveHeaders carries post-construction header overrides over to
	// the new transport on top of the baseline profile headers.
	PreserveHeaders bool
}
