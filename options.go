package requestspro

import (
	"time"
)

// WithMaxRetries sets the session default retry budget.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithMaxRedirects caps redirect hops per call.
func WithMaxRedirects(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRedirects = n
		}
	}
}

// WithTimeout sets the session default per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithNoMiddleware sends every call straight to the transport unless the
// call re-enables the middleware.
func WithNoMiddleware() Option {
	return func(c *Client) {
		c.noMiddleware = true
	}
}

// WithHeaders applies construction-time header overrides on top of the
// baseline profile headers.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) {
		c.initialHeaders = h
	}
}

// WithProxies applies an initial proxy configuration.
func WithProxies(p ProxyConfig) Option {
	return func(c *Client) {
		c.initialProxies = p
	}
}

// WithProxyURL applies one proxy URL to both schemes.
func WithProxyURL(proxyURL string) Option {
	return func(c *Client) {
		c.initialProxies = ProxyFromURL(proxyURL)
	}
}

// WithProxySource sets the collaborator Reset rotates proxies through.
func WithProxySource(source ProxySource) Option {
	return func(c *Client) {
		c.proxySource = source
	}
}

// WithHeaderProfile sets the header-generation collaborator.
func WithHeaderProfile(profile HeaderProfile) Option {
	return func(c *Client) {
		c.profile = profile
	}
}

// WithClientIdentifier selects the emulated browser version ("chrome_120"
// for the TLS engine, a bare major version otherwise).
func WithClientIdentifier(identifier string) Option {
	return func(c *Client) {
		c.identifier = identifier
	}
}

// WithTLSSettings overrides the TLS engine's negotiation parameters.
func WithTLSSettings(settings TLSSettings) Option {
	return func(c *Client) {
		c.tlsSettings = settings
		if settings.ClientIdentifier != "" {
			c.identifier = settings.ClientIdentifier
		}
	}
}

// WithUseMITM toggles routing through a detected local MITM proxy when
// certificate verification is off. On by default.
func WithUseMITM(enabled bool) Option {
	return func(c *Client) {
		c.useMITM = enabled
	}
}

// WithMITMProbe replaces the default local proxy probe.
func WithMITMProbe(probe MITMProbe) Option {
	return func(c *Client) {
		c.mitm = probe
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.debug = true
	}
}

// WithSimpleLogger enables debug logging with a plain console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		c.logger = NewSimpleLogger()
		c.debug = true
	}
}

// WithMetricsCollector wires a Prometheus collector into the middleware.
func WithMetricsCollector(mc *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = mc
	}
}

// WithRetryBackoff adds an exponential-jitter delay between retry attempts.
// The default behavior retries immediately.
func WithRetryBackoff(initial, max time.Duration, multiplier, jitter float64) Option {
	return func(c *Client) {
		c.backoff = NewBackoffPolicy(initial, max, multiplier, jitter)
	}
}
