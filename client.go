package requestspro

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/buildkite/roko"
)

// Client bundles one transport with its headers, cookie jar, proxy
// configuration and middleware defaults. A Client is owned by exactly one
// logical flow at a time; guard it externally before sharing.
type Client struct {
	transport Transport
	profile   HeaderProfile

	maxRetries   int
	maxRedirects int
	timeout      time.Duration
	noMiddleware bool

	useMITM bool
	mitm    MITMProbe

	proxySource ProxySource
	logger      Logger
	metrics     *MetricsCollector
	debug       bool
	backoff     *BackoffPolicy

	// construction inputs consumed by the transport factory
	identifier     string
	initialHeaders map[string]string
	initialProxies ProxyConfig
	tlsSettings    TLSSettings
}

// NewClient constructs a session around a fresh transport of the given kind
// (KindHTTP or KindTLS).
func NewClient(kind string, opts ...Option) (*Client, error) {
	c := &Client{
		maxRetries:   DefaultMaxRetries,
		maxRedirects: DefaultMaxRedirects,
		timeout:      DefaultTimeout,
		useMITM:      true,
		mitm:         DefaultMITMProbe(),
		tlsSettings:  DefaultTLSSettings(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.profile == nil {
		c.profile = NewChromeProfile()
	}

	transport, err := c.buildTransport(kind)
	if err != nil {
		return nil, err
	}
	c.transport = transport

	if len(c.initialProxies) > 0 {
		if err := transport.SetProxies(c.initialProxies); err != nil {
			transport.Close()
			return nil, err
		}
	}

	// Baseline profile headers first, construction-time overrides on top.
	transport.UpdateHeaders(c.profile.Headers(transport.Identifier()))
	if len(c.initialHeaders) > 0 {
		transport.UpdateHeaders(c.initialHeaders)
	}

	return c, nil
}

// NewClientWithTransport wraps an existing transport in a session. The
// transport's header and cookie state is taken as-is; no baseline profile
// headers are applied.
func NewClientWithTransport(transport Transport, opts ...Option) *Client {
	c := &Client{
		maxRetries:   DefaultMaxRetries,
		maxRedirects: DefaultMaxRedirects,
		timeout:      DefaultTimeout,
		useMITM:      true,
		mitm:         DefaultMITMProbe(),
		tlsSettings:  DefaultTLSSettings(),
		transport:    transport,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.profile == nil {
		c.profile = NewChromeProfile()
	}
	return c
}

func (c *Client) buildTransport(kind string) (Transport, error) {
	switch kind {
	case KindHTTP, "http", "requests":
		identifier := c.identifier
		if identifier == "" {
			identifier = defaultHTTPIdentifier
		}
		return NewHTTPTransport(identifier), nil
	case KindTLS, "tls":
		settings := c.tlsSettings
		if c.identifier != "" {
			settings.ClientIdentifier = c.identifier
		}
		settings.HeaderOrder = c.profile.HeaderOrder()
		return NewTLSTransport(settings)
	default:
		return nil, fmt.Errorf("requestspro: unknown transport kind %q", kind)
	}
}

// Request performs one logical call, dispatching on the verb.
func (c *Client) Request(ctx context.Context, method, url string, opts *RequestOptions) (*Response, error) {
	switch strings.ToUpper(method) {
	case "GET", "POST", "PUT", "DELETE", "OPTIONS":
		return c.do(ctx, strings.ToUpper(method), url, opts)
	default:
		return nil, fmt.Errorf("requestspro: invalid method type: %s", method)
	}
}

// Get performs a GET through the middleware.
func (c *Client) Get(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return c.do(ctx, "GET", url, opts)
}

// Post performs a POST through the middleware.
func (c *Client) Post(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return c.do(ctx, "POST", url, opts)
}

// Put performs a PUT through the middleware.
func (c *Client) Put(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return c.do(ctx, "PUT", url, opts)
}

// Delete performs a DELETE through the middleware.
func (c *Client) Delete(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return c.do(ctx, "DELETE", url, opts)
}

// Options performs an OPTIONS through the middleware.
func (c *Client) Options(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return c.do(ctx, "OPTIONS", url, opts)
}

// Headers exposes the session's ordered header mapping.
func (c *Client) Headers() *HeaderMap {
	return c.transport.Headers()
}

// UpdateHeaders merges headers into the session mapping.
func (c *Client) UpdateHeaders(h map[string]string) {
	c.transport.UpdateHeaders(h)
}

// SetHeaders replaces the session mapping.
func (c *Client) SetHeaders(h map[string]string) {
	c.transport.SetHeaders(h)
}

// CookieJar exposes the session's jar.
func (c *Client) CookieJar() *Jar {
	return c.transport.Cookies()
}

// SetCookie stores one cookie in the jar.
func (c *Client) SetCookie(name, value, domain string) {
	c.transport.Cookies().Set(name, value, domain)
}

// SetCookies merges name/value pairs into the jar.
func (c *Client) SetCookies(cookies map[string]string) {
	c.transport.Cookies().Update(cookies)
}

// DeleteCookies removes the named cookies from the jar.
func (c *Client) DeleteCookies(names ...string) {
	c.transport.Cookies().Delete(names...)
}

// ClearCookies empties the jar except for the named survivors.
func (c *Client) ClearCookies(skip ...string) {
	c.transport.Cookies().Clear(skip...)
}

// Proxies reports the session proxy configuration.
func (c *Client) Proxies() ProxyConfig {
	return c.transport.Proxies()
}

// SetProxies applies a proxy configuration to the session. An invalid
// configuration is rejected and the current one stays in place.
func (c *Client) SetProxies(p ProxyConfig) error {
	return c.transport.SetProxies(p)
}

// SetProxyURL applies a single proxy URL to both schemes.
func (c *Client) SetProxyURL(proxyURL string) error {
	return c.transport.SetProxies(ProxyFromURL(proxyURL))
}

// Identifier returns the transport's client identifier.
func (c *Client) Identifier() string {
	return c.transport.Identifier()
}

// Kind returns the transport kind tag.
func (c *Client) Kind() string {
	return c.transport.Kind()
}

// Transport returns the backing transport.
func (c *Client) Transport() Transport {
	return c.transport
}

// Profile returns the session's header profile.
func (c *Client) Profile() HeaderProfile {
	return c.profile
}

// Close releases the transport's resources.
func (c *Client) Close() error {
	return c.transport.Close()
}

// CopyEssentials copies cookies, headers, proxies and profile state from
// another session into this one.
func (c *Client) CopyEssentials(other *Client) error {
	for _, cookie := range other.CookieJar().All() {
		c.transport.Cookies().SetCookie(cookie)
	}
	src := other.Headers()
	dst := c.Headers()
	dst.Replace(nil)
	for _, key := range src.Keys() {
		dst.Set(key, src.Get(key))
	}
	if proxies := other.Proxies(); len(proxies) > 0 {
		if err := c.transport.SetProxies(proxies); err != nil {
			return err
		}
	}
	c.profile = other.profile
	return nil
}

// Reset tears the transport down and builds a fresh one of the same kind,
// preserving every low-level negotiation parameter. The old transport is
// fully closed before the new one is installed. Cookies and header overrides
// are dropped unless the options preserve them; baseline profile headers are
// always reapplied.
func (c *Client) Reset(ctx context.Context, opts *ResetOptions) error {
	ro := ResetOptions{UseProxies: true}
	if opts != nil {
		ro = *opts
	}

	resolved := c.resolveResetProxies(ctx, ro.Proxies)

	var oldHeaders *HeaderMap
	var oldCookies []*Cookie
	if ro.PreserveHeaders {
		oldHeaders = c.transport.Headers().Clone()
	}
	if ro.PreserveCookies {
		oldCookies = c.transport.Cookies().All()
	}

	if err := c.transport.Close(); err != nil && c.logger != nil {
		c.logger.Warn("closing old transport", "error", err.Error())
	}

	fresh, err := c.transport.Renew()
	if err != nil {
		return fmt.Errorf("requestspro: resetting transport: %w", err)
	}
	c.transport = fresh

	fresh.UpdateHeaders(c.profile.Headers(fresh.Identifier()))
	if oldHeaders != nil {
		for _, key := range oldHeaders.Keys() {
			fresh.Headers().Set(key, oldHeaders.Get(key))
		}
	}
	for _, cookie := range oldCookies {
		fresh.Cookies().SetCookie(cookie)
	}

	if ro.UseProxies && len(resolved) > 0 {
		if err := fresh.SetProxies(resolved); err != nil {
			return err
		}
	}
	return nil
}

// resolveResetProxies picks the proxy configuration for the fresh transport:
// an explicit override wins; otherwise a configured session rotates through
// the source with a bounded attempt budget. Rotation failure resolves to no
// proxy at all rather than an error.
func (c *Client) resolveResetProxies(ctx context.Context, explicit ProxyConfig) ProxyConfig {
	if len(explicit) > 0 {
		return explicit
	}
	current := c.transport.Proxies()
	if len(current) == 0 {
		return nil
	}
	if c.proxySource == nil {
		return current
	}

	retrier := roko.NewRetrier(
		roko.WithMaxAttempts(10),
		roko.WithStrategy(roko.Constant(0)),
	)
	proxyURL, err := roko.DoFunc(ctx, retrier, func(r *roko.Retrier) (string, error) {
		p, err := c.proxySource.Proxy()
		if err != nil {
			return "", err
		}
		if p == "" {
			return "", errors.New("proxy source returned nothing")
		}
		return p, nil
	})
	if err != nil || proxyURL == "" {
		if c.logger != nil {
			c.logger.Warn("proxy rotation exhausted, continuing without proxy", "error", fmt.Sprint(err))
		}
		return nil
	}
	return ProxyFromURL(proxyURL)
}
