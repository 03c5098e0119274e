package requestspro

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultHTTPIdentifier = "128"

// HTTPTransport is the generic engine: a net/http backed transport with
// engine-level redirects disabled so the middleware stays in charge of every
// hop.
type HTTPTransport struct {
	client     *http.Client
	headers    *HeaderMap
	jar        *Jar
	proxies    ProxyConfig
	identifier string

	// per-configuration transports, keyed by verify/proxy settings, so
	// keep-alive connections survive across calls
	roundTrippers map[string]*http.Transport
}

// NewHTTPTransport builds a generic transport. The identifier tags the
// browser version the header profile should emulate.
func NewHTTPTransport(identifier string) *HTTPTransport {
	t := &HTTPTransport{
		headers:       NewHeaderMap(),
		jar:           NewJar(),
		identifier:    identifier,
		roundTrippers: make(map[string]*http.Transport),
	}
	t.client = &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return t
}

// Do implements Transport.
func (t *HTTPTransport) Do(ctx context.Context, method, rawURL string, opts *RequestOptions) (*Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	target, err := encodeRequestURL(rawURL, opts.Query)
	if err != nil {
		return nil, err
	}
	body, contentType, err := buildBody(opts)
	if err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	for _, key := range t.headers.Keys() {
		req.Header.Set(key, t.headers.Get(key))
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie := cookieHeaderValue(t.jar, opts.Cookies); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	client := t.client
	if rt := t.roundTripper(opts); rt != nil {
		client = &http.Client{
			CheckRedirect: t.client.CheckRedirect,
			Transport:     rt,
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	finalURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		URL:        finalURL,
	}, nil
}

// roundTripper picks the transport for the call's proxy and TLS verification
// configuration. Returns nil when the defaults suffice. Configured transports
// are cached by configuration and reused, never rebuilt per call, so their
// idle connections stay poolable instead of leaking.
func (t *HTTPTransport) roundTripper(opts *RequestOptions) http.RoundTripper {
	proxies := t.proxies
	if len(opts.Proxies) > 0 {
		proxies = opts.Proxies
	}
	skipVerify := opts.Verify == nil || !*opts.Verify

	if len(proxies) == 0 && !skipVerify {
		return nil
	}

	key := fmt.Sprintf("verify=%t http=%s https=%s", !skipVerify, proxies["http"], proxies["https"])
	if rt, ok := t.roundTrippers[key]; ok {
		return rt
	}

	rt := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: skipVerify},
		IdleConnTimeout: 90 * time.Second,
	}
	if len(proxies) > 0 {
		// snapshot the config; the cache entry must not follow later
		// session proxy mutations
		p := proxies.Clone()
		rt.Proxy = func(req *http.Request) (*url.URL, error) {
			proxyURL := p.URL(req.URL.Scheme)
			if proxyURL == "" {
				return nil, nil
			}
			return url.Parse(proxyURL)
		}
	}
	t.roundTrippers[key] = rt
	return rt
}

// Headers implements Transport.
func (t *HTTPTransport) Headers() *HeaderMap { return t.headers }

// SetHeaders implements Transport.
func (t *HTTPTransport) SetHeaders(h map[string]string) { t.headers.Replace(h) }

// UpdateHeaders implements Transport.
func (t *HTTPTransport) UpdateHeaders(h map[string]string) { t.headers.Update(h) }

// Cookies implements Transport.
func (t *HTTPTransport) Cookies() *Jar { return t.jar }

// Proxies implements Transport.
func (t *HTTPTransport) Proxies() ProxyConfig { return t.proxies.Clone() }

// SetProxies implements Transport. Validation failure leaves the current
// configuration untouched.
func (t *HTTPTransport) SetProxies(p ProxyConfig) error {
	if len(p) == 0 {
		return nil
	}
	if err := p.Validate(); err != nil {
		return err
	}
	t.proxies = p.Clone()
	return nil
}

// Identifier implements Transport.
func (t *HTTPTransport) Identifier() string { return t.identifier }

// Kind implements Transport.
func (t *HTTPTransport) Kind() string { return KindHTTP }

// Renew implements Transport.
func (t *HTTPTransport) Renew() (Transport, error) {
	return NewHTTPTransport(t.identifier), nil
}

// Close implements Transport.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	for _, rt := range t.roundTrippers {
		rt.CloseIdleConnections()
	}
	return nil
}
