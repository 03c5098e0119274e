package requestspro

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tlsclient "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/google/uuid"
)

// TLSSettings carries the low-level negotiation parameters of the
// fingerprint-emulating engine. Renew copies them verbatim so a reset session
// keeps presenting the same fingerprint family.
type TLSSettings struct {
	// ClientIdentifier selects the emulated browser, e.g. "chrome_120".
	ClientIdentifier string
	// RandomTLSExtensionOrder shuffles extension order per connection.
	RandomTLSExtensionOrder bool
	// ForceHTTP1 disables HTTP/2 negotiation.
	ForceHTTP1 bool
	// InsecureSkipVerify disables certificate verification at the engine
	// level. The engine cannot toggle this per request.
	InsecureSkipVerify bool
	// HeaderOrder is the wire order headers are sent in.
	HeaderOrder []string
	// EngineTimeout is the engine's own overall deadline; per-attempt
	// timeouts come from the request context.
	EngineTimeout time.Duration
}

// DefaultTLSSettings emulates a current Chrome with randomized extension
// order and verification off, matching the middleware's default Verify.
func DefaultTLSSettings() TLSSettings {
	return TLSSettings{
		ClientIdentifier:        "chrome_120",
		RandomTLSExtensionOrder: true,
		InsecureSkipVerify:      true,
		EngineTimeout:           30 * time.Second,
	}
}

// TLSTransport is the fingerprint-emulating engine backed by bogdanfinn's
// tls-client. The session jar here is authoritative: engine-side cookie
// state is discarded after every mutation and every response so the two can
// never diverge.
type TLSTransport struct {
	engine    tlsclient.HttpClient
	settings  TLSSettings
	headers   *HeaderMap
	jar       *Jar
	proxies   ProxyConfig
	sessionID string
}

// NewTLSTransport builds a fingerprint-emulating transport from the given
// settings.
func NewTLSTransport(settings TLSSettings) (*TLSTransport, error) {
	profile, ok := profiles.MappedTLSClients[settings.ClientIdentifier]
	if !ok {
		return nil, fmt.Errorf("requestspro: unknown tls client identifier %q", settings.ClientIdentifier)
	}
	if settings.EngineTimeout <= 0 {
		settings.EngineTimeout = 30 * time.Second
	}

	options := []tlsclient.HttpClientOption{
		tlsclient.WithTimeoutSeconds(int(settings.EngineTimeout / time.Second)),
		tlsclient.WithClientProfile(profile),
		tlsclient.WithNotFollowRedirects(),
		tlsclient.WithCookieJar(tlsclient.NewCookieJar()),
	}
	if settings.RandomTLSExtensionOrder {
		options = append(options, tlsclient.WithRandomTLSExtensionOrder())
	}
	if settings.ForceHTTP1 {
		options = append(options, tlsclient.WithForceHttp1())
	}
	if settings.InsecureSkipVerify {
		options = append(options, tlsclient.WithInsecureSkipVerify())
	}

	engine, err := tlsclient.NewHttpClient(tlsclient.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("requestspro: building tls engine: %w", err)
	}

	t := &TLSTransport{
		engine:    engine,
		settings:  settings,
		headers:   NewHeaderMap(),
		jar:       NewJar(),
		sessionID: uuid.NewString(),
	}
	// Any jar mutation invalidates whatever cookie state the engine
	// accumulated, mirroring a session-id refresh.
	t.jar.onChange = t.refreshSession
	return t, nil
}

// refreshSession rotates the session id and drops engine-side cookie state
// so the authoritative jar is the only cookie source.
func (t *TLSTransport) refreshSession() {
	t.sessionID = uuid.NewString()
	t.engine.SetCookieJar(tlsclient.NewCookieJar())
}

// SessionID identifies the current engine cookie epoch.
func (t *TLSTransport) SessionID() string { return t.sessionID }

// Do implements Transport.
func (t *TLSTransport) Do(ctx context.Context, method, rawURL string, opts *RequestOptions) (*Response, error) {
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

	req, err := fhttp.NewRequestWithContext(ctx, method, target, body)
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
	if len(t.settings.HeaderOrder) > 0 {
		req.Header[fhttp.HeaderOrderKey] = t.settings.HeaderOrder
	}

	restoreProxy, err := t.applyCallProxy(opts.Proxies)
	if err != nil {
		return nil, err
	}
	if restoreProxy != nil {
		defer restoreProxy()
	}

	resp, err := t.engine.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	// Keep the session jar authoritative: the middleware re-applies
	// Set-Cookie into it, so engine-side accumulation is dropped.
	defer t.engine.SetCookieJar(tlsclient.NewCookieJar())

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
		Header:     nethttp.Header(resp.Header),
		Body:       data,
		URL:        finalURL,
	}, nil
}

// applyCallProxy installs a per-call proxy override and returns the restore
// function, or (nil, nil) when no override applies.
func (t *TLSTransport) applyCallProxy(override ProxyConfig) (func(), error) {
	if len(override) == 0 {
		return nil, nil
	}
	if err := override.Validate(); err != nil {
		return nil, err
	}
	previous := t.proxies.URL("https")
	if err := t.engine.SetProxy(override.URL("https")); err != nil {
		return nil, err
	}
	return func() {
		if previous != "" {
			t.engine.SetProxy(previous)
		} else {
			t.engine.SetProxy("")
		}
	}, nil
}

// Headers implements Transport.
func (t *TLSTransport) Headers() *HeaderMap { return t.headers }

// SetHeaders implements Transport.
func (t *TLSTransport) SetHeaders(h map[string]string) { t.headers.Replace(h) }

// UpdateHeaders implements Transport.
func (t *TLSTransport) UpdateHeaders(h map[string]string) { t.headers.Update(h) }

// Cookies implements Transport.
func (t *TLSTransport) Cookies() *Jar { return t.jar }

// Proxies implements Transport.
func (t *TLSTransport) Proxies() ProxyConfig { return t.proxies.Clone() }

// SetProxies implements Transport. Validation failure leaves the current
// configuration and the engine untouched.
func (t *TLSTransport) SetProxies(p ProxyConfig) error {
	if len(p) == 0 {
		return nil
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := t.engine.SetProxy(p.URL("https")); err != nil {
		return err
	}
	t.proxies = p.Clone()
	return nil
}

// Identifier implements Transport.
func (t *TLSTransport) Identifier() string { return t.settings.ClientIdentifier }

// Kind implements Transport.
func (t *TLSTransport) Kind() string { return KindTLS }

// Renew implements Transport. Every negotiation parameter carries over; the
// session state starts empty.
func (t *TLSTransport) Renew() (Transport, error) {
	return NewTLSTransport(t.settings)
}

// Close implements Transport.
func (t *TLSTransport) Close() error {
	t.engine.CloseIdleConnections()
	return nil
}
