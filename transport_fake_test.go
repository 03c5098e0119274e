package requestspro

import (
	"context"
	"net/http"
)

// scriptedResult is one canned transport outcome.
type scriptedResult struct {
	resp *Response
	err  error
}

// scriptedTransport replays canned results and records every attempt. The
// last result repeats once the script runs out.
type scriptedTransport struct {
	headers *HeaderMap
	jar     *Jar
	proxies ProxyConfig

	script []scriptedResult
	next   int

	calledURLs    []string
	calledMethods []string
	lastOpts      *RequestOptions

	closed      bool
	closeCount  int
	renewCount  int
	closedFirst bool // true when Close preceded the first Renew
}

func newScriptedTransport(script ...scriptedResult) *scriptedTransport {
	return &scriptedTransport{
		headers: NewHeaderMap(),
		jar:     NewJar(),
		script:  script,
	}
}

func respondWith(status int, header http.Header, url string) *Response {
	if header == nil {
		header = http.Header{}
	}
	return &Response{StatusCode: status, Header: header, URL: url}
}

func (t *scriptedTransport) Do(ctx context.Context, method, url string, opts *RequestOptions) (*Response, error) {
	t.calledMethods = append(t.calledMethods, method)
	t.calledURLs = append(t.calledURLs, url)
	t.lastOpts = opts

	if len(t.script) == 0 {
		return respondWith(200, nil, url), nil
	}
	idx := t.next
	if idx >= len(t.script) {
		idx = len(t.script) - 1
	}
	t.next++
	result := t.script[idx]
	if result.resp != nil && result.resp.URL == "" {
		// default the response URL to the request URL
		cp := *result.resp
		cp.URL = url
		return &cp, result.err
	}
	return result.resp, result.err
}

func (t *scriptedTransport) Headers() *HeaderMap { return t.headers }

func (t *scriptedTransport) SetHeaders(h map[string]string) { t.headers.Replace(h) }

func (t *scriptedTransport) UpdateHeaders(h map[string]string) { t.headers.Update(h) }

func (t *scriptedTransport) Cookies() *Jar { return t.jar }

func (t *scriptedTransport) Proxies() ProxyConfig { return t.proxies.Clone() }

func (t *scriptedTransport) SetProxies(p ProxyConfig) error {
	if len(p) == 0 {
		return nil
	}
	if err := p.Validate(); err != nil {
		return err
	}
	t.proxies = p.Clone()
	return nil
}

func (t *scriptedTransport) Identifier() string { return "scripted" }

func (t *scriptedTransport) Kind() string { return KindHTTP }

func (t *scriptedTransport) Renew() (Transport, error) {
	t.renewCount++
	if t.closed && t.renewCount == 1 {
		t.closedFirst = true
	}
	fresh := newScriptedTransport(t.script...)
	return fresh, nil
}

func (t *scriptedTransport) Close() error {
	t.closed = true
	t.closeCount++
	return nil
}
