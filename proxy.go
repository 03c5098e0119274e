package requestspro

import (
	"errors"

	"github.com/cirleamihai/requests-pro/internal/proxyfile"
)

// ProxyConfig maps URL schemes to proxy URLs. Only the "http" and "https"
// keys are meaningful; a valid configuration carries at least one of them.
type ProxyConfig map[string]string

// ErrInvalidProxies is returned when a proxy configuration carries neither an
// http nor an https entry.
var ErrInvalidProxies = errors.New("requestspro: proxies must contain an http or https key")

// ProxyFromURL builds a configuration applying one proxy URL to both schemes.
// An empty URL yields an empty configuration.
func ProxyFromURL(proxyURL string) ProxyConfig {
	if proxyURL == "" {
		return ProxyConfig{}
	}
	return ProxyConfig{"http": proxyURL, "https": proxyURL}
}

// Validate checks that the configuration is applicable.
func (p ProxyConfig) Validate() error {
	if len(p) == 0 {
		return nil
	}
	if p["http"] == "" && p["https"] == "" {
		return ErrInvalidProxies
	}
	return nil
}

// URL returns the proxy URL for the given scheme, falling back to the other
// scheme's entry.
func (p ProxyConfig) URL(scheme string) string {
	if u := p[scheme]; u != "" {
		return u
	}
	if scheme == "https" {
		return p["http"]
	}
	return p["https"]
}

// Clone returns a copy of the configuration.
func (p ProxyConfig) Clone() ProxyConfig {
	if p == nil {
		return nil
	}
	out := make(ProxyConfig, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// FileProxySource supplies proxies from a file of host:port[:user:pass]
// lines, picking at random on every call.
type FileProxySource struct {
	path string
}

// NewFileProxySource returns a source backed by the given file.
func NewFileProxySource(path string) *FileProxySource {
	return &FileProxySource{path: path}
}

// Proxy returns a random formatted proxy URL from the file.
func (s *FileProxySource) Proxy() (string, error) {
	return proxyfile.Random(s.path)
}

// StaticProxySource always supplies the same proxy URL. Useful for tests and
// single-proxy deployments.
type StaticProxySource string

// Proxy returns the fixed proxy URL.
func (s StaticProxySource) Proxy() (string, error) {
	return string(s), nil
}
