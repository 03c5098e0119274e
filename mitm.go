package requestspro

import (
	"net"
	"strconv"
	"time"
)

// MITMProbe describes a local debugging proxy (Charles, mitmproxy, ...) to
// route through when it is up and certificate verification is off. The probe
// is per-session configuration; nothing here mutates process state.
type MITMProbe struct {
	Host        string
	Port        int
	DialTimeout time.Duration
}

// DefaultMITMProbe targets the stock Charles listener on 127.0.0.1:8888.
func DefaultMITMProbe() MITMProbe {
	return MITMProbe{Host: "127.0.0.1", Port: 8888, DialTimeout: 5 * time.Millisecond}
}

// Active reports whether the local proxy is accepting connections.
func (p MITMProbe) Active() bool {
	if p.Host == "" || p.Port == 0 {
		return false
	}
	timeout := p.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Millisecond
	}
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(p.Host, strconv.Itoa(p.Port)), timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Proxies returns the proxy configuration pointing at the local proxy.
func (p MITMProbe) Proxies() ProxyConfig {
	return ProxyFromURL("http://" + net.JoinHostPort(p.Host, strconv.Itoa(p.Port)))
}
