// Package requestspro provides a session-oriented HTTP client that layers a
// resilient request middleware over swappable transport engines:
//
//   - Retries with an ordered per-attempt error log (grouped terminal error)
//   - Manual multi-hop redirect following with caller-supplied stop conditions
//   - Response status classification (anti-bot block, unauthorized, not found, ...)
//   - Cookie-jar synchronization from Set-Cookie headers on every attempt
//   - Session lifecycle: transport reset and proxy rotation that preserve
//     low-level fingerprint configuration
//   - Full-fidelity session snapshots (headers, cookies, proxies, profile)
//
// Two transport kinds ship out of the box: a generic engine built on net/http
// and a TLS-fingerprint-emulating engine built on bogdanfinn's tls-client.
// Both sit behind the same Transport interface, so application code never
// changes when switching between them.
//
// Design goals:
//   - Small surface area, configured through functional options
//   - One middleware loop shared by every transport kind
//   - Sessions are single-owner; no hidden global state
//   - Extensibility via user supplied header profiles, proxy sources,
//     loggers and metrics
//
// Typical usage:
//
//	client, err := requestspro.NewClient(requestspro.KindTLS,
//	    requestspro.WithMaxRetries(3),
//	    requestspro.WithClientIdentifier("chrome_120"),
//	    requestspro.WithProxySource(requestspro.NewFileProxySource("proxies.txt")),
//	)
//	resp, err := client.Get(ctx, "https://example.com", nil)
//
// Every call runs through the middleware unless the session or the call opts
// out (WithNoMiddleware / RequestOptions.NoMiddleware). The middleware never
// surfaces an individual attempt's failure: callers see either a *Response or
// an *AggregateError wrapping the ordered attempt log.
package requestspro
