package requestspro

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// do runs one logical call through the middleware, retrying classified
// failures until the budget runs out. Each attempt syncs cookies, evaluates
// the status rules and then decides whether to follow a redirect.
func (c *Client) do(ctx context.Context, method, rawURL string, opts *RequestOptions) (*Response, error) {
	opts = c.normalizeOptions(opts)

	if c.noMiddleware || opts.NoMiddleware {
		return c.transport.Do(ctx, method, rawURL, opts)
	}

	var requestID string
	if c.debug && c.logger != nil {
		requestID = uuid.NewString()
		c.logger.Debug("starting request", "requestID", requestID, "method", method, "url", rawURL)
	}

	start := time.Now()
	if c.metrics != nil {
		c.metrics.RecordRequestStart(method)
	}

	resp, err := c.runAttempts(ctx, method, rawURL, opts, requestID)

	if c.metrics != nil {
		statusCode := 0
		if resp != nil {
			statusCode = resp.StatusCode
		}
		c.metrics.RecordRequestEnd(method, statusCode, time.Since(start))
	}
	return resp, err
}

func (c *Client) runAttempts(ctx context.Context, method, rawURL string, opts *RequestOptions, requestID string) (*Response, error) {
	var attemptErrs []error
	retries := 0
	hops := 0

	for retries < opts.MaxRetries {
		if retries > 0 {
			if c.metrics != nil {
				c.metrics.RecordRetry(method, retries)
			}
			if err := c.waitBackoff(ctx, retries); err != nil {
				attemptErrs = append(attemptErrs, classifyAttemptError(err))
				break
			}
		}

		resp, err := c.transport.Do(ctx, method, rawURL, opts)
		if err != nil {
			reqErr := classifyAttemptError(err)
			attemptErrs = append(attemptErrs, reqErr)
			retries++
			c.recordAttemptFailure(method, requestID, reqErr)
			continue
		}

		// Cookies update before status evaluation so failing responses
		// still feed the jar.
		syncCookies(c.transport.Cookies(), resp)

		target, redirected := redirectTarget(resp, rawURL)

		if !opts.SkipStatusCheck {
			if statusErr := checkResponseStatus(resp, opts.CustomStatusHandler, opts.StatusesToSkip); statusErr != nil {
				reqErr := classifyAttemptError(statusErr)
				attemptErrs = append(attemptErrs, reqErr)
				retries++
				c.recordAttemptFailure(method, requestID, reqErr)
				continue
			}
		}

		if redirected && !opts.SkipRedirects {
			stopExact := target == opts.RedirectStopExact
			stopContains := opts.RedirectStopContains != "" && strings.Contains(target, opts.RedirectStopContains)
			if stopExact || stopContains {
				// The chain halted at the stop endpoint: report the target
				// as the final URL, the hop itself is never fetched.
				resp.URL = target
				return resp, nil
			}
			hops++
			if hops > opts.MaxRedirects {
				reqErr := &RequestError{
					Kind:    KindRequest,
					Message: fmt.Sprintf("stopped after %d redirects", opts.MaxRedirects),
				}
				attemptErrs = append(attemptErrs, reqErr)
				retries++
				c.recordAttemptFailure(method, requestID, reqErr)
				continue
			}
			if c.metrics != nil {
				c.metrics.RecordRedirect(method)
			}
			if c.debug && c.logger != nil {
				c.logger.Debug("following redirect", "requestID", requestID, "status", resp.StatusCode, "location", target)
			}
			// Hops do not consume the retry budget; the per-call query
			// payload applies to the first URL only.
			opts.Query = nil
			rawURL = target
			continue
		}

		return resp, nil
	}

	agg := &AggregateError{
		Message: fmt.Sprintf("failed to make the request in %d tries", opts.MaxRetries),
		Errors:  attemptErrs,
	}
	if c.logger != nil {
		c.logger.Error("request failed", "requestID", requestID, "method", method, "url", rawURL, "attempts", len(attemptErrs))
	}
	return nil, agg
}

func (c *Client) recordAttemptFailure(method, requestID string, err *RequestError) {
	if c.metrics != nil {
		c.metrics.RecordError(string(err.Kind), method)
	}
	if c.debug && c.logger != nil {
		c.logger.Debug("attempt failed", "requestID", requestID, "kind", string(err.Kind), "error", err.Error())
	}
}

// waitBackoff sleeps between retry attempts when a backoff policy is
// configured. The default policy is no delay.
func (c *Client) waitBackoff(ctx context.Context, attempt int) error {
	if c.backoff == nil {
		return nil
	}
	delay := c.backoff.Delay(attempt - 1)
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// normalizeOptions copies the caller's options and fills in session defaults,
// so the loop can mutate its view (redirect URL, dropped query) freely.
func (c *Client) normalizeOptions(opts *RequestOptions) *RequestOptions {
	normalized := RequestOptions{}
	if opts != nil {
		normalized = *opts
	}
	if normalized.Timeout <= 0 {
		normalized.Timeout = c.timeout
	}
	if normalized.MaxRetries <= 0 {
		normalized.MaxRetries = c.maxRetries
	}
	if normalized.MaxRedirects <= 0 {
		normalized.MaxRedirects = c.maxRedirects
	}
	if normalized.Verify == nil {
		verify := false
		normalized.Verify = &verify
	}

	// When certificate verification is off and a local MITM proxy answers,
	// route this call through it.
	useMITM := c.useMITM
	if normalized.UseMITM != nil {
		useMITM = *normalized.UseMITM
	}
	if useMITM && !*normalized.Verify && len(normalized.Proxies) == 0 && c.mitm.Active() {
		normalized.Proxies = c.mitm.Proxies()
	}

	return &normalized
}

// redirectTarget reports whether the response is a followable redirect and
// resolves the Location header against the request URL.
func redirectTarget(resp *Response, base string) (string, bool) {
	if resp.StatusCode < 300 || resp.StatusCode > 399 {
		return "", false
	}
	loc := resp.Header.Get("Location")
	if loc == "" {
		return "", false
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return loc, true
	}
	target, err := baseURL.Parse(loc)
	if err != nil {
		return loc, true
	}
	return target.String(), true
}
