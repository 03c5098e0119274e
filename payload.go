package requestspro

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/google/go-querystring/query"
)

// encodeRequestURL normalizes the raw URL, percent-escaping what the caller
// left unescaped, and appends the per-call query payload.
func encodeRequestURL(rawURL string, q any) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("requestspro: invalid url %q: %w", rawURL, err)
	}
	if q != nil {
		values, err := queryValues(q)
		if err != nil {
			return "", err
		}
		existing := u.Query()
		for key, vals := range values {
			for _, v := range vals {
				existing.Add(key, v)
			}
		}
		u.RawQuery = existing.Encode()
	}
	return u.String(), nil
}

// queryValues converts the Query payload into url.Values. Structs are
// encoded through their `url` tags.
func queryValues(q any) (url.Values, error) {
	switch v := q.(type) {
	case url.Values:
		return v, nil
	case map[string]string:
		values := make(url.Values, len(v))
		for key, val := range v {
			values.Set(key, val)
		}
		return values, nil
	default:
		values, err := query.Values(q)
		if err != nil {
			return nil, fmt.Errorf("requestspro: encoding query: %w", err)
		}
		return values, nil
	}
}

// buildBody turns the Body/JSON payload into a reader plus the content type
// it implies ("" when the payload carries no type of its own).
func buildBody(opts *RequestOptions) (io.Reader, string, error) {
	if opts == nil {
		return nil, "", nil
	}
	if opts.JSON != nil {
		encoded, err := json.Marshal(opts.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("requestspro: encoding json body: %w", err)
		}
		return bytes.NewReader(encoded), "application/json", nil
	}
	switch body := opts.Body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return bytes.NewReader(body), "", nil
	case string:
		return strings.NewReader(body), "", nil
	case url.Values:
		return strings.NewReader(body.Encode()), "application/x-www-form-urlencoded", nil
	case map[string]string:
		values := make(url.Values, len(body))
		for k, v := range body {
			values.Set(k, v)
		}
		return strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", nil
	case io.Reader:
		return body, "", nil
	default:
		return nil, "", fmt.Errorf("requestspro: unsupported body type %T", opts.Body)
	}
}

// cookieHeaderValue renders the jar plus per-call cookies into one Cookie
// header value. The order is deterministic across attempts: jar cookies in
// insertion order with per-call overrides applied in place, then the
// remaining per-call cookies sorted by name.
func cookieHeaderValue(jar *Jar, extra map[string]string) string {
	var parts []string
	used := make(map[string]bool, len(extra))
	for _, c := range jar.All() {
		value := c.Value
		if override, ok := extra[c.Name]; ok {
			value = override
			used[c.Name] = true
		}
		parts = append(parts, c.Name+"="+value)
	}

	leftover := make([]string, 0, len(extra))
	for name := range extra {
		if !used[name] {
			leftover = append(leftover, name)
		}
	}
	sort.Strings(leftover)
	for _, name := range leftover {
		parts = append(parts, name+"="+extra[name])
	}
	return strings.Join(parts, "; ")
}
