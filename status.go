package requestspro

import (
	"fmt"
	"strconv"
)

// SkipStatuses normalizes status codes given as ints or strings into the
// string-encoded form StatusesToSkip expects.
func SkipStatuses(statuses ...any) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		switch v := s.(type) {
		case int:
			out = append(out, strconv.Itoa(v))
		case string:
			out = append(out, v)
		case fmt.Stringer:
			out = append(out, v.String())
		default:
			out = append(out, fmt.Sprintf("%v", v))
		}
	}
	return out
}

// checkResponseStatus classifies a response's status code into a pass or a
// typed error. 421 and the whole 3xx range pass: 421 is an accepted
// non-standard redirect signal, and actual redirect-following happens in the
// middleware loop, never here.
func checkResponseStatus(resp *Response, handler StatusHandler, skipSet []string) error {
	code := strconv.Itoa(resp.StatusCode)
	for _, skip := range skipSet {
		if code == skip {
			return nil
		}
	}

	if handler != nil {
		if err := handler(resp); err != nil {
			return &RequestError{
				Kind:       KindRequest,
				Message:    "an error occurred",
				StatusCode: resp.StatusCode,
				Body:       resp.Text(),
				Cause:      err,
			}
		}
		return nil
	}

	switch {
	case resp.StatusCode == 200:
		return nil
	case resp.StatusCode == 421, resp.StatusCode >= 300 && resp.StatusCode < 400:
		return nil
	case resp.StatusCode == 403:
		return &RequestError{
			Kind:       KindAntiBotBlocked,
			Message:    "blocked by antibot",
			StatusCode: resp.StatusCode,
			Body:       resp.Text(),
		}
	case resp.StatusCode == 401:
		return &RequestError{
			Kind:       KindUnauthorized,
			Message:    "unauthorized",
			StatusCode: resp.StatusCode,
			Body:       resp.Text(),
		}
	case resp.StatusCode == 404:
		return &RequestError{
			Kind:       KindNotFound,
			Message:    "page not found",
			StatusCode: resp.StatusCode,
			Body:       resp.Text(),
		}
	default:
		return &RequestError{
			Kind:       KindHTTPStatus,
			Message:    fmt.Sprintf("response status code is not 200 [%d]", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Body:       resp.Text(),
		}
	}
}
