package requestspro

import (
	"errors"
	"net/http"
	"testing"
)

func statusResponse(code int) *Response {
	return &Response{StatusCode: code, Header: http.Header{}}
}

func TestStatusPassingCodes(t *testing.T) {
	passing := []int{200, 300, 301, 302, 307, 350, 399, 421}
	for _, code := range passing {
		if err := checkResponseStatus(statusResponse(code), nil, nil); err != nil {
			t.Errorf("Expected status %d to pass, got %v", code, err)
		}
	}
}

func TestStatusClassifiedErrors(t *testing.T) {
	testCases := []struct {
		code int
		kind ErrorKind
	}{
		{403, KindAntiBotBlocked},
		{401, KindUnauthorized},
		{404, KindNotFound},
	}
	for _, tc := range testCases {
		err := checkResponseStatus(statusResponse(tc.code), nil, nil)
		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			t.Fatalf("Status %d: expected *RequestError, got %v", tc.code, err)
		}
		if reqErr.Kind != tc.kind {
			t.Errorf("Status %d: expected kind %s, got %s", tc.code, tc.kind, reqErr.Kind)
		}
		if reqErr.StatusCode != tc.code {
			t.Errorf("Status %d: expected code carried, got %d", tc.code, reqErr.StatusCode)
		}
	}
}

func TestStatusGenericCarriesExactCode(t *testing.T) {
	for _, code := range []int{201, 204, 400, 402, 405, 418, 422, 429, 500, 502, 503} {
		err := checkResponseStatus(statusResponse(code), nil, nil)
		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			t.Fatalf("Status %d: expected *RequestError, got %v", code, err)
		}
		if reqErr.Kind != KindHTTPStatus {
			t.Errorf("Status %d: expected kind %s, got %s", code, KindHTTPStatus, reqErr.Kind)
		}
		if reqErr.StatusCode != code {
			t.Errorf("Status %d: expected the exact code carried, got %d", code, reqErr.StatusCode)
		}
	}
}

func TestStatusSkipSet(t *testing.T) {
	skip := SkipStatuses(404, "403")

	if err := checkResponseStatus(statusResponse(404), nil, skip); err != nil {
		t.Errorf("Expected 404 skipped, got %v", err)
	}
	if err := checkResponseStatus(statusResponse(403), nil, skip); err != nil {
		t.Errorf("Expected 403 skipped, got %v", err)
	}

	err := checkResponseStatus(statusResponse(500), nil, skip)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Kind != KindHTTPStatus {
		t.Errorf("Expected 500 to still raise the generic error, got %v", err)
	}
}

func TestStatusSkipSetBeatsCustomHandler(t *testing.T) {
	called := false
	handler := func(resp *Response) error {
		called = true
		return errors.New("should not run")
	}
	if err := checkResponseStatus(statusResponse(500), handler, SkipStatuses(500)); err != nil {
		t.Errorf("Expected skip set to win, got %v", err)
	}
	if called {
		t.Error("Expected the custom handler to be skipped for skipped statuses")
	}
}

func TestCustomHandlerReplacesBuiltinRules(t *testing.T) {
	// The handler accepts a status the built-in rules would reject.
	handler := func(resp *Response) error { return nil }
	if err := checkResponseStatus(statusResponse(500), handler, nil); err != nil {
		t.Errorf("Expected handler verdict to stand, got %v", err)
	}

	// And rejects one the built-in rules would accept.
	rejecting := func(resp *Response) error { return errors.New("missing auth token in body") }
	err := checkResponseStatus(statusResponse(200), rejecting, nil)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("Expected *RequestError, got %v", err)
	}
	if reqErr.Kind != KindRequest {
		t.Errorf("Expected handler failures classified as %s, got %s", KindRequest, reqErr.Kind)
	}
}

func TestSkipStatusesNormalization(t *testing.T) {
	got := SkipStatuses(404, "403", 500)
	want := []string{"404", "403", "500"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Index %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
