package requestspro

import (
	"strings"
	"testing"
)

func TestChromeProfileHeadersMatchIdentifier(t *testing.T) {
	profile := NewChromeProfile()
	for _, identifier := range []string{"chrome_120", "120", "chrome_120_PSK"} {
		headers := profile.Headers(identifier)
		ua := headers["User-Agent"]
		if !strings.Contains(ua, " Chrome/120.") {
			t.Errorf("%s: expected a Chrome 120 user agent, got %q", identifier, ua)
		}
		if !strings.Contains(headers["Sec-Ch-Ua"], `v="120"`) {
			t.Errorf("%s: expected matching client hints, got %q", identifier, headers["Sec-Ch-Ua"])
		}
		if !strings.HasPrefix(ua, "Mozilla/5.0 (") || !strings.Contains(ua, "AppleWebKit/537.36") {
			t.Errorf("%s: expected a plausible user agent, got %q", identifier, ua)
		}
	}
}

func TestChromeProfileHeadersConsistency(t *testing.T) {
	headers := NewChromeProfile().Headers("chrome_128")

	for _, required := range []string{
		"User-Agent", "Sec-Ch-Ua", "Sec-Ch-Ua-Mobile", "Sec-Ch-Ua-Platform",
		"Accept", "Accept-Language", "Accept-Encoding", "Upgrade-Insecure-Requests",
	} {
		if headers[required] == "" {
			t.Errorf("Expected %q present, got %v", required, headers)
		}
	}

	ua := headers["User-Agent"]
	platform := strings.Trim(headers["Sec-Ch-Ua-Platform"], `"`)
	mobile := headers["Sec-Ch-Ua-Mobile"]
	switch {
	case strings.Contains(ua, "Android"):
		if platform != "Android" || mobile != "?1" {
			t.Errorf("Expected Android hints, got platform %q mobile %q", platform, mobile)
		}
	case strings.Contains(ua, "Windows NT"):
		if platform != "Windows" || mobile != "?0" {
			t.Errorf("Expected Windows hints, got platform %q mobile %q", platform, mobile)
		}
	case strings.Contains(ua, "Macintosh"):
		if platform != "macOS" || mobile != "?0" {
			t.Errorf("Expected macOS hints, got platform %q mobile %q", platform, mobile)
		}
	case strings.Contains(ua, "X11; Linux"):
		if platform != "Linux" || mobile != "?0" {
			t.Errorf("Expected Linux hints, got platform %q mobile %q", platform, mobile)
		}
	default:
		t.Errorf("Unrecognized user agent %q", ua)
	}
}

func TestChromeProfileUnknownIdentifierFallsBack(t *testing.T) {
	headers := NewChromeProfile().Headers("chrome_999")
	if !strings.Contains(headers["User-Agent"], " Chrome/") {
		t.Errorf("Expected a fallback Chrome user agent, got %q", headers["User-Agent"])
	}
}

func TestChromeProfileHeaderOrderIsDetached(t *testing.T) {
	profile := NewChromeProfile()
	order := profile.HeaderOrder()
	if len(order) == 0 || order[0] != "host" {
		t.Fatalf("Expected the stock order starting at host, got %v", order)
	}
	order[0] = "mutated"
	if profile.HeaderOrder()[0] != "host" {
		t.Error("Expected the returned order detached from the profile")
	}
}

func TestChromeMajorVersion(t *testing.T) {
	testCases := []struct {
		identifier string
		expected   string
	}{
		{"chrome_120", "120"},
		{"chrome_120_PSK", "120"},
		{"128", "128"},
		{"firefox_120", "firefox_120"},
	}
	for _, tc := range testCases {
		if got := chromeMajorVersion(tc.identifier); got != tc.expected {
			t.Errorf("chromeMajorVersion(%q): expected %q, got %q", tc.identifier, tc.expected, got)
		}
	}
}

func TestProfileRegistryLookup(t *testing.T) {
	profile, err := lookupHeaderProfile("ChromeProfile")
	if err != nil {
		t.Fatalf("Expected the stock profile registered, got %v", err)
	}
	if profile.Name() != "ChromeProfile" {
		t.Errorf("Expected ChromeProfile, got %q", profile.Name())
	}
	if _, err := lookupHeaderProfile("Unknown"); err == nil {
		t.Error("Expected an error for an unregistered name")
	}
}

func TestRegisterHeaderProfile(t *testing.T) {
	RegisterHeaderProfile("test-static", func() HeaderProfile {
		return staticProfile{headers: map[string]string{"User-Agent": "registered"}}
	})
	profile, err := lookupHeaderProfile("test-static")
	if err != nil {
		t.Fatalf("Expected the registration visible, got %v", err)
	}
	if profile.Headers("")["User-Agent"] != "registered" {
		t.Error("Expected the registered constructor used")
	}
}
