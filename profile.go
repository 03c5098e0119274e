package requestspro

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

// HeaderProfile supplies the baseline header set and the fingerprint header
// order for a session. Implementations are looked up by name when a snapshot
// is restored, so custom profiles must be registered.
type HeaderProfile interface {
	// Name identifies the profile in snapshots.
	Name() string
	// Headers returns the baseline headers for the given client identifier
	// (user agent, client hints, accept set).
	Headers(clientIdentifier string) map[string]string
	// HeaderOrder returns the wire order fingerprint-sensitive engines send
	// headers in.
	HeaderOrder() []string
}

var (
	profileRegistryMu sync.RWMutex
	profileRegistry   = map[string]func() HeaderProfile{}
)

// RegisterHeaderProfile makes a profile constructor available to snapshot
// restoration under its name.
func RegisterHeaderProfile(name string, constructor func() HeaderProfile) {
	profileRegistryMu.Lock()
	defer profileRegistryMu.Unlock()
	profileRegistry[name] = constructor
}

func lookupHeaderProfile(name string) (HeaderProfile, error) {
	profileRegistryMu.RLock()
	constructor, ok := profileRegistry[name]
	profileRegistryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("requestspro: header profile %q not found", name)
	}
	return constructor(), nil
}

func init() {
	RegisterHeaderProfile("ChromeProfile", func() HeaderProfile { return NewChromeProfile() })
}

//go:embed data/chrome_versions.json
var chromeVersionData []byte

//go:embed data/chrome_platforms.json
var chromePlatformData []byte

type chromeVersion struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
}

type chromePlatform struct {
	SystemInfo    string `json:"system_info"`
	BrowserNaming string `json:"browser_naming"`
	Platform      string `json:"platform"`
	EndString     string `json:"end_string"`
	Mobile        bool   `json:"mobile"`
}

var (
	chromeDataOnce  sync.Once
	chromeVersions  map[string]map[string][]chromeVersion
	chromePlatforms map[string][]chromePlatform
	chromeDataErr   error
)

func loadChromeData() error {
	chromeDataOnce.Do(func() {
		if err := json.Unmarshal(chromeVersionData, &chromeVersions); err != nil {
			chromeDataErr = err
			return
		}
		chromeDataErr = json.Unmarshal(chromePlatformData, &chromePlatforms)
	})
	return chromeDataErr
}

// ChromeProfile generates realistic Chrome baseline headers: a user agent
// matching the session's client identifier plus the client-hint headers that
// must stay consistent with it across requests.
type ChromeProfile struct {
	headerOrder []string
}

// NewChromeProfile returns the stock Chrome profile.
func NewChromeProfile() *ChromeProfile {
	return &ChromeProfile{headerOrder: defaultChromeHeaderOrder()}
}

func defaultChromeHeaderOrder() []string {
	return []string{
		"host",
		"connection",
		"cache-control",
		"sec-ch-ua",
		"sec-ch-ua-mobile",
		"sec-ch-ua-platform",
		"upgrade-insecure-requests",
		"user-agent",
		"accept",
		"sec-fetch-site",
		"sec-fetch-mode",
		"sec-fetch-user",
		"sec-fetch-dest",
		"accept-encoding",
		"accept-language",
		"cookie",
	}
}

// Name implements HeaderProfile.
func (p *ChromeProfile) Name() string { return "ChromeProfile" }

// HeaderOrder implements HeaderProfile.
func (p *ChromeProfile) HeaderOrder() []string {
	out := make([]string, len(p.headerOrder))
	copy(out, p.headerOrder)
	return out
}

// Headers implements HeaderProfile. The identifier may be a TLS client tag
// like "chrome_120" or a bare major version like "128"; unknown identifiers
// fall back to a random known version.
func (p *ChromeProfile) Headers(clientIdentifier string) map[string]string {
	ua := p.userAgent(clientIdentifier)
	headers := map[string]string{
		"Sec-Ch-Ua":                 fmt.Sprintf(`"Google Chrome";v=%q, "Chromium";v=%q, "Not)A;Brand";v="99"`, ua.version, ua.version),
		"Sec-Ch-Ua-Mobile":          "?0",
		"Sec-Ch-Ua-Platform":        fmt.Sprintf("%q", ua.platform),
		"User-Agent":                ua.userAgent,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.9",
		"Accept-Encoding":           "gzip, deflate, br",
		"Upgrade-Insecure-Requests": "1",
	}
	if ua.mobile {
		headers["Sec-Ch-Ua-Mobile"] = "?1"
	}
	return headers
}

type userAgentInfo struct {
	userAgent string
	version   string
	platform  string
	mobile    bool
}

// userAgent builds a full Chrome UA string consistent with the identifier's
// major version, picking the channel, build and platform at random.
func (p *ChromeProfile) userAgent(clientIdentifier string) userAgentInfo {
	const webkitVersion = "537.36"

	major := chromeMajorVersion(clientIdentifier)
	if err := loadChromeData(); err != nil || len(chromeVersions) == 0 {
		// Embedded data is validated by tests; keep a static fallback so a
		// session never starts headerless.
		return userAgentInfo{
			userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			version:   "120",
			platform:  "Windows",
		}
	}

	channels, ok := chromeVersions[major]
	if !ok {
		majors := make([]string, 0, len(chromeVersions))
		for m := range chromeVersions {
			majors = append(majors, m)
		}
		major = majors[rand.Intn(len(majors))]
		channels = chromeVersions[major]
	}

	channelNames := make([]string, 0, len(channels))
	for name := range channels {
		channelNames = append(channelNames, name)
	}
	builds := channels[channelNames[rand.Intn(len(channelNames))]]
	build := builds[rand.Intn(len(builds))]

	subsystems := chromePlatforms[build.Platform]
	subsystem := subsystems[rand.Intn(len(subsystems))]

	ua := fmt.Sprintf("Mozilla/5.0 (%s) AppleWebKit/%s (KHTML, like Gecko) %s/%s %s/%s",
		subsystem.SystemInfo, webkitVersion, subsystem.BrowserNaming, build.Version, subsystem.EndString, webkitVersion)

	return userAgentInfo{
		userAgent: ua,
		version:   major,
		platform:  subsystem.Platform,
		mobile:    subsystem.Mobile,
	}
}

// chromeMajorVersion extracts the major version from identifiers like
// "chrome_120", "chrome_120_PSK" or "128".
func chromeMajorVersion(identifier string) string {
	if after, ok := strings.CutPrefix(identifier, "chrome_"); ok {
		major, _, _ := strings.Cut(after, "_")
		return major
	}
	return identifier
}
