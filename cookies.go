package requestspro

import (
	"net/http"
	"strings"
)

// Cookie is a full-attribute cookie record. Every field round-trips through
// session snapshots; the JSON names are part of the persisted-state
// compatibility contract.
type Cookie struct {
	Name             string            `json:"name"`
	Value            string            `json:"value"`
	Domain           string            `json:"domain"`
	Path             string            `json:"path"`
	Expires          *int64            `json:"expires"`
	Secure           bool              `json:"secure"`
	Rest             map[string]string `json:"rest"`
	Version          int               `json:"version"`
	Port             *string           `json:"port"`
	PortSpecified    bool              `json:"port_specified"`
	DomainSpecified  bool              `json:"domain_specified"`
	DomainInitialDot bool              `json:"domain_initial_dot"`
	PathSpecified    bool              `json:"path_specified"`
	Discard          bool              `json:"discard"`
	Comment          *string           `json:"comment"`
	CommentURL       *string           `json:"comment_url"`
	RFC2109          bool              `json:"rfc2109"`
}

// clone returns a deep copy of the cookie.
func (c *Cookie) clone() *Cookie {
	cp := *c
	if c.Rest != nil {
		cp.Rest = make(map[string]string, len(c.Rest))
		for k, v := range c.Rest {
			cp.Rest[k] = v
		}
	}
	if c.Expires != nil {
		e := *c.Expires
		cp.Expires = &e
	}
	if c.Port != nil {
		p := *c.Port
		cp.Port = &p
	}
	if c.Comment != nil {
		cm := *c.Comment
		cp.Comment = &cm
	}
	if c.CommentURL != nil {
		cu := *c.CommentURL
		cp.CommentURL = &cu
	}
	return &cp
}

// Jar holds a session's cookies. At most one live cookie exists per name:
// updates delete jar-wide by name, not by (name, domain).
type Jar struct {
	cookies  []*Cookie
	onChange func()
}

// NewJar returns an empty jar.
func NewJar() *Jar {
	return &Jar{}
}

func (j *Jar) changed() {
	if j.onChange != nil {
		j.onChange()
	}
}

// All returns the cookies in insertion order.
func (j *Jar) All() []*Cookie {
	out := make([]*Cookie, len(j.cookies))
	copy(out, j.cookies)
	return out
}

// Get returns the cookie with the given name.
func (j *Jar) Get(name string) (*Cookie, bool) {
	for _, c := range j.cookies {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Len returns the number of cookies.
func (j *Jar) Len() int {
	return len(j.cookies)
}

// Set stores a cookie with the given name, value and domain, replacing any
// existing cookie with the same name.
func (j *Jar) Set(name, value, domain string) {
	j.Delete(name)
	j.cookies = append(j.cookies, &Cookie{Name: name, Value: value, Domain: domain})
	j.changed()
}

// SetCookie inserts a full cookie record, replacing any same-named entry.
func (j *Jar) SetCookie(c *Cookie) {
	j.Delete(c.Name)
	j.cookies = append(j.cookies, c.clone())
	j.changed()
}

// Update merges name/value pairs into the jar.
func (j *Jar) Update(cookies map[string]string) {
	for name, value := range cookies {
		j.Set(name, value, "")
	}
}

// Delete removes every cookie with one of the given names.
func (j *Jar) Delete(names ...string) {
	if len(j.cookies) == 0 {
		return
	}
	kept := j.cookies[:0]
	removed := false
	for _, c := range j.cookies {
		drop := false
		for _, name := range names {
			if c.Name == name {
				drop = true
				break
			}
		}
		if drop {
			removed = true
		} else {
			kept = append(kept, c)
		}
	}
	j.cookies = kept
	if removed {
		j.changed()
	}
}

// Clear removes every cookie except the named survivors.
func (j *Jar) Clear(skip ...string) {
	kept := j.cookies[:0]
	for _, c := range j.cookies {
		keep := false
		for _, name := range skip {
			if c.Name == name {
				keep = true
				break
			}
		}
		if keep {
			kept = append(kept, c)
		}
	}
	removed := len(kept) != len(j.cookies)
	j.cookies = kept
	if removed {
		j.changed()
	}
}

// Map returns name/value pairs for the cookies in the jar.
func (j *Jar) Map() map[string]string {
	out := make(map[string]string, len(j.cookies))
	for _, c := range j.cookies {
		out[c.Name] = c.Value
	}
	return out
}

// syncCookies applies a response's Set-Cookie headers to the jar. It runs on
// every attempt before status evaluation, so failing responses still update
// the session. Entries with an empty value are skipped rather than treated as
// deletions.
func syncCookies(jar *Jar, resp *Response) {
	if resp == nil || jar == nil {
		return
	}
	lines := resp.Header.Values("Set-Cookie")
	for _, line := range lines {
		for _, entry := range splitSetCookieHeader(line) {
			parsed, err := http.ParseSetCookie(entry)
			if err != nil || parsed.Value == "" {
				continue
			}
			jar.Set(parsed.Name, parsed.Value, parsed.Domain)
		}
	}
}

// splitSetCookieHeader splits a combined Set-Cookie value into individual
// cookie strings. Commas inside Expires dates do not start a new cookie: a
// fragment only counts as one when it carries a name=value pair before any
// attribute separator.
func splitSetCookieHeader(header string) []string {
	parts := strings.Split(header, ",")
	var out []string
	for _, part := range parts {
		if len(out) > 0 && !startsNewCookie(part) {
			out[len(out)-1] += "," + part
			continue
		}
		out = append(out, part)
	}
	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}
	return out
}

func startsNewCookie(fragment string) bool {
	fragment = strings.TrimSpace(fragment)
	eq := strings.IndexByte(fragment, '=')
	if eq <= 0 {
		return false
	}
	if semi := strings.IndexByte(fragment, ';'); semi != -1 && semi < eq {
		return false
	}
	name := strings.TrimSpace(fragment[:eq])
	if name == "" || strings.ContainsAny(name, " \t") {
		return false
	}
	// Attribute names that belong to the previous cookie, not a new one.
	switch strings.ToLower(name) {
	case "expires", "path", "domain", "max-age", "samesite", "secure", "httponly":
		return false
	}
	return true
}
