package requestspro

import (
	"encoding/json"
	"fmt"
)

// Document is the persistable form of a session. Field names and nesting are
// a compatibility contract shared with other implementations of the format;
// do not rename them.
type Document struct {
	SessionClientType string      `json:"sessionClientType"`
	ClientIdentifier  string      `json:"client_identifier,omitempty"`
	Headers           *HeaderMap  `json:"headers"`
	Cookies           []*Cookie   `json:"cookies"`
	Proxies           ProxyConfig `json:"proxies"`
	HeaderProfile     string      `json:"header_helper"`
	NoMiddleware      bool        `json:"no_middleware"`
	UseMITM           bool        `json:"use_mitm_when_active"`
}

// ToDocument captures the full session state: transport kind, ordered
// headers, every cookie attribute, proxies, profile and middleware toggles.
func (c *Client) ToDocument() *Document {
	doc := &Document{
		SessionClientType: c.transport.Kind(),
		Headers:           c.transport.Headers().Clone(),
		Cookies:           c.transport.Cookies().All(),
		Proxies:           c.transport.Proxies(),
		HeaderProfile:     c.profile.Name(),
		NoMiddleware:      c.noMiddleware,
		UseMITM:           c.useMITM,
	}
	if doc.SessionClientType == KindTLS {
		doc.ClientIdentifier = c.transport.Identifier()
	}
	return doc
}

// ToJSON serializes the session document.
func (c *Client) ToJSON() ([]byte, error) {
	return json.Marshal(c.ToDocument())
}

// FromDocument reconstructs a behaviorally equivalent session from a
// document: same transport kind and fingerprint profile, all headers
// re-applied in order, proxies re-applied, every cookie re-inserted with its
// full attribute set. Pass a profile to override the registry lookup of the
// document's header_helper name.
func FromDocument(doc *Document, profile HeaderProfile) (*Client, error) {
	if doc == nil {
		return nil, fmt.Errorf("requestspro: nil document")
	}
	if profile == nil {
		resolved, err := lookupHeaderProfile(doc.HeaderProfile)
		if err != nil {
			return nil, err
		}
		profile = resolved
	}

	opts := []Option{
		WithHeaderProfile(profile),
		WithUseMITM(doc.UseMITM),
	}
	if doc.NoMiddleware {
		opts = append(opts, WithNoMiddleware())
	}

	identifier := doc.ClientIdentifier
	if identifier == "" && doc.SessionClientType == KindTLS {
		identifier = DefaultTLSSettings().ClientIdentifier
	}
	if identifier != "" {
		opts = append(opts, WithClientIdentifier(identifier))
	}

	client, err := NewClient(doc.SessionClientType, opts...)
	if err != nil {
		return nil, err
	}

	if doc.Headers != nil {
		for _, key := range doc.Headers.Keys() {
			client.Headers().Set(key, doc.Headers.Get(key))
		}
	}
	if len(doc.Proxies) > 0 {
		if err := client.SetProxies(doc.Proxies); err != nil {
			client.Close()
			return nil, err
		}
	}
	for _, cookie := range doc.Cookies {
		client.CookieJar().SetCookie(cookie)
	}
	return client, nil
}

// FromJSON deserializes a session document and reconstructs the session.
func FromJSON(data []byte, profile HeaderProfile) (*Client, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("requestspro: decoding session document: %w", err)
	}
	return FromDocument(&doc, profile)
}
