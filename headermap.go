package requestspro

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/textproto"
)

// HeaderMap is an ordered, case-insensitive header mapping. Insertion order
// is preserved because fingerprint-sensitive engines send headers in mapping
// order; re-setting an existing key keeps its original position.
type HeaderMap struct {
	keys   []string
	values map[string]string
}

// NewHeaderMap returns an empty header mapping.
func NewHeaderMap() *HeaderMap {
	return &HeaderMap{values: make(map[string]string)}
}

func canonicalKey(key string) string {
	return textproto.CanonicalMIMEHeaderKey(key)
}

// Set stores the value under the key, preserving the key's position when it
// already exists.
func (h *HeaderMap) Set(key, value string) {
	ck := canonicalKey(key)
	if _, ok := h.values[ck]; !ok {
		h.keys = append(h.keys, ck)
	}
	h.values[ck] = value
}

// Get returns the value for the key, or "" when absent.
func (h *HeaderMap) Get(key string) string {
	return h.values[canonicalKey(key)]
}

// Has reports whether the key is present.
func (h *HeaderMap) Has(key string) bool {
	_, ok := h.values[canonicalKey(key)]
	return ok
}

// Del removes the key.
func (h *HeaderMap) Del(key string) {
	ck := canonicalKey(key)
	if _, ok := h.values[ck]; !ok {
		return
	}
	delete(h.values, ck)
	for i, k := range h.keys {
		if k == ck {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

// Update merges the given headers in, preserving existing key positions.
// Go map iteration order is random, so bulk updates from plain maps do not
// guarantee a relative order between the new keys.
func (h *HeaderMap) Update(headers map[string]string) {
	for k, v := range headers {
		h.Set(k, v)
	}
}

// Replace drops every entry and installs the given headers.
func (h *HeaderMap) Replace(headers map[string]string) {
	h.keys = h.keys[:0]
	h.values = make(map[string]string, len(headers))
	h.Update(headers)
}

// Keys returns the keys in insertion order.
func (h *HeaderMap) Keys() []string {
	out := make([]string, len(h.keys))
	copy(out, h.keys)
	return out
}

// Len returns the number of entries.
func (h *HeaderMap) Len() int {
	return len(h.keys)
}

// Map returns a plain map copy of the entries.
func (h *HeaderMap) Map() map[string]string {
	out := make(map[string]string, len(h.values))
	for k, v := range h.values {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy.
func (h *HeaderMap) Clone() *HeaderMap {
	c := NewHeaderMap()
	for _, k := range h.keys {
		c.Set(k, h.values[k])
	}
	return c
}

// MarshalJSON emits a JSON object with keys in insertion order, so snapshots
// keep the fingerprint-relevant ordering.
func (h *HeaderMap) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range h.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(h.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving its key order.
func (h *HeaderMap) UnmarshalJSON(data []byte) error {
	h.keys = nil
	h.values = make(map[string]string)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("requestspro: headers must be a JSON object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("requestspro: header key must be a string")
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}
		h.Set(key, value)
	}
	_, err = dec.Token() // closing brace
	return err
}
