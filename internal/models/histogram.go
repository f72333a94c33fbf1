package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Histogram counts occurrences of string values. Seeded buckets are always
// reported, even at zero; unseen values get a bucket on first use. Keys keep
// their insertion order when marshalled.
type Histogram struct {
	keys   []string
	counts map[string]int
}

// NewHistogram creates a histogram with zero-valued buckets for seed
func NewHistogram(seed ...string) *Histogram {
	h := &Histogram{counts: make(map[string]int, len(seed))}
	for _, key := range seed {
		h.ensure(key)
	}
	return h
}

func (h *Histogram) ensure(key string) {
	if h.counts == nil {
		h.counts = make(map[string]int)
	}
	if _, ok := h.counts[key]; !ok {
		h.keys = append(h.keys, key)
		h.counts[key] = 0
	}
}

// Add increments the bucket for key
func (h *Histogram) Add(key string) {
	h.ensure(key)
	h.counts[key]++
}

// Count returns the count for key (0 when absent)
func (h *Histogram) Count(key string) int {
	if h == nil {
		return 0
	}
	return h.counts[key]
}

// Keys returns bucket names in insertion order
func (h *Histogram) Keys() []string {
	if h == nil {
		return nil
	}
	keys := make([]string, len(h.keys))
	copy(keys, h.keys)
	return keys
}

// Total returns the sum of all buckets
func (h *Histogram) Total() int {
	if h == nil {
		return 0
	}
	total := 0
	for _, n := range h.counts {
		total += n
	}
	return total
}

// MarshalJSON writes the buckets as an object in insertion order
func (h *Histogram) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range h.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encoded, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(h.counts[key]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of counts, keeping document order
func (h *Histogram) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("histogram: expected object, got %v", tok)
	}
	h.keys = nil
	h.counts = make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("histogram: expected string key, got %v", keyTok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("histogram: bucket %q: %w", key, err)
		}
		h.ensure(key)
		h.counts[key] = n
	}
	_, err = dec.Token()
	return err
}
