package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Specs is an open key/value mapping that remembers insertion order.
// Values are float64 for JSON numbers, string for JSON strings, and whatever
// encoding/json produces for anything else.
type Specs struct {
	keys   []string
	values map[string]interface{}
}

// SpecsOf builds Specs from alternating key/value arguments
func SpecsOf(pairs ...interface{}) Specs {
	var s Specs
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		s.Set(key, pairs[i+1])
	}
	return s
}

// Set assigns a value, appending the key if it is new
func (s *Specs) Set(key string, value interface{}) {
	if s.values == nil {
		s.values = make(map[string]interface{})
	}
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = normalizeSpecValue(value)
}

// Get returns the value stored under key
func (s Specs) Get(key string) (interface{}, bool) {
	v, ok := s.values[key]
	return v, ok
}

// String returns the value under key formatted for display
func (s Specs) String(key string) string {
	v, ok := s.values[key]
	if !ok || v == nil {
		return ""
	}
	return FormatSpecValue(v)
}

// Keys returns keys in insertion order
func (s Specs) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s Specs) Len() int {
	return len(s.keys)
}

func (s Specs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.values[key])
		if err != nil {
			return nil, fmt.Errorf("specs key %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Specs) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = Specs{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("specs: expected JSON object, got %v", tok)
	}

	var out Specs
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("specs: expected string key, got %v", keyTok)
		}

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("specs key %q: %w", key, err)
		}
		out.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

func normalizeSpecValue(v interface{}) interface{} {
	switch n := v.(type) {
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	default:
		return v
	}
}

// FormatSpecValue renders a spec value without trailing zeros
func FormatSpecValue(v interface{}) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return fmt.Sprintf("%g", n)
	default:
		return fmt.Sprint(v)
	}
}
