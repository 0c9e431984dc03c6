package types

import (
	"encoding/json"
	"strings"
)

// StringSet is an insertion-ordered set of strings. Duplicates are dropped on
// add; ordering carries no significance but is kept stable so serialized
// snapshots diff cleanly. Marshals as a JSON array and accepts either an
// array or a single string on unmarshal.
type StringSet struct {
	items []string
}

// NewStringSet builds a set from the given values, deduplicating.
func NewStringSet(values ...string) StringSet {
	var s StringSet
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts value unless it is blank or already present.
// Reports whether the set changed.
func (s *StringSet) Add(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || s.Contains(value) {
		return false
	}
	s.items = append(s.items, value)
	return true
}

// Remove deletes value if present. Reports whether the set changed.
func (s *StringSet) Remove(value string) bool {
	for i, v := range s.items {
		if v == value {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s StringSet) Contains(value string) bool {
	for _, v := range s.items {
		if v == value {
			return true
		}
	}
	return false
}

func (s StringSet) Len() int {
	return len(s.items)
}

// Values returns a copy of the set contents in insertion order.
func (s StringSet) Values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// MarshalJSON implements the json.Marshaler interface.
func (s StringSet) MarshalJSON() ([]byte, error) {
	if s.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var list FlexList[string]
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	s.items = nil
	for _, v := range list {
		s.Add(v)
	}
	return nil
}
