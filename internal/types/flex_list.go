package types

import (
	"encoding/json"
)

// FlexList is a slice that can be unmarshaled from either a single JSON value
// or a JSON array. Clients send one field change or a batch through the same
// body shape, so both decode to a list.
type FlexList[T any] []T

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexList[T]) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	// Try array form first
	var list []T
	if err := json.Unmarshal(data, &list); err == nil {
		*f = FlexList[T](list)
		return nil
	}

	// Fall back to a single element
	var single T
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*f = FlexList[T]{single}
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexList[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal([]T(f))
}

// Slice converts FlexList back to a plain slice.
func (f FlexList[T]) Slice() []T {
	return []T(f)
}
