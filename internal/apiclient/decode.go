package apiclient

import (
	"bytes"
	"encoding/json"
)

// Decode unmarshals raw into a T.
func Decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, ErrEmptyBody
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, decodeError("response", err)
	}
	return v, nil
}

// UnwrapList extracts a collection from any of the shapes the backend uses:
// a bare array, {"data": [...]}, or an object keyed by one of keys
// (e.g. "tasks"). An empty body decodes to an empty list.
func UnwrapList[T any](raw json.RawMessage, keys ...string) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		return decodeList[T](trimmed)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, decodeError("list envelope", err)
	}
	for _, key := range envelopeKeys(keys) {
		if inner, ok := envelope[key]; ok {
			inner = bytes.TrimSpace(inner)
			if len(inner) == 0 || bytes.Equal(inner, []byte("null")) {
				return []T{}, nil
			}
			if inner[0] == '[' {
				return decodeList[T](inner)
			}
			// {"data": {"tasks": [...]}}
			if inner[0] == '{' {
				return UnwrapList[T](inner, keys...)
			}
		}
	}
	return []T{}, nil
}

// UnwrapObject extracts a single entity from a bare object, {"data": {...}}
// or an object keyed by one of keys (e.g. "task").
func UnwrapObject[T any](raw json.RawMessage, keys ...string) (T, error) {
	var zero T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return zero, ErrEmptyBody
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err == nil {
		for _, key := range envelopeKeys(keys) {
			inner := bytes.TrimSpace(envelope[key])
			if len(inner) > 0 && inner[0] == '{' {
				return Decode[T](inner)
			}
		}
	}
	return Decode[T](trimmed)
}

func decodeList[T any](raw []byte) ([]T, error) {
	items := []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, decodeError("list", err)
	}
	return items, nil
}

func envelopeKeys(keys []string) []string {
	out := make([]string, 0, len(keys)+1)
	return append(append(out, keys...), "data")
}
