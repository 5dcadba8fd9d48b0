package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
)

// Page is a list response together with the paging totals when the
// backend sent an envelope.
type Page[T any] struct {
	Items         []T
	TotalElements int64
	TotalPages    int
	Number        int
}

type envelope struct {
	Content       json.RawMessage `json:"content"`
	TotalElements *int64          `json:"totalElements"`
	TotalPages    int             `json:"totalPages"`
	Number        int             `json:"number"`
}

// DecodeList normalises a list response. A bare array and an envelope
// with a content array decode the same way; anything else is an empty
// list. A field that does not decode keeps its zero value; elements that
// are not objects are skipped.
func DecodeList[T any](raw json.RawMessage) []T {
	return DecodePage[T](raw).Items
}

func DecodePage[T any](raw json.RawMessage) Page[T] {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Page[T]{Items: []T{}}
	}

	switch raw[0] {
	case '[':
		items := decodeItems[T](raw)
		return Page[T]{Items: items, TotalElements: int64(len(items)), TotalPages: 1}

	case '{':
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return Page[T]{Items: []T{}}
		}
		items := decodeItems[T](bytes.TrimSpace(env.Content))
		page := Page[T]{Items: items, TotalPages: env.TotalPages, Number: env.Number}
		if env.TotalElements != nil {
			page.TotalElements = *env.TotalElements
		} else {
			page.TotalElements = int64(len(items))
		}
		return page

	default:
		return Page[T]{Items: []T{}}
	}
}

func decodeItems[T any](raw json.RawMessage) []T {
	var elems []json.RawMessage
	if len(raw) == 0 || raw[0] != '[' {
		return []T{}
	}
	if err := json.Unmarshal(raw, &elems); err != nil {
		return []T{}
	}

	items := make([]T, 0, len(elems))
	for i, elem := range elems {
		item, ok := decodeItem[T](elem)
		if !ok {
			slog.Debug("skipping undecodable list element", "index", i)
			continue
		}
		items = append(items, item)
	}
	return items
}

// decodeItem falls back to decoding one field at a time when the element
// as a whole does not decode, so a single mistyped field costs only that
// field.
func decodeItem[T any](elem json.RawMessage) (T, bool) {
	var item T
	err := json.Unmarshal(elem, &item)
	if err == nil {
		return item, true
	}
	if _, custom := any(&item).(json.Unmarshaler); custom {
		return item, false
	}

	var fields map[string]json.RawMessage
	if json.Unmarshal(elem, &fields) != nil {
		return item, false
	}

	var zero T
	item = zero
	for key, value := range fields {
		one, err := json.Marshal(map[string]json.RawMessage{key: value})
		if err != nil {
			continue
		}
		if err := json.Unmarshal(one, &item); err != nil {
			slog.Debug("ignoring undecodable field", "field", key, "error", err)
		}
	}
	return item, true
}

// GetList issues a GET and normalises the list response.
func GetList[T any](ctx context.Context, rq Requester, path string) ([]T, error) {
	var raw json.RawMessage
	if err := rq.Get(ctx, path, &raw); err != nil {
		return nil, err
	}
	return DecodeList[T](raw), nil
}

// GetPage is GetList for paged endpoints.
func GetPage[T any](ctx context.Context, rq Requester, path string) (Page[T], error) {
	var raw json.RawMessage
	if err := rq.Get(ctx, path, &raw); err != nil {
		return Page[T]{}, err
	}
	return DecodePage[T](raw), nil
}
