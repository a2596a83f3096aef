// Package jsonutil holds lenient JSON decoding helpers for request payloads.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexibleInt decodes from either a JSON number or a numeric string, so
// {"status_id": 2} and {"status_id": "2"} are equivalent.
type FlexibleInt int

// UnmarshalJSON accepts integral numbers and strings holding one.
func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = 0
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		raw = strings.TrimSpace(s)
	}

	n, err := parseInt(raw)
	if err != nil {
		return err
	}
	*f = FlexibleInt(n)
	return nil
}

// Int returns the value as an int.
func (f FlexibleInt) Int() int { return int(f) }

// IntValue converts a loosely typed value, as found in decoded JSON maps or
// tool arguments, to an int.
func IntValue(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected an integer, got %v", n)
		}
		return int(n), nil
	case json.Number:
		return parseInt(n.String())
	case string:
		return parseInt(strings.TrimSpace(n))
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

func parseInt(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	fl, err := strconv.ParseFloat(raw, 64)
	if err != nil || fl != math.Trunc(fl) {
		return 0, fmt.Errorf("expected an integer, got %q", raw)
	}
	return int(fl), nil
}
