// Package schema validates rank and filter query items before any protocol
// message is built.
//
// The contract, per recognized item key:
//
//	image_url    string matching ^https?://
//	text_raw     non-empty string
//	metadata     map[string]any, contents unchecked
//	image_bytes  []byte, contents unchecked
//	geo_point    object with exactly longitude (float), latitude (float)
//	             and geo_limit (integer kilometers); extra keys rejected
//	concepts     non-empty list of non-empty concept objects
//
// A concept object carries any of: name (alphanumeric segments joined by
// single dashes or underscores), id (non-empty), language (non-empty),
// value (exactly 0 or 1). Unknown keys fail validation at both levels.
// Validation stops at the first violation.
package schema

import (
	"fmt"
	"regexp"
)

// Recognized query item keys.
const (
	KeyImageURL   = "image_url"
	KeyImageBytes = "image_bytes"
	KeyTextRaw    = "text_raw"
	KeyMetadata   = "metadata"
	KeyGeoPoint   = "geo_point"
	KeyConcepts   = "concepts"
)

var (
	imageURLRegex    = regexp.MustCompile(`^https?://`)
	conceptNameRegex = regexp.MustCompile(`^[0-9A-Za-z]+([-_][0-9A-Za-z]+)*$`)
)

// ValidateItems checks an ordered rank or filter list. A nil or empty list
// is valid. The returned error describes the first violation encountered.
func ValidateItems(items []map[string]any) error {
	for i, item := range items {
		if err := validateItem(item); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func validateItem(item map[string]any) error {
	for key, value := range item {
		var err error
		switch key {
		case KeyImageURL:
			err = validateImageURL(value)
		case KeyTextRaw:
			err = validateTextRaw(value)
		case KeyMetadata:
			err = validateMetadata(value)
		case KeyImageBytes:
			err = validateImageBytes(value)
		case KeyGeoPoint:
			err = validateGeoPoint(value)
		case KeyConcepts:
			err = validateConcepts(value)
		default:
			return fmt.Errorf("unknown key %q", key)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func validateImageURL(v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("must be a string, got %T", v)
	}
	if !imageURLRegex.MatchString(s) {
		return fmt.Errorf("%q must start with http:// or https://", s)
	}
	return nil
}

func validateTextRaw(v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("must be a string, got %T", v)
	}
	if s == "" {
		return fmt.Errorf("must not be empty")
	}
	return nil
}

func validateMetadata(v any) error {
	if _, ok := v.(map[string]any); !ok {
		return fmt.Errorf("must be a map, got %T", v)
	}
	return nil
}

func validateImageBytes(v any) error {
	if _, ok := v.([]byte); !ok {
		return fmt.Errorf("must be raw bytes, got %T", v)
	}
	return nil
}

// validateGeoPoint requires exactly longitude, latitude and geo_limit.
func validateGeoPoint(v any) error {
	gp, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("must be an object, got %T", v)
	}
	for key := range gp {
		switch key {
		case "longitude", "latitude", "geo_limit":
		default:
			return fmt.Errorf("unknown key %q", key)
		}
	}
	lon, ok := gp["longitude"]
	if !ok {
		return fmt.Errorf("longitude is required")
	}
	if _, ok := FloatValue(lon); !ok {
		return fmt.Errorf("longitude must be a float, got %T", lon)
	}
	lat, ok := gp["latitude"]
	if !ok {
		return fmt.Errorf("latitude is required")
	}
	if _, ok := FloatValue(lat); !ok {
		return fmt.Errorf("latitude must be a float, got %T", lat)
	}
	limit, ok := gp["geo_limit"]
	if !ok {
		return fmt.Errorf("geo_limit is required")
	}
	if _, ok := IntValue(limit); !ok {
		return fmt.Errorf("geo_limit must be an integer, got %v", limit)
	}
	return nil
}

func validateConcepts(v any) error {
	concepts, err := ConceptList(v)
	if err != nil {
		return err
	}
	if len(concepts) == 0 {
		return fmt.Errorf("must not be empty")
	}
	for i, c := range concepts {
		if err := validateConcept(c); err != nil {
			return fmt.Errorf("concept %d: %w", i, err)
		}
	}
	return nil
}

// ConceptList normalizes a concepts value to a list of objects. Both the
// literal and the JSON-decoded list shape are accepted.
func ConceptList(v any) ([]map[string]any, error) {
	switch list := v.(type) {
	case []map[string]any:
		return list, nil
	case []any:
		out := make([]map[string]any, len(list))
		for i, e := range list {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("concept %d: must be an object, got %T", i, e)
			}
			out[i] = m
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a list, got %T", v)
	}
}

func validateConcept(c map[string]any) error {
	if len(c) == 0 {
		return fmt.Errorf("must not be empty")
	}
	for key, value := range c {
		switch key {
		case "value":
			n, ok := IntValue(value)
			if !ok || (n != 0 && n != 1) {
				return fmt.Errorf("value must be 0 or 1, got %v", value)
			}
		case "id":
			s, ok := value.(string)
			if !ok || s == "" {
				return fmt.Errorf("id must be a non-empty string, got %v", value)
			}
		case "language":
			s, ok := value.(string)
			if !ok || s == "" {
				return fmt.Errorf("language must be a non-empty string, got %v", value)
			}
		case "name":
			s, ok := value.(string)
			if !ok || s == "" {
				return fmt.Errorf("name must be a non-empty string, got %v", value)
			}
			if !conceptNameRegex.MatchString(s) {
				return fmt.Errorf("name %q must be alphanumeric segments joined by single dashes or underscores", s)
			}
		default:
			return fmt.Errorf("unknown key %q", key)
		}
	}
	return nil
}

// FloatValue extracts a floating-point value. Integers are rejected on
// purpose: coordinates are typed as floats end to end.
func FloatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

// IntValue normalizes Go integer kinds and integral float64 (the JSON
// number type) to int.
func IntValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
		return 0, false
	default:
		return 0, false
	}
}
