// internal/spooler/attributes.go
package spooler

import (
	"fmt"
	"strconv"
)

// Attributes is a raw attribute bag as reported by the spooler. Values are
// scalars (string, int, bool) or []string / []any for multi-valued
// attributes.
type Attributes map[string]any

// Has reports whether key is present
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String returns the value of key as a string. A list yields its first
// element.
func (a Attributes) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok {
		return "", false
	}
	switch val := v.(type) {
	case []string:
		if len(val) == 0 {
			return "", true
		}
		return val[0], true
	case []any:
		if len(val) == 0 {
			return "", true
		}
		return ToString(val[0]), true
	default:
		return ToString(val), true
	}
}

// StringOr returns the string value of key or def when absent
func (a Attributes) StringOr(key, def string) string {
	if s, ok := a.String(key); ok {
		return s
	}
	return def
}

// Strings returns the value of key as a list. A scalar yields a one element
// list.
func (a Attributes) Strings(key string) ([]string, bool) {
	v, ok := a[key]
	if !ok {
		return nil, false
	}
	return ToStrings(v), true
}

// Int returns the value of key as an int
func (a Attributes) Int(key string) (int, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int8:
		return int(val), true
	case int16:
		return int(val), true
	case int32:
		return int(val), true
	case int64:
		return int(val), true
	case uint32:
		return int(val), true
	case float64:
		return int(val), true
	case string:
		n, err := strconv.Atoi(val)
		return n, err == nil
	case []any:
		if len(val) == 1 {
			return Attributes{key: val[0]}.Int(key)
		}
	}
	return 0, false
}

// Bool returns the value of key as a bool
func (a Attributes) Bool(key string) (bool, bool) {
	v, ok := a[key]
	if !ok {
		return false, false
	}
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		b, err := strconv.ParseBool(val)
		return b, err == nil
	case []any:
		if len(val) == 1 {
			return Attributes{key: val[0]}.Bool(key)
		}
	}
	return false, false
}

// IsList reports whether the value of key is multi-valued
func IsList(v any) bool {
	switch v.(type) {
	case []string, []any:
		return true
	}
	return false
}

// ToString renders a scalar attribute value
func ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(val)
	}
}

// ToStrings renders any attribute value as a list
func ToStrings(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, ToString(item))
		}
		return out
	default:
		return []string{ToString(val)}
	}
}
