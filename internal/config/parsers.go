// Package config provides configuration loading and parsing for scrollfeed.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// lookupSetting returns the first of candidates present in settings. Viper
// lower-cases file keys, so candidates are matched lower-cased too.
func lookupSetting(settings map[string]interface{}, candidates ...string) (interface{}, bool) {
	for _, key := range candidates {
		if val, ok := settings[strings.ToLower(key)]; ok {
			return val, true
		}
	}
	return nil, false
}

func asString(value interface{}) (string, error) {
	return cast.ToStringE(value)
}

// blank reports whether value is a whitespace-only string, which file
// settings treat as unset.
func blank(value interface{}) bool {
	s, ok := value.(string)
	return ok && strings.TrimSpace(s) == ""
}

func asInt(value interface{}) (int, error) {
	if blank(value) {
		return 0, nil
	}
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	return cast.ToIntE(value)
}

func asFloat64(value interface{}) (float64, error) {
	if blank(value) {
		return 0, nil
	}
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	return cast.ToFloat64E(value)
}

func asBool(value interface{}) (bool, error) {
	if blank(value) {
		return false, nil
	}
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	return cast.ToBoolE(value)
}

// asDuration accepts Go duration strings; bare numbers are seconds.
func asDuration(value interface{}) (time.Duration, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return v, nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, nil
		}
		return time.ParseDuration(v)
	default:
		secs, err := cast.ToFloat64E(v)
		if err != nil {
			return 0, fmt.Errorf("unsupported duration type %T", value)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
}

// asStringSlice keeps a single string whole; thresholds contain spaces.
func asStringSlice(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string, []interface{}:
		return cast.ToStringSliceE(v)
	default:
		return nil, fmt.Errorf("unsupported string slice type %T", value)
	}
}

// toStringKeyMap converts a nested settings map, lower-casing its keys.
func toStringKeyMap(value interface{}) (map[string]interface{}, error) {
	m, err := cast.ToStringMapE(value)
	if err != nil {
		return nil, fmt.Errorf("expected map, got %T", value)
	}
	result := make(map[string]interface{}, len(m))
	for key, val := range m {
		result[strings.ToLower(strings.TrimSpace(key))] = val
	}
	return result, nil
}
