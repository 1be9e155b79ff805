package heuristic

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// TimeLayout is the ISO-8601 UTC millisecond form used for time values in StableSerialize
const TimeLayout = "2006-01-02T15:04:05.000Z"

// StableSerialize renders v as canonical JSON: map keys sorted, time values in TimeLayout.
// Two values that differ only in map key order serialize identically.
func StableSerialize(v any) string {
	b, err := json.Marshal(normalize(reflect.ValueOf(v)))
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}

func normalize(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	if t, ok := asTime(v); ok {
		return t.UTC().Format(TimeLayout)
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return normalize(v.Elem())
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = normalize(iter.Value())
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Interface()
		}
		fallthrough
	case reflect.Array:
		out := make([]any, v.Len())
		for i := range out {
			out[i] = normalize(v.Index(i))
		}
		return out
	default:
		if v.CanInterface() {
			return v.Interface()
		}
		return nil
	}
}

func asTime(v reflect.Value) (time.Time, bool) {
	if !v.CanInterface() {
		return time.Time{}, false
	}
	switch t := v.Interface().(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}
