package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

// Profile is one JSON interpretation tried during decoding. Profiles
// differ in how format-sensitive fields, dates above all, are parsed.
type Profile interface {
	Name() string
	Unmarshal(data []byte, v interface{}) error
}

// ISO8601 returns the profile that reads dates as ISO-8601 (RFC 3339)
// strings. This matches what Encode writes.
func ISO8601() Profile {
	return iso8601Profile{}
}

// LegacyEpoch returns the profile that reads dates as numeric epoch
// seconds, the representation older store versions wrote. A string
// where a date is expected is a profile mismatch and fails the attempt.
func LegacyEpoch() Profile {
	return legacyEpochProfile{}
}

type iso8601Profile struct{}

func (iso8601Profile) Name() string { return "iso8601" }

func (iso8601Profile) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

type legacyEpochProfile struct{}

func (legacyEpochProfile) Name() string { return "legacy-epoch" }

var timeType = reflect.TypeOf(time.Time{})

// Unmarshal decodes into a raw tree first, rewrites every number that
// lands on a time.Time field into RFC 3339, then performs the real
// unmarshal. The intermediate tree keeps numbers as json.Number so
// second fractions survive.
func (legacyEpochProfile) Unmarshal(data []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("legacy-epoch: target must be a non-nil pointer")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree interface{}
	if err := dec.Decode(&tree); err != nil {
		return err
	}

	rewritten, err := rewriteEpochDates(tree, rv.Type().Elem())
	if err != nil {
		return err
	}

	buf, err := json.Marshal(rewritten)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, v)
}

// rewriteEpochDates walks the decoded tree alongside the target type
// and converts epoch-second numbers destined for time.Time fields into
// RFC 3339 strings.
func rewriteEpochDates(node interface{}, t reflect.Type) (interface{}, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == timeType {
		if node == nil {
			return nil, nil
		}
		num, ok := node.(json.Number)
		if !ok {
			return nil, fmt.Errorf("legacy-epoch: expected numeric date, got %T", node)
		}
		secs, err := num.Float64()
		if err != nil {
			return nil, err
		}
		sec, frac := math.Modf(secs)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC().Format(time.RFC3339Nano), nil
	}

	switch t.Kind() {
	case reflect.Struct:
		obj, ok := node.(map[string]interface{})
		if !ok {
			return node, nil
		}
		fields := jsonFields(t)
		for key, val := range obj {
			ft, ok := lookupField(fields, key)
			if !ok {
				continue
			}
			converted, err := rewriteEpochDates(val, ft)
			if err != nil {
				return nil, err
			}
			obj[key] = converted
		}
		return obj, nil

	case reflect.Slice, reflect.Array:
		arr, ok := node.([]interface{})
		if !ok {
			return node, nil
		}
		for i, val := range arr {
			converted, err := rewriteEpochDates(val, t.Elem())
			if err != nil {
				return nil, err
			}
			arr[i] = converted
		}
		return arr, nil

	case reflect.Map:
		obj, ok := node.(map[string]interface{})
		if !ok {
			return node, nil
		}
		for key, val := range obj {
			converted, err := rewriteEpochDates(val, t.Elem())
			if err != nil {
				return nil, err
			}
			obj[key] = converted
		}
		return obj, nil

	default:
		// Interfaces and scalars carry no date type information.
		return node, nil
	}
}

// jsonFields maps JSON key names to field types, honoring json tags
// and flattening embedded structs the way encoding/json does.
func jsonFields(t reflect.Type) map[string]reflect.Type {
	out := make(map[string]reflect.Type)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}

		if f.Anonymous && tag == "" {
			ft := f.Type
			for ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && ft != timeType {
				for name, typ := range jsonFields(ft) {
					if _, exists := out[name]; !exists {
						out[name] = typ
					}
				}
				continue
			}
		}

		name := f.Name
		if tag != "" {
			if comma := strings.Index(tag, ","); comma >= 0 {
				tag = tag[:comma]
			}
			if tag != "" {
				name = tag
			}
		}
		out[name] = f.Type
	}
	return out
}

// lookupField matches the way encoding/json resolves keys: exact match
// first, then case-insensitive.
func lookupField(fields map[string]reflect.Type, key string) (reflect.Type, bool) {
	if t, ok := fields[key]; ok {
		return t, true
	}
	for name, t := range fields {
		if strings.EqualFold(name, key) {
			return t, true
		}
	}
	return nil, false
}
