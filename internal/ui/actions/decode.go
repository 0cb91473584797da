// Package actions holds the shared plumbing feature modules build their
// delegated handlers from: typed data-* payloads, in-flight guards and the
// JSON client for the admin endpoints.
package actions

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/Its-donkey/ecs-webui/internal/ui/dom"
)

// ErrMissingField is wrapped when a required data-* attribute is absent or blank.
var ErrMissingField = errors.New("missing required data attribute")

// Decode fills the struct pointed to by dst from el's data-* attributes.
// Fields opt in with a `data:"matchId"` tag naming the dataset key; append
// ",required" to reject blank values. Supported kinds are string, bool and
// signed or unsigned integers.
func Decode(el dom.Element, dst any) error {
	if el == nil {
		return errors.New("decode payload: nil element")
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode payload: want pointer to struct, got %T", dst)
	}
	rv = rv.Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag, ok := field.Tag.Lookup("data")
		if !ok || !field.IsExported() {
			continue
		}
		key, required := parseTag(tag)
		if key == "" {
			continue
		}
		raw, _ := dom.Dataset(el, key)
		raw = strings.TrimSpace(raw)
		if raw == "" {
			if required {
				return fmt.Errorf("%w: %s", ErrMissingField, dom.DatasetAttr(key))
			}
			continue
		}
		if err := setField(rv.Field(i), raw); err != nil {
			return fmt.Errorf("decode %s: %w", dom.DatasetAttr(key), err)
		}
	}
	return nil
}

func parseTag(tag string) (key string, required bool) {
	parts := strings.Split(tag, ",")
	key = strings.TrimSpace(parts[0])
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "required" {
			required = true
		}
	}
	return key, required
}

func setField(v reflect.Value, raw string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	default:
		return fmt.Errorf("unsupported field kind %s", v.Kind())
	}
	return nil
}
