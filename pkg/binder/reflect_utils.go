package binder

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var errBadTarget = errors.New("target must be a non-nil pointer to struct")

func structValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, errBadTarget
	}
	return rv.Elem(), nil
}

// collectTagged resolves a value for every field carrying tagName.
func collectTagged(v any, tagName string, lookup func(name string) (string, bool)) (map[string][]string, error) {
	rv, err := structValue(v)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	rt := rv.Type()
	for i := range rt.NumField() {
		name, ok := tagParam(rt.Field(i), tagName)
		if !ok {
			continue
		}
		if s, found := lookup(name); found {
			out[name] = []string{s}
		}
	}
	return out, nil
}

// bindToStruct sets fields tagged with tagName from values. Untagged and
// unexported fields are ignored.
func bindToStruct(v any, tagName string, values map[string][]string, bindErr error) error {
	rv, err := structValue(v)
	if err != nil {
		return fmt.Errorf("%w: %v", bindErr, err)
	}

	rt := rv.Type()
	for i := range rv.NumField() {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}
		name, ok := tagParam(sf, tagName)
		if !ok {
			continue
		}
		vals := values[name]
		if len(vals) == 0 {
			continue
		}
		if err := setFieldValue(field, sf.Type, vals); err != nil {
			return fmt.Errorf("%w: %s: %v", bindErr, name, err)
		}
	}
	return nil
}

func tagParam(sf reflect.StructField, tagName string) (string, bool) {
	tag := sf.Tag.Get(tagName)
	if tag == "" || tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	return name, name != ""
}

func setFieldValue(field reflect.Value, t reflect.Type, values []string) error {
	if t.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(t.Elem()))
		}
		return setFieldValue(field.Elem(), t.Elem(), values)
	}

	if t.Kind() == reflect.Slice {
		var all []string
		for _, v := range values {
			all = append(all, strings.Split(v, ",")...)
		}
		slice := reflect.MakeSlice(t, len(all), len(all))
		for i, s := range all {
			if err := setFieldValue(slice.Index(i), t.Elem(), []string{strings.TrimSpace(s)}); err != nil {
				return err
			}
		}
		field.Set(slice)
		return nil
	}

	value := values[0]
	switch t.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", value)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", value)
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q", value)
		}
		field.SetFloat(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool value %q", value)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported type %s", t.Kind())
	}
	return nil
}
