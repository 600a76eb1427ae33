package codec

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	customDecoderType = reflect.TypeFor[msgpack.CustomDecoder]()
	unmarshalerType   = reflect.TypeFor[msgpack.Unmarshaler]()
)

// composite reports whether t can hold values that msgpack decodes without
// going through decodeNumber.
func composite(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		return !decodesItself(t)
	}
	return false
}

func decodesItself(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return t.Implements(customDecoderType) || pt.Implements(customDecoderType) ||
		t.Implements(unmarshalerType) || pt.Implements(unmarshalerType)
}

// checkNested re-reads data as a loose tree and walks it against t. msgpack
// sets nested integers without range checks and turns nil into zero values;
// the walk rejects both with the same rules decodeNumber applies at the top.
func checkNested(data []byte, t reflect.Type) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	dec.SetMapDecoder(func(d *msgpack.Decoder) (any, error) {
		return d.DecodeUntypedMap()
	})
	raw, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return &TypeMismatchError{Type: t, Err: err}
	}
	if err := walk(raw, t, "$"); err != nil {
		return &TypeMismatchError{Type: t, Reason: err.Error()}
	}
	return nil
}

func walk(raw any, t reflect.Type, path string) error {
	if decodesItself(t) {
		return nil
	}
	if raw == nil {
		if Nillable(t) {
			return nil
		}
		return fmt.Errorf("%s: nil value for non-nillable %s", path, t)
	}

	switch t.Kind() {
	case reflect.Pointer:
		return walk(raw, t.Elem(), path)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		if _, err := numberValue(raw, t); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

	case reflect.Slice, reflect.Array:
		items, ok := raw.([]any)
		if !ok {
			// bin and str payloads for []byte
			return nil
		}
		for i, item := range items {
			if err := walk(item, t.Elem(), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}

	case reflect.Map:
		m, ok := raw.(map[any]any)
		if !ok {
			return nil
		}
		for k, v := range m {
			if err := walk(k, t.Key(), fmt.Sprintf("%s{%v}", path, k)); err != nil {
				return err
			}
			if err := walk(v, t.Elem(), fmt.Sprintf("%s[%v]", path, k)); err != nil {
				return err
			}
		}

	case reflect.Struct:
		m, ok := raw.(map[any]any)
		if !ok {
			// ext types such as time.Time
			return nil
		}
		fields := structFields(t)
		for k, v := range m {
			name, _ := k.(string)
			ft, ok := fields[name]
			if !ok {
				continue
			}
			if err := walk(v, ft, path+"."+name); err != nil {
				return err
			}
		}
	}
	return nil
}

// structFields maps msgpack field names to field types, inlining embedded
// structs the way msgpack does. Outer fields win over embedded ones.
func structFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type)
	var embedded []reflect.Type
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, opts, _ := strings.Cut(f.Tag.Get("msgpack"), ",")
		if name == "-" {
			continue
		}
		if f.Anonymous && !strings.Contains(opts, "noinline") {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && ft != t {
				embedded = append(embedded, ft)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[name] = f.Type
	}
	for _, et := range embedded {
		for name, ft := range structFields(et) {
			if _, ok := fields[name]; !ok {
				fields[name] = ft
			}
		}
	}
	return fields
}
