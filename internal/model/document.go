package model

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

// document remembers the JSON object a record was decoded from together
// with the encoding of its typed fields at that moment. Encoding the record
// again writes back the original bytes for everything the console did not
// change, so nested keys and value types it does not model survive a
// round-trip.
type document struct {
	raw     map[string]json.RawMessage
	decoded map[string]json.RawMessage
}

// decodeObject decodes data into v, a pointer to a struct. A field whose
// JSON value has an unexpected shape is left at its zero value instead of
// failing the whole record; numbers and booleans sent for string fields are
// kept as their literal text.
func decodeObject(data []byte, v interface{}) (document, error) {
	var doc document
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc.raw); err != nil {
		return doc, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		decodeFields(doc.raw, reflect.ValueOf(v).Elem())
	}
	snap, err := json.Marshal(v)
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(snap, &doc.decoded); err != nil {
		return doc, err
	}
	return doc, nil
}

func decodeFields(raw map[string]json.RawMessage, rv reflect.Value) {
	rv.Set(reflect.Zero(rv.Type()))
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name := jsonName(sf)
		if name == "" {
			continue
		}
		val, ok := raw[name]
		if !ok {
			continue
		}
		fv := rv.Field(i)
		if err := json.Unmarshal(val, fv.Addr().Interface()); err == nil {
			continue
		}
		fv.Set(reflect.Zero(fv.Type()))
		if fv.Kind() == reflect.String {
			if s, ok := scalarText(val); ok {
				fv.SetString(s)
			}
		}
	}
}

// scalarText returns the literal text of a JSON number or boolean.
func scalarText(val json.RawMessage) (string, bool) {
	val = bytes.TrimSpace(val)
	if len(val) == 0 {
		return "", false
	}
	switch val[0] {
	case 't', 'f':
		return string(val), true
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(val, &n); err != nil {
			return "", false
		}
		return n.String(), true
	}
	return "", false
}

func jsonName(sf reflect.StructField) string {
	if sf.PkgPath != "" {
		return ""
	}
	tag := sf.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.Split(tag, ",")[0]
}

// encode marshals v and overlays the changed fields onto the original
// object. Without an original object it is plain json.Marshal.
func (d document) encode(v interface{}) ([]byte, error) {
	cur, err := json.Marshal(v)
	if err != nil || d.raw == nil {
		return cur, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(cur, &fields); err != nil {
		return nil, err
	}
	return json.Marshal(overlay(d.raw, d.decoded, fields))
}

// overlay applies the difference between prev and cur to orig.
func overlay(orig, prev, cur map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(orig)+len(cur))
	for k, v := range orig {
		out[k] = v
	}
	for _, keys := range []map[string]json.RawMessage{prev, cur} {
		for k := range keys {
			p, hadPrev := prev[k]
			c, hasCur := cur[k]
			switch {
			case hadPrev && hasCur && bytes.Equal(p, c):
			case !hasCur:
				delete(out, k)
			default:
				out[k] = mergeValue(orig[k], p, c)
			}
		}
	}
	return out
}

// mergeValue descends into objects so a change to one nested key keeps the
// siblings the typed model dropped.
func mergeValue(orig, prev, cur json.RawMessage) json.RawMessage {
	var o, p, c map[string]json.RawMessage
	if json.Unmarshal(orig, &o) != nil || json.Unmarshal(prev, &p) != nil || json.Unmarshal(cur, &c) != nil ||
		o == nil || p == nil || c == nil {
		return cur
	}
	merged, err := json.Marshal(overlay(o, p, c))
	if err != nil {
		return cur
	}
	return merged
}

func (d document) field(key string) (json.RawMessage, bool) {
	v, ok := d.raw[key]
	return v, ok
}
