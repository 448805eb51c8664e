// Package jsonvalue converts between this module's value.Value tree and
// JSON text, for the embedding API's debug surface: `es3 run --json-result`
// prints a script's completion value as JSON, and `--error-format json`
// reports a thrown value the same way. The value package draws a hard
// line between Value (storable in a property slot) and the
// Reference/Completion pair that never escape evaluation — Encode
// enforces that line at the host boundary too, rejecting anything that
// cannot round-trip.
package jsonvalue

import (
	"sort"
	"strconv"
	"strings"

	"github.com/es3lang/es3/internal/object"
	"github.com/es3lang/es3/internal/value"
	"github.com/maruel/natural"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// UnsupportedValueError reports a Value that has no JSON representation:
// a bare Reference (never valid outside evaluation), or a callable object,
// whose captured scope chain cannot be serialized.
type UnsupportedValueError struct {
	Kind  string
	Class string
}

func (e *UnsupportedValueError) Error() string {
	if e.Class != "" {
		return "jsonvalue: cannot encode a " + e.Class + " value (captured scope is not serializable)"
	}
	return "jsonvalue: cannot encode a " + e.Kind + " value"
}

// KeyOrder reorders an object's own property names in place before Encode
// walks them. The zero value (nil) keeps each object's own insertion
// order.
type KeyOrder func(names []string)

// NaturalKeyOrder sorts an object's keys the way a person would read
// them — embedded digit runs compare by numeric value, so "item2" sorts
// before "item10" — via the github.com/maruel/natural comparator. This
// is purely a display-order knob for `es3 run --enum-order=natural`; it
// never touches the insertion order for...in actually walks.
func NaturalKeyOrder(names []string) {
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
}

// Encode renders v as a JSON document in v's own object-key insertion
// order. Undefined encodes as JSON null (ECMAScript's own
// JSON.stringify does the same inside arrays and object values; this
// API has no "omit the key" notion to fall back to for a bare top-level
// undefined, so null is used uniformly instead).
func Encode(v value.Value) (string, error) {
	return EncodeOrdered(v, nil)
}

// EncodeOrdered is Encode with an explicit key order applied to every
// object encountered in v's tree (nil behaves exactly like Encode).
func EncodeOrdered(v value.Value, order KeyOrder) (string, error) {
	switch v.Kind() {
	case value.KindUndefined, value.KindNull:
		return "null", nil
	case value.KindBoolean:
		if bool(v.(value.Boolean)) {
			return "true", nil
		}
		return "false", nil
	case value.KindNumber:
		return encodeNumber(float64(v.(value.Number))), nil
	case value.KindString:
		return strconv.Quote(v.(value.String).String()), nil
	case value.KindObject:
		return encodeObject(v.(value.Object), order)
	case value.KindReference:
		return "", &UnsupportedValueError{Kind: "reference"}
	default:
		return "", &UnsupportedValueError{Kind: v.Kind().String()}
	}
}

func encodeNumber(n float64) string {
	switch {
	case n != n: // NaN has no JSON representation; ECMAScript's own
		// JSON.stringify(NaN) produces the literal "null" too.
		return "null"
	case n > 1.7976931348623157e+308 || n < -1.7976931348623157e+308:
		return "null"
	default:
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
}

func encodeObject(o value.Object, order KeyOrder) (string, error) {
	if o.IsCallable() {
		return "", &UnsupportedValueError{Class: o.Class()}
	}
	if o.Class() == "Array" {
		return encodeArray(o, order)
	}

	doc := "{}"
	names, dontEnum := o.OwnPropertyNames()
	live := make([]string, 0, len(names))
	for i, name := range names {
		if !dontEnum[i] {
			live = append(live, name)
		}
	}
	if order != nil {
		order(live)
	}
	for _, name := range live {
		prop, err := o.Get(name)
		if err != nil {
			return "", err
		}
		raw, err := EncodeOrdered(prop, order)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, sjsonKey(name), raw)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

func encodeArray(o value.Object, order KeyOrder) (string, error) {
	lengthVal, err := o.Get("length")
	if err != nil {
		return "", err
	}
	length, err := value.ToNumber(lengthVal)
	if err != nil {
		return "", err
	}

	doc := "[]"
	for i := 0; i < int(length); i++ {
		elem, err := o.Get(strconv.Itoa(i))
		if err != nil {
			return "", err
		}
		raw, err := EncodeOrdered(elem, order)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, strconv.Itoa(i), raw)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

// sjsonKey escapes a property name for use as a single sjson path segment:
// backslash, dot, asterisk and question mark are path metacharacters in
// sjson's (and gjson's) path syntax and must be backslash-escaped within a
// key, per both libraries' documented path grammar.
func sjsonKey(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '\\', '.', '*', '?':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Decode parses JSON text into a value.Value tree, allocating objects and
// arrays against realm so the result shares the running interpreter's
// Object.prototype/Array.prototype rather than standing apart from it.
func Decode(realm *object.Realm, data string) (value.Value, error) {
	if !gjson.Valid(data) {
		return nil, &DecodeError{Message: "invalid JSON"}
	}
	return decodeResult(realm, gjson.Parse(data)), nil
}

// DecodeError reports malformed JSON input to Decode.
type DecodeError struct{ Message string }

func (e *DecodeError) Error() string { return "jsonvalue: " + e.Message }

func decodeResult(realm *object.Realm, r gjson.Result) value.Value {
	switch r.Type {
	case gjson.Null:
		return value.Null
	case gjson.False:
		return value.Boolean(false)
	case gjson.True:
		return value.Boolean(true)
	case gjson.Number:
		return value.Number(r.Num)
	case gjson.String:
		return value.NewString(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			return decodeArray(realm, r)
		}
		return decodeObject(realm, r)
	default:
		return value.Undefined
	}
}

func decodeArray(realm *object.Realm, r gjson.Result) value.Value {
	var elems []value.Value
	r.ForEach(func(_, v gjson.Result) bool {
		elems = append(elems, decodeResult(realm, v))
		return true
	})
	return realm.NewArray(elems)
}

func decodeObject(realm *object.Realm, r gjson.Result) value.Value {
	obj := object.New("Object", realm.ObjectProto)
	r.ForEach(func(k, v gjson.Result) bool {
		obj.DefineOwn(k.String(), decodeResult(realm, v), value.AttrNone)
		return true
	})
	return obj
}
