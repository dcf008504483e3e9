// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledgerjson

import (
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/mintastic/mintsdk/addrmap"
)

// fix64Pattern matches the decimal strings accepted for fixed point values.
var fix64Pattern = regexp.MustCompile(`^-?\d+(\.\d+)$`)

// ValidateFix64 returns an error unless s is a decimal string with a
// fractional part, such as 1.0 or 25.50.
func ValidateFix64(s string) error {
	if !fix64Pattern.MatchString(s) {
		str := fmt.Sprintf("%q is not a fixed point decimal", s)
		return makeError(ErrInvalidFix64, str)
	}
	return nil
}

// Value is a JSON-Cadence encoded value: a type tag and the type specific
// encoding of the value.  Every transaction and script argument is a Value.
type Value struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// KeyValue is one entry of a Dictionary value.
type KeyValue struct {
	Key   Value `json:"key"`
	Value Value `json:"value"`
}

// compositeField is one field of a struct, resource or event value.
type compositeField struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// composite is the encoding of struct, resource and event values.
type composite struct {
	ID     string           `json:"id"`
	Fields []compositeField `json:"fields"`
}

// newValue marshals v as the value of a typ tagged Value.  Every caller
// passes plain strings, bools or slices of Values, which always marshal.
func newValue(typ string, v interface{}) Value {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("ledgerjson: unable to encode %s: %v", typ, err))
	}
	return Value{Type: typ, Value: raw}
}

// Address returns an Address value.  The address is normalized when it is
// well formed and passed through with a 0x prefix otherwise.
func Address(addr string) Value {
	if normalized, err := addrmap.Normalize(addr); err == nil {
		addr = normalized
	} else {
		addr = addrmap.WithPrefix(strings.ToLower(addr))
	}
	return newValue("Address", addr)
}

// String returns a String value.
func String(s string) Value {
	return newValue("String", s)
}

// UFix64 returns a UFix64 value.  Use ValidateFix64 to check s first.
func UFix64(s string) Value {
	return newValue("UFix64", s)
}

// Fix64 returns a Fix64 value.  Use ValidateFix64 to check s first.
func Fix64(s string) Value {
	return newValue("Fix64", s)
}

// UInt16 returns a UInt16 value.
func UInt16(v uint16) Value {
	return newValue("UInt16", strconv.FormatUint(uint64(v), 10))
}

// UInt32 returns a UInt32 value.
func UInt32(v uint32) Value {
	return newValue("UInt32", strconv.FormatUint(uint64(v), 10))
}

// UInt64 returns a UInt64 value.
func UInt64(v uint64) Value {
	return newValue("UInt64", strconv.FormatUint(v, 10))
}

// Bool returns a Bool value.
func Bool(b bool) Value {
	return newValue("Bool", b)
}

// Array returns an Array value of vs.
func Array(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return newValue("Array", vs)
}

// Dictionary returns a Dictionary value.  Entries keep the passed order.
func Dictionary(entries ...KeyValue) Value {
	if entries == nil {
		entries = []KeyValue{}
	}
	return newValue("Dictionary", entries)
}

// Optional returns an Optional value wrapping v, or nil when v is nil.
func Optional(v *Value) Value {
	if v == nil {
		return Value{Type: "Optional", Value: json.RawMessage("null")}
	}
	return newValue("Optional", v)
}

// ParseValue decodes a JSON-Cadence value from raw.
func ParseValue(raw []byte) (Value, error) {
	var v Value
	if err := json.Unmarshal(raw, &v); err != nil {
		str := fmt.Sprintf("malformed value: %v", err)
		return v, makeError(ErrInvalidValue, str)
	}
	return v, nil
}

// Encode returns the JSON encoding of the value.  It is the byte form used
// for transaction arguments.
func (v Value) Encode() ([]byte, error) {
	return json.Marshal(v)
}

// Decode converts the value into plain Go values:
//
//	Address, String, Character, Path, UFix64, Fix64  string
//	UInt8..UInt64, Word8..Word64                     uint64
//	Int8..Int64                                      int64
//	Int, UInt, Int128..UInt256                       *big.Int
//	Bool                                             bool
//	Optional, Void                                   the inner value or nil
//	Array                                            []interface{}
//	Dictionary                                       map[string]interface{}
//	Struct, Resource, Event, Contract, Enum          map[string]interface{}
//
// Dictionary keys are formatted with fmt.Sprint.
func (v Value) Decode() (interface{}, error) {
	switch v.Type {
	case "Void":
		return nil, nil

	case "Optional":
		if len(v.Value) == 0 || string(v.Value) == "null" {
			return nil, nil
		}
		inner, err := ParseValue(v.Value)
		if err != nil {
			return nil, err
		}
		return inner.Decode()

	case "Bool":
		var b bool
		return b, v.unmarshal(&b)

	case "Address", "String", "Character", "UFix64", "Fix64":
		var s string
		return s, v.unmarshal(&s)

	case "UInt8", "UInt16", "UInt32", "UInt64",
		"Word8", "Word16", "Word32", "Word64":
		s, err := v.numeric()
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, v.invalid(err)
		}
		return n, nil

	case "Int8", "Int16", "Int32", "Int64":
		s, err := v.numeric()
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, v.invalid(err)
		}
		return n, nil

	case "Int", "UInt", "Int128", "UInt128", "Int256", "UInt256":
		s, err := v.numeric()
		if err != nil {
			return nil, err
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, v.invalid(fmt.Errorf("%q is not an integer", s))
		}
		return n, nil

	case "Array":
		var elems []Value
		if err := v.unmarshal(&elems); err != nil {
			return nil, err
		}
		out := make([]interface{}, 0, len(elems))
		for _, elem := range elems {
			d, err := elem.Decode()
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil

	case "Dictionary":
		var entries []KeyValue
		if err := v.unmarshal(&entries); err != nil {
			return nil, err
		}
		out := make(map[string]interface{}, len(entries))
		for _, entry := range entries {
			key, err := entry.Key.Decode()
			if err != nil {
				return nil, err
			}
			val, err := entry.Value.Decode()
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(key)] = val
		}
		return out, nil

	case "Struct", "Resource", "Event", "Contract", "Enum":
		_, fields, err := v.DecodeComposite()
		return fields, err

	case "Path":
		var p struct {
			Domain     string `json:"domain"`
			Identifier string `json:"identifier"`
		}
		if err := v.unmarshal(&p); err != nil {
			return nil, err
		}
		return "/" + p.Domain + "/" + p.Identifier, nil
	}

	str := fmt.Sprintf("unsupported value type %q", v.Type)
	return nil, makeError(ErrInvalidValue, str)
}

// DecodeComposite decodes a struct, resource or event value and returns its
// qualified type id and decoded fields.
func (v Value) DecodeComposite() (string, map[string]interface{}, error) {
	var c composite
	if err := v.unmarshal(&c); err != nil {
		return "", nil, err
	}
	fields := make(map[string]interface{}, len(c.Fields))
	for _, field := range c.Fields {
		d, err := field.Value.Decode()
		if err != nil {
			return "", nil, err
		}
		fields[field.Name] = d
	}
	return c.ID, fields, nil
}

// NewComposite returns a composite value of kind (Struct, Resource, Event)
// with the passed type id and ordered fields.
func NewComposite(kind, id string, names []string, values []Value) Value {
	c := composite{ID: id, Fields: make([]compositeField, len(names))}
	for i, name := range names {
		c.Fields[i] = compositeField{Name: name, Value: values[i]}
	}
	return newValue(kind, c)
}

func (v Value) unmarshal(dst interface{}) error {
	if err := json.Unmarshal(v.Value, dst); err != nil {
		return v.invalid(err)
	}
	return nil
}

// numeric returns the decimal string of an integer value.
func (v Value) numeric() (string, error) {
	var s string
	if err := v.unmarshal(&s); err != nil {
		return "", err
	}
	return s, nil
}

func (v Value) invalid(err error) error {
	str := fmt.Sprintf("malformed %s value: %v", v.Type, err)
	return makeError(ErrInvalidValue, str)
}
