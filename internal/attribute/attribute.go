package attribute

import (
	"fmt"
	"math"
	"strconv"
)

// Type describes the kind of value held by a Value.
type Type int

const (
	// TypeInvalid is the zero value, held by no valid attribute.
	TypeInvalid Type = iota
	TypeBool
	TypeInt64
	TypeFloat64
	TypeString
	TypeStringSlice
)

// String returns the string representation of the type.
func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt64:
		return "int64"
	case TypeFloat64:
		return "float64"
	case TypeString:
		return "string"
	case TypeStringSlice:
		return "[]string"
	default:
		return "invalid"
	}
}

// Value is a typed attribute value. The zero Value is invalid.
type Value struct {
	vtype    Type
	numeric  uint64
	stringly string
	slice    []string
}

// KeyValue is a single attribute: a key paired with a typed value.
type KeyValue struct {
	Key   string
	Value Value
}

// Valid reports whether the attribute has a non-empty key and a typed value.
func (kv KeyValue) Valid() bool {
	return kv.Key != "" && kv.Value.vtype != TypeInvalid
}

// Bool creates a boolean attribute.
func Bool(key string, v bool) KeyValue {
	var n uint64
	if v {
		n = 1
	}
	return KeyValue{Key: key, Value: Value{vtype: TypeBool, numeric: n}}
}

// Int creates an int64 attribute from an int.
func Int(key string, v int) KeyValue {
	return Int64(key, int64(v))
}

// Int64 creates an int64 attribute.
func Int64(key string, v int64) KeyValue {
	return KeyValue{Key: key, Value: Value{vtype: TypeInt64, numeric: uint64(v)}}
}

// Float64 creates a float64 attribute.
func Float64(key string, v float64) KeyValue {
	return KeyValue{Key: key, Value: Value{vtype: TypeFloat64, numeric: math.Float64bits(v)}}
}

// String creates a string attribute.
func String(key, v string) KeyValue {
	return KeyValue{Key: key, Value: Value{vtype: TypeString, stringly: v}}
}

// StringSlice creates a []string attribute. The slice is copied so later
// mutation by the caller does not leak into the attribute.
func StringSlice(key string, v []string) KeyValue {
	cp := make([]string, len(v))
	copy(cp, v)
	return KeyValue{Key: key, Value: Value{vtype: TypeStringSlice, slice: cp}}
}

// Type returns the kind of value held.
func (v Value) Type() Type { return v.vtype }

// AsBool returns the bool value. It is only valid for TypeBool.
func (v Value) AsBool() bool { return v.numeric == 1 }

// AsInt64 returns the int64 value. It is only valid for TypeInt64.
func (v Value) AsInt64() int64 { return int64(v.numeric) }

// AsFloat64 returns the float64 value. It is only valid for TypeFloat64.
func (v Value) AsFloat64() float64 { return math.Float64frombits(v.numeric) }

// AsString returns the string value. It is only valid for TypeString.
func (v Value) AsString() string { return v.stringly }

// AsStringSlice returns a copy of the []string value.
func (v Value) AsStringSlice() []string {
	cp := make([]string, len(v.slice))
	copy(cp, v.slice)
	return cp
}

// AsInterface returns the value as an untyped interface, suitable for
// JSON encoding and log fields.
func (v Value) AsInterface() interface{} {
	switch v.vtype {
	case TypeBool:
		return v.AsBool()
	case TypeInt64:
		return v.AsInt64()
	case TypeFloat64:
		return v.AsFloat64()
	case TypeString:
		return v.stringly
	case TypeStringSlice:
		return v.AsStringSlice()
	default:
		return nil
	}
}

// Emit returns the value rendered as a string.
func (v Value) Emit() string {
	switch v.vtype {
	case TypeBool:
		return strconv.FormatBool(v.AsBool())
	case TypeInt64:
		return strconv.FormatInt(v.AsInt64(), 10)
	case TypeFloat64:
		return strconv.FormatFloat(v.AsFloat64(), 'g', -1, 64)
	case TypeString:
		return v.stringly
	case TypeStringSlice:
		return fmt.Sprint(v.slice)
	default:
		return "<invalid>"
	}
}
