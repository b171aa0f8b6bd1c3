package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the type tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is one cell. The zero Value is the absence marker (Null).
type Value struct {
	kind Kind
	num  float64
	text string
	b    bool
}

// Null returns the absence marker.
func Null() Value { return Value{} }

// Num wraps a float64.
func Num(f float64) Value { return Value{kind: KindNumber, num: f} }

// Str wraps a string.
func Str(s string) Value { return Value{kind: KindText, text: s} }

// Bool wraps a bool.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric payload and whether v is a Number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text returns the string payload and whether v is Text.
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// Truth returns the bool payload and whether v is a Bool.
func (v Value) Truth() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// String is the canonical text form used in CSV output and row keys.
// Null renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.text
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

// Equal reports whether two values carry the same kind and payload.
// NaN equals NaN so that rows read back from disk deduplicate.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) && math.IsNaN(o.num) {
			return true
		}
		return v.num == o.num
	case KindText:
		return v.text == o.text
	case KindBool:
		return v.b == o.b
	default:
		return true
	}
}

// Parse infers a Value from its text form: empty is Null, True/False is
// Bool, anything strconv.ParseFloat accepts is Number, the rest is Text.
func Parse(s string) Value {
	if s == "" {
		return Null()
	}
	switch s {
	case "True", "true":
		return Bool(true)
	case "False", "false":
		return Bool(false)
	}
	if looksNumeric(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Num(f)
		}
	}
	return Str(s)
}

// looksNumeric rejects strings that ParseFloat would accept but that are
// identifiers in practice, such as "Infinity" spelled as a word or hex
// literals.
func looksNumeric(s string) bool {
	t := strings.TrimLeft(s, "+-")
	if t == "" {
		return false
	}
	switch strings.ToLower(t) {
	case "inf", "nan":
		return true
	}
	c := t[0]
	if (c < '0' || c > '9') && c != '.' {
		return false
	}
	return !strings.ContainsAny(t, "xXpP_")
}
