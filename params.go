package mws

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultListMember is the segment placed between a list prefix and the
// 1-based element index when a List does not name its own member label.
const DefaultListMember = "Item"

// ErrDuplicateParam is returned when two leaves flatten to the same key.
var ErrDuplicateParam = errors.New("mws: duplicate parameter key")

// Params is a flat parameter set: dotted key path to wire value.
type Params map[string]string

// Value is a node of a request argument tree. The concrete types are the
// scalars String, Bool, Int, Decimal and Time, and the composites Struct and
// List. A nil Value means the argument is absent and is never encoded.
type Value interface {
	kind() Kind
}

// String is a text scalar, sent unchanged.
type String string

// Bool is sent as "true" or "false".
type Bool bool

// Int is an integer scalar.
type Int int64

// Decimal is an exact decimal scalar such as a currency amount.
type Decimal decimal.Decimal

// Time is a timestamp scalar, sent in ISO-8601 UTC.
type Time time.Time

// Field is one named member of a Struct. The name may itself contain dots.
type Field struct {
	Name  string
	Value Value
}

// Struct is a composite value such as an address. Field order is kept.
type Struct []Field

// List is an ordered sequence. Element i (1-based) is keyed as
// prefix.Member.i.
type List struct {
	Member string
	Items  []Value
}

func (String) kind() Kind  { return KindString }
func (Bool) kind() Kind    { return KindBool }
func (Int) kind() Kind     { return KindInt }
func (Decimal) kind() Kind { return KindDecimal }
func (Time) kind() Kind    { return KindTime }
func (Struct) kind() Kind  { return KindStruct }
func (List) kind() Kind    { return KindList }

// Dec wraps a decimal.Decimal as a Value.
func Dec(d decimal.Decimal) Value { return Decimal(d) }

// At wraps a time.Time as a Value.
func At(t time.Time) Value { return Time(t) }

// Strings builds a List of String values under the given member label.
func Strings(member string, items ...string) List {
	l := List{Member: member, Items: make([]Value, len(items))}
	for i, s := range items {
		l.Items[i] = String(s)
	}
	return l
}

// TypeError reports a value whose shape does not match what was expected.
type TypeError struct {
	Path string
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("mws: expected %s, got %s", e.Want, e.Got)
	}
	return fmt.Sprintf("mws: parameter %s: expected %s, got %s", e.Path, e.Want, e.Got)
}

// TransformString returns the wire form of a scalar. Strings pass through
// unchanged; numbers, decimals, booleans, times and fmt.Stringer values use
// their canonical string form. Any non-scalar yields a *TypeError.
func TransformString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case String:
		return string(t), nil
	case bool:
		return TransformBool(t), nil
	case Bool:
		return TransformBool(bool(t)), nil
	case int:
		return strconv.Itoa(t), nil
	case int8:
		return strconv.FormatInt(int64(t), 10), nil
	case int16:
		return strconv.FormatInt(int64(t), 10), nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case Int:
		return strconv.FormatInt(int64(t), 10), nil
	case uint:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float32:
		return transformFloat(float64(t), 32)
	case float64:
		return transformFloat(t, 64)
	case decimal.Decimal:
		return TransformDecimal(t), nil
	case Decimal:
		return TransformDecimal(decimal.Decimal(t)), nil
	case time.Time:
		return TransformDate(t), nil
	case Time:
		return TransformDate(time.Time(t)), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", &TypeError{Want: "scalar", Got: typeName(v)}
	}
}

func transformFloat(f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", &TypeError{Want: "finite number", Got: strconv.FormatFloat(f, 'g', -1, bits)}
	}
	return strconv.FormatFloat(f, 'f', -1, bits), nil
}

// TransformBool maps b to the lowercase literals the API uses.
func TransformBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// TransformDate formats t as ISO-8601 in UTC. Sub-second precision is kept,
// so parsing the result with time.RFC3339Nano yields the same instant.
func TransformDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// TransformDecimal formats d without exponent or grouping, keeping its scale
// ("10.00" stays "10.00").
func TransformDecimal(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

func encodeScalar(path string, v Value) (string, error) {
	switch t := v.(type) {
	case String:
		return string(t), nil
	case Bool:
		return TransformBool(bool(t)), nil
	case Int:
		return strconv.FormatInt(int64(t), 10), nil
	case Decimal:
		return TransformDecimal(decimal.Decimal(t)), nil
	case Time:
		if time.Time(t).IsZero() {
			return "", &TypeError{Path: path, Want: "timestamp", Got: "zero time"}
		}
		return TransformDate(time.Time(t)), nil
	default:
		return "", &TypeError{Path: path, Want: "scalar", Got: typeName(v)}
	}
}

// Flatten walks v and returns one entry per leaf, keyed by its dotted path
// below prefix.
func Flatten(prefix string, v Value) (Params, error) {
	p := Params{}
	if err := p.Flatten(prefix, v); err != nil {
		return nil, err
	}
	return p, nil
}

// Flatten adds the leaves of v under prefix to p. On error p is left as it
// was.
func (p Params) Flatten(prefix string, v Value) error {
	staged := Params{}
	if err := flatten(staged, p, prefix, v); err != nil {
		return err
	}
	for k, s := range staged {
		p[k] = s
	}
	return nil
}

func flatten(out, existing Params, key string, v Value) error {
	switch t := v.(type) {
	case nil:
		return nil
	case Struct:
		for _, f := range t {
			if f.Name == "" {
				return &TypeError{Path: key, Want: "named field", Got: "empty field name"}
			}
			if err := flatten(out, existing, joinKey(key, f.Name), f.Value); err != nil {
				return err
			}
		}
		return nil
	case List:
		member := t.Member
		if member == "" {
			member = DefaultListMember
		}
		for i, item := range t.Items {
			path := joinKey(key, member, strconv.Itoa(i+1))
			if item == nil {
				return &TypeError{Path: path, Want: "list element", Got: "nil"}
			}
			if err := flatten(out, existing, path, item); err != nil {
				return err
			}
		}
		return nil
	default:
		if key == "" {
			return &TypeError{Want: "parameter key", Got: "empty key for " + typeName(v)}
		}
		s, err := encodeScalar(key, v)
		if err != nil {
			return err
		}
		if _, dup := out[key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateParam, key)
		}
		if _, dup := existing[key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateParam, key)
		}
		out[key] = s
		return nil
	}
}

func joinKey(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ".")
}

// Args holds the top-level arguments of one operation, keyed by parameter
// name. Nil entries are absent.
type Args map[string]Value

// Flatten encodes every argument into a single parameter set. Keys are
// visited in sorted order so errors are deterministic.
func (a Args) Flatten() (Params, error) {
	p := Params{}
	for _, k := range sortedKeys(a) {
		if err := p.Flatten(k, a[k]); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValueOf converts loosely typed input (maps, slices, scalars) into a Value.
// Nil input yields a nil Value. Unsupported types yield a *TypeError naming
// the offending path.
func ValueOf(v any) (Value, error) {
	return valueOf("", v)
}

func valueOf(path string, v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(t), nil
	case int8:
		return Int(t), nil
	case int16:
		return Int(t), nil
	case int32:
		return Int(t), nil
	case int64:
		return Int(t), nil
	case uint:
		return uintValue(path, uint64(t))
	case uint8:
		return Int(t), nil
	case uint16:
		return Int(t), nil
	case uint32:
		return Int(t), nil
	case uint64:
		return uintValue(path, t)
	case float32:
		return floatValue(path, float64(t))
	case float64:
		return floatValue(path, t)
	case decimal.Decimal:
		return Decimal(t), nil
	case time.Time:
		return Time(t), nil
	case *string:
		if t == nil {
			return nil, nil
		}
		return String(*t), nil
	case *bool:
		if t == nil {
			return nil, nil
		}
		return Bool(*t), nil
	case *int:
		if t == nil {
			return nil, nil
		}
		return Int(*t), nil
	case *int64:
		if t == nil {
			return nil, nil
		}
		return Int(*t), nil
	case *decimal.Decimal:
		if t == nil {
			return nil, nil
		}
		return Decimal(*t), nil
	case *time.Time:
		if t == nil {
			return nil, nil
		}
		return Time(*t), nil
	case map[string]any:
		return structOf(path, t)
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, v := range t {
			m[k] = v
		}
		return structOf(path, m)
	case []any:
		l := List{Items: make([]Value, len(t))}
		for i, item := range t {
			iv, err := valueOf(joinKey(path, strconv.Itoa(i+1)), item)
			if err != nil {
				return nil, err
			}
			if iv == nil {
				return nil, &TypeError{Path: joinKey(path, strconv.Itoa(i+1)), Want: "list element", Got: "nil"}
			}
			l.Items[i] = iv
		}
		return l, nil
	case []map[string]any:
		items := make([]any, len(t))
		for i, m := range t {
			items[i] = m
		}
		return valueOf(path, items)
	case []string:
		return Strings("", t...), nil
	default:
		return nil, &TypeError{Path: path, Want: "scalar, map or slice", Got: typeName(v)}
	}
}

// ArgsOf converts a loosely typed argument map into Args. Dotted keys are
// nested the same way at the top level as inside struct values.
func ArgsOf(m map[string]any) (Args, error) {
	v, err := structOf("", m)
	if err != nil {
		return nil, err
	}
	s := v.(Struct)
	args := make(Args, len(s))
	for _, f := range s {
		args[f.Name] = f.Value
	}
	return args, nil
}

// structOf converts a map into a Struct. A dotted key such as
// "DeclaredValue.Amount" is nested under its first segment, so it flattens to
// the same key while still matching a declared struct shape.
func structOf(path string, m map[string]any) (Value, error) {
	nested := map[string]map[string]any{}
	names := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		head, rest, dotted := strings.Cut(k, ".")
		if !dotted || head == "" || rest == "" {
			names = append(names, k)
			continue
		}
		if _, clash := m[head]; clash {
			return nil, &TypeError{Path: joinKey(path, k), Want: "single definition of " + head, Got: "both " + head + " and " + k}
		}
		if nested[head] == nil {
			nested[head] = map[string]any{}
			names = append(names, head)
		}
		nested[head][rest] = m[k]
	}
	sort.Strings(names)

	s := make(Struct, 0, len(names))
	for _, k := range names {
		var (
			fv  Value
			err error
		)
		if sub, ok := nested[k]; ok {
			fv, err = structOf(joinKey(path, k), sub)
		} else {
			fv, err = valueOf(joinKey(path, k), m[k])
		}
		if err != nil {
			return nil, err
		}
		if fv != nil {
			s = append(s, Field{Name: k, Value: fv})
		}
	}
	return s, nil
}

func uintValue(path string, u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return nil, &TypeError{Path: path, Want: "int64 range", Got: strconv.FormatUint(u, 10)}
	}
	return Int(int64(u)), nil
}

func floatValue(path string, f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &TypeError{Path: path, Want: "finite number", Got: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	return Decimal(decimal.NewFromFloat(f)), nil
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

// optString returns nil for the empty string so unset text is omitted.
func optString(s string) Value {
	if s == "" {
		return nil
	}
	return String(s)
}

func optBool(b *bool) Value {
	if b == nil {
		return nil
	}
	return Bool(*b)
}

func optInt(n int) Value {
	if n == 0 {
		return nil
	}
	return Int(n)
}

func optTime(t *time.Time) Value {
	if t == nil {
		return nil
	}
	return Time(*t)
}

func optDecimal(d *decimal.Decimal) Value {
	if d == nil {
		return nil
	}
	return Decimal(*d)
}

func optStrings(member string, items []string) Value {
	if len(items) == 0 {
		return nil
	}
	return Strings(member, items...)
}
