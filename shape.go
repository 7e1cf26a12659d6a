package mws

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// ErrUnknownOperation is returned when an action has no catalog entry.
var ErrUnknownOperation = errors.New("mws: unknown operation")

// Kind is the declared shape of a parameter.
type Kind int

const (
	// KindScalar accepts String, Int or Decimal.
	KindScalar Kind = iota
	KindString
	KindBool
	KindInt
	// KindDecimal accepts Decimal or Int. KindInt and KindDecimal also take
	// a String holding a well-formed number.
	KindDecimal
	KindTime
	KindStruct
	KindList
)

var kindNames = [...]string{
	KindScalar:  "scalar",
	KindString:  "string",
	KindBool:    "bool",
	KindInt:     "int",
	KindDecimal: "decimal",
	KindTime:    "timestamp",
	KindStruct:  "struct",
	KindList:    "list",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) accepts(got Kind) bool {
	switch k {
	case KindScalar:
		return got == KindString || got == KindInt || got == KindDecimal
	case KindDecimal:
		return got == KindDecimal || got == KindInt
	default:
		return k == got
	}
}

// Param declares one parameter of an operation.
type Param struct {
	Key      string
	Kind     Kind
	Required bool

	// Fields lists the members of a KindStruct parameter. When non-empty,
	// members not listed here are rejected.
	Fields []Param

	// Member is the list label placed before each index ("Item", "Id",
	// "member"). Elem describes every element of a KindList parameter.
	Member string
	Elem   *Param

	// Max caps the number of list elements when positive.
	Max int
}

// Operation declares one API action: which section serves it and which
// parameters it takes.
type Operation struct {
	Action  string
	Section string
	Params  []Param
}

// MissingParamError reports a required parameter that was not supplied.
type MissingParamError struct {
	Action string
	Key    string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("mws: %s: missing required parameter %s", e.Action, e.Key)
}

// UnknownParamError reports a parameter the operation does not declare.
type UnknownParamError struct {
	Action string
	Key    string
}

func (e *UnknownParamError) Error() string {
	return fmt.Sprintf("mws: %s: unknown parameter %s", e.Action, e.Key)
}

// Normalize checks args against the declared parameters and returns a copy
// in which every list carries its declared member label. The input is never
// modified.
func (op Operation) Normalize(args Args) (Args, error) {
	declared := make(map[string]bool, len(op.Params))
	for _, p := range op.Params {
		declared[p.Key] = true
	}
	for _, k := range sortedKeys(args) {
		if !declared[k] && args[k] != nil {
			return nil, &UnknownParamError{Action: op.Action, Key: k}
		}
	}

	out := make(Args, len(args))
	for _, p := range op.Params {
		v, err := op.conform(p, p.Key, args[p.Key])
		if err != nil {
			return nil, err
		}
		if v != nil {
			out[p.Key] = v
		}
	}
	return out, nil
}

// Validate reports the first shape violation in args, if any.
func (op Operation) Validate(args Args) error {
	_, err := op.Normalize(args)
	return err
}

func (op Operation) conform(p Param, path string, v Value) (Value, error) {
	if v == nil {
		if p.Required {
			return nil, &MissingParamError{Action: op.Action, Key: path}
		}
		return nil, nil
	}
	v, err := parseNumeric(p.Kind, path, v)
	if err != nil {
		return nil, err
	}
	if !p.Kind.accepts(v.kind()) {
		return nil, &TypeError{Path: path, Want: p.Kind.String(), Got: v.kind().String()}
	}

	switch t := v.(type) {
	case Struct:
		return op.conformStruct(p, path, t)
	case List:
		return op.conformList(p, path, t)
	default:
		return v, nil
	}
}

// parseNumeric turns a String into the Int or Decimal its parameter
// declares. Strings that are not plain numbers are a *TypeError.
func parseNumeric(k Kind, path string, v Value) (Value, error) {
	s, ok := v.(String)
	if !ok {
		return v, nil
	}
	switch k {
	case KindInt:
		n, err := strconv.ParseInt(string(s), 10, 64)
		if err != nil {
			return nil, &TypeError{Path: path, Want: k.String(), Got: strconv.Quote(string(s))}
		}
		return Int(n), nil
	case KindDecimal:
		d, err := decimal.NewFromString(string(s))
		if err != nil {
			return nil, &TypeError{Path: path, Want: k.String(), Got: strconv.Quote(string(s))}
		}
		return Decimal(d), nil
	}
	return v, nil
}

func (op Operation) conformStruct(p Param, path string, s Struct) (Value, error) {
	if len(p.Fields) == 0 {
		return s, nil
	}
	byName := make(map[string]Param, len(p.Fields))
	for _, f := range p.Fields {
		byName[f.Key] = f
	}
	present := make(map[string]bool, len(s))
	out := make(Struct, 0, len(s))
	for _, f := range s {
		fp, ok := byName[f.Name]
		if !ok {
			if f.Value == nil {
				continue
			}
			return nil, &UnknownParamError{Action: op.Action, Key: joinKey(path, f.Name)}
		}
		fv, err := op.conform(fp, joinKey(path, f.Name), f.Value)
		if err != nil {
			return nil, err
		}
		if fv != nil {
			present[f.Name] = true
			out = append(out, Field{Name: f.Name, Value: fv})
		}
	}
	for _, fp := range p.Fields {
		if fp.Required && !present[fp.Key] {
			return nil, &MissingParamError{Action: op.Action, Key: joinKey(path, fp.Key)}
		}
	}
	return out, nil
}

func (op Operation) conformList(p Param, path string, l List) (Value, error) {
	member := l.Member
	switch {
	case member == "":
		member = p.Member
	case p.Member != "" && member != p.Member:
		return nil, &TypeError{Path: path, Want: "list member " + p.Member, Got: "list member " + member}
	}
	if p.Required && len(l.Items) == 0 {
		return nil, &MissingParamError{Action: op.Action, Key: path}
	}
	if p.Max > 0 && len(l.Items) > p.Max {
		return nil, &TypeError{Path: path, Want: fmt.Sprintf("at most %d elements", p.Max), Got: strconv.Itoa(len(l.Items))}
	}

	out := List{Member: member, Items: make([]Value, len(l.Items))}
	for i, item := range l.Items {
		itemPath := joinKey(path, member, strconv.Itoa(i+1))
		if item == nil {
			return nil, &TypeError{Path: itemPath, Want: "list element", Got: "nil"}
		}
		if p.Elem == nil {
			out.Items[i] = item
			continue
		}
		elem := *p.Elem
		elem.Required = true
		iv, err := op.conform(elem, itemPath, item)
		if err != nil {
			return nil, err
		}
		out.Items[i] = iv
	}
	return out, nil
}

// Operations is a catalog of operations keyed by action name.
type Operations map[string]Operation

// Lookup returns the operation for action.
func (o Operations) Lookup(action string) (Operation, error) {
	op, ok := o[action]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %s", ErrUnknownOperation, action)
	}
	return op, nil
}

// Clone returns a shallow copy that can be extended without touching o.
func (o Operations) Clone() Operations {
	out := make(Operations, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}
