package dispatch

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/afc-network/afcctl/pkg/util"
)

// FieldType is the declared type of a payload field.
type FieldType string

const (
	TypeStr  FieldType = "str"
	TypeInt  FieldType = "int"
	TypeBool FieldType = "bool"
	TypeList FieldType = "list"
	TypeDict FieldType = "dict"
	TypeRaw  FieldType = "raw"
)

// Field declares one payload key.
type Field struct {
	Name         string      `json:"name"`
	Type         FieldType   `json:"type"`
	Elem         FieldType   `json:"elements,omitempty"`
	Mandatory    bool        `json:"required,omitempty"`
	RequiredVerb []string    `json:"required_for,omitempty"`
	Choices      []string    `json:"choices,omitempty"`
	DefaultValue interface{} `json:"default,omitempty"`
	Fields       []Field     `json:"suboptions,omitempty"`

	Check func(value interface{}) error `json:"-"`
}

// Str declares a string field.
func Str(name string) Field { return Field{Name: name, Type: TypeStr} }

// Int declares an integer field.
func Int(name string) Field { return Field{Name: name, Type: TypeInt} }

// Bool declares a boolean field.
func Bool(name string) Field { return Field{Name: name, Type: TypeBool} }

// Raw declares a field accepted without inspection.
func Raw(name string) Field { return Field{Name: name, Type: TypeRaw} }

// List declares a list of scalars.
func List(name string, elem FieldType) Field {
	return Field{Name: name, Type: TypeList, Elem: elem}
}

// Dict declares a nested object. With no sub-fields the object is free-form.
func Dict(name string, fields ...Field) Field {
	return Field{Name: name, Type: TypeDict, Fields: fields}
}

// ListOf declares a list of nested objects.
func ListOf(name string, fields ...Field) Field {
	return Field{Name: name, Type: TypeList, Elem: TypeDict, Fields: fields}
}

// Required marks the field mandatory.
func (f Field) Required() Field {
	f.Mandatory = true
	return f
}

// RequiredFor marks the field mandatory only for the listed verbs. Other
// verbs accept the payload without it.
func (f Field) RequiredFor(verbs ...string) Field {
	f.Mandatory = true
	f.RequiredVerb = verbs
	return f
}

// MandatoryFor reports whether the field must be present for verb.
func (f Field) MandatoryFor(verb string) bool {
	if !f.Mandatory {
		return false
	}
	if len(f.RequiredVerb) == 0 {
		return true
	}
	for _, vb := range f.RequiredVerb {
		if vb == verb {
			return true
		}
	}
	return false
}

// OneOf restricts a string field, or the elements of a string list.
func (f Field) OneOf(choices ...string) Field {
	f.Choices = choices
	return f
}

// Default sets the value filled in when the key is absent.
func (f Field) Default(v interface{}) Field {
	f.DefaultValue = v
	return f
}

// Checked attaches a semantic check run after type coercion.
func (f Field) Checked(fn func(value interface{}) error) Field {
	f.Check = fn
	return f
}

// Variant is one value of a discriminator key together with the fields it
// adds and the verbs that accept it.
type Variant struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Verbs   []string `json:"verbs"`
	Fields  []Field  `json:"fields,omitempty"`
}

// AcceptsVerb reports whether verb may be used with this variant.
func (v Variant) AcceptsVerb(verb string) bool {
	for _, vb := range v.Verbs {
		if vb == verb {
			return true
		}
	}
	return false
}

// Schema declares the payload accepted by a command. When Discriminator is
// set, the value of that key selects a Variant whose fields are added to
// the common Fields. A List schema accepts a non-empty list of objects,
// each validated against Fields.
type Schema struct {
	Fields        []Field   `json:"fields,omitempty"`
	Discriminator string    `json:"discriminator,omitempty"`
	Variants      []Variant `json:"variants,omitempty"`
	List          bool      `json:"list,omitempty"`

	// Check runs on the normalized payload once every field is valid, for
	// rules that span fields. CheckOn limits it to the listed verbs.
	Check   func(data interface{}) error `json:"-"`
	CheckOn []string                     `json:"-"`
}

// Variant returns the variant named name or carrying it as an alias.
func (s *Schema) Variant(name string) (Variant, bool) {
	for _, v := range s.Variants {
		if v.Name == name {
			return v, true
		}
		for _, a := range v.Aliases {
			if a == name {
				return v, true
			}
		}
	}
	return Variant{}, false
}

// Validate checks data against the schema for the given verb and variant,
// and returns a normalized copy with defaults filled and scalars coerced.
// All problems are reported together in one *util.ValidationError.
func (s *Schema) Validate(verb, variant string, data interface{}) (interface{}, error) {
	v := &validator{verb: verb, errs: &util.ValidationBuilder{}}

	if s.List {
		items, ok := asList(data)
		if !ok || len(items) == 0 {
			return nil, util.NewValidationError("payload must be a non-empty list")
		}
		out := make([]interface{}, len(items))
		for i, item := range items {
			out[i] = v.object(fmt.Sprintf("[%d]", i), s.Fields, item)
		}
		return s.finish(verb, out, v.errs)
	}

	fields := s.Fields
	if s.Discriminator != "" {
		vr, ok := s.Variant(variant)
		if !ok {
			return nil, util.NewValidationError(fmt.Sprintf("'%s' must be one of %s", s.Discriminator, strings.Join(s.variantNames(), ", ")))
		}
		fields = append(append([]Field{Str(s.Discriminator).Required()}, s.Fields...), vr.Fields...)
		if m, ok := data.(map[string]interface{}); ok {
			data = withKey(m, s.Discriminator, vr.Name)
		}
	}

	out := v.object("", fields, data)
	return s.finish(verb, out, v.errs)
}

func (s *Schema) finish(verb string, out interface{}, v *util.ValidationBuilder) (interface{}, error) {
	if !v.HasErrors() && s.Check != nil && s.checksVerb(verb) {
		if err := s.Check(out); err != nil {
			v.AddError(err.Error())
		}
	}
	if err := v.Build(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Schema) checksVerb(verb string) bool {
	if len(s.CheckOn) == 0 {
		return true
	}
	for _, vb := range s.CheckOn {
		if vb == verb {
			return true
		}
	}
	return false
}

func (s *Schema) variantNames() []string {
	names := make([]string, 0, len(s.Variants))
	for _, v := range s.Variants {
		names = append(names, v.Name)
	}
	return names
}

func withKey(m map[string]interface{}, key string, value interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	out[key] = value
	return out
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	if strings.HasPrefix(name, "[") {
		return prefix + name
	}
	return prefix + "." + name
}

// validator carries the verb being validated and the collected errors.
type validator struct {
	verb string
	errs *util.ValidationBuilder
}

func (vd *validator) object(path string, fields []Field, data interface{}) map[string]interface{} {
	v := vd.errs
	if data == nil {
		data = map[string]interface{}{}
	}
	m, ok := data.(map[string]interface{})
	if !ok {
		where := path
		if where == "" {
			where = "payload"
		}
		v.AddErrorf("%s must be an object, got %T", where, data)
		return nil
	}

	declared := make(map[string]bool, len(fields))
	for _, f := range fields {
		declared[f.Name] = true
	}
	var unknown []string
	for k := range m {
		if !declared[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		v.AddErrorf("unsupported parameter '%s'", joinPath(path, k))
	}

	out := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		p := joinPath(path, f.Name)
		raw, present := m[f.Name]
		if !present || raw == nil {
			if f.MandatoryFor(vd.verb) && f.DefaultValue == nil {
				v.AddErrorf("missing required parameter '%s'", p)
			} else if f.DefaultValue != nil {
				out[f.Name] = f.DefaultValue
			}
			continue
		}
		if val, ok := vd.value(p, f, raw); ok {
			out[f.Name] = val
		}
	}
	return out
}

func (vd *validator) value(path string, f Field, raw interface{}) (interface{}, bool) {
	v := vd.errs
	var val interface{}
	switch f.Type {
	case TypeStr:
		s, ok := coerceStr(raw)
		if !ok {
			v.AddErrorf("'%s' must be a string, got %T", path, raw)
			return nil, false
		}
		if !checkChoice(path, s, f.Choices, v) {
			return nil, false
		}
		val = s
	case TypeInt:
		n, ok := coerceInt(raw)
		if !ok {
			v.AddErrorf("'%s' must be an integer, got %v", path, raw)
			return nil, false
		}
		val = n
	case TypeBool:
		b, ok := coerceBool(raw)
		if !ok {
			v.AddErrorf("'%s' must be a boolean, got %v", path, raw)
			return nil, false
		}
		val = b
	case TypeList:
		items, ok := asList(raw)
		if !ok {
			if s, isStr := raw.(string); isStr && f.Elem != TypeDict {
				items = toInterfaces(util.SplitCommaSeparated(s))
			} else if m, isObj := raw.(map[string]interface{}); isObj && f.Elem == TypeDict {
				// A single object stands for a one-element list.
				items = []interface{}{m}
			} else if isScalar(raw) && f.Elem != TypeDict {
				items = []interface{}{raw}
			} else {
				v.AddErrorf("'%s' must be a list, got %T", path, raw)
				return nil, false
			}
		}
		list := make([]interface{}, 0, len(items))
		for i, item := range items {
			ep := fmt.Sprintf("%s[%d]", path, i)
			elem := Field{Name: f.Name, Type: f.Elem, Choices: f.Choices, Fields: f.Fields}
			if elem.Type == "" {
				elem.Type = TypeRaw
			}
			if ev, ok := vd.value(ep, elem, item); ok {
				list = append(list, ev)
			}
		}
		val = list
	case TypeDict:
		if len(f.Fields) == 0 {
			m, ok := raw.(map[string]interface{})
			if !ok {
				v.AddErrorf("'%s' must be an object, got %T", path, raw)
				return nil, false
			}
			val = m
		} else {
			m := vd.object(path, f.Fields, raw)
			if m == nil {
				return nil, false
			}
			val = m
		}
	default:
		val = raw
	}

	if f.Check != nil {
		if err := f.Check(val); err != nil {
			v.AddErrorf("'%s': %v", path, err)
			return nil, false
		}
	}
	return val, true
}

func checkChoice(path, s string, choices []string, v *util.ValidationBuilder) bool {
	if len(choices) == 0 {
		return true
	}
	for _, c := range choices {
		if c == s {
			return true
		}
	}
	v.AddErrorf("'%s' must be one of %s, got '%s'", path, strings.Join(choices, ", "), s)
	return false
}

func asList(raw interface{}) ([]interface{}, bool) {
	switch l := raw.(type) {
	case []interface{}:
		return l, true
	case []string:
		return toInterfaces(l), true
	case []map[string]interface{}:
		out := make([]interface{}, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

func isScalar(raw interface{}) bool {
	switch raw.(type) {
	case int, int64, uint64, float64, bool:
		return true
	}
	return false
}

func toInterfaces(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func coerceStr(raw interface{}) (string, bool) {
	switch x := raw.(type) {
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		if x == math.Trunc(x) {
			return strconv.FormatInt(int64(x), 10), true
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	return "", false
}

func coerceInt(raw interface{}) (int, bool) {
	switch x := raw.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		if x > math.MaxInt {
			return 0, false
		}
		return int(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
			return 0, false
		}
		// float64(math.MaxInt) rounds up to 2^63, which is already out of range.
		if x < math.MinInt || x >= math.MaxInt {
			return 0, false
		}
		return int(x), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	}
	return 0, false
}

func coerceBool(raw interface{}) (bool, bool) {
	switch x := raw.(type) {
	case bool:
		return x, true
	case int:
		if x == 0 || x == 1 {
			return x == 1, true
		}
	case float64:
		if x == 0 || x == 1 {
			return x == 1, true
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "on", "1", "y":
			return true, true
		case "false", "no", "off", "0", "n":
			return false, true
		}
	}
	return false, false
}
