package internal

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/BishopFox/cloudcensus/globals"
	"github.com/goccy/go-json"
)

const NotApplicable = globals.NOT_APPLICABLE

type field struct {
	name  string
	value interface{}
}

// Record is one normalized resource. Fields keep the order in which they
// were first set; JSON output follows that order.
type Record struct {
	Key    Key
	fields []field
	index  map[string]int
}

func NewRecord(key Key) *Record {
	return &Record{
		Key:   key,
		index: make(map[string]int),
	}
}

// Set adds a field, or replaces its value in place if it already exists.
func (r *Record) Set(name string, value interface{}) *Record {
	if i, ok := r.index[name]; ok {
		r.fields[i].value = value
		return r
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, field{name: name, value: value})
	return r
}

// SetOptional stores value, or the N/A placeholder when value is empty.
func (r *Record) SetOptional(name string, value string) *Record {
	if value == "" {
		return r.Set(name, NotApplicable)
	}
	return r.Set(name, value)
}

func (r *Record) Get(name string) (interface{}, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.fields[i].value, true
}

// String renders a field for a CSV or table cell. Nested values become
// compact JSON; absent or nil values become an empty string.
func (r *Record) String(name string) string {
	v, ok := r.Get(name)
	if !ok {
		return ""
	}
	return cellString(v)
}

func (r *Record) Fields() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.name
	}
	return names
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case fmt.Stringer:
		return t.String()
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Ptr:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
	return fmt.Sprint(v)
}

// LookupTag returns the value of the first tag whose key equals want
// (case-sensitive), or N/A when there is none.
func LookupTag[T any](tags []T, want string, pair func(T) (key string, value string)) string {
	for _, tag := range tags {
		k, v := pair(tag)
		if k == want {
			return v
		}
	}
	return NotApplicable
}
