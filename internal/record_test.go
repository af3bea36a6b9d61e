package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	k := NewKey("i-0abc", "123456789012", "us-east-1")
	assert.Equal(t, "i-0abc_123456789012_us-east-1", k.String())

	// Same string form, different keys.
	a := NewKey("a_b", "c", "d")
	b := NewKey("a", "b_c", "d")
	assert.Equal(t, a.String(), b.String())
	assert.NotEqual(t, a, b)
	assert.True(t, a.Less(b) != b.Less(a))
}

func TestRecordFieldOrder(t *testing.T) {
	r := NewRecord(NewKey("id", "acct", "us-east-1"))
	r.Set("zeta", "z").Set("alpha", 1).Set("mid", true)
	r.Set("zeta", "replaced")

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, r.Fields())

	b, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"replaced","alpha":1,"mid":true}`, string(b))
}

func TestRecordString(t *testing.T) {
	subtests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "nil", value: nil, want: ""},
		{name: "bool", value: false, want: "false"},
		{name: "int", value: 42, want: "42"},
		{name: "map", value: map[string]string{"b": "2", "a": "1"}, want: `{"a":"1","b":"2"}`},
		{name: "slice", value: []string{"x", "y"}, want: `["x","y"]`},
	}

	for _, subtest := range subtests {
		t.Run(subtest.name, func(t *testing.T) {
			r := NewRecord(Key{}).Set("f", subtest.value)
			assert.Equal(t, subtest.want, r.String("f"))
		})
	}

	assert.Equal(t, "", NewRecord(Key{}).String("missing"))
}

func TestRecordSetOptional(t *testing.T) {
	r := NewRecord(Key{})
	r.SetOptional("runtime", "").SetOptional("type", "t3.micro")
	assert.Equal(t, NotApplicable, r.String("runtime"))
	assert.Equal(t, "t3.micro", r.String("type"))
}

type testTag struct{ k, v string }

func TestLookupTag(t *testing.T) {
	pair := func(t testTag) (string, string) { return t.k, t.v }
	tags := []testTag{{"env", "prod"}, {"Name", "web-1"}, {"Name", "web-2"}}

	assert.Equal(t, "web-1", LookupTag(tags, "Name", pair))
	assert.Equal(t, NotApplicable, LookupTag(tags, "name", pair))
	assert.Equal(t, NotApplicable, LookupTag(nil, "Name", pair))
}
