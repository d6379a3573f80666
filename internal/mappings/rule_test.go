package mappings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleApplyDirect(t *testing.T) {
	r := &Rule{Source: "A", Target: "B", Convert: KindDirect}
	require.NoError(t, validateRule(r))

	got, err := r.Apply("1975")
	require.NoError(t, err)
	assert.Equal(t, "1975", got)
}

func TestRuleApplyScale(t *testing.T) {
	r := &Rule{Source: "A", Target: "B", Convert: KindScale, Factor: 10.7639}
	require.NoError(t, validateRule(r))

	got, err := r.Apply("180")
	require.NoError(t, err)
	assert.Equal(t, "1937.502", got)

	_, err = r.Apply("not-a-number")
	assert.Error(t, err)
}

func TestRuleApplyEnum(t *testing.T) {
	r := &Rule{
		Source:  "A",
		Target:  "B",
		Convert: KindEnum,
		Enum: []EnumEntry{
			{Key: "2", Value: "natural gas"},
			{Key: "3", Value: "fuel oil"},
		},
	}
	require.NoError(t, validateRule(r))

	got, err := r.Apply("2")
	require.NoError(t, err)
	assert.Equal(t, "natural gas", got)

	_, err = r.Apply("99")
	var enumErr *UnknownEnumError
	require.ErrorAs(t, err, &enumErr)
	assert.Equal(t, "99", enumErr.Value)
}

func TestRuleApplyBool(t *testing.T) {
	r := &Rule{Source: "A", Target: "B", Convert: KindBool}
	require.NoError(t, validateRule(r))

	for raw, want := range map[string]string{
		"1":    "true",
		"true": "true",
		"True": "true",
		"0":    "false",
		"no":   "false",
		"":     "false",
	} {
		got, err := r.Apply(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got, "raw %q", raw)
	}
}
