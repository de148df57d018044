package entities

import (
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spruceid/siwe-recap/domain/errors"
)

func TestParseAbility_Valid(t *testing.T) {
	tests := []struct {
		input     string
		namespace string
		name      string
	}{
		{input: "credential/present", namespace: "credential", name: "present"},
		{input: "kv/list", namespace: "kv", name: "list"},
		{input: "some-ns/some-name", namespace: "some-ns", name: "some-name"},
		{input: "msg/*", namespace: "msg", name: "*"},
		{input: "My-nAmespac3-2/do.thing+x", namespace: "My-nAmespac3-2", name: "do.thing+x"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ability, err := ParseAbility(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.namespace, ability.Namespace())
			assert.Equal(t, tt.name, ability.Name())
			assert.Equal(t, tt.input, ability.String())
		})
	}
}

func TestParseAbility_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "no separator", input: "kv-list"},
		{name: "space in namespace", input: "credential ns/present"},
		{name: "colon in namespace", input: "some:ns/some-name"},
		{name: "second separator", input: "msg/wrong/str"},
		{name: "empty both sides", input: "/"},
		{name: "empty namespace", input: "/present"},
		{name: "empty action", input: "kv/"},
		{name: "empty string", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAbility(tt.input)
			require.Error(t, err)

			var invalidAbility *errors.InvalidAbilityError
			var invalidNamespace *errors.InvalidNamespaceError
			assert.True(t,
				stdErrors.As(err, &invalidAbility) || stdErrors.As(err, &invalidNamespace),
				"expected a grammar error, got %v", err)
		})
	}
}

func TestValidateNamespace(t *testing.T) {
	for _, valid := range []string{"my-namespace", "My-nAmespac3-2", "kv", "a*"} {
		assert.NoError(t, ValidateNamespace(valid), valid)
	}

	for _, invalid := range []string{"", "https://example.com/", "not a valid namespace", "my--namespace[]", "ns:"} {
		err := ValidateNamespace(invalid)
		require.Error(t, err, invalid)

		var invalidNamespace *errors.InvalidNamespaceError
		assert.True(t, stdErrors.As(err, &invalidNamespace))
	}
}

func TestValidateResource(t *testing.T) {
	assert.NoError(t, ValidateResource("urn:credential:type:type1"))
	assert.NoError(t, ValidateResource("kepler:ens:example.eth://default/kv"))

	err := ValidateResource("")
	require.Error(t, err)

	var invalidResource *errors.InvalidResourceError
	assert.True(t, stdErrors.As(err, &invalidResource))
}

func TestNewAbility(t *testing.T) {
	ability, err := NewAbility("kv", "get")
	require.NoError(t, err)
	assert.Equal(t, "kv/get", ability.String())
	assert.False(t, ability.IsZero())

	_, err = NewAbility("kv", "")
	assert.Error(t, err)

	assert.True(t, Ability{}.IsZero())
}
