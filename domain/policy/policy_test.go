package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spruceid/siwe-recap/domain/entities"
)

func buildAttenuation(t *testing.T) entities.Attenuation {
	t.Helper()
	b := entities.NewBuilder()
	require.NoError(t, b.AddAbility("kepler:ens:example.eth://default/kv", "kv/get",
		entities.Restriction{"path": "/public"},
	))
	require.NoError(t, b.AddAbility("kepler:ens:example.eth://default/kv", "kv/list"))
	require.NoError(t, b.AddAbility("urn:credential:type:type1", "credential/present"))
	require.NoError(t, b.AddAbility("wild", "msg/*"))
	return b.Finish()
}

func TestCan_ExactGrant(t *testing.T) {
	att := buildAttenuation(t)

	restrictions, ok, err := Can(att, "kepler:ens:example.eth://default/kv", "kv/get")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []entities.Restriction{{"path": "/public"}}, restrictions)

	restrictions, ok, err = Can(att, "kepler:ens:example.eth://default/kv", "kv/list")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, restrictions, "unconditional grant carries no restrictions")
}

func TestCan_NoGrant(t *testing.T) {
	att := buildAttenuation(t)

	tests := []struct {
		name     string
		resource string
		ability  string
	}{
		{name: "unknown resource", resource: "other", ability: "kv/get"},
		{name: "unknown ability", resource: "kepler:ens:example.eth://default/kv", ability: "kv/put"},
		{name: "namespace mismatch", resource: "urn:credential:type:type1", ability: "kv/present"},
		{name: "resources never match as prefixes", resource: "kepler:ens:example.eth://default", ability: "kv/get"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := Can(att, tt.resource, tt.ability)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestCan_WildcardAction(t *testing.T) {
	att := buildAttenuation(t)

	for _, action := range []string{"msg/send", "msg/receive"} {
		_, ok, err := Can(att, "wild", action)
		require.NoError(t, err)
		assert.True(t, ok, action)
	}

	// A wildcard never crosses into another namespace.
	_, ok, err := Can(att, "wild", "kv/send")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCan_WildcardAndExactConcatenate(t *testing.T) {
	b := entities.NewBuilder()
	require.NoError(t, b.AddAbility("resource", "kv/get", entities.Restriction{"tier": "free"}))
	require.NoError(t, b.AddAbility("resource", "kv/*", entities.Restriction{"tier": "any"}))

	restrictions, ok, err := Can(b.Finish(), "resource", "kv/get")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []entities.Restriction{{"tier": "free"}, {"tier": "any"}}, restrictions)
}

func TestCan_InvalidInput(t *testing.T) {
	att := buildAttenuation(t)

	_, _, err := Can(att, "resource", "not-an-ability")
	assert.Error(t, err)

	_, _, err = Can(att, "", "kv/get")
	assert.Error(t, err)
}

func TestCan_EmptyAttenuation(t *testing.T) {
	_, ok, err := Can(entities.Attenuation{}, "resource", "kv/get")
	require.NoError(t, err)
	assert.False(t, ok)
}
