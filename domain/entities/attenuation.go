package entities

import (
	"bytes"
	"encoding/json"
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Restriction is a caveat narrowing when a grant applies: a string-keyed
// mapping of arbitrary structured values. An empty restriction list on a
// grant means the grant is unconditional; multiple entries are alternative
// satisfying conditions. JSON-shaped values (maps, slices, scalars) are
// deep-copied on entry; values of other types are shared and must not be
// mutated after being passed in.
type Restriction map[string]any

// Grant couples an ability with its restriction alternatives.
type Grant struct {
	Ability      Ability
	Restrictions []Restriction
}

type abilityMap = orderedmap.OrderedMap[Ability, []Restriction]

// Attenuation is the immutable set of resource/ability/restriction grants
// plus proof references, produced by Builder.Finish. The zero value is the
// empty attenuation.
type Attenuation struct {
	att *orderedmap.OrderedMap[string, *abilityMap]
	prf []string
}

// IsEmpty returns true if the attenuation grants no abilities. Proof
// references alone do not make an attenuation non-empty.
func (a Attenuation) IsEmpty() bool {
	return a.att == nil || a.att.Len() == 0
}

// Resources returns the resource identifiers in insertion order.
func (a Attenuation) Resources() []string {
	if a.att == nil {
		return nil
	}
	out := make([]string, 0, a.att.Len())
	for pair := a.att.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// GrantsFor returns the grants recorded for a resource in insertion order,
// or nil if the resource is not present.
func (a Attenuation) GrantsFor(resource string) []Grant {
	if a.att == nil {
		return nil
	}
	abilities, ok := a.att.Get(resource)
	if !ok {
		return nil
	}
	out := make([]Grant, 0, abilities.Len())
	for pair := abilities.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Grant{Ability: pair.Key, Restrictions: cloneRestrictions(pair.Value)})
	}
	return out
}

// Restrictions returns the restriction alternatives recorded for an ability
// on a resource, and whether the grant exists at all.
func (a Attenuation) Restrictions(resource string, ability Ability) ([]Restriction, bool) {
	if a.att == nil {
		return nil, false
	}
	abilities, ok := a.att.Get(resource)
	if !ok {
		return nil, false
	}
	restrictions, ok := abilities.Get(ability)
	if !ok {
		return nil, false
	}
	return cloneRestrictions(restrictions), true
}

// Proofs returns the proof references in insertion order. Proof references
// are opaque content-addressed identifiers and are never dereferenced here.
func (a Attenuation) Proofs() []string {
	if len(a.prf) == 0 {
		return nil
	}
	out := make([]string, len(a.prf))
	copy(out, a.prf)
	return out
}

// Equal reports structural equality: the same resource/ability/restriction
// triples regardless of the order they were added, and the same proof
// sequence in order.
func (a Attenuation) Equal(other Attenuation) bool {
	if len(a.prf) != len(other.prf) {
		return false
	}
	for i := range a.prf {
		if a.prf[i] != other.prf[i] {
			return false
		}
	}

	aLen, oLen := 0, 0
	if a.att != nil {
		aLen = a.att.Len()
	}
	if other.att != nil {
		oLen = other.att.Len()
	}
	if aLen != oLen {
		return false
	}
	if aLen == 0 {
		return true
	}

	for pair := a.att.Oldest(); pair != nil; pair = pair.Next() {
		otherAbilities, ok := other.att.Get(pair.Key)
		if !ok || pair.Value.Len() != otherAbilities.Len() {
			return false
		}
		for ab := pair.Value.Oldest(); ab != nil; ab = ab.Next() {
			otherRestrictions, ok := otherAbilities.Get(ab.Key)
			if !ok || !restrictionsEqual(ab.Value, otherRestrictions) {
				return false
			}
		}
	}
	return true
}

// Builder accumulates grants and proof references into an Attenuation.
// A Builder is an owned mutable accumulator: it is not safe for concurrent
// use, but the Attenuation returned by Finish is an independent snapshot
// that is immutable and freely shareable.
type Builder struct {
	att *orderedmap.OrderedMap[string, *abilityMap]
	prf []string
}

// NewBuilder initialises an empty Builder.
func NewBuilder() *Builder {
	return &Builder{att: orderedmap.New[string, *abilityMap]()}
}

// AddAbility validates the resource and ability and records the grant.
// If the (resource, ability) pair already exists, the given restrictions
// are appended as additional alternatives; existing entries, including
// duplicates, are preserved as-is. Invalid input leaves the builder
// untouched.
func (b *Builder) AddAbility(resource, ability string, restrictions ...Restriction) error {
	if err := ValidateResource(resource); err != nil {
		return err
	}
	parsed, err := ParseAbility(ability)
	if err != nil {
		return err
	}
	b.add(resource, parsed, restrictions)
	return nil
}

func (b *Builder) init() {
	if b.att == nil {
		b.att = orderedmap.New[string, *abilityMap]()
	}
}

func (b *Builder) add(resource string, ability Ability, restrictions []Restriction) {
	b.init()
	abilities, ok := b.att.Get(resource)
	if !ok {
		abilities = orderedmap.New[Ability, []Restriction]()
		b.att.Set(resource, abilities)
	}
	existing, _ := abilities.Get(ability)
	abilities.Set(ability, append(existing, cloneRestrictions(restrictions)...))
}

// AddProof appends a proof reference. Duplicates are permitted and
// preserved in order.
func (b *Builder) AddProof(ref string) *Builder {
	b.prf = append(b.prf, ref)
	return b
}

// Merge unions another attenuation into the builder: restriction lists are
// concatenated per grant, and proof references are appended in order,
// skipping those the builder already carries.
func (b *Builder) Merge(other Attenuation) *Builder {
	for _, resource := range other.Resources() {
		for _, grant := range other.GrantsFor(resource) {
			b.add(resource, grant.Ability, grant.Restrictions)
		}
	}
	for _, ref := range other.Proofs() {
		if !contains(b.prf, ref) {
			b.prf = append(b.prf, ref)
		}
	}
	return b
}

// Finish returns the accumulated attenuation as an independent immutable
// snapshot. Building is one-shot: reusing the builder to produce divergent
// messages is the caller's responsibility to avoid where message integrity
// matters.
func (b *Builder) Finish() Attenuation {
	b.init()
	att := orderedmap.New[string, *abilityMap]()
	for pair := b.att.Oldest(); pair != nil; pair = pair.Next() {
		abilities := orderedmap.New[Ability, []Restriction]()
		for ab := pair.Value.Oldest(); ab != nil; ab = ab.Next() {
			abilities.Set(ab.Key, cloneRestrictions(ab.Value))
		}
		att.Set(pair.Key, abilities)
	}
	prf := make([]string, len(b.prf))
	copy(prf, b.prf)
	return Attenuation{att: att, prf: prf}
}

// restrictionsEqual compares restriction lists through their canonical JSON
// form. A JSON round trip rewrites numeric values (int becomes float64), so
// a byte-level DeepEqual would report decode(encode(x)) as different from x.
func restrictionsEqual(a, b []Restriction) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	aJSON, aErr := json.Marshal(a)
	bJSON, bErr := json.Marshal(b)
	if aErr != nil || bErr != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(aJSON, bJSON)
}

func cloneRestrictions(restrictions []Restriction) []Restriction {
	if restrictions == nil {
		return nil
	}
	out := make([]Restriction, len(restrictions))
	for i, r := range restrictions {
		cloned := make(Restriction, len(r))
		for k, v := range r {
			cloned[k] = cloneValue(v)
		}
		out[i] = cloned
	}
	return out
}

// cloneValue deep-copies the JSON-shaped part of a restriction value.
// Values of other types are shared and must not be mutated after being
// passed in.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
