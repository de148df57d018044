// Package policy answers the relying-party question: does an attenuation
// allow a given action on a given resource, and under which restrictions?
// Resources are opaque keys and match exactly; granted abilities may carry
// '*' wildcards in their action part (e.g. "kv/*"), matched with
// doublestar patterns over the "namespace/action" form.
package policy

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/spruceid/siwe-recap/domain/entities"
)

// Can reports whether the attenuation grants the ability on the resource.
// When it does, the restriction alternatives of every matching grant are
// returned, concatenated in grant insertion order; an empty slice with
// ok=true means the grant is unconditional. The ability argument must be a
// concrete ability, not a pattern.
func Can(att entities.Attenuation, resource, ability string) ([]entities.Restriction, bool, error) {
	requested, err := entities.ParseAbility(ability)
	if err != nil {
		return nil, false, err
	}
	if err := entities.ValidateResource(resource); err != nil {
		return nil, false, err
	}

	var restrictions []entities.Restriction
	matched := false
	for _, grant := range att.GrantsFor(resource) {
		if !grantMatches(grant.Ability, requested) {
			continue
		}
		matched = true
		restrictions = append(restrictions, grant.Restrictions...)
	}
	if !matched {
		return nil, false, nil
	}
	return restrictions, true, nil
}

func grantMatches(granted, requested entities.Ability) bool {
	if granted == requested {
		return true
	}
	if !strings.Contains(granted.Name(), "*") {
		return false
	}
	// Namespaces never match across a wildcard; only the action part may.
	if granted.Namespace() != requested.Namespace() {
		return false
	}
	ok, err := doublestar.Match(granted.Name(), requested.Name())
	return err == nil && ok
}
