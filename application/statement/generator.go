// Package statement renders an attenuation into the deterministic
// human-readable sentence spliced into a host message. The sentence is a
// pure function of the attenuation and the requester identifier: no hidden
// state, no locale-dependent sorting, so a relying party can regenerate it
// byte-for-byte from the encoded capabilities alone.
package statement

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spruceid/siwe-recap/domain/entities"
)

// Separator joins a pre-existing host statement and the generated
// capability sentence.
const Separator = "\n\n"

// Generate renders the capability sentence for an attenuation. The
// requester identifier (typically the host message's uri field) is spliced
// into the preamble verbatim. Returns "" for an empty attenuation.
func Generate(att entities.Attenuation, requester string) string {
	if att.IsEmpty() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("I further authorize ")
	sb.WriteString(requester)
	sb.WriteString(" to perform the following actions on my behalf:")
	for i, clause := range clauses(att) {
		fmt.Fprintf(&sb, " (%d) %s", i+1, clause)
	}
	return sb.String()
}

// Append splices the generated sentence onto an existing host statement.
// A nil or empty original yields the sentence alone; an empty sentence
// leaves the original untouched.
func Append(original *string, generated string) *string {
	if generated == "" {
		return original
	}
	if original == nil || *original == "" {
		return &generated
	}
	combined := *original + Separator + generated
	return &combined
}

// group is one rendered clause: every resource of a namespace exposing
// exactly the same action set.
type group struct {
	actions   []string
	resources []string
}

func (g group) actionKey() string {
	return strings.Join(g.actions, ", ")
}

func (g group) resourceKey() string {
	return strings.Join(g.resources, ", ")
}

func clauses(att entities.Attenuation) []string {
	// namespace -> resource -> action set
	byNamespace := make(map[string]map[string]map[string]bool)
	for _, resource := range att.Resources() {
		for _, grant := range att.GrantsFor(resource) {
			namespace := grant.Ability.Namespace()
			resources, ok := byNamespace[namespace]
			if !ok {
				resources = make(map[string]map[string]bool)
				byNamespace[namespace] = resources
			}
			actions, ok := resources[resource]
			if !ok {
				actions = make(map[string]bool)
				resources[resource] = actions
			}
			actions[grant.Ability.Name()] = true
		}
	}

	namespaces := make([]string, 0, len(byNamespace))
	for namespace := range byNamespace {
		namespaces = append(namespaces, namespace)
	}
	sort.Strings(namespaces)

	var out []string
	for _, namespace := range namespaces {
		for _, g := range namespaceGroups(byNamespace[namespace]) {
			out = append(out, renderClause(namespace, g))
		}
	}
	return out
}

// namespaceGroups collects resources sharing an identical action set and
// orders the groups with an explicit comparator: joined resource string
// first, joined action string as the tie-break.
func namespaceGroups(resources map[string]map[string]bool) []group {
	byActionSet := make(map[string]*group)
	for resource, actionSet := range resources {
		actions := make([]string, 0, len(actionSet))
		for action := range actionSet {
			actions = append(actions, action)
		}
		sort.Strings(actions)
		key := strings.Join(actions, ", ")
		g, ok := byActionSet[key]
		if !ok {
			g = &group{actions: actions}
			byActionSet[key] = g
		}
		g.resources = append(g.resources, resource)
	}

	groups := make([]group, 0, len(byActionSet))
	for _, g := range byActionSet {
		sort.Strings(g.resources)
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		ri, rj := groups[i].resourceKey(), groups[j].resourceKey()
		if ri != rj {
			return ri < rj
		}
		return groups[i].actionKey() < groups[j].actionKey()
	})
	return groups
}

func renderClause(namespace string, g group) string {
	quoted := make([]string, len(g.resources))
	for i, resource := range g.resources {
		quoted[i] = fmt.Sprintf("%q", resource)
	}
	return fmt.Sprintf("%q: %s for %s.", namespace, g.actionKey(), strings.Join(quoted, ", "))
}
