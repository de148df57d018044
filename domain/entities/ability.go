package entities

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/spruceid/siwe-recap/domain/errors"
)

// validate is a package-level singleton for better performance.
// Creating a new validator on each call is expensive; reusing is recommended.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("abilitypart", abilityPart); err != nil {
		panic(err)
	}
	return v
}

// abilityPart implements the shared grammar for ability namespaces and
// action names: Unicode alphanumerics plus '-', '_', '.', '+' and '*'.
func abilityPart(fl validator.FieldLevel) bool {
	return isAbilityPart(fl.Field().String())
}

func isAbilityPart(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("-_.+*", r) {
			return false
		}
	}
	return true
}

// Ability identifies one capability kind within a namespace, written as
// "namespace/action" (e.g. "kv/list", "credential/present").
type Ability struct {
	namespace string
	name      string
}

// ParseAbility parses an ability string of the form "namespace/action".
// Both sides of the single '/' separator must be non-empty and match the
// ability grammar.
func ParseAbility(s string) (Ability, error) {
	namespace, name, found := strings.Cut(s, "/")
	if !found {
		return Ability{}, &errors.InvalidAbilityError{Value: s, Reason: "missing '/' separator"}
	}
	if err := ValidateNamespace(namespace); err != nil {
		return Ability{}, err
	}
	if err := validate.Var(name, "required,abilitypart"); err != nil {
		return Ability{}, &errors.InvalidAbilityError{Value: s, Reason: "action name must be non-empty and contain only alphanumeric characters or -_.+*"}
	}
	return Ability{namespace: namespace, name: name}, nil
}

// NewAbility constructs an Ability from an already-split namespace and
// action name, applying the same grammar as ParseAbility.
func NewAbility(namespace, name string) (Ability, error) {
	return ParseAbility(namespace + "/" + name)
}

// Namespace returns the namespace part of the ability.
func (a Ability) Namespace() string {
	return a.namespace
}

// Name returns the action name part of the ability.
func (a Ability) Name() string {
	return a.name
}

// String returns the ability in "namespace/action" form.
func (a Ability) String() string {
	return a.namespace + "/" + a.name
}

// IsZero returns true if this is a zero-value ability.
func (a Ability) IsZero() bool {
	return a.namespace == "" && a.name == ""
}

// ValidateNamespace checks a namespace string against the ability grammar.
func ValidateNamespace(s string) error {
	if err := validate.Var(s, "required,abilitypart"); err != nil {
		return &errors.InvalidNamespaceError{Value: s}
	}
	return nil
}

// ValidateResource checks a resource identifier. Resources are opaque
// URI-like keys; the library imposes no constraint beyond non-emptiness.
func ValidateResource(s string) error {
	if err := validate.Var(s, "required"); err != nil {
		return &errors.InvalidResourceError{Value: s}
	}
	return nil
}
