package recap

import (
	"strings"

	"github.com/spruceid/siwe-recap/application/statement"
	"github.com/spruceid/siwe-recap/domain/entities"
	"github.com/spruceid/siwe-recap/domain/errors"
	"github.com/spruceid/siwe-recap/wireformat"
)

// TokenPrefix is the URI prefix of an encoded recap token.
const TokenPrefix = wireformat.TokenPrefix

// Core domain types, re-exported for convenience.
type (
	Ability     = entities.Ability
	Attenuation = entities.Attenuation
	Builder     = entities.Builder
	Message     = entities.Message
	Restriction = entities.Restriction
)

// Error types returned by the library.
type (
	InvalidNamespaceError  = errors.InvalidNamespaceError
	InvalidAbilityError    = errors.InvalidAbilityError
	InvalidResourceError   = errors.InvalidResourceError
	DuplicateRecapURNError = errors.DuplicateRecapURNError
	MissingRecapURNError   = errors.MissingRecapURNError
	MalformedPayloadError  = errors.MalformedPayloadError
	StatementMismatchError = errors.StatementMismatchError
)

// NewBuilder initialises an empty attenuation builder.
func NewBuilder() *Builder {
	return entities.NewBuilder()
}

// ParseAbility parses an ability string of the form "namespace/action".
func ParseAbility(s string) (Ability, error) {
	return entities.ParseAbility(s)
}

// Build attaches an attenuation to a host message. Every host field except
// the statement and the resource list is copied through untouched; the
// encoded token becomes the last resource entry and the capability
// sentence is spliced onto the statement. An empty attenuation returns the
// message unchanged. Fails with DuplicateRecapURNError if the message
// already carries a recap token.
func Build(msg Message, att Attenuation) (Message, error) {
	if att.IsEmpty() {
		return msg.Clone(), nil
	}
	for _, resource := range msg.Resources {
		if strings.HasPrefix(resource, TokenPrefix) {
			return Message{}, &errors.DuplicateRecapURNError{Resource: resource}
		}
	}

	token, err := wireformat.EncodeToken(att)
	if err != nil {
		return Message{}, err
	}

	out := msg.Clone()
	out.Resources = append(out.Resources, token)
	out.Statement = statement.Append(out.Statement, statement.Generate(att, msg.URI))
	return out, nil
}

// Extract decodes the attenuation carried by a message. The recap token
// must be the last entry of the resource list; otherwise the message fails
// with MissingRecapURNError. Decode and shape errors surface as
// MalformedPayloadError.
func Extract(msg Message) (Attenuation, error) {
	if len(msg.Resources) == 0 {
		return Attenuation{}, &errors.MissingRecapURNError{}
	}
	last := msg.Resources[len(msg.Resources)-1]
	if !strings.HasPrefix(last, TokenPrefix) {
		return Attenuation{}, &errors.MissingRecapURNError{LastResource: last}
	}
	return wireformat.DecodeToken(last)
}

// Verify extracts the attenuation from a message and checks that the
// regenerated capability sentence is an exact trailing match of the
// message statement: either the whole statement, or preceded by an
// arbitrary prefix and the statement separator. A mismatch means the text
// that was signed does not describe the capabilities that would be
// granted.
func Verify(msg Message) error {
	att, err := Extract(msg)
	if err != nil {
		return err
	}
	expected := statement.Generate(att, msg.URI)
	if expected == "" {
		return nil
	}
	if msg.Statement != nil {
		s := *msg.Statement
		if s == expected || strings.HasSuffix(s, statement.Separator+expected) {
			return nil
		}
	}
	return &errors.StatementMismatchError{Expected: expected}
}
