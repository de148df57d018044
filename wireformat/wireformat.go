// Package wireformat defines the canonical wire encoding of an attenuation:
// a deterministic JSON payload wrapped in a base64url "urn:recap:" token.
// The byte output must remain stable across independent reconstructions of
// the same grant set, since message signatures cover the encoded token.
package wireformat

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/spruceid/siwe-recap/domain/entities"
	"github.com/spruceid/siwe-recap/domain/errors"
)

// TokenPrefix is the URI prefix of an encoded recap token.
const TokenPrefix = "urn:recap:"

// Payload is the JSON wire format of an attenuation. Field order is fixed:
// "att" before "prf". Resource and ability keys are emitted in byte-wise
// lexicographic order; restriction arrays keep builder insertion order.
type Payload struct {
	Attenuations map[string]map[string][]entities.Restriction `json:"att"`
	Proofs       []string                                     `json:"prf"`
}

// PayloadSchema is the JSON Schema every decoded payload is checked
// against before it is bound to domain types.
const PayloadSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["att", "prf"],
	"additionalProperties": false,
	"properties": {
		"att": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"additionalProperties": {
					"type": "array",
					"items": {"type": "object"}
				}
			}
		},
		"prf": {
			"type": "array",
			"items": {"type": "string"}
		}
	}
}`

var payloadSchema = jsonschema.MustCompileString("recap-payload.json", PayloadSchema)

// NewPayload converts an attenuation into its wire representation.
func NewPayload(att entities.Attenuation) Payload {
	attenuations := make(map[string]map[string][]entities.Restriction, len(att.Resources()))
	for _, resource := range att.Resources() {
		grants := att.GrantsFor(resource)
		abilities := make(map[string][]entities.Restriction, len(grants))
		for _, grant := range grants {
			restrictions := grant.Restrictions
			if restrictions == nil {
				restrictions = []entities.Restriction{}
			}
			abilities[grant.Ability.String()] = restrictions
		}
		attenuations[resource] = abilities
	}
	proofs := att.Proofs()
	if proofs == nil {
		proofs = []string{}
	}
	return Payload{Attenuations: attenuations, Proofs: proofs}
}

// EncodePayload returns the canonical JSON bytes of an attenuation:
// compact, HTML escaping disabled, map keys in byte-wise lexicographic
// order (the encoding/json sort for string keys).
func EncodePayload(att entities.Attenuation) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NewPayload(att)); err != nil {
		return nil, fmt.Errorf("serializing recap payload: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// EncodeToken returns the URI-safe token embedding the canonical payload:
// "urn:recap:" followed by unpadded base64url of the payload bytes.
func EncodeToken(att entities.Attenuation) (string, error) {
	payload, err := EncodePayload(att)
	if err != nil {
		return "", err
	}
	return TokenPrefix + base64.RawURLEncoding.EncodeToString(payload), nil
}

// DecodeToken is the inverse of EncodeToken. Any failure along the way,
// from base64 decoding to the grammar of ability keys, is reported as a
// MalformedPayloadError.
func DecodeToken(token string) (entities.Attenuation, error) {
	encoded, found := strings.CutPrefix(token, TokenPrefix)
	if !found {
		return entities.Attenuation{}, &errors.MalformedPayloadError{
			Err: fmt.Errorf("token does not start with %q", TokenPrefix),
		}
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return entities.Attenuation{}, &errors.MalformedPayloadError{Err: err}
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return entities.Attenuation{}, &errors.MalformedPayloadError{Err: err}
	}
	if err := payloadSchema.Validate(decoded); err != nil {
		return entities.Attenuation{}, &errors.MalformedPayloadError{Err: err}
	}

	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return entities.Attenuation{}, &errors.MalformedPayloadError{Err: err}
	}
	return payload.Attenuation()
}

// Attenuation rebuilds the domain structure from a wire payload. Grants are
// inserted in canonical key order so the result is independent of Go map
// iteration.
func (p Payload) Attenuation() (entities.Attenuation, error) {
	b := entities.NewBuilder()
	for _, resource := range sortedKeys(p.Attenuations) {
		abilities := p.Attenuations[resource]
		for _, ability := range sortedKeys(abilities) {
			if err := b.AddAbility(resource, ability, abilities[ability]...); err != nil {
				return entities.Attenuation{}, &errors.MalformedPayloadError{Err: err}
			}
		}
	}
	for _, proof := range p.Proofs {
		b.AddProof(proof)
	}
	return b.Finish(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
