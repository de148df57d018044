// Package schema publishes the JSON Schema of the recap wire payload, for
// integrators that validate or document the wire contract out-of-band.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/spruceid/siwe-recap/wireformat"
)

// Payload returns the Draft 2020-12 schema of the recap token payload,
// reflected from the wire DTO and annotated with the payload's identity.
func Payload() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(wireformat.Payload{})
	schema.ID = "urn:recap:payload"
	schema.Title = "ReCap token payload"
	schema.Description = "Canonical JSON carried after the urn:recap: prefix: grants keyed by resource and ability, plus proof references."

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal payload schema: %w", err)
	}
	return out, nil
}
