// Package recap augments wallet-signable authentication messages with
// machine-verifiable, human-readable capability delegations (ReCap,
// EIP-5573).
//
// A requester accumulates abilities scoped to resources with a Builder,
// then attaches the finished Attenuation to a host message with Build: the
// canonical "urn:recap:" token is appended to the message resources and a
// deterministic sentence describing the grants is spliced into the message
// statement. A relying party runs the inverse path with Extract and
// Verify, confirming that the prose a signer saw is a faithful rendering
// of the structure being authorized.
//
// All operations are pure transforms over immutable values; independent
// messages may be built, encoded and verified concurrently with no
// coordination.
package recap
