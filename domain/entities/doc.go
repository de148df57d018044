// Package entities provides the core domain entities of the library:
// abilities, attenuations and the host message they are attached to.
// These are pure value objects; encoding and rendering live in the
// wireformat and statement packages.
package entities
