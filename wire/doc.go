// Package wire serializes query ASTs to the consuming graph engine's
// JSON-LD query schema. The field and tag vocabulary is a fixed
// external contract: every Query variant maps to an object with an
// "@type" discriminator, and leaf values map to typed literal objects
// ("Value"/"NodeValue" with variable, node, data, or list fields).
//
// Serialization is deterministic: payload bytes are RFC 8785 canonical
// JSON (UTF-16 key ordering, NFC-normalized strings, no HTML escaping),
// so the same AST always yields the same bytes and payloads can be
// content-addressed with QueryID.
//
// The network client that submits payloads is an external collaborator;
// Envelope is the boundary type it consumes (serialized query plus
// connection, branch and commit context).
package wire
