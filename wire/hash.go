package wire

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/roach88/quarry/ast"
)

// DomainQuery is the domain prefix for content-addressed query IDs.
// The version suffix enables future algorithm migration.
const DomainQuery = "quarry/query/v1"

// PayloadID computes the content-addressed ID of canonical payload
// bytes. Format: SHA256(domain + 0x00 + payload); the null separator
// prevents domain/data boundary ambiguity. Canonical serialization
// makes the ID stable: the same query always hashes the same.
func PayloadID(payload []byte) string {
	h := sha256.New()
	h.Write([]byte(DomainQuery))
	h.Write([]byte{0x00})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// QueryID serializes a query and computes its content-addressed ID.
func QueryID(q ast.Query) (string, error) {
	payload, err := Marshal(q)
	if err != nil {
		return "", err
	}
	return PayloadID(payload), nil
}
