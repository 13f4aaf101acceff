package envelope

import (
	"crypto/sha256"
	"encoding/hex"
)

// ComputeSignature derives the execution signature for an envelope from the
// identity of the producing agent, the blueprint that produced it, and the
// schema version in force at production time. The signature is the
// hex-encoded SHA-256 digest of the three inputs joined with NUL bytes, so
// equal inputs always yield equal signatures and no input can smuggle a
// separator into another.
func ComputeSignature(agentID, blueprintID, schemaVersion string) string {
	h := sha256.New()
	h.Write([]byte(agentID))
	h.Write([]byte{0})
	h.Write([]byte(blueprintID))
	h.Write([]byte{0})
	h.Write([]byte(schemaVersion))
	return hex.EncodeToString(h.Sum(nil))
}
