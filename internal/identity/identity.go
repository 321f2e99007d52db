// Package identity derives the anonymized machine-stable user identifier
// attached to every captured telemetry event.
package identity

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
)

// fallback stands in for the machine id on platforms that cannot provide
// one. The result stays deterministic, just not machine-unique.
const fallback = "unknown"

// UserID returns a stable anonymized identifier for this machine, keyed by
// the tool name. The raw machine id never leaves the process: it is folded
// through HMAC-SHA256 and the digest truncated into a UUID, so the same
// machine and tool always map to the same identifier while different tools
// see unrelated ones.
func UserID(tool string) string {
	mid, err := machineid.ID()
	if err != nil {
		mid = fallback
	}

	mac := hmac.New(sha256.New, []byte(tool))
	mac.Write([]byte(mid))
	sum := mac.Sum(nil)

	// The digest is 32 bytes; the first 16 always form a valid UUID.
	id, _ := uuid.FromBytes(sum[:16])
	return id.String()
}
