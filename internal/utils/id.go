package utils

import (
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// DeriveNodeID produces the stable per-node origin token when none is
// configured: the low 6 hex chars of a hostname hash. Stable for the
// process lifetime and across restarts on the same host.
func DeriveNodeID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		// No hostname to anchor on; a random ID still satisfies the
		// fixed-for-process-lifetime contract.
		return NewMessageID()[:6]
	}
	return fmt.Sprintf("%06x", xxhash.Sum64String(host)&0xFFFFFF)
}

// NewMessageID returns a fresh message identifier: 8 hex chars of UUID
// entropy. Uniqueness only has to hold per origin across the seen-list
// retention window, which this clears by a wide margin.
func NewMessageID() string {
	u := uuid.New()
	return fmt.Sprintf("%08x", uint32(u[0])<<24|uint32(u[1])<<16|uint32(u[2])<<8|uint32(u[3]))
}
