package store

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns prefix-<uuid>. Prefixes keep ids readable in event payloads
// and CLI output: trk-, clip-, kf-, evt-.
func NewID(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return uuid.NewString()
	}
	return prefix + "-" + uuid.NewString()
}
