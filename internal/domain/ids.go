package domain

import (
	"strings"

	"github.com/google/uuid"
)

// NewID builds a short prefixed identifier, e.g. "PROP-1a2b3c4d".
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + raw[:8]
}
