package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Identifier prefixes used across the inventory.
const (
	PrefixAsset        = "AST"
	PrefixVerification = "VER"
	PrefixTask         = "TASK"
	PrefixActivity     = "ACT"
	PrefixPerson       = "PER"
	PrefixLocation     = "LOC"
)

// NewID mints a prefixed human-readable identifier, e.g. AST-9F2C1A.
// Uniqueness is the caller's responsibility; the store never checks.
func NewID(prefix string) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return prefix + "-" + token[:6]
}
