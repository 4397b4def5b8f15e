package momo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const orderReferencePrefix = "ORDER"

// BuildOrderReference derives the gateway-facing order id from the local
// order id plus a random suffix so retried initiations never collide.
func BuildOrderReference(orderID uint) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s_%d_%s", orderReferencePrefix, orderID, token)
}

// ParseOrderReference extracts the local order id embedded in a gateway
// order reference. Returns false when the value does not match the format.
func ParseOrderReference(ref string) (uint, bool) {
	parts := strings.Split(ref, "_")
	if len(parts) < 2 || parts[0] != orderReferencePrefix {
		return 0, false
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
