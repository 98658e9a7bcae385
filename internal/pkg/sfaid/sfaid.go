package sfaid

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefix is the identifier prefix for all member SFA-IDs
const Prefix = "SFA"

// Format formats a sequence number as an SFA-ID (SFA0001, SFA0002, ...)
// Numbers beyond 4 digits widen naturally (SFA10000)
func Format(n int64) string {
	return fmt.Sprintf("%s%04d", Prefix, n)
}

// Parse extracts the sequence number from an SFA-ID
func Parse(id string) (int64, error) {
	if !strings.HasPrefix(id, Prefix) {
		return 0, fmt.Errorf("invalid SFA-ID: %s", id)
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(id, Prefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid SFA-ID: %s", id)
	}
	return n, nil
}

// IsValid reports whether id is a well-formed SFA-ID
func IsValid(id string) bool {
	_, err := Parse(id)
	return err == nil
}
