package types

import (
	"fmt"
	"strings"
)

// ------------------------------
// Shared Validation
// ------------------------------

// ValidateIDPresent rejects blank identifiers before they reach the wire.
func ValidateIDPresent(id, field string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// ValidateIDsPresent rejects an empty sequence and any blank member.
func ValidateIDsPresent(ids []string, field string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%s must not be empty", field)
	}
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%s[%d] is blank", field, i)
		}
	}
	return nil
}
