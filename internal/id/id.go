// Package id formats and parses period-scoped transaction IDs.
package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTransactionID returns a transaction ID like "P003-017":
// accounting period 3, sequence 17 within that period.
func FormatTransactionID(period, seq int) string {
	return fmt.Sprintf("P%03d-%03d", period, seq)
}

// ParseTransactionID parses "P003-017" into period and sequence.
func ParseTransactionID(s string) (period, seq int, err error) {
	if !strings.HasPrefix(s, "P") {
		return 0, 0, fmt.Errorf("invalid transaction ID format: %q", s)
	}
	parts := strings.SplitN(s[1:], "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid transaction ID format: %q", s)
	}

	period, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid period in transaction ID %q: %w", s, err)
	}

	seq, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid sequence in transaction ID %q: %w", s, err)
	}

	return period, seq, nil
}
