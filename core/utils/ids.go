package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseID parses a positive record id from a route parameter or CLI argument.
func ParseID(raw string) (uint, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(v), nil
}

// ParseIDs parses every element with ParseID and stops at the first invalid one.
func ParseIDs(raw []string) ([]uint, error) {
	ids := make([]uint, 0, len(raw))
	for _, r := range raw {
		id, err := ParseID(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
