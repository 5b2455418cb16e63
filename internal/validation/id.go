package validation

import "strconv"

// ParseID parses a path parameter as a non-negative integer id. Only ASCII
// digits are accepted; any other input yields invalid, which is a format error
// distinct from "not found".
func ParseID(raw string, invalid *Error) (int, error) {
	if raw == "" {
		return 0, invalid
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, invalid
		}
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid
	}
	return id, nil
}
