package repository

import "encoding/json"

// encodeReasons serializes score reasons for the TEXT column.
func encodeReasons(reasons []string) (string, error) {
	if reasons == nil {
		reasons = []string{}
	}
	b, err := json.Marshal(reasons)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeReasons parses stored score reasons. Missing or malformed values
// yield an empty list.
func DecodeReasons(raw *string) []string {
	if raw == nil || *raw == "" {
		return []string{}
	}
	var reasons []string
	if err := json.Unmarshal([]byte(*raw), &reasons); err != nil || reasons == nil {
		return []string{}
	}
	return reasons
}
