package domain

import "strings"

// TriState is a yes/no answer that may not be known yet.
type TriState string

const (
	TriYes     TriState = "yes"
	TriNo      TriState = "no"
	TriUnknown TriState = "unknown"
)

func (t TriState) IsValid() bool {
	return t == TriYes || t == TriNo || t == TriUnknown
}

// IsYes reports an explicit yes; unknown counts as no.
func (t TriState) IsYes() bool { return t == TriYes }

// ParseTriState accepts any letter case and maps blank input to unknown.
func ParseTriState(raw string) (TriState, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return TriUnknown, true
	}
	t := TriState(normalized)
	return t, t.IsValid()
}
