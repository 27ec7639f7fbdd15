package utils

// NewNullString returns nil for an empty s, so `omitempty` drops the field
// from outgoing payloads.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
