package pbx

import "strings"

// NormalizeCallerID derives the canonical lookup key for a PBX caller id:
// digits and '+' survive, every other character is dropped.
// "+1 (555) 012-3456" becomes "+15550123456".
func NormalizeCallerID(callerID string) string {
	var b strings.Builder
	b.Grow(len(callerID))
	for _, r := range callerID {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
