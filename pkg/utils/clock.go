package utils

import "time"

// NowRFC3339 returns the current UTC time in the canonical string form all
// documents use. Range filters over these strings compare lexicographically.
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// FormatRFC3339 renders t in the same canonical form.
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
