package utils

// Truncate returns s cut to at most maxLen runes, with "..." marking the cut.
// Used for log previews of tool arguments and replies.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
