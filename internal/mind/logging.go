package mind

// truncateForLog shortens long strings for log lines.
func truncateForLog(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
