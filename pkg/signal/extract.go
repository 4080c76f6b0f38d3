package signal

import "strings"

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// firstObjectLine returns the index of the first line that opens a JSON
// object, or -1.
func firstObjectLine(lines []string) int {
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "{") {
			return i
		}
	}
	return -1
}

// balancedEnd walks forward from start counting braces line by line and
// returns the first line where the count is back to zero and at least one
// closing brace was seen on that line. Braces inside string literals are
// counted too. When the count never settles the span collapses to start.
func balancedEnd(lines []string, start int) int {
	depth := 0
	for i := start; i < len(lines); i++ {
		closed := false
		for _, ch := range lines[i] {
			switch ch {
			case '{':
				depth++
			case '}':
				depth--
				closed = true
			}
		}
		if depth == 0 && closed {
			return i
		}
	}
	return start
}

// extractObject returns the joined text of the brace-balanced span beginning
// at the first object line.
func extractObject(lines []string) (string, bool) {
	start := firstObjectLine(lines)
	if start < 0 {
		return "", false
	}
	end := balancedEnd(lines, start)
	return strings.Join(lines[start:end+1], "\n"), true
}
