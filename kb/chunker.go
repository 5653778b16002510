package kb

import "strings"

const DefaultMaxChars = 1200

// Split segments text into chunks by scanning line by line. The buffer
// is flushed once a heading line lands in it or the accumulated size
// reaches maxChars, whichever comes first. This is a heuristic
// segmenter, not a parser; it does not validate document structure.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	var parts []string
	var buf strings.Builder

	flush := func() {
		if chunk := strings.TrimSpace(buf.String()); len(chunk) > 0 {
			parts = append(parts, chunk)
		}
		buf.Reset()
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		buf.WriteString(line)
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			flush()
		} else if buf.Len() >= maxChars {
			flush()
		}
	}
	flush()

	return parts
}
