package util

import (
	"strings"
)

// InsertAfterMarker inserts text directly after the first occurrence of marker
// in line. The marker itself is left in place. Lines without the marker are
// returned unchanged.
func InsertAfterMarker(line, marker, text string) string {
	if marker == "" {
		return line
	}
	i := strings.Index(line, marker)
	if i < 0 {
		return line
	}
	end := i + len(marker)
	return line[:end] + text + line[end:]
}

// TrimLineEnding removes a trailing "\n" or "\r\n" from line
func TrimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
