// Package content maps resource paths to the MIME types the server answers with.
package content

import "strings"

// Type is the MIME content type sent in the Content-Type header
type Type string

const (
	// TypeHTML is served line by line with tag substitution
	TypeHTML Type = "text/html"
	// TypeJPEG is a JPEG image
	TypeJPEG Type = "image/jpeg"
	// TypePNG is a PNG image
	TypePNG Type = "image/png"
	// TypeGIF is a GIF image
	TypeGIF Type = "image/gif"
	// TypeIcon is a favicon
	TypeIcon Type = "image/x-icon"
)

type suffixRule struct {
	suffixes []string
	typ      Type
}

// rules are checked in order; the first matching suffix wins
var rules = []suffixRule{
	{[]string{".jpg", ".jpeg"}, TypeJPEG},
	{[]string{".png"}, TypePNG},
	{[]string{".gif"}, TypeGIF},
	{[]string{".ico"}, TypeIcon},
}

// Classify returns the content type for a resource path based on its suffix.
// Matching ignores case. Anything without a known image suffix is text/html.
func Classify(path string) Type {
	lower := strings.ToLower(path)
	for _, rule := range rules {
		for _, suffix := range rule.suffixes {
			if strings.HasSuffix(lower, suffix) {
				return rule.typ
			}
		}
	}
	return TypeHTML
}

// IsImage reports whether the type is one of the image kinds
func (t Type) IsImage() bool {
	return strings.HasPrefix(string(t), "image/")
}

// String returns the MIME type
func (t Type) String() string {
	return string(t)
}
