// Package response writes the status line and header block of a reply.
package response

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/niels/simple-webserver/pkg/content"
)

const (
	// StatusLine is sent for every reply, including missing resources
	StatusLine = "HTTP/1.1 200 OK"

	// DateLayout is the long date-time style used in headers and pages
	DateLayout = "January 2, 2006 3:04:05 PM MST"

	crlf = "\r\n"
)

var gmt = time.FixedZone("GMT", 0)

// FormatDate renders t in DateLayout using t's own location
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// HeaderDate renders t in DateLayout in GMT
func HeaderDate(t time.Time) string {
	return FormatDate(t.In(gmt))
}

// WriteHeader writes the status line, the Date, Server, Connection and
// Content-Type headers, and the blank line ending the header block.
// No Content-Length is sent; the body ends when the connection closes.
func WriteHeader(w io.Writer, serverName string, contentType content.Type, now time.Time) error {
	var sb strings.Builder

	sb.WriteString(StatusLine + crlf)
	sb.WriteString("Date: " + HeaderDate(now) + crlf)
	sb.WriteString("Server: " + serverName + crlf)
	sb.WriteString("Connection: close" + crlf)
	sb.WriteString("Content-Type: " + contentType.String() + crlf)
	sb.WriteString(crlf)

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write response header: %w", err)
	}
	return nil
}
