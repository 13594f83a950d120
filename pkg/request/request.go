// Package request reads the head of an HTTP request off a connection and
// extracts the requested resource path.
package request

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const getPrefix = "GET "

// MaxHeadBytes caps the size of the request head read from a client
const MaxHeadBytes = 64 << 10

// Common errors
var (
	// ErrIdleTimeout is returned when the client did not finish sending the
	// request head before the idle timeout expired
	ErrIdleTimeout = errors.New("request idle timeout")

	// ErrRequestTooLarge is returned when the request head is longer than
	// MaxHeadBytes without reaching the blank line
	ErrRequestTooLarge = errors.New("request head too large")
)

// Parser reads requests from connections with a bounded idle time
type Parser struct {
	// IdleTimeout bounds the time spent waiting for the complete request
	// head. Zero means no deadline.
	IdleTimeout time.Duration
	Logger      zerolog.Logger
}

// NewParser creates a parser with the given idle timeout and logger
func NewParser(idleTimeout time.Duration, logger zerolog.Logger) *Parser {
	return &Parser{
		IdleTimeout: idleTimeout,
		Logger:      logger,
	}
}

// Parse reads the request head from conn and returns the resource path.
// On failure the path captured so far is returned together with the error.
// An expired read deadline is reported as ErrIdleTimeout.
func (p *Parser) Parse(conn net.Conn) (string, error) {
	if p.IdleTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(p.IdleTimeout)); err != nil {
			return "", fmt.Errorf("failed to set read deadline: %w", err)
		}
		defer conn.SetReadDeadline(time.Time{})
	}

	path, err := readHead(conn, p.Logger)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return path, fmt.Errorf("%w after %s: %v", ErrIdleTimeout, p.IdleTimeout, err)
		}
		return path, err
	}
	return path, nil
}

// ReadResourcePath reads request lines from r until the blank line that ends
// the header block and returns the path of the GET line, or "" if none was seen.
// At most MaxHeadBytes are read.
func ReadResourcePath(r io.Reader) (string, error) {
	return readHead(r, zerolog.Nop())
}

func readHead(r io.Reader, logger zerolog.Logger) (string, error) {
	limited := &io.LimitedReader{R: r, N: MaxHeadBytes + 1}
	reader := bufio.NewReader(limited)
	path := ""

	for {
		raw, err := reader.ReadString('\n')
		if raw != "" {
			line := strings.TrimRight(raw, "\r\n")
			logger.Debug().Str("line", line).Msg("Request line")

			if p, ok := ExtractPath(line); ok {
				path = p
			}
			if line == "" && err == nil {
				return path, nil
			}
		}
		if err != nil {
			if limited.N <= 0 {
				return path, fmt.Errorf("%w: more than %d bytes", ErrRequestTooLarge, MaxHeadBytes)
			}
			return path, fmt.Errorf("failed to read request: %w", err)
		}
	}
}

// ExtractPath returns the resource path of a line beginning with "GET ".
// The path ends at the first space, which drops the protocol version.
// No validation is applied to the path.
func ExtractPath(line string) (string, bool) {
	if !strings.HasPrefix(line, getPrefix) {
		return "", false
	}
	path := line[len(getPrefix):]
	if i := strings.IndexByte(path, ' '); i >= 0 {
		path = path[:i]
	}
	return path, true
}

// Resolve joins the resource path onto the content root by plain
// concatenation. The result is not cleaned or contained within root.
func Resolve(root, path string) string {
	return root + path
}
