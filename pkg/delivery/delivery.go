// Package delivery streams a resolved resource to a client connection.
//
// HTML resources are sent line by line, with the date or server identity
// inserted directly after each tag; image resources are copied byte for
// byte. A resource that cannot be opened produces a fixed 404 body.
package delivery

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/niels/simple-webserver/pkg/content"
	"github.com/niels/simple-webserver/pkg/response"
	"github.com/niels/simple-webserver/pkg/util"
)

const (
	// NotFoundBody is written when the resource is missing
	NotFoundBody = "<html><body><h3>404 not found</h3></body></html>"

	// DateTag marks lines that get the current date appended
	DateTag = "<cs371date>"
	// ServerTag marks lines that get the server identity appended
	ServerTag = "<cs371server>"
)

// Common errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

// Deliverer writes resource bodies
type Deliverer struct {
	// Identity is appended after ServerTag
	Identity string
	// Now supplies the time appended after DateTag
	Now func() time.Time
}

// NewDeliverer creates a deliverer that stamps pages with the wall clock
func NewDeliverer(identity string) *Deliverer {
	return &Deliverer{
		Identity: identity,
		Now:      time.Now,
	}
}

// Deliver writes the body for resourcePath to w and returns the number of
// body bytes written. A missing resource writes NotFoundBody and returns an
// error wrapping ErrNotFound.
func (d *Deliverer) Deliver(w io.Writer, resourcePath string, contentType content.Type) (int64, error) {
	if contentType != content.TypeHTML && !contentType.IsImage() {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
	}

	f, err := openResource(resourcePath)
	if err != nil {
		n, werr := io.WriteString(w, NotFoundBody)
		if werr != nil {
			return int64(n), fmt.Errorf("failed to write not found body: %w", werr)
		}
		return int64(n), fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	defer f.Close()

	if contentType == content.TypeHTML {
		return d.writeHTML(w, f)
	}
	return writeImage(w, f)
}

// openResource opens a regular file for reading. Directories count as missing.
func openResource(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return f, nil
}

func (d *Deliverer) writeHTML(w io.Writer, f *os.File) (int64, error) {
	reader := bufio.NewReader(f)
	var written int64

	for {
		raw, readErr := reader.ReadString('\n')
		if raw != "" {
			line := util.TrimLineEnding(raw)
			line = util.InsertAfterMarker(line, DateTag, response.FormatDate(d.now()))
			line = util.InsertAfterMarker(line, ServerTag, d.Identity)

			n, err := io.WriteString(w, line+"\n")
			written += int64(n)
			if err != nil {
				return written, fmt.Errorf("failed to write content: %w", err)
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, fmt.Errorf("failed to read content: %w", readErr)
		}
	}
}

func writeImage(w io.Writer, f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat image: %w", err)
	}

	data := make([]byte, info.Size())
	if _, err := io.ReadFull(f, data); err != nil {
		return 0, fmt.Errorf("failed to read image: %w", err)
	}

	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write image: %w", err)
	}
	return int64(n), nil
}

func (d *Deliverer) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
