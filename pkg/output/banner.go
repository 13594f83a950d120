package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ServerInfo describes a server that is about to accept connections
type ServerInfo struct {
	AppName string
	Version string
	Port    int
	Root    string
}

// Banner prints startup information to the operator's terminal
type Banner struct {
	writer   io.Writer
	useColor bool
}

// NewBanner creates a banner writing to w
func NewBanner(w io.Writer, useColor bool) *Banner {
	return &Banner{
		writer:   w,
		useColor: useColor,
	}
}

// Print writes the startup banner
func (b *Banner) Print(info ServerInfo) {
	title := b.colorize(fmt.Sprintf("%s %s", info.AppName, info.Version), color.FgCyan, color.Bold)
	fmt.Fprintln(b.writer, title)
	fmt.Fprintf(b.writer, "  %s %s\n", b.colorize("port:", color.FgYellow), fmt.Sprint(info.Port))
	fmt.Fprintf(b.writer, "  %s %s\n", b.colorize("root:", color.FgYellow), info.Root)
	fmt.Fprintln(b.writer, b.colorize("Waiting for request . . .", color.FgGreen))
}

// PrintFailure reports that the server could not run
func (b *Banner) PrintFailure(err error) {
	fmt.Fprintf(b.writer, "%s %v\n", b.colorize("Execution failed!", color.FgRed, color.Bold), err)
}

// colorize adds color to text if color is enabled
func (b *Banner) colorize(text string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if b.useColor {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}
