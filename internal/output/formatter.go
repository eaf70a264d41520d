// Package output renders search results for a terminal in the ack style:
// a filename header, then "line:text" rows, then a blank separator.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"pss/internal/sink"
)

// Options control the rendering.
type Options struct {
	Colors         bool
	PrefixFilename bool
	ShowColumn     bool
}

// Formatter is the default sink.Sink.
type Formatter struct {
	w    *bufio.Writer
	opts Options

	filename *color.Color
	lineNum  *color.Color
	match    *color.Color
}

// New returns a Formatter writing to w. Call Flush when done.
func New(w io.Writer, opts Options) *Formatter {
	f := &Formatter{
		w:        bufio.NewWriter(w),
		opts:     opts,
		filename: color.New(color.FgGreen, color.Bold),
		lineNum:  color.New(color.FgYellow, color.Bold),
		match:    color.New(color.FgBlack, color.BgYellow),
	}
	for _, c := range []*color.Color{f.filename, f.lineNum, f.match} {
		if opts.Colors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (f *Formatter) Flush() error { return f.w.Flush() }

func (f *Formatter) FoundFilename(path string) {
	fmt.Fprintln(f.w, path)
}

func (f *Formatter) StartMatchesInFile(path string) {
	if f.opts.PrefixFilename {
		fmt.Fprintln(f.w, f.filename.Sprint(path))
	}
}

func (f *Formatter) EndMatchesInFile(string) {
	if f.opts.PrefixFilename {
		fmt.Fprintln(f.w)
	}
}

func (f *Formatter) MatchingLine(rec sink.MatchRecord) {
	line := strings.TrimRight(rec.Line, "\r\n")
	f.lineNum.Fprint(f.w, rec.LineNumber)
	f.w.WriteString(":")
	if f.opts.ShowColumn {
		col := 1
		if len(rec.Spans) > 0 {
			col = rec.Spans[0].Start + 1
		}
		fmt.Fprintf(f.w, "%d:", col)
	}
	f.w.WriteString(f.highlight(line, rec.Spans))
	f.w.WriteString("\n")
}

func (f *Formatter) BinaryFileMatches(msg string) {
	f.w.WriteString(msg)
}

func (f *Formatter) highlight(line string, spans []sink.Span) string {
	if !f.opts.Colors || len(spans) == 0 {
		return line
	}
	var b strings.Builder
	pos := 0
	for _, sp := range spans {
		if sp.Start < pos || sp.End > len(line) || sp.Start == sp.End {
			continue
		}
		b.WriteString(line[pos:sp.Start])
		b.WriteString(f.match.Sprint(line[sp.Start:sp.End]))
		pos = sp.End
	}
	b.WriteString(line[pos:])
	return b.String()
}
