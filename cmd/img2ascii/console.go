package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const (
	ansiReset     = "\x1b[0m"
	ansiRed       = "\x1b[31m"
	ansiYellow    = "\x1b[33m"
	ansiClearLine = "\r\x1b[K"
)

// console writes status lines. On a terminal warnings are colored and
// progress is redrawn in place.
type console struct {
	w        io.Writer
	terminal bool
}

func newConsole(f *os.File) *console {
	terminal := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	if terminal {
		return &console{w: colorable.NewColorable(f), terminal: true}
	}
	return &console{w: colorable.NewNonColorable(f)}
}

func (c *console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.w, format, a...)
}

func (c *console) Warnf(format string, a ...interface{}) {
	c.tagged(ansiYellow, "Warning: ", format, a...)
}

func (c *console) Errorf(format string, a ...interface{}) {
	c.tagged(ansiRed, "Error: ", format, a...)
}

func (c *console) tagged(color, tag, format string, a ...interface{}) {
	if c.terminal {
		fmt.Fprint(c.w, color+tag+ansiReset)
	} else {
		fmt.Fprint(c.w, tag)
	}
	fmt.Fprintf(c.w, format, a...)
}

// progress reports frames written out of total, which may be unknown (0).
type progress struct {
	out   *console
	total int
	last  int
}

func (c *console) progress(total int) *progress {
	return &progress{out: c, total: total}
}

// Update is called with the running frame count.
func (p *progress) Update(done int) {
	p.last = done
	if !p.out.terminal {
		return
	}
	if p.total > 0 {
		p.out.Printf("%sFrame %d/%d (%d%%)", ansiClearLine, done, p.total, done*100/p.total)
	} else {
		p.out.Printf("%sFrame %d", ansiClearLine, done)
	}
}

// Done ends the progress line.
func (p *progress) Done() {
	if p.out.terminal {
		p.out.Printf("%s", ansiClearLine)
	}
	p.out.Printf("Frames written: %d\n", p.last)
}
