package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// CLI runs a plain-terminal loop over a Session: prompt, input line,
// dispatch, printed output. Used directly and for deterministic playback of
// command files.
type CLI struct {
	Session   *Session
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for playback)
}

// New creates a CLI on stdin/stdout.
func New(s *Session) *CLI {
	return &CLI{
		Session: s,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run loops until input is exhausted or the player quits. Blank lines and
// #-comment lines are skipped, so playback files can be annotated.
func (c *CLI) Run() {
	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		output, quit := c.Session.Execute(input)
		for _, line := range output {
			c.printLine(line)
		}
		if quit {
			return
		}
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}
