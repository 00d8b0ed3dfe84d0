package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Prompt is the user-facing side of the console: it reports messages and
// asks yes/no questions on the same input the commands come from.
type Prompt struct {
	mu  sync.Mutex
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewScanner(in), out: out}
}

func (p *Prompt) Info(msg string) {
	p.printf("%s\n", msg)
}

func (p *Prompt) Error(msg string) {
	p.printf("error: %s\n", msg)
}

// Confirm defaults to no, including on end of input.
func (p *Prompt) Confirm(question string) bool {
	p.printf("%s [y/N] ", question)
	line, ok := p.ReadLine()
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (p *Prompt) ReadLine() (string, bool) {
	if !p.in.Scan() {
		return "", false
	}
	return p.in.Text(), true
}

func (p *Prompt) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}
