// internal/tracker/confirm.go
package tracker

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrNothingSelected = errors.New("no job applications selected")

// Prompter asks a yes/no question.
type Prompter interface {
	Confirm(question string) (bool, error)
}

// ConfirmDelete asks before a bulk delete. It returns false without asking
// when nothing is selected.
func ConfirmDelete(p Prompter, ids []int64) (bool, error) {
	if len(ids) == 0 {
		return false, ErrNothingSelected
	}
	return p.Confirm(fmt.Sprintf("Delete %d job application(s)? This cannot be undone.", len(ids)))
}

// LinePrompter reads the answer from a line of text. Only "y" and "yes"
// (any case) confirm.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) Confirm(question string) (bool, error) {
	if _, err := fmt.Fprintf(p.out, "%s [y/N]: ", question); err != nil {
		return false, err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// AlwaysYes confirms without asking, for --yes flags.
type AlwaysYes struct{}

func (AlwaysYes) Confirm(string) (bool, error) { return true, nil }
