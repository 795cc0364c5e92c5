package confirm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Terminal asks on w and reads the answer from r. The confirm label, "s",
// "sim", "y" and "yes" confirm; anything else, including EOF, cancels.
// A prompt already waiting for an answer is not printed twice.
type Terminal struct {
	*Dialog

	in  *bufio.Reader
	out io.Writer
}

// NewTerminal reads answers from r and writes prompts to w.
func NewTerminal(r io.Reader, w io.Writer) *Terminal {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	t := &Terminal{in: br, out: w}
	t.Dialog = NewDialog(t.present)
	return t
}

func (t *Terminal) present(p Prompt, d *Deferred) {
	fmt.Fprintf(t.out, "%s [%s/%s] ", p.Message, p.Confirm, p.Cancel)
	go func() {
		line, err := t.in.ReadString('\n')
		if err != nil && line == "" {
			d.Dismiss()
			return
		}
		d.Resolve(accepts(strings.TrimSpace(line), p.Confirm))
	}()
}

func accepts(answer, confirmLabel string) bool {
	a := strings.ToLower(answer)
	if confirmLabel != "" && a == strings.ToLower(confirmLabel) {
		return true
	}
	switch a {
	case "s", "sim", "y", "yes":
		return true
	}
	return false
}
