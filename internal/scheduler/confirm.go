package scheduler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/nxsplit/internal/output"
	"github.com/tanq16/nxsplit/internal/splitter"
)

type pauser interface {
	Pause()
	Resume()
}

// terminalConfirmer asks on the terminal before existing parts are replaced.
// Prompts from parallel workers are serialised.
type terminalConfirmer struct {
	mu      sync.Mutex
	display pauser
	in      *bufio.Reader
	out     io.Writer
}

// newTerminalConfirmer reads answers from in. A *bufio.Reader is used as is so
// earlier prompts on the same stream do not swallow later answers.
func newTerminalConfirmer(display pauser, in io.Reader, out io.Writer) *terminalConfirmer {
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}
	return &terminalConfirmer{display: display, in: reader, out: out}
}

func (c *terminalConfirmer) Confirm(job *splitter.Job, existing []string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.display.Pause()
	defer c.display.Resume()

	fmt.Fprintln(c.out, output.FWarning(fmt.Sprintf("The following parts of %s already exist:", filepath.Base(job.InputPath))))
	for _, path := range existing {
		fmt.Fprintf(c.out, "    %s\n", output.FStream(path))
	}
	fmt.Fprint(c.out, output.FInfo("Overwrite? [y/N]: "))
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintln(c.out)
		return false, err
	}
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(c.out)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	accepted := answer == "y" || answer == "yes"
	log.Debug().Str("op", "scheduler/confirm").Msgf("overwrite %s answered %q", filepath.Base(job.InputPath), answer)
	return accepted, nil
}
