package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tanq16/nxsplit/internal/output"
)

// stdin is shared by every prompt of a run so buffered input is never lost
// between the path prompt and overwrite confirmations.
var stdin = bufio.NewReader(os.Stdin)

// promptForPath asks for a single input path when none was given.
func promptForPath(in *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, output.FInfo("Enter path to NSP/NSZ/XCI file or directory: "))
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading input: %v", err)
	}
	path := strings.TrimSpace(line)
	if path == "" {
		if errors.Is(err, io.EOF) {
			return "", errors.New("no input received; exiting")
		}
		return "", errors.New("no path provided; exiting")
	}
	return path, nil
}
