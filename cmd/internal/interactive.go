package internal

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// IsInteractive returns true if the given file descriptor is a TTY.
// This is used to decide between the terminal UI and plain output.
func IsInteractive(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// Confirm writes prompt and reads a yes/no answer. Anything other than
// "y" or "yes" is a no, including end of input.
func Confirm(out io.Writer, in io.Reader, prompt string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [y/N]: ", prompt); err != nil {
		return false, err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
