package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// readLine prompts and reads one trimmed line.
func (a *App) readLine(prompt string) (string, error) {
	a.printf("%s", prompt)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("input closed")
	}
	return strings.TrimSpace(a.in.Text()), nil
}

// readPassword prompts and reads a password without echo when stdin is a
// terminal. In tests (or when piped) it falls back to a plain line read.
func (a *App) readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if a.deps.In != os.Stdin || !term.IsTerminal(fd) {
		return a.readLine(prompt)
	}

	a.printf("%s", prompt)
	b, err := term.ReadPassword(fd)
	a.printf("\n")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
