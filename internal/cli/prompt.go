package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readSecret reads a hidden value from the terminal, or one line from stdin
// when it is not a terminal.
func (a *app) readSecret(cmd *cobra.Command, prompt string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	return a.readLine(cmd)
}

// readLine reads one line of stdin. Successive prompts share one buffered
// reader so piped input is consumed line by line.
func (a *app) readLine(cmd *cobra.Command) (string, error) {
	if a.stdin == nil {
		a.stdin = bufio.NewReader(cmd.InOrStdin())
	}
	line, err := a.stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// prompt asks for a visible value when flagValue is empty.
func (a *app) prompt(cmd *cobra.Command, label, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), label)
	return a.readLine(cmd)
}
