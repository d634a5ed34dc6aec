package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is swapped out in tests so they never touch a terminal.
var readPassword = term.ReadPassword

func (c *cli) promptLine(prompt string) (string, error) {
	if _, err := fmt.Fprint(c.out, prompt+": "); err != nil {
		return "", err
	}
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *cli) promptPassword() (string, error) {
	if _, err := fmt.Fprint(c.out, "Password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(c.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}

// credentials fills in whatever the flags left empty by asking the user.
func (c *cli) credentials(email, password string) (string, string, error) {
	var err error
	if email == "" {
		if email, err = c.promptLine("Email"); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = c.promptPassword(); err != nil {
			return "", "", err
		}
	}
	return email, password, nil
}
