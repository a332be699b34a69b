// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toeirei/assetkeeper/internal/validation"
	"golang.org/x/term"
)

// prompter reads answers line by line from the command's stdin.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	// echo repeats each answer on out when stdin is not a terminal, so a
	// piped session still reads like a conversation.
	echo bool
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	echo := false
	if f, ok := in.(*os.File); ok {
		echo = !term.IsTerminal(int(f.Fd()))
	}
	return &prompter{in: bufio.NewReader(in), out: cmd.OutOrStdout(), echo: echo}
}

// ask prints label and returns the trimmed answer. errAborted is returned
// when input ends before anything was typed.
func (p *prompter) ask(label string) (string, error) {
	_, _ = fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if errors.Is(err, io.EOF) && line == "" {
		_, _ = fmt.Fprintln(p.out)
		return "", errAborted
	}
	answer := strings.TrimSpace(line)
	if p.echo {
		_, _ = fmt.Fprintln(p.out, answer)
	}
	return answer, nil
}

// askValid asks until check accepts the answer. A non-empty preset (from a
// flag) is checked once instead of prompting, and a rejected preset fails
// the command. Validation failures are printed and asked again; any other
// error from check ends the loop.
func (p *prompter) askValid(label, preset string, check func(string) error) (string, error) {
	if preset != "" {
		if err := check(preset); err != nil {
			return "", err
		}
		return strings.TrimSpace(preset), nil
	}
	for {
		answer, err := p.ask(label)
		if err != nil {
			return "", err
		}
		err = check(answer)
		if err == nil {
			return answer, nil
		}
		ve, ok := validation.AsError(err)
		if !ok {
			return "", err
		}
		_, _ = fmt.Fprintln(p.out, validationMessage(ve))
	}
}

// confirm asks a yes/no question; only "yes" and "y" count as yes.
func (p *prompter) confirm(label string) (bool, error) {
	answer, err := p.ask(label)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "yes", "y":
		return true, nil
	}
	return false, nil
}
