package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/foodexplorer/internal/kernel"
)

// bootApp boots the client for one command. Callers defer app.Shutdown().
func bootApp(cmd *cobra.Command) (*kernel.App, error) {
	return kernel.Boot(cmd.Context(), kernel.Options{Out: cmd.OutOrStdout()})
}

var inputs = map[io.Reader]*bufio.Reader{}

// stdin returns one shared buffer per input so prompts and checkout commands
// never lose each other's read-ahead.
func stdin(cmd *cobra.Command) *bufio.Reader {
	r := cmd.InOrStdin()
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	if br, ok := inputs[r]; ok {
		return br
	}
	br := bufio.NewReader(r)
	inputs[r] = br
	return br
}

// ask prints label and reads one line. An existing value skips the question.
func ask(cmd *cobra.Command, label, current string) string {
	if current != "" {
		return current
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
	line, _ := stdin(cmd).ReadString('\n')
	return strings.TrimSpace(line)
}
