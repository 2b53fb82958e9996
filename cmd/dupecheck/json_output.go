package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var errStdinTerminal = errors.New("refusing to read input from a terminal; pipe JSON or pass a file")

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readInput reads path, or stdin when path is "-". Reading an interactive
// terminal is refused so a forgotten pipe does not hang the command.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if strings.TrimSpace(path) != "-" {
		return os.ReadFile(path)
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return nil, errStdinTerminal
	}
	return io.ReadAll(in)
}
