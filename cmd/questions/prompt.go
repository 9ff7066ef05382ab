package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"questions/internal/apperrors"
)

// prompt asks for a single query line on the command's input.
func prompt(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Query: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read query: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" && errors.Is(err, io.EOF) {
		return "", apperrors.New(apperrors.ErrConfiguration, "", "no query given")
	}
	return line, nil
}
