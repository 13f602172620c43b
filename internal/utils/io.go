package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadLine reads a single line from r, without the trailing newline.
// Used for passphrases piped on stdin.
func ReadLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("stdin is empty")
	}

	return line, nil
}
