package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from
// reader. The trailing newline is trimmed. If EOF occurs after some input
// was read, the partial line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetInt reads an integer in [lo,hi], re-prompting on invalid input.
func GetInt(reader *bufio.Reader, prompt string, lo, hi int, w io.Writer) (int, error) {
	for {
		line, err := GetSimpleText(reader, fmt.Sprintf("%s (%d-%d)", prompt, lo, hi), w)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < lo || n > hi {
			fmt.Fprintf(w, "Please enter a number between %d and %d\n", lo, hi)
			continue
		}
		return n, nil
	}
}

// GetChoice prints a numbered option list and reads one selection.
func GetChoice(reader *bufio.Reader, prompt string, options []string, w io.Writer) (string, error) {
	fmt.Fprintln(w, prompt)
	for i, o := range options {
		fmt.Fprintf(w, "  %d. %s\n", i+1, o)
	}
	for {
		line, err := GetSimpleText(reader, "Choose one", w)
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(options) {
			fmt.Fprintf(w, "Please enter a number between 1 and %d\n", len(options))
			continue
		}
		return options[n-1], nil
	}
}

// GetMultiChoice reads a comma-separated list of selections from a numbered
// option list. An empty line means no selection.
func GetMultiChoice(reader *bufio.Reader, prompt string, options []string, w io.Writer) ([]string, error) {
	fmt.Fprintln(w, prompt)
	for i, o := range options {
		fmt.Fprintf(w, "  %d. %s\n", i+1, o)
	}
	for {
		line, err := GetSimpleText(reader, "Choose any (comma-separated, empty for none)", w)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, nil
		}

		var picked []string
		ok := true
		for _, part := range strings.Split(line, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 1 || n > len(options) {
				ok = false
				break
			}
			picked = append(picked, options[n-1])
		}
		if !ok {
			fmt.Fprintf(w, "Please enter numbers between 1 and %d, separated by commas\n", len(options))
			continue
		}
		return picked, nil
	}
}

// GetYesNo reads a yes/no answer.
func GetYesNo(reader *bufio.Reader, prompt string, w io.Writer) (bool, error) {
	for {
		line, err := GetSimpleText(reader, prompt+" (y/n)", w)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(w, "Please answer y or n")
	}
}

// GetPassword prints a password prompt to w and reads a password from the
// user's terminal without echo. A newline is printed after the read to keep
// the UI tidy.
func GetPassword(prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
