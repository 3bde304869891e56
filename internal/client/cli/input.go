package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
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

// GetPassword prints a password prompt to w and reads a password
// from the user's terminal without echo. A newline is printed after
// the read to keep the UI tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMultiline prints a prompt to w and reads multiple lines until an empty
// line is entered (i.e., the user presses Enter twice). The trailing newline
// on each line is trimmed and the collected text is joined with '\n'.
//
// Used for long text fields such as post bodies.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// GetFields prompts for field assignments, one per line, ending on an empty
// line. The raw lines are returned unchanged; see parseAssignment.
func GetFields(reader *bufio.Reader, w io.Writer) ([]string, error) {
	fmt.Fprintln(w, "Enter fields as name=value or name:=<json> (empty line to finish)")

	lines := make([]string, 0)
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}
	return lines, nil
}

// parseAssignment splits "path=value" or "path:=json". Plain values are kept
// as strings; the := form decodes numbers, booleans, lists and objects.
func parseAssignment(line string) (string, any, error) {
	i := strings.IndexByte(line, '=')
	if i <= 0 {
		return "", nil, fmt.Errorf("expected name=value, got %q", line)
	}
	path, raw := strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])

	if !strings.HasSuffix(path, ":") {
		if path == "" {
			return "", nil, fmt.Errorf("missing field name in %q", line)
		}
		return path, raw, nil
	}

	path = strings.TrimSpace(strings.TrimSuffix(path, ":"))
	if path == "" {
		return "", nil, fmt.Errorf("missing field name in %q", line)
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return "", nil, fmt.Errorf("field %s: invalid JSON value: %w", path, err)
	}
	return path, v, nil
}

// confirm asks a yes/no question; only "y" or "yes" count as yes.
func confirm(reader *bufio.Reader, question string, w io.Writer) (bool, error) {
	answer, err := getSimpleText(reader, question+" (y/N)", w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
