package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/gophdocs/internal/shared"
)

// test seams for the terminal
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
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

// GetAPIKey prompts on w for the API key. On a terminal the key is read
// without echo, otherwise one line is read from in.
func GetAPIKey(in io.Reader, w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if f, ok := in.(*os.File); !ok || f != os.Stdin || !isTerminal(fd) {
		return GetSimpleText(bufio.NewReader(in), "API key", w)
	}

	if _, err := fmt.Fprint(w, "API key: "); err != nil {
		return "", err
	}
	key, err := readPassword(fd)
	defer shared.WipeByteArray(key)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(key)), nil
}
