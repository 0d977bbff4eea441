package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

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

// GetDate reads a date in YYYY-MM-DD form. An empty line returns fallback.
func GetDate(reader *bufio.Reader, prompt string, fallback time.Time, w io.Writer) (time.Time, error) {
	text, err := GetSimpleText(reader, prompt+" (YYYY-MM-DD, blank = "+fallback.Format(dateLayout)+")", w)
	if err != nil {
		return time.Time{}, err
	}
	if text == "" {
		return fallback, nil
	}
	return time.ParseInLocation(dateLayout, text, time.Local)
}

// GetOptionalInt reads an integer, returning nil on an empty line.
func GetOptionalInt(reader *bufio.Reader, prompt string, w io.Writer) (*int, error) {
	text, err := GetSimpleText(reader, prompt+" (blank to skip)", w)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", text)
	}
	return &n, nil
}
