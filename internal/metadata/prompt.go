package metadata

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PromptSource asks the user to type a location.
type PromptSource struct {
	reader *bufio.Reader
	w      io.Writer
}

func NewPromptSource(r io.Reader, w io.Writer) *PromptSource {
	return &PromptSource{
		reader: bufio.NewReader(r),
		w:      w,
	}
}

func (p *PromptSource) Location(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(p.w, "Enter location for this photo (empty to skip)\n> "); err != nil {
		return "", err
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	location := strings.TrimSpace(line)
	if location == "" {
		return "", ErrNoLocation
	}
	return location, nil
}
