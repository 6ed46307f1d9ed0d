package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	domain "github.com/mohammadpnp/account-import/internal/domain/account"
)

const promptText = "Select a .csv, .xlsx or .xls file (empty to cancel): "

// StaticPicker returns a path chosen ahead of time, e.g. a command line argument.
type StaticPicker struct {
	Path string
}

func (p StaticPicker) Pick(ctx context.Context) (string, error) {
	return checkSelection(p.Path)
}

// PromptPicker asks for a path on an interactive stream. An empty answer or
// end of input is a cancellation.
type PromptPicker struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPromptPicker(in io.Reader, out io.Writer) *PromptPicker {
	return &PromptPicker{in: bufio.NewReader(in), out: out}
}

func (p *PromptPicker) Pick(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.ErrSelectionCancelled
	}
	if _, err := fmt.Fprint(p.out, promptText); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read selection: %w", err)
	}

	return checkSelection(line)
}

func checkSelection(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", domain.ErrSelectionCancelled
	}
	if _, ok := domain.FormatFromPath(path); !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
	}
	return path, nil
}
