package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// Prompter reads typed values interactively during a session.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewPrompter creates a prompter over the given reader and writer,
// defaulting to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// readLine reads one trimmed line, respecting context cancellation.
func (p *Prompter) readLine(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	default:
	}

	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return "", io.EOF
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Int prompts until the user enters an integer, echoing a styled
// message on bad input.
func (p *Prompter) Int(ctx context.Context, prompt string) (int, error) {
	for {
		line, err := p.readLine(ctx, prompt)
		if err != nil {
			return 0, err
		}
		value, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("%q is not a whole number", line)))
			continue
		}
		return value, nil
	}
}

// Float prompts until the user enters a positive number.
func (p *Prompter) Float(ctx context.Context, prompt string) (float64, error) {
	for {
		line, err := p.readLine(ctx, prompt)
		if err != nil {
			return 0, err
		}
		value, err := strconv.ParseFloat(line, 64)
		if err != nil || value <= 0 {
			fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("%q is not a positive amount", line)))
			continue
		}
		return value, nil
	}
}

// Choice prompts until the user enters one of the allowed options,
// case-insensitively. The matched option is returned in its canonical
// form.
func (p *Prompter) Choice(ctx context.Context, prompt string, options []string) (string, error) {
	for {
		line, err := p.readLine(ctx, prompt)
		if err != nil {
			return "", err
		}
		for _, opt := range options {
			if strings.EqualFold(line, opt) {
				return opt, nil
			}
		}
		fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("%q is not one of the listed options", line)))
	}
}
