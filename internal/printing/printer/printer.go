// Package printer holds the print backends the job manager can drive.
package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/exec"
	"strings"

	"welcome/pkg/domain"
)

// CommandPrinter pipes the card as a JSON object into an external command,
// typically a script that renders and spools the badge. A zero exit status
// means printed.
type CommandPrinter struct {
	name string
	args []string
}

// NewCommand splits command on whitespace into the program and its arguments.
func NewCommand(command string) (*CommandPrinter, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("print command is empty")
	}
	return &CommandPrinter{name: parts[0], args: parts[1:]}, nil
}

func (p *CommandPrinter) Print(ctx context.Context, card domain.Card) error {
	body, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("encoding card: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.name, p.args...)
	cmd.Stdin = bytes.NewReader(body)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", p.name, err, msg)
		}
		return fmt.Errorf("%s: %w", p.name, err)
	}
	return nil
}

// Doer is the subset of *http.Client used by HTTPPrinter.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPPrinter posts the card as JSON to a print spooler.
type HTTPPrinter struct {
	url    string
	client Doer
}

func NewHTTP(url string, client Doer) *HTTPPrinter {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPPrinter{url: url, client: client}
}

func (p *HTTPPrinter) Print(ctx context.Context, card domain.Card) error {
	body, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("encoding card: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building print request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to spooler: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("spooler returned %d", resp.StatusCode)
	}
	return nil
}

// LogPrinter only logs the card. It is the development default when no
// print command or spooler is configured.
type LogPrinter struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *LogPrinter {
	return &LogPrinter{logger: logger}
}

func (p *LogPrinter) Print(ctx context.Context, card domain.Card) error {
	p.logger.InfoContext(ctx, "printing card", "fields", card.Fields(), "card", map[string]string(card))
	return nil
}
