package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/holon-run/fresheyes/pkg/log"
)

// AskFunc collects a token and whether to save it.
type AskFunc func(ctx context.Context) (token string, save bool, err error)

// Prompt asks for a token on the terminal and can save it for later runs.
type Prompt struct {
	// Store receives the token when the user chooses to save it. Nil disables saving.
	Store *File
	// Interactive reports whether prompting is possible; defaults to a stdin TTY check
	Interactive func() bool
	// Ask defaults to a huh form
	Ask AskFunc
}

// NewPrompt returns a Prompt saving to store.
func NewPrompt(store *File) *Prompt {
	return &Prompt{Store: store}
}

func (p *Prompt) Token(ctx context.Context) (string, error) {
	interactive := p.Interactive
	if interactive == nil {
		interactive = StdinIsTerminal
	}
	if !interactive() {
		return "", fmt.Errorf("%w: stdin is not a terminal", ErrNoToken)
	}

	ask := p.Ask
	if ask == nil {
		ask = p.askForm
	}

	token, save, err := ask(ctx)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", fmt.Errorf("%w: prompt cancelled", ErrNoToken)
		}
		return "", fmt.Errorf("token prompt failed: %w", err)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoToken
	}

	if save && p.Store != nil {
		if err := p.Store.Save(token); err != nil {
			log.Warn("failed to save token", "path", p.Store.Path, "error", err)
		} else {
			log.Info("token saved; delete the file to forget it", "path", p.Store.Path)
		}
	}
	return token, nil
}

func (p *Prompt) askForm(ctx context.Context) (string, bool, error) {
	var token string
	save := true

	fields := []huh.Field{
		huh.NewInput().
			Title("GitHub token").
			Description("Used to fork the repository and open the pull request.").
			EchoMode(huh.EchoModePassword).
			Value(&token).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("token cannot be empty")
				}
				return nil
			}),
	}
	if p.Store != nil {
		fields = append(fields, huh.NewConfirm().
			Title("Save token for future use?").
			Description("Stored at "+p.Store.Path).
			Value(&save))
	}

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCatppuccin())
	if err := form.RunWithContext(ctx); err != nil {
		return "", false, err
	}
	return token, save, nil
}

// StdinIsTerminal reports whether stdin is attached to a terminal.
func StdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
