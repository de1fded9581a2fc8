package labels

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/treasuretrove/ledger/services/inventory/domain"
)

// Spooler delivers a raw printer job.
type Spooler interface {
	Print(ctx context.Context, job []byte) error
}

// CommandSpooler pipes jobs into a local command such as `lp -o raw`.
type CommandSpooler struct {
	argv    []string
	timeout time.Duration
}

// NewCommandSpooler splits command with shell quoting rules. A zero timeout
// leaves the call bounded only by ctx.
func NewCommandSpooler(command string, timeout time.Duration) (*CommandSpooler, error) {
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse printer command: %w", err)
	}
	if len(argv) == 0 {
		return nil, errors.New("parse printer command: empty command")
	}
	return &CommandSpooler{argv: argv, timeout: timeout}, nil
}

func (s *CommandSpooler) Print(ctx context.Context, job []byte) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	cmd.Stdin = bytes.NewReader(job)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: %s: %w: %s", domain.ErrLabelTransmission, s.argv[0], err, msg)
		}
		return fmt.Errorf("%w: %s: %w", domain.ErrLabelTransmission, s.argv[0], err)
	}
	return nil
}

// DiscardSpooler drops every job. Used when LABEL_PRINTER_COMMAND is empty.
type DiscardSpooler struct{}

func (DiscardSpooler) Print(context.Context, []byte) error { return nil }

// NewSpooler returns a CommandSpooler, or DiscardSpooler for a blank command.
func NewSpooler(command string, timeout time.Duration) (Spooler, error) {
	if strings.TrimSpace(command) == "" {
		return DiscardSpooler{}, nil
	}
	return NewCommandSpooler(command, timeout)
}
