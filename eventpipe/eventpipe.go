// Package eventpipe reads bench-test commands from a named pipe and feeds
// them to the simulated encoder bus.
package eventpipe

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/shlex"

	"lcdmenu/encoder"
	"lcdmenu/menu"
)

// Config holds configuration for the event pipe.
type Config struct {
	Path string `yaml:"path"` // Path to named pipe (e.g., "/tmp/lcdmenu-events")
}

var (
	// ErrEmpty is returned by ParseLine for blank and comment-only lines.
	ErrEmpty = errors.New("empty command")

	// ErrNotPipe is returned by New when the path holds something other
	// than a named pipe.
	ErrNotPipe = errors.New("path exists and is not a named pipe")
)

// MaxTurn is the largest turn, in detents, a single command may request.
const MaxTurn = menu.Size

// Kind identifies a pipe command.
type Kind int

const (
	KindTurn Kind = iota
	KindPress
	KindButton
	KindSwitch
)

func (k Kind) String() string {
	switch k {
	case KindTurn:
		return "turn"
	case KindPress:
		return "press"
	case KindButton:
		return "button"
	case KindSwitch:
		return "switch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Command is one parsed pipe line.
type Command struct {
	Kind  Kind
	Delta int  // detents for KindTurn, positive is clockwise
	On    bool // level for KindButton and KindSwitch
}

// Handler is called when a command is received from the pipe.
type Handler func(Command)

// Drive returns a Handler that plays commands onto sim.
func Drive(sim *encoder.Sim) Handler {
	return func(c Command) {
		switch c.Kind {
		case KindTurn:
			sim.Turn(c.Delta)
		case KindPress:
			sim.Press()
		case KindButton:
			sim.SetButton(c.On)
		case KindSwitch:
			sim.SetSwitch(c.On)
		}
	}
}

// EventPipe listens for commands on a named pipe.
type EventPipe struct {
	path    string
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates an EventPipe. Returns nil if path is empty.
func New(cfg Config, handler Handler) (*EventPipe, error) {
	if cfg.Path == "" {
		return nil, nil
	}

	if err := removeStalePipe(cfg.Path); err != nil {
		return nil, err
	}

	if err := syscall.Mkfifo(cfg.Path, 0666); err != nil {
		return nil, fmt.Errorf("create named pipe %s: %w", cfg.Path, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &EventPipe{
		path:    cfg.Path,
		handler: handler,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start begins listening for commands on the pipe.
// This should be called as a goroutine.
func (ep *EventPipe) Start() {
	slog.Info("event pipe listening", "path", ep.path)

	for ep.ctx.Err() == nil {
		// Blocks until a writer connects
		file, err := os.OpenFile(ep.path, os.O_RDONLY, 0)
		if err != nil {
			if ep.ctx.Err() != nil {
				return
			}
			slog.Warn("event pipe open failed", "error", err)
			continue
		}

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			if ep.ctx.Err() != nil {
				file.Close()
				return
			}

			line := strings.TrimSpace(scanner.Text())
			cmd, err := ParseLine(line)
			if errors.Is(err, ErrEmpty) {
				continue
			}
			if err != nil {
				slog.Warn("event pipe parse error", "line", line, "error", err)
				continue
			}
			slog.Debug("event pipe command", "kind", cmd.Kind, "delta", cmd.Delta, "on", cmd.On)

			if ep.handler != nil {
				ep.handler(cmd)
			}
		}

		file.Close()
		// Writer closed the pipe, loop back to wait for next writer
	}
}

// Close stops the listener and removes the pipe. Opening the pipe for
// writing releases a Start blocked in open.
func (ep *EventPipe) Close() error {
	ep.cancel()
	if f, err := os.OpenFile(ep.path, os.O_WRONLY|syscall.O_NONBLOCK, 0); err == nil {
		f.Close()
	}
	return os.Remove(ep.path)
}

// ParseLine parses a command line into a Command.
// Command format:
//
//	rotary <delta>                  - Turn <delta> detents (negative = counter-clockwise)
//	rotary press                    - Press and release the encoder button
//	button <0|1>                    - Hold or release the encoder button
//	switch <0|1>                    - Set the slide switch level
//
// Words are split shell-style; text after # is a comment. A line holding
// only blanks or a comment returns ErrEmpty.
func ParseLine(line string) (Command, error) {
	parts, err := shlex.Split(line)
	if err != nil {
		return Command{}, fmt.Errorf("split %q: %w", line, err)
	}
	if len(parts) == 0 {
		return Command{}, ErrEmpty
	}

	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "rotary":
		if len(parts) < 2 {
			return Command{}, fmt.Errorf("rotary requires delta or 'press'")
		}
		if strings.ToLower(parts[1]) == "press" {
			return Command{Kind: KindPress}, nil
		}
		delta, err := strconv.Atoi(parts[1])
		if err != nil {
			return Command{}, fmt.Errorf("invalid rotary delta: %s", parts[1])
		}
		return Command{Kind: KindTurn, Delta: clampTurn(delta)}, nil

	case "button", "switch":
		if len(parts) < 2 {
			return Command{}, fmt.Errorf("%s requires <0|1>", cmd)
		}
		on, err := parseLevel(parts[1])
		if err != nil {
			return Command{}, err
		}
		kind := KindButton
		if cmd == "switch" {
			kind = KindSwitch
		}
		return Command{Kind: kind, On: on}, nil

	default:
		return Command{}, fmt.Errorf("unknown command: %s", cmd)
	}
}

// clampTurn limits a turn to MaxTurn detents either way. More detents than
// menu slots land on the same end slot.
func clampTurn(n int) int {
	if n > MaxTurn {
		return MaxTurn
	}
	if n < -MaxTurn {
		return -MaxTurn
	}
	return n
}

// removeStalePipe removes a FIFO left at path by an earlier run. Anything
// else at path is left alone and reported.
func removeStalePipe(path string) error {
	fi, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat event pipe %s: %w", path, err)
	}
	if fi.Mode()&os.ModeNamedPipe == 0 {
		return fmt.Errorf("event pipe %s: %w", path, ErrNotPipe)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove stale pipe %s: %w", path, err)
	}
	return nil
}

func parseLevel(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "on", "true":
		return true, nil
	case "0", "off", "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid level: %s", s)
	}
}
