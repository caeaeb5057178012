// ABOUTME: Plays the completion beep through whatever audio player the host has.
// ABOUTME: Falls back to the terminal bell when no player is available.
package alert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Alerter renders the rest-over cue.
type Alerter interface {
	Play() error
}

// ErrNoPlayer is returned when none of the known audio players is installed.
var ErrNoPlayer = errors.New("no audio player found")

// DefaultPlayers are tried in order.
var DefaultPlayers = []string{"afplay", "paplay", "aplay"}

// LookPathFunc resolves an executable name.
type LookPathFunc func(name string) (string, error)

// RunFunc runs an executable with args.
type RunFunc func(ctx context.Context, path string, args ...string) error

// Player writes the tone to a temporary WAV file and hands it to an audio player.
type Player struct {
	Tone     Tone
	Players  []string
	Bell     io.Writer
	Timeout  time.Duration
	LookPath LookPathFunc
	Run      RunFunc
}

// NewPlayer returns a Player for the default tone that rings the bell on w as a fallback.
func NewPlayer(w io.Writer) *Player {
	return &Player{
		Tone:     DefaultTone,
		Players:  DefaultPlayers,
		Bell:     w,
		Timeout:  5 * time.Second,
		LookPath: exec.LookPath,
		Run:      runCommand,
	}
}

// Play renders the beep. On failure it rings the bell and returns the error.
func (p *Player) Play() error {
	err := p.play()
	if err != nil {
		p.ring()
	}
	return err
}

func (p *Player) play() error {
	path, err := p.findPlayer()
	if err != nil {
		return err
	}

	f, err := os.CreateTemp("", "gymlog-beep-*.wav")
	if err != nil {
		return fmt.Errorf("create beep file: %w", err)
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if _, err := f.Write(p.Tone.WAV()); err != nil {
		_ = f.Close()
		return fmt.Errorf("write beep file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close beep file: %w", err)
	}

	ctx := context.Background()
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	if err := p.Run(ctx, path, f.Name()); err != nil {
		return fmt.Errorf("run %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (p *Player) findPlayer() (string, error) {
	for _, name := range p.Players {
		if path, err := p.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrNoPlayer
}

func (p *Player) ring() {
	if p.Bell != nil {
		_, _ = io.WriteString(p.Bell, "\a")
	}
}

func runCommand(ctx context.Context, path string, args ...string) error {
	return exec.CommandContext(ctx, path, args...).Run()
}

// Nop is a silent Alerter.
type Nop struct{}

// Play does nothing.
func (Nop) Play() error { return nil }
