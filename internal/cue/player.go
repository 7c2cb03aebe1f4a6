// Package cue plays the short sound that announces a newly engaged hand.
package cue

import (
	"context"
	"log"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Config configures a Player.
type Config struct {
	// Command is the program and arguments that play the cue. Empty disables playback.
	Command []string
	// Timeout bounds one playback.
	Timeout time.Duration
}

// DefaultConfig returns a platform sound command.
func DefaultConfig() Config {
	cfg := Config{Timeout: 2 * time.Second}
	switch runtime.GOOS {
	case "darwin":
		cfg.Command = []string{"afplay", "/System/Library/Sounds/Tink.aiff"}
	case "linux":
		cfg.Command = []string{"paplay", "/usr/share/sounds/freedesktop/stereo/complete.oga"}
	}
	return cfg
}

// Player plays the cue in the background. Requests made while a cue is
// still playing are coalesced into it.
type Player struct {
	config  Config
	playing atomic.Bool
	plays   atomic.Int64
	skipped atomic.Int64
	wg      sync.WaitGroup

	// run is replaced in tests.
	run func(ctx context.Context, argv []string) error
}

// NewPlayer creates a Player.
func NewPlayer(config Config) *Player {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &Player{config: config, run: runCommand}
}

// Play starts the cue and returns immediately. It reports whether a new
// playback was started.
func (p *Player) Play() bool {
	if len(p.config.Command) == 0 {
		return false
	}
	if !p.playing.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		return false
	}
	p.plays.Add(1)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.playing.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), p.config.Timeout)
		defer cancel()
		if err := p.run(ctx, p.config.Command); err != nil {
			log.Printf("Cue playback failed: %v", err)
		}
	}()
	return true
}

// Plays returns how many playbacks were started.
func (p *Player) Plays() int64 {
	return p.plays.Load()
}

// Skipped returns how many requests were coalesced into a running playback.
func (p *Player) Skipped() int64 {
	return p.skipped.Load()
}

// Wait blocks until the current playback finishes.
func (p *Player) Wait() {
	p.wg.Wait()
}

func runCommand(ctx context.Context, argv []string) error {
	return exec.CommandContext(ctx, argv[0], argv[1:]...).Run()
}
